package handler

import (
	"github.com/Dan9191/mealmate/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler turns HTTP requests into service calls. It holds no per-request state.
type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}
