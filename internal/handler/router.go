package handler

import (
	"net/http"

	"github.com/Dan9191/mealmate/internal/metrics"
	"github.com/Dan9191/mealmate/internal/middleware"
	"github.com/gorilla/mux"
)

// NewRouter registers every endpoint. m may be nil to run without metrics.
func NewRouter(h *Handler, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	// Auth
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.LoginInfo).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	// Recipes
	r.HandleFunc("/recipes", h.ListRecipes).Methods(http.MethodGet)
	r.HandleFunc("/recipes", h.CreateRecipe).Methods(http.MethodPost)
	r.HandleFunc("/recipes/import", h.ImportRecipe).Methods(http.MethodPost)
	r.HandleFunc("/recipes/{id:[0-9]+}", h.GetRecipe).Methods(http.MethodGet)
	r.HandleFunc("/recipes/{id:[0-9]+}", h.UpdateRecipe).Methods(http.MethodPut)
	r.HandleFunc("/recipes/{id:[0-9]+}", h.DeleteRecipe).Methods(http.MethodDelete)
	r.HandleFunc("/recipes/{id:[0-9]+}/recipeml", h.ExportRecipe).Methods(http.MethodGet)

	// Meals
	r.HandleFunc("/meals", h.ListMeals).Methods(http.MethodGet)
	r.HandleFunc("/meals", h.CreateMeal).Methods(http.MethodPost)
	r.HandleFunc("/meals/{id:[0-9]+}", h.GetMeal).Methods(http.MethodGet)
	r.HandleFunc("/meals/{id:[0-9]+}", h.UpdateMeal).Methods(http.MethodPut)
	r.HandleFunc("/meals/{id:[0-9]+}", h.DeleteMeal).Methods(http.MethodDelete)

	return r
}
