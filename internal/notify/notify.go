// Package notify sends account and meal plan mails over SMTP.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/mealmate/internal/config"
	"github.com/Dan9191/mealmate/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Enabled reports whether SMTP is configured
func (s *Sender) Enabled() bool {
	return s.cfg.MailEnabled()
}

// SendWelcome greets a freshly registered user
func (s *Sender) SendWelcome(to, username string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your MealMate account has been created.\n"+
			"You can now save recipes and plan your meals.\n",
		username,
	)
	return s.deliver(to, "Welcome to MealMate", body)
}

// SendMealReminder lists the meals a user planned for day
func (s *Sender) SendMealReminder(to, username string, day models.Date, meals []models.Meal) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	fmt.Fprintf(&b, "Here is your meal plan for %s:\n", day)
	for _, meal := range meals {
		name := meal.Name
		if name == "" {
			name = fmt.Sprintf("Meal #%d", meal.ID)
		}
		fmt.Fprintf(&b, "  - %s", name)
		if meal.Notes != "" {
			fmt.Fprintf(&b, " (%s)", meal.Notes)
		}
		b.WriteString("\n")
	}
	return s.deliver(to, fmt.Sprintf("Your meals for %s", day), b.String())
}

func (s *Sender) deliver(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body + "\nEnjoy your meal,\nMealMate")

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
