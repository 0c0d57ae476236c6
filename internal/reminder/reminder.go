// Package reminder mails each user the meals planned for the current day.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/mealmate/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Store is the read access the scheduler needs
type Store interface {
	ListMealsOn(ctx context.Context, day models.Date) ([]models.Meal, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// Notifier delivers one reminder
type Notifier interface {
	SendMealReminder(to, username string, day models.Date, meals []models.Meal) error
}

// Scheduler runs the daily reminder job on a cron schedule
type Scheduler struct {
	store    Store
	notifier Notifier
	log      *logrus.Logger
	cron     *cron.Cron
	timeout  time.Duration
	now      func() time.Time
}

// NewScheduler creates a stopped scheduler
func NewScheduler(store Store, notifier Notifier, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		notifier: notifier,
		log:      log,
		cron:     cron.New(cron.WithLogger(cron.PrintfLogger(log))),
		timeout:  5 * time.Minute,
		now:      time.Now,
	}
}

// Start registers the job under spec (standard five-field cron or a descriptor such
// as "@daily") and starts the scheduler
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("failed to schedule meal reminders: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Meal reminders scheduled: %s", spec)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	sent, err := s.Run(ctx)
	if err != nil {
		s.log.Errorf("Meal reminder run failed: %v", err)
		return
	}
	s.log.Infof("Meal reminders sent: %d", sent)
}

// Run sends one mail per user who has meals planned today and returns how many
// were delivered. A failure for one user is logged and does not stop the others.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	day := models.NewDate(s.now())
	meals, err := s.store.ListMealsOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list meals for %s: %w", day, err)
	}

	var order []int
	byUser := make(map[int][]models.Meal)
	for _, meal := range meals {
		if _, seen := byUser[meal.UserID]; !seen {
			order = append(order, meal.UserID)
		}
		byUser[meal.UserID] = append(byUser[meal.UserID], meal)
	}

	sent := 0
	for _, userID := range order {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			s.log.Warnf("Skipping reminder for user %d: %v", userID, err)
			continue
		}
		if err := s.notifier.SendMealReminder(user.Email, user.Username, day, byUser[userID]); err != nil {
			s.log.Warnf("Reminder for user %d not sent: %v", userID, err)
			continue
		}
		sent++
	}
	return sent, nil
}
