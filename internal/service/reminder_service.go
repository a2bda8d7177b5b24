package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/session"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrInvalidReminder = errors.New("reminder validation failed")

// ReminderInput is what a caller supplies; the id is assigned on Add.
type ReminderInput struct {
	Type    domain.ReminderType
	Time    string
	Title   string
	Message string
}

type ReminderService interface {
	Add(ctx context.Context, in ReminderInput) (*domain.Reminder, error)
	// Toggle flips Enabled. Unknown ids are ignored.
	Toggle(ctx context.Context, id string)
	// Delete removes the reminder. Unknown ids are ignored.
	Delete(ctx context.Context, id string)
	List() []domain.Reminder
}

type reminderService struct {
	state *session.State
	store *repository.StateStore
	newID func() string
	log   *logrus.Entry
}

func NewReminderService(state *session.State, store *repository.StateStore, log *logrus.Entry) ReminderService {
	return &reminderService{
		state: state,
		store: store,
		newID: uuid.NewString,
		log:   log,
	}
}

// ValidReminderTime reports whether t is a 24h HH:MM clock time.
func ValidReminderTime(t string) bool {
	if len(t) != 5 {
		return false
	}
	_, err := time.Parse("15:04", t)
	return err == nil
}

func (in ReminderInput) validate() error {
	switch in.Type {
	case domain.ReminderMeal, domain.ReminderWorkout:
	default:
		return fmt.Errorf("%w: type must be meal or workout", ErrInvalidReminder)
	}
	if !ValidReminderTime(in.Time) {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidReminder)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidReminder)
	}
	return nil
}

func (s *reminderService) Add(ctx context.Context, in ReminderInput) (*domain.Reminder, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := domain.Reminder{
		ID:      s.newID(),
		Type:    in.Type,
		Time:    in.Time,
		Enabled: true,
		Title:   strings.TrimSpace(in.Title),
		Message: in.Message,
	}
	all := s.state.UpdateReminders(func(cur []domain.Reminder) []domain.Reminder {
		return append(cur, r)
	})
	_ = s.store.SaveReminders(ctx, all)
	s.log.WithField("reminder_id", r.ID).Info("reminder set")
	return &r, nil
}

func (s *reminderService) Toggle(ctx context.Context, id string) {
	found := false
	all := s.state.UpdateReminders(func(cur []domain.Reminder) []domain.Reminder {
		for i := range cur {
			if cur[i].ID == id {
				cur[i].Enabled = !cur[i].Enabled
				found = true
			}
		}
		return cur
	})
	if found {
		_ = s.store.SaveReminders(ctx, all)
	}
}

func (s *reminderService) Delete(ctx context.Context, id string) {
	found := false
	all := s.state.UpdateReminders(func(cur []domain.Reminder) []domain.Reminder {
		kept := cur[:0:0]
		for _, r := range cur {
			if r.ID == id {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		return kept
	})
	if found {
		_ = s.store.SaveReminders(ctx, all)
		s.log.WithField("reminder_id", id).Info("reminder deleted")
	}
}

func (s *reminderService) List() []domain.Reminder {
	return s.state.Reminders()
}
