package repository

import (
	"context"
	"encoding/json"
	"errors"

	"lamx12/nutri-plan/internal/domain"

	"github.com/sirupsen/logrus"
)

// StateStore reads and writes typed engine entities through a Gateway.
// Reads never fail: a missing or corrupt entry is logged and reported as absent
// so the entity falls back to its empty or default state.
type StateStore struct {
	gateway Gateway
	keys    Keys
	log     *logrus.Entry
}

// NewStateStore creates a StateStore over gateway using the key namespace.
func NewStateStore(gateway Gateway, namespace string, log *logrus.Entry) *StateStore {
	return &StateStore{
		gateway: gateway,
		keys:    Keys{Namespace: namespace},
		log:     log,
	}
}

func (s *StateStore) load(ctx context.Context, key string, out interface{}) bool {
	raw, err := s.gateway.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).WithField("key", key).Error("failed to read stored entity")
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.WithError(err).WithField("key", key).Error("stored entity is corrupt, ignoring it")
		return false
	}
	return true
}

func (s *StateStore) save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.gateway.Put(ctx, key, raw); err != nil {
		s.log.WithError(err).WithField("key", key).Error("failed to persist entity")
		return err
	}
	return nil
}

func (s *StateStore) LoadProfile(ctx context.Context) (*domain.Profile, bool) {
	var p domain.Profile
	if !s.load(ctx, s.keys.Profile(), &p) {
		return nil, false
	}
	return &p, true
}

func (s *StateStore) SaveProfile(ctx context.Context, p *domain.Profile) error {
	if p == nil {
		return nil
	}
	return s.save(ctx, s.keys.Profile(), p)
}

func (s *StateStore) LoadWorkoutPlan(ctx context.Context) ([]domain.Workout, bool) {
	var plan []domain.Workout
	if !s.load(ctx, s.keys.WorkoutPlan(), &plan) {
		return nil, false
	}
	return plan, true
}

// SaveWorkoutPlan writes the plan only when it is non-empty so an empty
// in-memory plan never clobbers a stored one.
func (s *StateStore) SaveWorkoutPlan(ctx context.Context, plan []domain.Workout) error {
	if len(plan) == 0 {
		return nil
	}
	return s.save(ctx, s.keys.WorkoutPlan(), plan)
}

func (s *StateStore) LoadMealPlan(ctx context.Context) ([]domain.Meal, bool) {
	var plan []domain.Meal
	if !s.load(ctx, s.keys.MealPlan(), &plan) {
		return nil, false
	}
	return plan, true
}

func (s *StateStore) SaveMealPlan(ctx context.Context, plan []domain.Meal) error {
	if len(plan) == 0 {
		return nil
	}
	return s.save(ctx, s.keys.MealPlan(), plan)
}

func (s *StateStore) LoadReminders(ctx context.Context) ([]domain.Reminder, bool) {
	var reminders []domain.Reminder
	if !s.load(ctx, s.keys.Reminders(), &reminders) {
		return nil, false
	}
	return reminders, true
}

// SaveReminders writes a non-empty set. An empty set removes the key instead,
// so deleting the last reminder survives a restart without storing "[]".
func (s *StateStore) SaveReminders(ctx context.Context, reminders []domain.Reminder) error {
	if len(reminders) == 0 {
		if err := s.gateway.Delete(ctx, s.keys.Reminders()); err != nil {
			s.log.WithError(err).Error("failed to clear stored reminders")
			return err
		}
		return nil
	}
	return s.save(ctx, s.keys.Reminders(), reminders)
}

func (s *StateStore) LoadProgress(ctx context.Context, date string) (*domain.DailyProgress, bool) {
	var p domain.DailyProgress
	if !s.load(ctx, s.keys.Progress(date), &p) {
		return nil, false
	}
	if p.Date != date {
		s.log.WithField("date", date).WithField("stored_date", p.Date).Error("stored progress has mismatched date, ignoring it")
		return nil, false
	}
	return &p, true
}

func (s *StateStore) SaveProgress(ctx context.Context, p domain.DailyProgress) error {
	return s.save(ctx, s.keys.Progress(p.Date), p)
}
