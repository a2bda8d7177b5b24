// Package session holds the engine's in-memory state for one user session.
// The in-memory copy is authoritative while the process runs; the gateway is
// the durable copy across restarts.
package session

import (
	"sync"

	"lamx12/nutri-plan/internal/domain"
)

// State is passed explicitly to every component constructor.
// All accessors return copies so callers cannot mutate state behind the lock.
type State struct {
	mu          sync.RWMutex
	profile     *domain.Profile
	workoutPlan []domain.Workout
	mealPlan    []domain.Meal
	today       *domain.DailyProgress
	reminders   []domain.Reminder
}

func New() *State {
	return &State{}
}

func (s *State) Profile() *domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProfile(s.profile)
}

func (s *State) SetProfile(p *domain.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = copyProfile(p)
}

// Plans returns the current workout and meal plans.
func (s *State) Plans() ([]domain.Workout, []domain.Meal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyWorkouts(s.workoutPlan), append([]domain.Meal(nil), s.mealPlan...)
}

// SetPlans replaces both plans wholesale.
func (s *State) SetPlans(workouts []domain.Workout, meals []domain.Meal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workoutPlan = copyWorkouts(workouts)
	s.mealPlan = append([]domain.Meal(nil), meals...)
}

func (s *State) Today() *domain.DailyProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.today == nil {
		return nil
	}
	p := *s.today
	return &p
}

func (s *State) SetToday(p domain.DailyProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = &p
}

// UpdateToday applies fn to today's record under the write lock.
// It reports false when no record exists.
func (s *State) UpdateToday(fn func(*domain.DailyProgress)) (domain.DailyProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.today == nil {
		return domain.DailyProgress{}, false
	}
	fn(s.today)
	return *s.today, true
}

func (s *State) Reminders() []domain.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Reminder(nil), s.reminders...)
}

func (s *State) SetReminders(r []domain.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = append([]domain.Reminder(nil), r...)
}

// UpdateReminders applies fn to the reminder set under the write lock and
// returns the resulting set.
func (s *State) UpdateReminders(fn func([]domain.Reminder) []domain.Reminder) []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = fn(s.reminders)
	return append([]domain.Reminder(nil), s.reminders...)
}

func copyProfile(p *domain.Profile) *domain.Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.BodyFatPercentage != nil {
		bf := *p.BodyFatPercentage
		c.BodyFatPercentage = &bf
	}
	return &c
}

func copyWorkouts(in []domain.Workout) []domain.Workout {
	if in == nil {
		return nil
	}
	out := make([]domain.Workout, len(in))
	for i, w := range in {
		w.Exercises = append([]domain.Exercise(nil), w.Exercises...)
		out[i] = w
	}
	return out
}
