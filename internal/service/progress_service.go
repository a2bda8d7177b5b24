package service

import (
	"context"
	"errors"
	"math"
	"time"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/session"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidIntake    = errors.New("intake amounts must be non-negative numbers")
	ErrProgressRollover = errors.New("calendar day changed while recording progress")
)

const (
	dateLayout          = "2006-01-02"
	maxRolloverAttempts = 3
)

// Clock returns the current time. Injected so tests can move across midnight.
type Clock func() time.Time

type ProgressService interface {
	// Today returns the record for the current date, creating it on first access.
	Today(ctx context.Context) domain.DailyProgress
	AddCalories(ctx context.Context, calories float64) (domain.DailyProgress, error)
	AddMacros(ctx context.Context, protein, carbs, fat float64) (domain.DailyProgress, error)
	CompleteWorkout(ctx context.Context) domain.DailyProgress
	// Reset recreates today's record, discarding today's intake only.
	Reset(ctx context.Context) domain.DailyProgress
	// ForDate looks up a retained record without creating one.
	ForDate(ctx context.Context, date string) (*domain.DailyProgress, bool)
}

type progressService struct {
	state    *session.State
	store    *repository.StateStore
	clock    Clock
	location *time.Location
	log      *logrus.Entry
}

// NewProgressService creates the day-keyed ledger. A nil clock uses time.Now
// and a nil location uses UTC.
func NewProgressService(state *session.State, store *repository.StateStore, clock Clock, location *time.Location, log *logrus.Entry) ProgressService {
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &progressService{
		state:    state,
		store:    store,
		clock:    clock,
		location: location,
		log:      log,
	}
}

func (s *progressService) currentDate() string {
	return s.clock().In(s.location).Format(dateLayout)
}

// ensureToday rolls the in-memory record over to the current date when needed.
// This is the only place a record's date is decided.
func (s *progressService) ensureToday(ctx context.Context) domain.DailyProgress {
	date := s.currentDate()
	if cur := s.state.Today(); cur != nil && cur.Date == date {
		return *cur
	}
	if stored, ok := s.store.LoadProgress(ctx, date); ok {
		s.state.SetToday(*stored)
		return *stored
	}
	return s.create(ctx, date)
}

func (s *progressService) create(ctx context.Context, date string) domain.DailyProgress {
	profile := s.state.Profile()
	p := domain.NewDailyProgress(date, CalculateDailyCalories(profile), CalculateMacroTargets(profile))
	s.state.SetToday(p)
	_ = s.store.SaveProgress(ctx, p)
	s.log.WithField("date", date).Info("daily progress created")
	return p
}

// update applies fn to the current day's record and persists it. If the day
// rolls over between the date check and the write, fn goes to the new day.
func (s *progressService) update(ctx context.Context, fn func(*domain.DailyProgress)) (domain.DailyProgress, error) {
	for attempt := 0; attempt < maxRolloverAttempts; attempt++ {
		date := s.ensureToday(ctx).Date
		applied := false
		updated, ok := s.state.UpdateToday(func(p *domain.DailyProgress) {
			if p.Date == date {
				fn(p)
				applied = true
			}
		})
		if ok && applied {
			_ = s.store.SaveProgress(ctx, updated)
			return updated, nil
		}
		s.log.WithField("date", date).Debug("day changed during update, retrying")
	}
	s.log.Warn("progress update dropped: day kept changing")
	return s.ensureToday(ctx), ErrProgressRollover
}

func (s *progressService) Today(ctx context.Context) domain.DailyProgress {
	return s.ensureToday(ctx)
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *progressService) AddCalories(ctx context.Context, calories float64) (domain.DailyProgress, error) {
	if !validAmount(calories) {
		return s.ensureToday(ctx), ErrInvalidIntake
	}
	return s.update(ctx, func(p *domain.DailyProgress) {
		p.Calories.Consumed += calories
	})
}

func (s *progressService) AddMacros(ctx context.Context, protein, carbs, fat float64) (domain.DailyProgress, error) {
	if !validAmount(protein) || !validAmount(carbs) || !validAmount(fat) {
		return s.ensureToday(ctx), ErrInvalidIntake
	}
	return s.update(ctx, func(p *domain.DailyProgress) {
		p.Macros.Protein.Consumed += protein
		p.Macros.Carbs.Consumed += carbs
		p.Macros.Fat.Consumed += fat
	})
}

func (s *progressService) CompleteWorkout(ctx context.Context) domain.DailyProgress {
	p, _ := s.update(ctx, func(p *domain.DailyProgress) {
		p.WorkoutCompleted = true
	})
	return p
}

func (s *progressService) Reset(ctx context.Context) domain.DailyProgress {
	p := s.create(ctx, s.currentDate())
	s.log.WithField("date", p.Date).Info("progress reset for today")
	return p
}

func (s *progressService) ForDate(ctx context.Context, date string) (*domain.DailyProgress, bool) {
	if cur := s.state.Today(); cur != nil && cur.Date == date {
		return cur, true
	}
	return s.store.LoadProgress(ctx, date)
}
