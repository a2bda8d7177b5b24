package service

import (
	"context"
	"errors"
	"sync"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/session"

	"github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrProfileIncomplete    = errors.New("please complete your profile first")
	ErrRemoteDisabled       = errors.New("remote plan inference is not configured")
	ErrGenerationSuperseded = errors.New("plan generation was superseded by a newer request")
)

// PlanSource tells which path produced the plans.
type PlanSource string

const (
	SourceRemote   PlanSource = "remote"
	SourceFallback PlanSource = "fallback"
)

// PlanResult is what a successful generation produced and how.
// RemoteErr is set whenever the fallback was used.
type PlanResult struct {
	Source      PlanSource
	RemoteErr   error
	WorkoutPlan []domain.Workout
	MealPlan    []domain.Meal
}

// PlanInferrer is the remote collaborator that proposes plans.
type PlanInferrer interface {
	InferPlans(ctx context.Context, profile *domain.Profile, calories int, macros domain.MacroTarget) ([]domain.Workout, []domain.Meal, error)
}

type PlanService interface {
	// GeneratePlans replaces the workout and meal plans. Remote failures fall
	// back to the local generator and are reported in PlanResult, not as an error.
	GeneratePlans(ctx context.Context) (*PlanResult, error)
	// Busy reports whether a generation is in flight.
	Busy() bool
	WorkoutPlan() []domain.Workout
	MealPlan() []domain.Meal
}

// planService implements PlanService. Overlapping calls follow
// cancel-and-replace: the newest call wins and older ones are discarded.
type planService struct {
	state    *session.State
	store    *repository.StateStore
	inferrer PlanInferrer
	log      *logrus.Entry

	mu       sync.Mutex
	seq      uint64
	inFlight int
	cancel   context.CancelFunc
}

// NewPlanService creates a plan service. inferrer may be nil, in which case
// every generation uses the local generator.
func NewPlanService(state *session.State, store *repository.StateStore, inferrer PlanInferrer, log *logrus.Entry) PlanService {
	return &planService{
		state:    state,
		store:    store,
		inferrer: inferrer,
		log:      log,
	}
}

func (s *planService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

func (s *planService) WorkoutPlan() []domain.Workout {
	w, _ := s.state.Plans()
	return w
}

func (s *planService) MealPlan() []domain.Meal {
	_, m := s.state.Plans()
	return m
}

// begin registers a new call, cancelling whichever call was current.
func (s *planService) begin(parent context.Context) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.inFlight++
	s.cancel = cancel
	return ctx, s.seq
}

func (s *planService) end(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--
	if seq == s.seq && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// commit installs the plans if seq is still the newest call.
func (s *planService) commit(ctx context.Context, seq uint64, workouts []domain.Workout, meals []domain.Meal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.state.SetPlans(workouts, meals)
	// Persistence failures are logged by the store; the session copy stays authoritative.
	_ = s.store.SaveWorkoutPlan(ctx, workouts)
	_ = s.store.SaveMealPlan(ctx, meals)
	return true
}

func (s *planService) GeneratePlans(parent context.Context) (*PlanResult, error) {
	profile := s.state.Profile()
	if !profile.IsComplete() {
		return nil, ErrProfileIncomplete
	}

	ctx, seq := s.begin(parent)
	defer s.end(seq)

	calories := CalculateDailyCalories(profile)
	macros := CalculateMacroTargets(profile)

	result := &PlanResult{}
	if s.inferrer == nil {
		result.RemoteErr = ErrRemoteDisabled
	} else {
		workouts, meals, err := s.inferrer.InferPlans(ctx, profile, calories, macros)
		if err == nil {
			result.Source = SourceRemote
			result.WorkoutPlan = workouts
			result.MealPlan = meals
		} else {
			result.RemoteErr = err
		}
	}

	if result.Source != SourceRemote {
		if errors.Is(ctx.Err(), context.Canceled) && parent.Err() == nil {
			return nil, ErrGenerationSuperseded
		}
		s.log.WithError(result.RemoteErr).WithField("training_style", profile.TrainingStyle).
			Warn("remote plan generation failed, falling back to generated plans")
		result.Source = SourceFallback
		result.WorkoutPlan = FallbackWorkoutPlan(profile.TrainingStyle)
		result.MealPlan = FallbackMealPlan(calories, macros)
	}

	// Persist with a context that outlives the call's cancellation.
	if !s.commit(context.WithoutCancel(parent), seq, result.WorkoutPlan, result.MealPlan) {
		return nil, ErrGenerationSuperseded
	}

	s.log.WithFields(logrus.Fields{
		"source":   result.Source,
		"workouts": len(result.WorkoutPlan),
		"meals":    len(result.MealPlan),
	}).Info("plans generated")
	return result, nil
}
