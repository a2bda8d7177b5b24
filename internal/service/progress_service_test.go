package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/repository"
)

var may1 = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newProgress(h *harness, clock *fakeClock) ProgressService {
	return NewProgressService(h.state, h.store, clock.Now, time.UTC, h.log)
}

func TestTodayIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.state.SetProfile(sampleProfile())
	svc := newProgress(h, newFakeClock(may1))
	ctx := context.Background()

	first := svc.Today(ctx)
	second := svc.Today(ctx)
	if first != second {
		t.Fatalf("Today changed between calls: %+v vs %+v", first, second)
	}
	if first.Date != "2024-05-01" {
		t.Errorf("date = %s", first.Date)
	}
	if first.Calories.Target != 2007 || first.Macros.Protein.Target != 201 {
		t.Errorf("targets = %v kcal / %v g protein", first.Calories.Target, first.Macros.Protein.Target)
	}
	if !h.stored(t, h.keys.Progress("2024-05-01")) {
		t.Error("new record not persisted")
	}
}

func TestTodayWithoutProfileUsesDefaults(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))

	p := svc.Today(context.Background())
	if p.Calories.Target != 2000 || p.Macros.Carbs.Target != 200 {
		t.Errorf("targets = %+v", p)
	}
}

func TestAddCaloriesIsAdditive(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))
	ctx := context.Background()

	if _, err := svc.AddCalories(ctx, 300); err != nil {
		t.Fatal(err)
	}
	p, err := svc.AddCalories(ctx, 200)
	if err != nil {
		t.Fatal(err)
	}
	if p.Calories.Consumed != 500 {
		t.Errorf("consumed = %v, want 500", p.Calories.Consumed)
	}

	stored, ok := h.store.LoadProgress(ctx, "2024-05-01")
	if !ok || stored.Calories.Consumed != 500 {
		t.Errorf("stored = %+v, %v", stored, ok)
	}
}

func TestOverTargetIsRepresentable(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))

	p, err := svc.AddCalories(context.Background(), 5000)
	if err != nil {
		t.Fatal(err)
	}
	if p.Calories.Consumed <= p.Calories.Target {
		t.Errorf("consumed %v should exceed target %v", p.Calories.Consumed, p.Calories.Target)
	}
}

func TestAddMacros(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))
	ctx := context.Background()

	_, _ = svc.AddMacros(ctx, 30, 40, 10)
	p, err := svc.AddMacros(ctx, 5, 0, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if p.Macros.Protein.Consumed != 35 || p.Macros.Carbs.Consumed != 40 || p.Macros.Fat.Consumed != 12.5 {
		t.Errorf("macros = %+v", p.Macros)
	}
}

func TestNegativeIntakeIsRejected(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))
	ctx := context.Background()
	_, _ = svc.AddCalories(ctx, 100)

	if _, err := svc.AddCalories(ctx, -50); !errors.Is(err, ErrInvalidIntake) {
		t.Errorf("negative calories err = %v", err)
	}
	if _, err := svc.AddMacros(ctx, 10, -1, 0); !errors.Is(err, ErrInvalidIntake) {
		t.Errorf("negative carbs err = %v", err)
	}
	if _, err := svc.AddCalories(ctx, math.NaN()); !errors.Is(err, ErrInvalidIntake) {
		t.Errorf("NaN err = %v", err)
	}
	p := svc.Today(ctx)
	if p.Calories.Consumed != 100 || p.Macros.Protein.Consumed != 0 {
		t.Errorf("rejected intake changed the record: %+v", p)
	}
}

func TestCompleteWorkoutIsIdempotent(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))
	ctx := context.Background()

	if !svc.CompleteWorkout(ctx).WorkoutCompleted {
		t.Fatal("workout not marked complete")
	}
	if !svc.CompleteWorkout(ctx).WorkoutCompleted {
		t.Fatal("second completion cleared the flag")
	}
}

func TestDateRolloverCreatesFreshRecord(t *testing.T) {
	h := newHarness(t)
	h.state.SetProfile(sampleProfile())
	clock := newFakeClock(may1)
	svc := newProgress(h, clock)
	ctx := context.Background()

	_, _ = svc.AddCalories(ctx, 300)
	svc.CompleteWorkout(ctx)

	clock.Advance(24 * time.Hour)
	// Targets for the new day follow the profile as it is now.
	h.state.SetProfile(&domain.Profile{
		Name: "Alex", Height: 170, Weight: 70, Age: 30,
		Gender: domain.GenderMale, TrainingStyle: domain.TrainingGym, Goal: domain.GoalMaintain,
	})

	next, err := svc.AddCalories(ctx, 50)
	if err != nil {
		t.Fatal(err)
	}
	if next.Date != "2024-05-02" || next.Calories.Consumed != 50 || next.WorkoutCompleted {
		t.Errorf("new day record = %+v", next)
	}
	if next.Calories.Target != 2507 {
		t.Errorf("new day target = %v, want 2507", next.Calories.Target)
	}

	prev, ok := svc.ForDate(ctx, "2024-05-01")
	if !ok {
		t.Fatal("previous day record not retained")
	}
	if prev.Calories.Consumed != 300 || !prev.WorkoutCompleted || prev.Calories.Target != 2007 {
		t.Errorf("previous day mutated: %+v", prev)
	}
}

func TestResetDiscardsTodayOnly(t *testing.T) {
	h := newHarness(t)
	clock := newFakeClock(may1)
	svc := newProgress(h, clock)
	ctx := context.Background()

	_, _ = svc.AddCalories(ctx, 700)
	clock.Advance(24 * time.Hour)
	_, _ = svc.AddCalories(ctx, 400)
	svc.CompleteWorkout(ctx)

	p := svc.Reset(ctx)
	if p.Date != "2024-05-02" || p.Calories.Consumed != 0 || p.WorkoutCompleted {
		t.Errorf("reset record = %+v", p)
	}
	if got := svc.Today(ctx); got.Calories.Consumed != 0 {
		t.Errorf("today after reset = %+v", got)
	}
	if prev, _ := svc.ForDate(ctx, "2024-05-01"); prev == nil || prev.Calories.Consumed != 700 {
		t.Errorf("reset touched the previous day: %+v", prev)
	}
}

func TestTodayLoadsStoredRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	stored := domain.NewDailyProgress("2024-05-01", 1800, domain.MacroTarget{Protein: 120, Carbs: 180, Fat: 60})
	stored.Calories.Consumed = 120
	if err := h.store.SaveProgress(ctx, stored); err != nil {
		t.Fatal(err)
	}

	svc := newProgress(h, newFakeClock(may1))
	if got := svc.Today(ctx); got != stored {
		t.Errorf("Today = %+v, want stored %+v", got, stored)
	}
}

func TestTodayIgnoresCorruptRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if err := h.gateway.Put(ctx, h.keys.Progress("2024-05-01"), []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	svc := newProgress(h, newFakeClock(may1))
	p := svc.Today(ctx)
	if p.Date != "2024-05-01" || p.Calories.Consumed != 0 || p.Calories.Target != 2000 {
		t.Errorf("Today = %+v", p)
	}
}

func TestLedgerDateFollowsLocation(t *testing.T) {
	h := newHarness(t)
	lateUTC := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	svc := NewProgressService(h.state, h.store, newFakeClock(lateUTC).Now, tokyo, h.log)

	if got := svc.Today(context.Background()).Date; got != "2024-05-02" {
		t.Errorf("date = %s, want 2024-05-02", got)
	}
}

func TestForDateDoesNotCreate(t *testing.T) {
	h := newHarness(t)
	svc := newProgress(h, newFakeClock(may1))

	if _, ok := svc.ForDate(context.Background(), "2023-01-01"); ok {
		t.Error("ForDate found a record that was never created")
	}
	if h.stored(t, h.keys.Progress("2023-01-01")) {
		t.Error("ForDate persisted a record")
	}
}

// rolloverGateway runs onPut after the first write to watchKey, standing in
// for another caller rolling the day over mid-update.
type rolloverGateway struct {
	repository.Gateway
	watchKey string
	onPut    func()
	done     bool
}

func (g *rolloverGateway) Put(ctx context.Context, key string, value []byte) error {
	err := g.Gateway.Put(ctx, key, value)
	if key == g.watchKey && !g.done {
		g.done = true
		g.onPut()
	}
	return err
}

func TestAddCaloriesFollowsMidUpdateRollover(t *testing.T) {
	h := newHarness(t)
	clock := newFakeClock(may1)
	gw := &rolloverGateway{Gateway: h.gateway, watchKey: h.keys.Progress("2024-05-01")}
	gw.onPut = func() {
		clock.Advance(24 * time.Hour)
		h.state.SetToday(domain.NewDailyProgress("2024-05-02", 2000, CalculateMacroTargets(nil)))
	}
	store := repository.NewStateStore(gw, testNamespace, h.log)
	svc := NewProgressService(h.state, store, clock.Now, time.UTC, h.log)
	ctx := context.Background()

	p, err := svc.AddCalories(ctx, 450)
	if err != nil {
		t.Fatalf("AddCalories: %v", err)
	}
	if p.Date != "2024-05-02" || p.Calories.Consumed != 450 {
		t.Errorf("got %s with %v kcal, want 2024-05-02 with 450", p.Date, p.Calories.Consumed)
	}
	if stored, ok := store.LoadProgress(ctx, "2024-05-02"); !ok || stored.Calories.Consumed != 450 {
		t.Errorf("new day not persisted with the intake: %+v", stored)
	}
	if past, ok := store.LoadProgress(ctx, "2024-05-01"); !ok || past.Calories.Consumed != 0 {
		t.Errorf("past day mutated: %+v", past)
	}
}
