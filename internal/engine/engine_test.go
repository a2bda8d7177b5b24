package engine

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"lamx12/nutri-plan/internal/config"
	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/logging"
	"lamx12/nutri-plan/internal/service"
)

var noon = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func testProfile() domain.Profile {
	return domain.Profile{
		Name: "Alex", Height: 170, Weight: 70, Age: 30,
		Gender: domain.GenderMale, TrainingStyle: domain.TrainingHome, Goal: domain.GoalMaintain,
	}
}

func sqliteConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "state.db")
	return cfg
}

func open(t *testing.T, cfg config.Config, opts Options) *Engine {
	t.Helper()
	opts.Logger = logging.Discard()
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return noon }
	}
	e, err := Open(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return e
}

func TestOpenWithDefaults(t *testing.T) {
	e := open(t, config.Defaults(), Options{})
	defer e.Close()

	if e.ProfileComplete() || e.Profile() != nil {
		t.Error("fresh engine has a profile")
	}
	if e.Busy() {
		t.Error("fresh engine is busy")
	}
	today := e.Today(context.Background())
	if today.Date != "2024-05-01" || today.Calories.Target != 2000 {
		t.Errorf("today = %+v", today)
	}
	if _, err := e.Plans.GeneratePlans(context.Background()); !errors.Is(err, service.ErrProfileIncomplete) {
		t.Errorf("GeneratePlans err = %v", err)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	cfg := sqliteConfig(t)
	ctx := context.Background()

	e := open(t, cfg, Options{})
	if err := e.Profiles.SetProfile(ctx, testProfile()); err != nil {
		t.Fatal(err)
	}
	res, err := e.Plans.GeneratePlans(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != service.SourceFallback {
		t.Errorf("source = %s without an endpoint", res.Source)
	}
	r, err := e.Reminders.Add(ctx, service.ReminderInput{Type: domain.ReminderWorkout, Time: "18:00", Title: "Leg day"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Progress.AddCalories(ctx, 420); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := open(t, cfg, Options{})
	defer reopened.Close()
	if !reopened.ProfileComplete() || reopened.Profile().Name != "Alex" {
		t.Errorf("profile = %+v", reopened.Profile())
	}
	if len(reopened.WorkoutPlan()) != 3 || len(reopened.MealPlan()) != 4 {
		t.Errorf("plans = %d workouts, %d meals", len(reopened.WorkoutPlan()), len(reopened.MealPlan()))
	}
	list := reopened.Reminders.List()
	if len(list) != 1 || list[0].ID != r.ID {
		t.Errorf("reminders = %+v", list)
	}
	if got := reopened.Today(ctx).Calories.Consumed; got != 420 {
		t.Errorf("consumed = %v, want 420", got)
	}
}

func TestNewDayAfterReopenUsesLoadedProfile(t *testing.T) {
	cfg := sqliteConfig(t)
	ctx := context.Background()

	e := open(t, cfg, Options{})
	_ = e.Profiles.SetProfile(ctx, testProfile())
	_ = e.Close()

	nextDay := func() time.Time { return noon.Add(24 * time.Hour) }
	reopened := open(t, cfg, Options{Clock: nextDay})
	defer reopened.Close()

	p := testProfile()
	today := reopened.Today(ctx)
	if today.Date != "2024-05-02" || today.Calories.Target != float64(service.CalculateDailyCalories(&p)) {
		t.Errorf("today = %+v", today)
	}
}

func TestUnknownDriver(t *testing.T) {
	cfg := config.Defaults()
	cfg.Storage.Driver = "etcd"
	_, err := Open(context.Background(), cfg, Options{Logger: logging.Discard()})
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("err = %v, want ErrUnknownDriver", err)
	}
}

func TestBadTimezone(t *testing.T) {
	cfg := config.Defaults()
	cfg.Progress.Timezone = "Mars/Olympus"
	if _, err := Open(context.Background(), cfg, Options{Logger: logging.Discard()}); err == nil {
		t.Error("unknown timezone accepted")
	}
}

type captureSender struct {
	mu   sync.Mutex
	sent []domain.Reminder
}

func (c *captureSender) SendReminder(r domain.Reminder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, r)
	return nil
}

func TestReminderDispatchWiring(t *testing.T) {
	sender := &captureSender{}
	e := open(t, config.Defaults(), Options{Sender: sender})
	defer e.Close()

	if _, err := e.Reminders.Add(context.Background(), service.ReminderInput{Type: domain.ReminderMeal, Time: "12:30", Title: "Lunch"}); err != nil {
		t.Fatal(err)
	}
	if e.dispatcher == nil {
		t.Fatal("dispatcher not started with a sender")
	}
	e.dispatcher.Tick()
	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 || sender.sent[0].Title != "Lunch" {
		t.Errorf("sent = %+v", sender.sent)
	}
}
