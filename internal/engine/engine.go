// Package engine wires the nutrition, plan, progress and reminder components
// around one session state and one persistence gateway.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lamx12/nutri-plan/internal/config"
	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/inference"
	"lamx12/nutri-plan/internal/logging"
	"lamx12/nutri-plan/internal/notify"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/repository/memory"
	"lamx12/nutri-plan/internal/repository/mongo"
	"lamx12/nutri-plan/internal/repository/sqlite"
	"lamx12/nutri-plan/internal/service"
	"lamx12/nutri-plan/internal/session"
	"lamx12/nutri-plan/internal/storage"

	"github.com/sirupsen/logrus"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Options override pieces normally built from configuration.
type Options struct {
	Logger     *logrus.Logger
	Gateway    repository.Gateway // replaces the configured backend
	Clock      service.Clock
	HTTPClient *http.Client         // used by the inference client
	Photos     storage.PhotoStorage // replaces S3 photo storage
	Sender     notify.Sender        // enables reminder dispatch without telegram
}

// Engine is the embeddable state engine. All fields are safe for concurrent use.
type Engine struct {
	Profiles  service.ProfileService
	Plans     service.PlanService
	Progress  service.ProgressService
	Reminders service.ReminderService
	Scanner   service.FoodScanner

	state      *session.State
	gateway    repository.Gateway
	dispatcher *notify.Dispatcher
	log        *logrus.Entry
}

// Open builds the engine and loads persisted state. Stored entities are read
// first; today's progress is derived afterwards so it sees the loaded profile.
func Open(ctx context.Context, cfg config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(cfg.Log)
	}
	log := logging.Component(logger, "engine")

	location, err := time.LoadLocation(cfg.Progress.Timezone)
	if err != nil {
		return nil, fmt.Errorf("progress timezone %q: %w", cfg.Progress.Timezone, err)
	}

	gateway := opts.Gateway
	if gateway == nil {
		gateway, err = openGateway(ctx, cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	state := session.New()
	store := repository.NewStateStore(gateway, cfg.Storage.Namespace, logging.Component(logger, "store"))

	var inferrer service.PlanInferrer
	client, err := inference.NewClient(cfg.Inference, opts.HTTPClient, logging.Component(logger, "inference"))
	switch {
	case err == nil:
		inferrer = client
	case errors.Is(err, inference.ErrNoEndpoint):
		log.Info("no inference endpoint configured, plans use the local generator")
	default:
		_ = gateway.Close()
		return nil, err
	}

	photos := opts.Photos
	if photos == nil && storage.Enabled(cfg.S3) {
		photos, err = storage.NewS3PhotoStorage(ctx, cfg.S3, logging.Component(logger, "photos"))
		if err != nil {
			_ = gateway.Close()
			return nil, err
		}
	}

	e := &Engine{state: state, gateway: gateway, log: log}
	e.Profiles = service.NewProfileService(state, store, photos, logging.Component(logger, "profile"))
	e.Plans = service.NewPlanService(state, store, inferrer, logging.Component(logger, "plans"))
	e.Progress = service.NewProgressService(state, store, opts.Clock, location, logging.Component(logger, "progress"))
	e.Reminders = service.NewReminderService(state, store, logging.Component(logger, "reminders"))
	e.Scanner = service.NewFoodScanner(e.Profiles, e.Progress, logging.Component(logger, "scanner"))

	e.load(ctx, store)

	sender := opts.Sender
	if sender == nil && cfg.Telegram.Token != "" {
		tg, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.ChatID, logging.Component(logger, "telegram"))
		if err != nil {
			log.WithError(err).Warn("reminder delivery disabled")
		} else {
			sender = tg
		}
	}
	if sender != nil {
		e.dispatcher = notify.NewDispatcher(e.Reminders, sender, opts.Clock, location, logging.Component(logger, "dispatcher"))
		if err := e.dispatcher.Start(); err != nil {
			_ = gateway.Close()
			return nil, err
		}
	}

	return e, nil
}

func openGateway(ctx context.Context, cfg config.StorageConfig) (repository.Gateway, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.NewGateway(), nil
	case "sqlite":
		return sqlite.NewGateway(cfg.SQLitePath)
	case "mongo":
		client, err := mongo.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongo.EnsureStateIndexes(ctx, mongo.StateCollection(db)); err != nil {
			_ = mongo.DisconnectDB(client)
			return nil, fmt.Errorf("ensure state indexes: %w", err)
		}
		return mongo.NewMongoStateGateway(client, db), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

func (e *Engine) load(ctx context.Context, store *repository.StateStore) {
	if p, ok := store.LoadProfile(ctx); ok {
		e.state.SetProfile(p)
	}
	workouts, _ := store.LoadWorkoutPlan(ctx)
	meals, _ := store.LoadMealPlan(ctx)
	e.state.SetPlans(workouts, meals)
	if reminders, ok := store.LoadReminders(ctx); ok {
		e.state.SetReminders(reminders)
	}
	today := e.Progress.Today(ctx)

	e.log.WithFields(logrus.Fields{
		"profile_complete": e.state.Profile().IsComplete(),
		"workouts":         len(workouts),
		"meals":            len(meals),
		"reminders":        len(e.state.Reminders()),
		"date":             today.Date,
	}).Info("engine state loaded")
}

func (e *Engine) Profile() *domain.Profile { return e.state.Profile() }

// ProfileComplete gates the plan, progress and scanner features.
func (e *Engine) ProfileComplete() bool { return e.state.Profile().IsComplete() }

func (e *Engine) WorkoutPlan() []domain.Workout { return e.Plans.WorkoutPlan() }

func (e *Engine) MealPlan() []domain.Meal { return e.Plans.MealPlan() }

func (e *Engine) Today(ctx context.Context) domain.DailyProgress { return e.Progress.Today(ctx) }

// Busy is true while plan generation is in flight.
func (e *Engine) Busy() bool { return e.Plans.Busy() }

// Close stops reminder dispatch and releases the gateway.
func (e *Engine) Close() error {
	if e.dispatcher != nil {
		e.dispatcher.Stop()
	}
	return e.gateway.Close()
}
