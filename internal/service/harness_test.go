package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"lamx12/nutri-plan/internal/domain"
	"lamx12/nutri-plan/internal/logging"
	"lamx12/nutri-plan/internal/repository"
	"lamx12/nutri-plan/internal/repository/memory"
	"lamx12/nutri-plan/internal/session"

	"github.com/sirupsen/logrus"
)

const testNamespace = "test"

type harness struct {
	state   *session.State
	gateway repository.Gateway
	store   *repository.StateStore
	keys    repository.Keys
	log     *logrus.Entry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gw := memory.NewGateway()
	t.Cleanup(func() { _ = gw.Close() })
	log := logging.Component(logging.Discard(), "test")
	return &harness{
		state:   session.New(),
		gateway: gw,
		store:   repository.NewStateStore(gw, testNamespace, log),
		keys:    repository.Keys{Namespace: testNamespace},
		log:     log,
	}
}

func (h *harness) stored(t *testing.T, key string) bool {
	t.Helper()
	_, err := h.gateway.Get(context.Background(), key)
	return err == nil
}

// sampleProfile yields 2007 kcal and 201/125/78 g.
func sampleProfile() *domain.Profile {
	return &domain.Profile{
		Name:          "Alex",
		Height:        170,
		Weight:        70,
		Age:           30,
		Gender:        domain.GenderMale,
		TrainingStyle: domain.TrainingGym,
		Goal:          domain.GoalLose,
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
