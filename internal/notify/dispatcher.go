// Package notify delivers due reminders to an outside channel.
package notify

import (
	"fmt"
	"sync"
	"time"

	"lamx12/nutri-plan/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sender delivers one reminder.
type Sender interface {
	SendReminder(r domain.Reminder) error
}

// ReminderSource lists the current reminders.
type ReminderSource interface {
	List() []domain.Reminder
}

// Dispatcher checks reminders once a minute and sends the enabled ones whose
// HH:MM matches the current minute. Each reminder fires at most once per day.
type Dispatcher struct {
	source   ReminderSource
	sender   Sender
	now      func() time.Time
	location *time.Location
	cron     *cron.Cron
	log      *logrus.Entry

	mu    sync.Mutex
	fired map[string]string // reminder id -> date last sent
}

func NewDispatcher(source ReminderSource, sender Sender, now func() time.Time, location *time.Location, log *logrus.Entry) *Dispatcher {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &Dispatcher{
		source:   source,
		sender:   sender,
		now:      now,
		location: location,
		cron:     cron.New(cron.WithLocation(location)),
		log:      log,
		fired:    make(map[string]string),
	}
}

// Start schedules the minute check and returns immediately.
func (d *Dispatcher) Start() error {
	if _, err := d.cron.AddFunc("* * * * *", func() { d.Tick() }); err != nil {
		return fmt.Errorf("schedule reminder check: %w", err)
	}
	d.cron.Start()
	d.log.Info("reminder dispatcher started")
	return nil
}

// Stop halts scheduling and waits for a running check to finish.
func (d *Dispatcher) Stop() {
	<-d.cron.Stop().Done()
}

// Tick sends every reminder due now and returns how many were sent.
func (d *Dispatcher) Tick() int {
	now := d.now().In(d.location)
	minute := now.Format("15:04")
	today := now.Format("2006-01-02")

	d.mu.Lock()
	defer d.mu.Unlock()

	reminders := d.source.List()
	d.forgetRemoved(reminders)

	sent := 0
	for _, r := range reminders {
		if !r.Enabled || r.Time != minute || d.fired[r.ID] == today {
			continue
		}
		if err := d.sender.SendReminder(r); err != nil {
			d.log.WithError(err).WithField("reminder_id", r.ID).Warn("failed to send reminder")
			continue
		}
		d.fired[r.ID] = today
		sent++
	}
	if sent > 0 {
		d.log.WithFields(logrus.Fields{"time": minute, "sent": sent}).Info("reminders sent")
	}
	return sent
}

// forgetRemoved drops fired entries for reminders that no longer exist.
func (d *Dispatcher) forgetRemoved(reminders []domain.Reminder) {
	if len(d.fired) == 0 {
		return
	}
	live := make(map[string]struct{}, len(reminders))
	for _, r := range reminders {
		live[r.ID] = struct{}{}
	}
	for id := range d.fired {
		if _, ok := live[id]; !ok {
			delete(d.fired, id)
		}
	}
}
