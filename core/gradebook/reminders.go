package gradebook

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PranayN1999/my-gradebook-app/core"
)

const reminderPollInterval = 30 * time.Second

var ErrPastReminder = errors.New("reminder time is in the past")

// Reminder is a scheduled grade-review notification.
type Reminder struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Body  string    `json:"body"`
	At    time.Time `json:"at"` // UTC
}

// ReminderScheduler holds pending reminders and dispatches them when due.
// Dispatch is gated by the gradeReviewReminders preference at fire time,
// not at scheduling time.
type ReminderScheduler struct {
	mutex   sync.Mutex
	pending map[string]Reminder

	push    core.PushService
	history core.NotificationHistory
	prefs   *Preferences
	logger  core.Logger

	interval time.Duration
	nowFunc  func() time.Time // swapped in tests
}

func NewReminderScheduler(push core.PushService, history core.NotificationHistory, prefs *Preferences, logger core.Logger) *ReminderScheduler {
	return &ReminderScheduler{
		pending:  make(map[string]Reminder),
		push:     push,
		history:  history,
		prefs:    prefs,
		logger:   logger,
		interval: reminderPollInterval,
		nowFunc:  time.Now,
	}
}

// Schedule queues a reminder for `at`; rejects past times.
func (s *ReminderScheduler) Schedule(at time.Time, title, body string) (string, error) {
	if at.Before(s.nowFunc()) {
		return "", ErrPastReminder
	}

	r := Reminder{
		ID:    uuid.New().String(),
		Title: title,
		Body:  body,
		At:    at.UTC(),
	}

	s.mutex.Lock()
	s.pending[r.ID] = r
	s.mutex.Unlock()
	return r.ID, nil
}

// Pending returns the reminders not yet dispatched.
func (s *ReminderScheduler) Pending() []Reminder {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	reminders := make([]Reminder, 0, len(s.pending))
	for _, r := range s.pending {
		reminders = append(reminders, r)
	}
	return reminders
}

// Start runs the dispatch loop. Blocks until ctx is cancelled; intended to be
// called with `go`.
func (s *ReminderScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.DispatchDue()
		case <-ctx.Done():
			return
		}
	}
}

// DispatchDue sends every due reminder. Due reminders are dropped from the
// pending set whether or not the category is enabled.
func (s *ReminderScheduler) DispatchDue() {
	now := s.nowFunc()

	s.mutex.Lock()
	var due []Reminder
	for id, r := range s.pending {
		if !r.At.After(now) {
			due = append(due, r)
			delete(s.pending, id)
		}
	}
	s.mutex.Unlock()

	if len(due) == 0 || !s.prefs.Enabled(PrefGradeReviewReminders) {
		return
	}

	for _, r := range due {
		n := core.NewNotification(r.Title, r.Body, nil)
		s.push.Send(n)
		if err := s.history.SaveNotification(*n); err != nil {
			s.logger.Warn("saving reminder notification to history", err)
		}
	}
}
