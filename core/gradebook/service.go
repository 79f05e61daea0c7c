package gradebook

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/PranayN1999/my-gradebook-app/core"
)

var (
	// errors
	ErrStudentNotFound = errors.New("student not found")
	ErrFetchFailed     = errors.New("could not fetch students")
	ErrWriteFailed     = errors.New("could not update student marks")

	errInvalidMarks = errors.New("invalid marks")
)

type (
	Service interface {
		// Refresh fetches the roster from the remote store and replaces the
		// cache snapshot. The cache is left intact on failure.
		Refresh(ctx context.Context) ([]Student, error)
		// Students returns the last successfully fetched snapshot, possibly stale.
		Students() []Student
		GetStudent(ctx context.Context, id string) (Student, error)
		AddStudent(ctx context.Context, ns NewStudent) (Student, error)
		// UpdateMarks runs the whole update pipeline: parse, classify, commit
		// remote + cache, and emit the qualifying notifications.
		UpdateMarks(ctx context.Context, id, rawMarks string) (Student, error)

		Thresholds() ThresholdMap
		SetThresholds(tm ThresholdMap)
		Preferences() map[Preference]bool
		TogglePreference(pref Preference)

		Notifications() ([]core.Notification, error)
		ScheduleReview(at time.Time) (string, error)
	}

	service struct {
		repo       Repository
		push       core.PushService
		history    core.NotificationHistory
		prefs      *Preferences
		thresholds *ThresholdStore
		reminders  *ReminderScheduler
		logger     core.Logger

		cache   *RosterCache
		tracker *AverageTracker

		// one in-flight mutation per student identity
		locksMutex sync.Mutex
		locks      map[string]*sync.Mutex
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	push core.PushService,
	history core.NotificationHistory,
	prefs *Preferences,
	thresholds *ThresholdStore,
	reminders *ReminderScheduler,
	logger core.Logger,
) Service {
	return &service{
		repo:       repo,
		push:       push,
		history:    history,
		prefs:      prefs,
		thresholds: thresholds,
		reminders:  reminders,
		logger:     logger,
		cache:      NewRosterCache(),
		tracker:    NewAverageTracker(),
		locks:      make(map[string]*sync.Mutex),
	}
}

func (svc *service) Refresh(ctx context.Context) ([]Student, error) {
	students, err := svc.repo.QueryAllStudents(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrFetchFailed, "querying students: %v", err)
	}
	svc.cache.Replace(students)
	svc.tracker.Seed(Average(students))
	return students, nil
}

func (svc *service) Students() []Student {
	return svc.cache.Get()
}

func (svc *service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) AddStudent(ctx context.Context, ns NewStudent) (Student, error) {
	student, err := svc.repo.CreateStudent(ctx, Student{
		Name:  ns.Name,
		Email: ns.Email,
		Marks: ns.Marks,
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	if _, err := svc.Refresh(ctx); err != nil {
		svc.logger.Warn("refreshing roster after create", err)
	}
	return student, nil
}

// UpdateMarks is the decision engine. Given a raw marks string it computes the
// old/new grade and old/new class average from the cached snapshot, commits the
// new marks to the remote store and then to the cache, and emits up to three
// independent notifications (grade change, first threshold crossed, class
// average shift) in that fixed order. A remote write failure aborts before any
// cache mutation or notification dispatch.
func (svc *service) UpdateMarks(ctx context.Context, id, rawMarks string) (Student, error) {
	marks, err := parseMarks(rawMarks)
	if err != nil {
		return Student{}, err
	}

	lock := svc.studentLock(id)
	lock.Lock()
	defer lock.Unlock()

	thresholds := svc.thresholds.Get()
	existing, found := svc.cache.Find(id)

	var oldGrade Grade
	var oldAverage float64
	if found {
		oldGrade = Classify(existing.Marks, thresholds)
		oldAverage = Average(svc.cache.Get())
	}

	if err := svc.repo.UpdateStudentMarks(ctx, id, marks); err != nil {
		return Student{}, errors.Wrapf(ErrWriteFailed, "updating marks of student %s: %v", id, err)
	}

	svc.cache.ApplyLocalUpdate(id, marks)

	if !found {
		// the write went through but there is nothing to diff against;
		// skip the notification logic (caller error)
		return Student{ID: id, Marks: marks}, nil
	}

	nav := &core.NavData{
		Screen: core.ScreenStudentDetails,
		Params: map[string]string{"studentId": id},
	}

	newGrade := Classify(marks, thresholds)
	if newGrade != oldGrade && svc.prefs.Enabled(PrefGradeUpdates) {
		svc.emit(core.NewNotification(
			"Grade Updated",
			fmt.Sprintf("%s's grade changed from %s to %s.", existing.Name, oldGrade, newGrade),
			nav,
		))
	}

	// at most one threshold notification per update: the first (highest
	// ranked) upward crossing in the map's declared order wins
	if svc.prefs.Enabled(PrefThresholdAlerts) {
		for _, t := range thresholds {
			if existing.Marks < t.Cutoff && t.Cutoff <= marks {
				svc.emit(core.NewNotification(
					"Threshold Crossed",
					fmt.Sprintf("%s crossed the %s threshold (%g).", existing.Name, t.Grade, t.Cutoff),
					nav,
				))
				break
			}
		}
	}

	newAverage := Average(svc.cache.Get())
	if n := svc.tracker.MaybeNotifyChange(oldAverage, newAverage, svc.prefs.Enabled(PrefClassAverageChanges)); n != nil {
		svc.emit(n)
	}

	existing.Marks = marks
	return existing, nil
}

func (svc *service) Thresholds() ThresholdMap { return svc.thresholds.Get() }

func (svc *service) SetThresholds(tm ThresholdMap) { svc.thresholds.Set(tm) }

func (svc *service) Preferences() map[Preference]bool { return svc.prefs.All() }

func (svc *service) TogglePreference(pref Preference) { svc.prefs.Toggle(pref) }

func (svc *service) Notifications() ([]core.Notification, error) {
	return svc.history.QueryNotifications()
}

func (svc *service) ScheduleReview(at time.Time) (string, error) {
	return svc.reminders.Schedule(at, "Grade Review Reminder", "Your grade review is due tomorrow!")
}

func (svc *service) emit(n *core.Notification) {
	svc.push.Send(n)
	if err := svc.history.SaveNotification(*n); err != nil {
		svc.logger.Warn("saving notification to history", err)
	}
}

func (svc *service) studentLock(id string) *sync.Mutex {
	svc.locksMutex.Lock()
	defer svc.locksMutex.Unlock()

	lock, ok := svc.locks[id]
	if !ok {
		lock = new(sync.Mutex)
		svc.locks[id] = lock
	}
	return lock
}

// parseMarks rejects invalid numeric input before any state is mutated.
func parseMarks(raw string) (float64, error) {
	marks, err := strconv.ParseFloat(core.CleanString(raw), 64)
	if err != nil || math.IsNaN(marks) || math.IsInf(marks, 0) {
		return 0, core.NewValidationError(errInvalidMarks, core.FieldError{
			Field: "marks", Error: "a numeric value is required",
		})
	}
	return marks, nil
}
