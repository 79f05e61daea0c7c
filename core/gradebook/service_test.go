package gradebook_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
	notificationsvc "github.com/PranayN1999/my-gradebook-app/services/notification"
	dummydb "github.com/PranayN1999/my-gradebook-app/storage/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

// flakyRepo wraps a real repository and fails on demand.
type flakyRepo struct {
	gradebook.Repository
	failWrites  bool
	failQueries bool
}

func (r *flakyRepo) QueryAllStudents(ctx context.Context) ([]gradebook.Student, error) {
	if r.failQueries {
		return nil, errors.New("rpc error: deadline exceeded")
	}
	return r.Repository.QueryAllStudents(ctx)
}

func (r *flakyRepo) UpdateStudentMarks(ctx context.Context, id string, marks float64) error {
	if r.failWrites {
		return errors.New("rpc error: deadline exceeded")
	}
	return r.Repository.UpdateStudentMarks(ctx, id, marks)
}

func newService(repo gradebook.Repository, history core.NotificationHistory) gradebook.Service {
	push := notificationsvc.NewConsoleServiceMock()
	prefs := gradebook.NewPreferences()
	thresholds := gradebook.NewThresholdStore(gradebook.DefaultThresholds())
	reminders := gradebook.NewReminderScheduler(push, history, prefs, nopLogger{})
	return gradebook.NewService(repo, push, history, prefs, thresholds, reminders, nopLogger{})
}

// setup builds a service over a dummy store seeded with students and warms the
// roster cache.
func setup(t *testing.T, students ...gradebook.Student) (gradebook.Service, gradebook.Repository, core.NotificationHistory) {
	t.Helper()
	notificationsvc.ResetSentNotifications()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("opening dummy db: %v", err)
	}
	repo := dummydb.NewStudentRepository(db)
	ctx := context.Background()
	for _, s := range students {
		if _, err := repo.CreateStudent(ctx, s); err != nil {
			t.Fatalf("seeding student: %v", err)
		}
	}

	history := dummydb.NewNotificationHistory(db)
	svc := newService(repo, history)
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("warming cache: %v", err)
	}
	return svc, repo, history
}

func sentTitles() []string {
	titles := make([]string, 0, len(notificationsvc.SentNotifications))
	for _, n := range notificationsvc.SentNotifications {
		titles = append(titles, n.Title)
	}
	return titles
}

func TestServiceUpdateMarks(t *testing.T) {
	ctx := context.Background()
	alice := gradebook.Student{ID: "std-1", Name: "Alice", Email: "alice@test.cm", Marks: 78}

	t.Run("full pipeline emits three notifications in order", func(t *testing.T) {
		svc, _, history := setup(t, alice)

		student, err := svc.UpdateMarks(ctx, "std-1", "93")
		if err != nil {
			t.Fatalf("UpdateMarks() error = %v", err)
		}
		if student.Marks != 93 {
			t.Errorf("student.Marks = %v, want 93", student.Marks)
		}

		sent := notificationsvc.SentNotifications
		if len(sent) != 3 {
			t.Fatalf("sent %d notifications %v, want 3", len(sent), sentTitles())
		}
		if sent[0].Title != "Grade Updated" {
			t.Errorf("sent[0].Title = %q, want Grade Updated", sent[0].Title)
		}
		if want := "Alice's grade changed from C to A."; sent[0].Body != want {
			t.Errorf("sent[0].Body = %q, want %q", sent[0].Body, want)
		}
		if sent[0].Data == nil || sent[0].Data.Screen != core.ScreenStudentDetails {
			t.Errorf("sent[0].Data = %v, want %s nav payload", sent[0].Data, core.ScreenStudentDetails)
		}
		if sent[1].Title != "Threshold Crossed" {
			t.Errorf("sent[1].Title = %q, want Threshold Crossed", sent[1].Title)
		}
		if want := "Alice crossed the A threshold (92.5)."; sent[1].Body != want {
			t.Errorf("sent[1].Body = %q, want %q", sent[1].Body, want)
		}
		if sent[2].Title != "Class Average Update" {
			t.Errorf("sent[2].Title = %q, want Class Average Update", sent[2].Title)
		}
		if !strings.Contains(sent[2].Body, "15.0") {
			t.Errorf("sent[2].Body = %q, want it to contain the 15.0 delta", sent[2].Body)
		}

		// cache patched in place
		if cached, ok := findStudent(svc.Students(), "std-1"); !ok || cached.Marks != 93 {
			t.Errorf("cached student = %+v, want marks 93", cached)
		}

		// history retains all three, newest first
		retained, err := history.QueryNotifications()
		if err != nil {
			t.Fatalf("QueryNotifications() error = %v", err)
		}
		if len(retained) != 3 || retained[0].Title != "Class Average Update" {
			t.Errorf("retained = %v, want 3 newest first", retained)
		}
	})

	t.Run("identical marks are a silent no-op", func(t *testing.T) {
		svc, _, _ := setup(t, alice)

		if _, err := svc.UpdateMarks(ctx, "std-1", "78"); err != nil {
			t.Fatalf("UpdateMarks() error = %v", err)
		}
		if n := len(notificationsvc.SentNotifications); n != 0 {
			t.Errorf("sent %d notifications %v, want 0", n, sentTitles())
		}
	})

	t.Run("at most one threshold notification per update", func(t *testing.T) {
		bob := gradebook.Student{ID: "std-2", Name: "Bob", Email: "bob@test.cm", Marks: 75}
		svc, _, _ := setup(t, bob)
		svc.SetThresholds(gradebook.ThresholdMap{
			{gradebook.GradeA, 90},
			{gradebook.GradeB, 80},
		})
		svc.TogglePreference(gradebook.PrefGradeUpdates)
		svc.TogglePreference(gradebook.PrefClassAverageChanges)

		// 75 -> 95 crosses both cutoffs; only the highest ranked fires
		if _, err := svc.UpdateMarks(ctx, "std-2", "95"); err != nil {
			t.Fatalf("UpdateMarks() error = %v", err)
		}
		sent := notificationsvc.SentNotifications
		if len(sent) != 1 {
			t.Fatalf("sent %d notifications %v, want 1", len(sent), sentTitles())
		}
		if want := "Bob crossed the A threshold (90)."; sent[0].Body != want {
			t.Errorf("sent[0].Body = %q, want %q", sent[0].Body, want)
		}
	})

	t.Run("each category is gated independently", func(t *testing.T) {
		tests := []struct {
			name       string
			disable    gradebook.Preference
			wantTitles []string
		}{
			{
				name:       "grade updates off",
				disable:    gradebook.PrefGradeUpdates,
				wantTitles: []string{"Threshold Crossed", "Class Average Update"},
			},
			{
				name:       "threshold alerts off",
				disable:    gradebook.PrefThresholdAlerts,
				wantTitles: []string{"Grade Updated", "Class Average Update"},
			},
			{
				name:       "class average changes off",
				disable:    gradebook.PrefClassAverageChanges,
				wantTitles: []string{"Grade Updated", "Threshold Crossed"},
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _, _ := setup(t, alice)
				svc.TogglePreference(tt.disable)

				if _, err := svc.UpdateMarks(ctx, "std-1", "93"); err != nil {
					t.Fatalf("UpdateMarks() error = %v", err)
				}
				got := sentTitles()
				if len(got) != len(tt.wantTitles) {
					t.Fatalf("sent titles = %v, want %v", got, tt.wantTitles)
				}
				for i := range got {
					if got[i] != tt.wantTitles[i] {
						t.Errorf("sent titles = %v, want %v", got, tt.wantTitles)
						break
					}
				}
			})
		}
	})

	t.Run("concurrent updates serialize per student", func(t *testing.T) {
		bob := gradebook.Student{ID: "std-2", Name: "Bob", Email: "bob@test.cm", Marks: 91}
		svc, _, _ := setup(t, alice, bob)
		svc.TogglePreference(gradebook.PrefClassAverageChanges)

		// same-id updates contend for one lock; different ids run concurrently
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				if _, err := svc.UpdateMarks(ctx, "std-1", "93"); err != nil {
					t.Errorf("UpdateMarks(std-1) error = %v", err)
				}
			}()
			go func() {
				defer wg.Done()
				if _, err := svc.UpdateMarks(ctx, "std-2", "95"); err != nil {
					t.Errorf("UpdateMarks(std-2) error = %v", err)
				}
			}()
		}
		wg.Wait()

		// exactly one update per student observes the transition; the rest
		// are no-ops against the already-patched cache
		var gradeChanges, thresholdCrossings int
		for _, n := range notificationsvc.SentNotifications {
			switch n.Title {
			case "Grade Updated":
				gradeChanges++
			case "Threshold Crossed":
				thresholdCrossings++
			default:
				t.Errorf("unexpected notification %q", n.Title)
			}
		}
		if gradeChanges != 2 || thresholdCrossings != 2 {
			t.Errorf("got %d grade and %d threshold notifications, want 2 and 2", gradeChanges, thresholdCrossings)
		}
		if s, _ := findStudent(svc.Students(), "std-1"); s.Marks != 93 {
			t.Errorf("std-1 cached marks = %v, want 93", s.Marks)
		}
		if s, _ := findStudent(svc.Students(), "std-2"); s.Marks != 95 {
			t.Errorf("std-2 cached marks = %v, want 95", s.Marks)
		}
	})

	t.Run("remote write failure aborts atomically", func(t *testing.T) {
		svc, repo, _ := func() (gradebook.Service, *flakyRepo, core.NotificationHistory) {
			notificationsvc.ResetSentNotifications()
			db, err := dummydb.Open()
			if err != nil {
				t.Fatalf("opening dummy db: %v", err)
			}
			inner := dummydb.NewStudentRepository(db)
			if _, err := inner.CreateStudent(ctx, alice); err != nil {
				t.Fatalf("seeding student: %v", err)
			}
			repo := &flakyRepo{Repository: inner}
			history := dummydb.NewNotificationHistory(db)
			svc := newService(repo, history)
			if _, err := svc.Refresh(ctx); err != nil {
				t.Fatalf("warming cache: %v", err)
			}
			return svc, repo, history
		}()

		repo.failWrites = true
		_, err := svc.UpdateMarks(ctx, "std-1", "93")
		if errors.Cause(err) != gradebook.ErrWriteFailed {
			t.Fatalf("UpdateMarks() error = %v, want cause %v", err, gradebook.ErrWriteFailed)
		}
		if n := len(notificationsvc.SentNotifications); n != 0 {
			t.Errorf("sent %d notifications %v, want 0", n, sentTitles())
		}
		if cached, _ := findStudent(svc.Students(), "std-1"); cached.Marks != 78 {
			t.Errorf("cached marks = %v, want 78 (unchanged)", cached.Marks)
		}
	})

	t.Run("non-numeric marks fail fast", func(t *testing.T) {
		svc, repo, _ := setup(t, alice)

		for _, raw := range []string{"ninety", "", "NaN", "+Inf"} {
			_, err := svc.UpdateMarks(ctx, "std-1", raw)
			var vErr *core.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("UpdateMarks(%q) error = %v, want ValidationError", raw, err)
			}
		}
		if n := len(notificationsvc.SentNotifications); n != 0 {
			t.Errorf("sent %d notifications, want 0", n)
		}

		// the remote record was never touched
		stored, err := repo.GetStudentByID(ctx, "std-1")
		if err != nil {
			t.Fatalf("GetStudentByID() error = %v", err)
		}
		if stored.Marks != 78 {
			t.Errorf("stored marks = %v, want 78 (unchanged)", stored.Marks)
		}
	})

	t.Run("unknown student writes but skips notifications", func(t *testing.T) {
		svc, repo, _ := setup(t, alice)

		// the record exists remotely but not in the stale cache
		if _, err := repo.CreateStudent(ctx, gradebook.Student{ID: "std-9", Name: "Zed", Marks: 40}); err != nil {
			t.Fatalf("seeding student: %v", err)
		}

		student, err := svc.UpdateMarks(ctx, "std-9", "50")
		if err != nil {
			t.Fatalf("UpdateMarks() error = %v", err)
		}
		if student.Marks != 50 {
			t.Errorf("student.Marks = %v, want 50", student.Marks)
		}
		if n := len(notificationsvc.SentNotifications); n != 0 {
			t.Errorf("sent %d notifications %v, want 0", n, sentTitles())
		}

		stored, err := repo.GetStudentByID(ctx, "std-9")
		if err != nil {
			t.Fatalf("GetStudentByID() error = %v", err)
		}
		if stored.Marks != 50 {
			t.Errorf("stored marks = %v, want 50", stored.Marks)
		}
	})
}

func TestServiceRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("failed fetch keeps the last snapshot", func(t *testing.T) {
		notificationsvc.ResetSentNotifications()
		db, err := dummydb.Open()
		if err != nil {
			t.Fatalf("opening dummy db: %v", err)
		}
		inner := dummydb.NewStudentRepository(db)
		if _, err := inner.CreateStudent(ctx, gradebook.Student{ID: "std-1", Name: "Alice", Marks: 78}); err != nil {
			t.Fatalf("seeding student: %v", err)
		}
		repo := &flakyRepo{Repository: inner}
		svc := newService(repo, dummydb.NewNotificationHistory(db))
		if _, err := svc.Refresh(ctx); err != nil {
			t.Fatalf("warming cache: %v", err)
		}

		repo.failQueries = true
		_, err = svc.Refresh(ctx)
		if errors.Cause(err) != gradebook.ErrFetchFailed {
			t.Fatalf("Refresh() error = %v, want cause %v", err, gradebook.ErrFetchFailed)
		}
		if got := svc.Students(); len(got) != 1 {
			t.Errorf("Students() = %v, want the previous snapshot", got)
		}
	})
}

func TestServiceAddStudent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)

	student, err := svc.AddStudent(ctx, gradebook.NewStudent{Name: "Carol", Email: "carol@test.cm", Marks: 88})
	if err != nil {
		t.Fatalf("AddStudent() error = %v", err)
	}
	if student.ID == "" {
		t.Error("student.ID is empty, want a generated id")
	}
	if cached, ok := findStudent(svc.Students(), student.ID); !ok || cached.Name != "Carol" {
		t.Errorf("cached student = %+v, want Carol in refreshed cache", cached)
	}
}

func findStudent(students []gradebook.Student, id string) (gradebook.Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}
	return gradebook.Student{}, false
}
