package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/PranayN1999/my-gradebook-app/apps/api/echo"
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

func setup(t *testing.T, students ...gradebook.Student) (Server, gradebook.Repository) {
	t.Helper()
	notificationsvc.ResetSentNotifications()

	conf := &core.Config{Debug: true, TestMode: true, AppName: "Gradebook"}

	// set up validation
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	// set up store & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	repo := dummydb.NewStudentRepository(db)
	for _, s := range students {
		if _, err := repo.CreateStudent(context.Background(), s); err != nil {
			t.Fatalf("setup(): %v", err)
		}
	}
	history := dummydb.NewNotificationHistory(db)

	// set up services
	logger := nopLogger{}
	push := notificationsvc.NewConsoleServiceMock()
	prefs := gradebook.NewPreferences()
	thresholds := gradebook.NewThresholdStore(gradebook.DefaultThresholds())
	reminders := gradebook.NewReminderScheduler(push, history, prefs, logger)
	svc := gradebook.NewService(repo, push, history, prefs, thresholds, reminders, logger)
	if _, err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("setup(): %v", err)
	}

	// set up server
	app := NewServer(
		"", /* addr */
		&Deps{
			Conf:         conf,
			Logger:       logger,
			GradebookSvc: svc,
			Validate:     validate,
			Translator:   translator,
		},
	)
	return app, repo
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte // nil skips the body comparison
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func fieldErrs(t *testing.T, errs map[string]string) []byte {
	return marchallObj(t, map[string]map[string]string{"error": errs})
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	l1, ok1 := j1.([]interface{})
	l2, ok2 := j2.([]interface{})
	if ok1 && ok2 {
		return assert.ElementsMatch(t, l1, l2), nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
