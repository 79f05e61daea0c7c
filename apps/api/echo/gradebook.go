package echoapi

import (
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
)

var (
	errUnknownCategory = "unknown preference category"
	errUnknownGrade    = "unknown grade label"
)

type gradebookApi struct {
	svc        gradebook.Service
	validate   *validator.Validate
	translator ut.Translator
}

func registerGradebookAPI(
	g *echo.Group,
	svc gradebook.Service,
	validate *validator.Validate,
	translator ut.Translator,
) {
	api := gradebookApi{
		svc:        svc,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/students")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.POST("/refresh", api.refresh)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id/marks", api.updateMarks)

	g.GET("/thresholds", api.queryThresholds)
	g.PUT("/thresholds", api.replaceThresholds)

	g.GET("/preferences", api.queryPreferences)
	g.POST("/preferences/:category/toggle", api.togglePreference)

	g.GET("/notifications", api.queryNotifications)
	g.POST("/reminders", api.scheduleReminder)
}

// Handlers

func (api *gradebookApi) query(ctx echo.Context) error {
	students := api.svc.Students()
	if len(students) == 0 {
		var err error
		if students, err = api.svc.Refresh(ctx.Request().Context()); err != nil {
			return errors.Wrap(err, "refreshing roster")
		}
	}
	return ctx.JSON(http.StatusOK, api.toResponses(students))
}

func (api *gradebookApi) create(ctx echo.Context) error {
	var data gradebook.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	student, err := api.svc.AddStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, api.toResponse(student, api.svc.Thresholds()))
}

func (api *gradebookApi) refresh(ctx echo.Context) error {
	students, err := api.svc.Refresh(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "refreshing roster")
	}
	return ctx.JSON(http.StatusOK, api.toResponses(students))
}

func (api *gradebookApi) retrieve(ctx echo.Context) error {
	student, err := api.svc.GetStudent(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, api.toResponse(student, api.svc.Thresholds()))
}

func (api *gradebookApi) updateMarks(ctx echo.Context) error {
	var data UpdateMarksRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMarksRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	student, err := api.svc.UpdateMarks(ctx.Request().Context(), ctx.Param("id"), data.Marks)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.toResponse(student, api.svc.Thresholds()))
}

func (api *gradebookApi) queryThresholds(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Thresholds())
}

func (api *gradebookApi) replaceThresholds(ctx echo.Context) error {
	var data ThresholdsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ThresholdsRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	api.svc.SetThresholds(data.Thresholds)
	return ctx.JSON(http.StatusOK, api.svc.Thresholds())
}

func (api *gradebookApi) queryPreferences(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Preferences())
}

func (api *gradebookApi) togglePreference(ctx echo.Context) error {
	pref := gradebook.Preference(ctx.Param("category"))

	var known bool
	for _, p := range gradebook.AllPreferences {
		if p == pref {
			known = true
			break
		}
	}
	if !known {
		return core.NewValidationError(nil, core.FieldError{Field: "category", Error: errUnknownCategory})
	}

	api.svc.TogglePreference(pref)
	return ctx.JSON(http.StatusOK, api.svc.Preferences())
}

func (api *gradebookApi) queryNotifications(ctx echo.Context) error {
	notifications, err := api.svc.Notifications()
	if err != nil {
		return errors.Wrap(err, "querying notification history")
	}
	return ctx.JSON(http.StatusOK, notifications)
}

func (api *gradebookApi) scheduleReminder(ctx echo.Context) error {
	var data ReminderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReminderRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, err := api.svc.ScheduleReview(data.RemindAt)
	if err != nil {
		if errors.Cause(err) == gradebook.ErrPastReminder {
			return core.NewValidationError(err, core.FieldError{Field: "remind_at", Error: err.Error()})
		}
		return errors.Wrap(err, "scheduling reminder")
	}
	return ctx.JSON(http.StatusCreated, ReminderResponse{ID: id})
}

// Serializers

type StudentResponse struct {
	gradebook.Student
	Grade gradebook.Grade `json:"grade"`
}

func (api *gradebookApi) toResponse(s gradebook.Student, tm gradebook.ThresholdMap) StudentResponse {
	return StudentResponse{Student: s, Grade: gradebook.Classify(s.Marks, tm)}
}

func (api *gradebookApi) toResponses(students []gradebook.Student) []StudentResponse {
	tm := api.svc.Thresholds()
	resps := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		resps = append(resps, api.toResponse(s, tm))
	}
	return resps
}

// Bindings

type UpdateMarksRequest struct {
	Marks string `json:"marks" validate:"required,numeric"`
}

func (r *UpdateMarksRequest) Validate(validate *validator.Validate) error {
	r.Marks = core.CleanString(r.Marks)
	return validate.Struct(r)
}

type ThresholdsRequest struct {
	Thresholds gradebook.ThresholdMap `json:"thresholds" validate:"required,min=1"`
}

func (r *ThresholdsRequest) Validate(validate *validator.Validate) error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for _, t := range r.Thresholds {
		if !t.Grade.Valid() {
			return core.NewValidationError(nil, core.FieldError{Field: "thresholds", Error: errUnknownGrade})
		}
	}
	return nil
}

type ReminderRequest struct {
	RemindAt time.Time `json:"remind_at" validate:"required"`
}

func (r *ReminderRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}

type ReminderResponse struct {
	ID string `json:"id"`
}
