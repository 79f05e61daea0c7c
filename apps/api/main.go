package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/PranayN1999/my-gradebook-app/apps/api/echo"
	"github.com/PranayN1999/my-gradebook-app/core"
	"github.com/PranayN1999/my-gradebook-app/core/gradebook"
	logsvc "github.com/PranayN1999/my-gradebook-app/services/logger"
	notificationsvc "github.com/PranayN1999/my-gradebook-app/services/notification"
	firestoredb "github.com/PranayN1999/my-gradebook-app/storage/firestore"
	redisdb "github.com/PranayN1999/my-gradebook-app/storage/redis"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// validation
	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	ctx := context.Background()

	// remote store
	client, err := firestoredb.Open(ctx, conf)
	if err != nil {
		logger.Fatal("opening firestore client", err)
	}
	defer client.Close()
	repo := firestoredb.NewStudentRepository(client, conf)

	// notification history
	history := redisdb.NewNotificationHistory(redisdb.NewClient(conf), conf)

	// delivery channels
	var push core.PushService
	if conf.Debug {
		push = notificationsvc.NewConsoleService(conf)
	} else {
		channels := []core.PushService{notificationsvc.NewExpoService(conf, logger)}
		if conf.NotifyEmail != "" {
			channels = append(channels, notificationsvc.NewSendgridService(conf, logger))
		}
		push = notificationsvc.NewMultiService(channels...)
	}

	// gradebook engine
	prefs := gradebook.NewPreferences()
	thresholds := gradebook.NewThresholdStore(gradebook.DefaultThresholds())
	reminders := gradebook.NewReminderScheduler(push, history, prefs, logger)
	svc := gradebook.NewService(repo, push, history, prefs, thresholds, reminders, logger)

	// warm the roster cache; a failed first fetch is recoverable via /refresh
	if _, err := svc.Refresh(ctx); err != nil {
		logger.Warn("initial roster fetch failed", err)
	}

	reminderCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go reminders.Start(reminderCtx)

	// start API server
	app := echoapi.NewServer(
		conf.ServerAddress(),
		&echoapi.Deps{
			Conf:         conf,
			Logger:       logger,
			GradebookSvc: svc,
			Validate:     validate,
			Translator:   translator,
		},
	)
	go app.Start()

	// block until a fatal server error or a shutdown signal
	select {
	case err := <-app.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-app.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: start shutdown...", sig))
		cancel() // stop the reminder loop

		// give outstanding requests a deadline for completion
		sdCtx, sdCancel := context.WithTimeout(ctx, conf.Server.ShutdownTimeout)
		defer sdCancel()

		if err := app.Shutdown(sdCtx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err := app.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
