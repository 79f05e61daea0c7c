package notificationsvc

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/PranayN1999/my-gradebook-app/core"
)

var (
	SentNotifications = make([]core.Notification, 0)
	mu                sync.Mutex
)

// ResetSentNotifications clears the sent log; for tests.
func ResetSentNotifications() {
	mu.Lock()
	SentNotifications = SentNotifications[:0]
	mu.Unlock()
}

type consoleService struct {
	subjPrefix    string
	disableOutput bool
}

var _ core.PushService = (*consoleService)(nil)

func NewConsoleService(conf *core.Config) core.PushService {
	return &consoleService{
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

func (svc consoleService) Send(notifications ...*core.Notification) {
	for _, n := range notifications {
		go svc.sendNotification(n)
	}
}

func (svc consoleService) sendNotification(n *core.Notification) {
	svc.send(*n)
	mu.Lock()
	SentNotifications = append(SentNotifications, *n)
	mu.Unlock()
}

func (svc consoleService) send(n core.Notification) {
	if svc.disableOutput {
		return
	}

	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "%s%s\r\n", svc.subjPrefix, n.Title)
	_, _ = fmt.Fprintf(body, "%s\r\n", n.Body)
	if n.Data != nil {
		_, _ = fmt.Fprintf(body, "screen: %s params: %v\r\n", n.Data.Screen, n.Data.Params)
	}
	log.Println(body.String())
}

type consoleServiceMock struct {
	consoleService
}

func NewConsoleServiceMock() core.PushService {
	return &consoleServiceMock{
		consoleService: consoleService{
			subjPrefix:    "[Gradebook] ",
			disableOutput: true,
		},
	}
}

func (svc *consoleServiceMock) Send(notifications ...*core.Notification) {
	for _, n := range notifications {
		// run synchronously
		svc.sendNotification(n)
	}
}
