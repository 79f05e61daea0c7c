package notificationsvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PranayN1999/my-gradebook-app/core"
)

// expoService delivers notifications through Expo's push API
// (https://docs.expo.dev/push-notifications/sending-notifications/).
type expoService struct {
	url         string
	accessToken string
	pushTokens  []string
	client      *http.Client
	logger      core.Logger
}

var _ core.PushService = (*expoService)(nil)

func NewExpoService(conf *core.Config, logger core.Logger) core.PushService {
	return &expoService{
		url:         conf.Expo.PushURL,
		accessToken: conf.Expo.AccessToken,
		pushTokens:  conf.Expo.PushTokens,
		client:      &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

type expoPushMessage struct {
	To    []string    `json:"to"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Data  interface{} `json:"data,omitempty"`
}

func (svc expoService) Send(notifications ...*core.Notification) {
	for _, n := range notifications {
		n := n
		go svc.send(*n)
	}
}

func (svc expoService) send(n core.Notification) {
	if len(svc.pushTokens) == 0 {
		svc.logger.Warn("no expo push tokens configured; dropping notification")
		return
	}

	msg := expoPushMessage{
		To:    svc.pushTokens,
		Title: n.Title,
		Body:  n.Body,
	}
	if n.Data != nil {
		msg.Data = n.Data
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("marshalling push message: %v", err), err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, svc.url, bytes.NewReader(payload))
	if err != nil {
		svc.logger.Error(fmt.Sprintf("building push request: %v", err), err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if svc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+svc.accessToken)
	}

	res, err := svc.client.Do(req)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending push notification: %v", err), err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error(fmt.Sprintf("sending push notification - status: %d", res.StatusCode))
	}
}
