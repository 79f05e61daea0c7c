package core

import (
	"time"

	"github.com/google/uuid"
)

// Screen identifiers for navigation payloads.
const (
	ScreenStudentDetails = "StudentDetails"
)

type (
	// NavData points the mobile client at a screen when a notification is tapped.
	NavData struct {
		Screen string            `json:"screen"`
		Params map[string]string `json:"params,omitempty"`
	}

	// Notification is a transient value object handed to the push service;
	// the core does not await confirmation of display.
	Notification struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Body      string    `json:"body"`
		Data      *NavData  `json:"data,omitempty"`
		CreatedAt time.Time `json:"created_at"` // UTC
	}

	// PushService is any service that can deliver notifications.
	PushService interface {
		// Send delivers notifications concurrently; fire-and-forget.
		Send(notifications ...*Notification)
	}

	// NotificationHistory retains delivered notifications for display.
	NotificationHistory interface {
		SaveNotification(n Notification) error
		// QueryNotifications returns retained notifications, newest first.
		QueryNotifications() ([]Notification, error)
	}
)

func NewNotification(title, body string, data *NavData) *Notification {
	return &Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
}
