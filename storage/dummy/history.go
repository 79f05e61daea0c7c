package dummydb

import (
	"github.com/PranayN1999/my-gradebook-app/core"
)

type notificationHistory struct {
	db *historyTable
}

var _ core.NotificationHistory = (*notificationHistory)(nil) // interface compliance check

func NewNotificationHistory(db *DB) core.NotificationHistory {
	return &notificationHistory{db: db.history}
}

func (h *notificationHistory) SaveNotification(n core.Notification) error {
	h.db.Lock()
	defer h.db.Unlock()

	// newest first
	h.db.table = append([]core.Notification{n}, h.db.table...)
	return nil
}

func (h *notificationHistory) QueryNotifications() ([]core.Notification, error) {
	h.db.RLock()
	defer h.db.RUnlock()

	notifications := make([]core.Notification, len(h.db.table))
	copy(notifications, h.db.table)
	return notifications, nil
}
