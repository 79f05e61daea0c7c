// Package redisdb keeps the notification history in redis so it survives
// process restarts.
package redisdb

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/PranayN1999/my-gradebook-app/core"
)

type notificationHistory struct {
	client *redis.Client
	ctx    context.Context
	key    string
	cap    int64
}

var _ core.NotificationHistory = (*notificationHistory)(nil) // interface compliance check

func NewClient(conf *core.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

func NewNotificationHistory(client *redis.Client, conf *core.Config) core.NotificationHistory {
	return &notificationHistory{
		client: client,
		ctx:    context.Background(),
		key:    conf.Redis.HistoryKey,
		cap:    int64(conf.Redis.HistoryCap),
	}
}

// SaveNotification prepends the notification and trims the list to its cap.
func (h *notificationHistory) SaveNotification(n core.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	pipe := h.client.Pipeline()
	pipe.LPush(h.ctx, h.key, data)
	pipe.LTrim(h.ctx, h.key, 0, h.cap-1)
	_, err = pipe.Exec(h.ctx)
	return err
}

func (h *notificationHistory) QueryNotifications() ([]core.Notification, error) {
	items, err := h.client.LRange(h.ctx, h.key, 0, h.cap-1).Result()
	if err != nil {
		return nil, err
	}

	notifications := make([]core.Notification, 0, len(items))
	for _, item := range items {
		var n core.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
