package notificationsvc

import "github.com/PranayN1999/my-gradebook-app/core"

// multiService fans every notification out to all configured channels.
type multiService struct {
	services []core.PushService
}

var _ core.PushService = (*multiService)(nil)

func NewMultiService(services ...core.PushService) core.PushService {
	return &multiService{services: services}
}

func (svc multiService) Send(notifications ...*core.Notification) {
	for _, s := range svc.services {
		s.Send(notifications...)
	}
}
