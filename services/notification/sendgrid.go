package notificationsvc

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/PranayN1999/my-gradebook-app/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// sendgridService mirrors notifications to the configured email address,
// for teachers who prefer their inbox over push banners.
type sendgridService struct {
	key        string
	from       *sgmail.Email
	to         *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.PushService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.PushService {
	from := conf.DefaultFromEmail()
	return &sendgridService{
		key:        conf.SendgridApiKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		to:         sgmail.NewEmail("", conf.NotifyEmail),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc sendgridService) Send(notifications ...*core.Notification) {
	for _, n := range notifications {
		n := n
		go svc.send(*n)
	}
}

func (svc sendgridService) prepare(n core.Notification) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + n.Title
	p.AddTos(svc.to)

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", n.Body))
	return m
}

func (svc sendgridService) send(n core.Notification) {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(n))

	res, err := sendgrid.API(req)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending notification email: %v", err), err)
	} else if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error(fmt.Sprintf("sending notification email - status: %d - Body: %s", res.StatusCode, res.Body))
	}
}
