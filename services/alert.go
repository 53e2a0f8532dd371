package services

import (
	"context"
	"regexp"

	"VitalsHub/models"
	"VitalsHub/util"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MailTransport delivers composed messages. *gomail.Dialer satisfies it.
type MailTransport interface {
	DialAndSend(m ...*gomail.Message) error
}

type AlertService struct {
	transport MailTransport
	from      string
}

func NewAlertService(transport MailTransport, from string) *AlertService {
	return &AlertService{transport: transport, from: from}
}

// NewSMTPTransport builds the dialer used for outgoing alerts.
func NewSMTPTransport(host string, port int, user, pass string) *gomail.Dialer {
	return gomail.NewDialer(host, port, user, pass)
}

/*
* to, subject and text are mandatory
* to must be a single plain address
* html falls back to text
* One message per call, a transport failure is returned as is
 */
func (s *AlertService) Send(ctx context.Context, alert models.Alert) error {
	if alert.To == "" || alert.Subject == "" || alert.Text == "" {
		return util.ValidationError(util.MISSING_REQUIRED_FIELDS)
	}
	if !emailPattern.MatchString(alert.To) {
		return util.ValidationError(util.INVALID_EMAIL_FORMAT)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	html := alert.HTML
	if html == "" {
		html = alert.Text
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", alert.To)
	m.SetHeader("Subject", alert.Subject)
	m.SetBody("text/plain", alert.Text)
	m.AddAlternative("text/html", html)

	if err := s.transport.DialAndSend(m); err != nil {
		log.Error().Err(err).Str("to", alert.To).Msg("Email sending error")
		return util.TransportError(util.FAILED_TO_SEND_EMAIL, err)
	}
	log.Info().Str("to", alert.To).Msg("alert mail sent")
	return nil
}
