package email

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/contact-service/internal/infra/config"
	"github.com/wneessen/go-mail"
)

// SMTPSender delivers plain-text mail through the configured relay. The
// service calls it off the request path; errors here are logged by the
// caller, never surfaced to users.
type SMTPSender struct {
	cfg *config.Config
}

func NewSMTPSender(cfg *config.Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.cfg.MailFromName, s.cfg.MailFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.MailHost,
		mail.WithPort(s.cfg.MailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.MailUsername),
		mail.WithPassword(s.cfg.MailPassword),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}
