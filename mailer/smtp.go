package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/sirupsen/logrus"
	mail "github.com/wneessen/go-mail"
)

// SMTPMailer sends plain text mails through a single SMTP relay. A new
// connection is dialed for every mail.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	// TLS requires STARTTLS, otherwise it is used when the server offers it.
	TLS     bool
	Timeout time.Duration
}

var _ avatars.Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) Send(ctx context.Context, letter avatars.Mail) error {
	msg, err := newMsg(letter)
	if err != nil {
		return err
	}
	client, err := m.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", letter.To, err)
	}

	logrus.
		WithField("to", letter.To).
		WithField("subject", letter.Subject).
		Debugln("Mail sent.")
	return nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if m.TLS {
		opts[0] = mail.WithTLSPolicy(mail.TLSMandatory)
	}
	if m.Port != 0 {
		opts = append(opts, mail.WithPort(m.Port))
	}
	if m.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.Timeout))
	}
	if m.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.Username),
			mail.WithPassword(m.Password),
		)
	}
	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("new smtp client: %w", err)
	}
	return client, nil
}

func newMsg(m avatars.Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return nil, fmt.Errorf("set from %s: %w", m.From, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("set to %s: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	return msg, nil
}
