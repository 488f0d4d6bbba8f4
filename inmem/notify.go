package inmem

import (
	"context"
	"sync"

	"github.com/buzkaaclicker/avatars"
	"github.com/sirupsen/logrus"
)

// Publisher keeps published messages in memory. Used in tests and when no
// broker is configured.
type Publisher struct {
	messages []string
	mutex    sync.Mutex
}

var _ avatars.Publisher = (*Publisher)(nil)

func (p *Publisher) Publish(ctx context.Context, message string) error {
	p.mutex.Lock()
	p.messages = append(p.messages, message)
	p.mutex.Unlock()

	logrus.WithField("message", message).Debugln("Message published in memory.")
	return nil
}

func (p *Publisher) Messages() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	messages := make([]string, len(p.messages))
	copy(messages, p.messages)
	return messages
}

// Mailer keeps sent mails in memory.
type Mailer struct {
	mails []avatars.Mail
	mutex sync.Mutex
}

var _ avatars.Mailer = (*Mailer)(nil)

func (m *Mailer) Send(ctx context.Context, mail avatars.Mail) error {
	m.mutex.Lock()
	m.mails = append(m.mails, mail)
	m.mutex.Unlock()

	logrus.
		WithField("to", mail.To).
		WithField("subject", mail.Subject).
		Debugln("Mail sent in memory.")
	return nil
}

func (m *Mailer) Sent() []avatars.Mail {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	mails := make([]avatars.Mail, len(m.mails))
	copy(mails, m.mails)
	return mails
}
