package avatars

import "context"

// Publisher sends plain text notifications to the message queue.
type Publisher interface {
	Publish(ctx context.Context, message string) error
}

type Mail struct {
	From    string
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}
