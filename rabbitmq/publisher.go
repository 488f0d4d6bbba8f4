package rabbitmq

import (
	"context"
	"fmt"

	"github.com/buzkaaclicker/avatars"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const DefaultQueue = "test-queue"

// Channel is the part of *amqp.Channel used by Publisher.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends notifications as persistent text messages to a durable queue
// through the default exchange.
type Publisher struct {
	channel Channel
	queue   amqp.Queue
	closeFn func() error
}

var _ avatars.Publisher = (*Publisher)(nil)

func Dial(url string, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p, err := NewPublisher(channel, queue)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.closeFn = func() error {
		_ = channel.Close()
		return conn.Close()
	}
	return p, nil
}

func NewPublisher(channel Channel, queue string) (*Publisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	q, err := channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &Publisher{channel: channel, queue: q, closeFn: channel.Close}, nil
}

func (p *Publisher) Publish(ctx context.Context, message string) error {
	id := uuid.New().String()
	err := p.channel.PublishWithContext(
		ctx,
		"",           // exchange
		p.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "text/plain",
			MessageId:    id,
			Body:         []byte(message),
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.queue.Name, err)
	}

	logrus.
		WithField("queue", p.queue.Name).
		WithField("message_id", id).
		Debugln("Message published.")
	return nil
}

func (p *Publisher) Close() error {
	return p.closeFn()
}
