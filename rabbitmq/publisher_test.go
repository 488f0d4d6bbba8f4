package rabbitmq

import (
	"context"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type declaredQueue struct {
	name    string
	durable bool
}

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type recordingChannel struct {
	declared   []declaredQueue
	published  []publishedMessage
	publishErr error
	closed     bool
}

func (c *recordingChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, declaredQueue{name: name, durable: durable})
	return amqp.Queue{Name: name}, nil
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.publishErr != nil {
		return c.publishErr
	}
	c.published = append(c.published, publishedMessage{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisher(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	channel := &recordingChannel{}
	p, err := NewPublisher(channel, "")
	if !assert.NoError(err) {
		return
	}
	assert.Equal([]declaredQueue{{name: DefaultQueue, durable: true}}, channel.declared)

	assert.NoError(p.Publish(ctx, "User created successfully with email george.bluth@reqres.in"))
	assert.NoError(p.Publish(ctx, "User already exists with email george.bluth@reqres.in"))
	if !assert.Len(channel.published, 2) {
		return
	}

	first := channel.published[0]
	assert.Equal("", first.exchange)
	assert.Equal(DefaultQueue, first.key)
	assert.Equal("text/plain", first.msg.ContentType)
	assert.Equal(amqp.Persistent, first.msg.DeliveryMode)
	assert.Equal("User created successfully with email george.bluth@reqres.in", string(first.msg.Body))
	assert.NotEmpty(first.msg.MessageId)
	assert.NotEqual(first.msg.MessageId, channel.published[1].msg.MessageId)

	channel.publishErr = amqp.ErrClosed
	err = p.Publish(ctx, "lost")
	assert.True(errors.Is(err, amqp.ErrClosed))

	assert.NoError(p.Close())
	assert.True(channel.closed)
}
