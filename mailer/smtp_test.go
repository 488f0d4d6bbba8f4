package mailer

import (
	"bytes"
	"context"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/stretchr/testify/assert"
)

func TestNewMsg(t *testing.T) {
	assert := assert.New(t)

	msg, err := newMsg(avatars.Mail{
		From:    "mock@mail.com",
		To:      "mock2@mail.com",
		Subject: "User creation",
		Text:    "User created successfully",
	})
	if !assert.NoError(err) {
		return
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); !assert.NoError(err) {
		return
	}
	raw := buf.String()
	assert.Contains(raw, "From: <mock@mail.com>")
	assert.Contains(raw, "To: <mock2@mail.com>")
	assert.Contains(raw, "Subject: User creation")
	assert.Contains(raw, "User created successfully")
}

func TestNewMsgInvalidAddress(t *testing.T) {
	assert := assert.New(t)

	_, err := newMsg(avatars.Mail{From: "not an address", To: "mock2@mail.com"})
	assert.Error(err)
	_, err = newMsg(avatars.Mail{From: "mock@mail.com", To: ""})
	assert.Error(err)
}

func TestSendUnreachable(t *testing.T) {
	assert := assert.New(t)

	// nothing listens on port 1 of the loopback
	m := &SMTPMailer{Host: "127.0.0.1", Port: 1}
	err := m.Send(context.Background(), avatars.Mail{
		From:    "mock@mail.com",
		To:      "mock2@mail.com",
		Subject: "User creation",
		Text:    "User created successfully",
	})
	assert.Error(err)
}
