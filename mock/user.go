package mock

import (
	"context"

	"github.com/buzkaaclicker/avatars"
)

type UserStore struct {
	CreateFn func(ctx context.Context, u avatars.NewUser) (avatars.User, error)

	ExistsByEmailFn func(ctx context.Context, email string) (bool, error)
}

func (s UserStore) Create(ctx context.Context, u avatars.NewUser) (avatars.User, error) {
	return s.CreateFn(ctx, u)
}

func (s UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.ExistsByEmailFn(ctx, email)
}

type Publisher struct {
	PublishFn func(ctx context.Context, message string) error
}

func (p Publisher) Publish(ctx context.Context, message string) error {
	return p.PublishFn(ctx, message)
}

type Mailer struct {
	SendFn func(ctx context.Context, mail avatars.Mail) error
}

func (m Mailer) Send(ctx context.Context, mail avatars.Mail) error {
	return m.SendFn(ctx, mail)
}
