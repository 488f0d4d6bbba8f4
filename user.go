package avatars

import (
	"context"
	"errors"
	"time"
)

var ErrEmailTaken = errors.New("email already registered")

type UserRegistryId int64

// User registered locally through the users endpoint. Unrelated to remote
// profiles.
type User struct {
	Id           UserRegistryId
	CreatedAt    time.Time
	Name         string
	Email        string
	PasswordHash []byte
}

type NewUser struct {
	Name         string
	Email        string
	PasswordHash []byte
}

type UserStore interface {
	// Create returns ErrEmailTaken when email is already registered.
	Create(ctx context.Context, u NewUser) (User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
