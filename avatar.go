package avatars

import (
	"context"
	"errors"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrRecordNotFound = errors.New("avatar record not found")
	ErrBlobNotFound   = errors.New("avatar blob not found")
)

// UserId is the opaque identifier of the remote user. It is used as is for
// record keys and blob file names.
type UserId string

// AvatarRecord marks that the avatar of given user has been materialized.
type AvatarRecord struct {
	UserId UserId
}

type AvatarStatus int

const (
	AvatarCreated AvatarStatus = iota + 1
	AvatarExisting
)

// Avatar is a successful result of the get avatar workflow.
type Avatar struct {
	Status AvatarStatus
	// Owner of the returned blob. With the legacy unscoped lookup it may
	// differ from the requested user.
	UserId UserId
	// Standard base64 encoded image.
	Base64 string
}

type AvatarRecordStore interface {
	// Any returns an arbitrary existing record.
	Any(ctx context.Context) (AvatarRecord, error)

	ByUserId(ctx context.Context, userId UserId) (AvatarRecord, error)

	Insert(ctx context.Context, userId UserId) error

	// DeleteByUserId does not report missing records.
	DeleteByUserId(ctx context.Context, userId UserId) error
}

type AvatarBlobStore interface {
	Exists(ctx context.Context, userId UserId) (bool, error)

	Read(ctx context.Context, userId UserId) (string, error)

	// Write downloads image from sourceUrl, stores it and returns its base64 form.
	Write(ctx context.Context, userId UserId, sourceUrl string) (string, error)

	Delete(ctx context.Context, userId UserId) error
}

// ImageDownloader fetches raw image bytes.
type ImageDownloader = func(ctx context.Context, url string) ([]byte, error)
