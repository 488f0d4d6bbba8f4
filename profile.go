package avatars

import "context"

// Profile of the remote user. Never persisted.
type Profile struct {
	Id        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarUrl string `json:"avatar"`
}

type ProfileProvider interface {
	// ById returns ErrUserNotFound when the remote service does not know the user.
	ById(ctx context.Context, userId UserId) (Profile, error)
}
