package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type User struct {
	bun.BaseModel `bun:"table:app_user"`

	Id           int64     `bun:",pk,autoincrement"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	Name         string    `bun:",notnull"`
	Email        string    `bun:",notnull,unique"`
	PasswordHash []byte    `bun:",notnull"`
}

func (u User) ToDomain() avatars.User {
	return avatars.User{
		Id:           avatars.UserRegistryId(u.Id),
		CreatedAt:    u.CreatedAt,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
}

type UserStore struct {
	DB *bun.DB
}

var _ avatars.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, nu avatars.NewUser) (avatars.User, error) {
	user := &User{
		Name:         nu.Name,
		Email:        strings.ToLower(nu.Email),
		PasswordHash: nu.PasswordHash,
	}
	_, err := s.DB.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return avatars.User{}, avatars.ErrEmailTaken
		}
		return avatars.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user.ToDomain(), nil
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := s.DB.NewSelect().
		Model((*User)(nil)).
		Where("email=?", strings.ToLower(email)).
		Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == "23505"
}
