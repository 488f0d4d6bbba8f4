package persistent

import (
	"context"
	"strings"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
		return
	}
	assert := assert.New(t)
	ctx := context.Background()

	db := PgOpenTest(ctx)
	defer db.Close()

	store := &UserStore{DB: db}
	prefix := "janet." + uuid.New().String()[:8]
	email := prefix + "@reqres.in"

	exists, err := store.ExistsByEmail(ctx, email)
	if assert.NoError(err) {
		assert.False(exists)
	}

	user, err := store.Create(ctx, avatars.NewUser{
		Name:         "Janet",
		Email:        "Janet." + prefix[len("janet."):] + "@REQRES.in",
		PasswordHash: []byte("$2a$10$hash"),
	})
	if !assert.NoError(err) {
		return
	}
	assert.NotZero(user.Id)
	assert.False(user.CreatedAt.IsZero())
	assert.Equal(email, user.Email)

	exists, err = store.ExistsByEmail(ctx, strings.ToUpper(email))
	if assert.NoError(err) {
		assert.True(exists)
	}

	_, err = store.Create(ctx, avatars.NewUser{Name: "Janet", Email: email, PasswordHash: []byte("x")})
	assert.Equal(avatars.ErrEmailTaken, err)
}
