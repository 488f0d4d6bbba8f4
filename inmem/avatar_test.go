package inmem

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/stretchr/testify/assert"
)

func TestAvatarRecordStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	s := NewAvatarRecordStore()
	_, err := s.Any(ctx)
	assert.Equal(avatars.ErrRecordNotFound, err)
	_, err = s.ByUserId(ctx, "1")
	assert.Equal(avatars.ErrRecordNotFound, err)

	if !assert.NoError(s.Insert(ctx, "1")) || !assert.NoError(s.Insert(ctx, "2")) {
		return
	}
	assert.Equal(avatars.KindStore, avatars.KindOf(s.Insert(ctx, "1")))

	record, err := s.Any(ctx)
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("1"), record.UserId)
	}
	record, err = s.ByUserId(ctx, "2")
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("2"), record.UserId)
	}

	assert.NoError(s.DeleteByUserId(ctx, "1"))
	// deleting absent record is not an error
	assert.NoError(s.DeleteByUserId(ctx, "1"))
	assert.Equal(1, s.Len())

	record, err = s.Any(ctx)
	if assert.NoError(err) {
		assert.Equal(avatars.UserId("2"), record.UserId)
	}
}

func TestAvatarBlobStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	image := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'g'}
	s := NewAvatarBlobStore(func(ctx context.Context, url string) ([]byte, error) {
		if url == "https://reqres.in/img/faces/4-image.jpg" {
			return image, nil
		}
		return nil, errors.New("connection refused")
	})

	exists, err := s.Exists(ctx, "4")
	if assert.NoError(err) {
		assert.False(exists)
	}
	_, err = s.Read(ctx, "4")
	assert.True(errors.Is(err, avatars.ErrBlobNotFound))

	_, err = s.Write(ctx, "5", "https://unreachable.local/5.jpg")
	assert.Equal(avatars.KindFetch, avatars.KindOf(err))

	img64, err := s.Write(ctx, "4", "https://reqres.in/img/faces/4-image.jpg")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(base64.StdEncoding.EncodeToString(image), img64)

	read64, err := s.Read(ctx, "4")
	if assert.NoError(err) {
		assert.Equal(img64, read64)
	}

	assert.NoError(s.Delete(ctx, "4"))
	assert.Equal(avatars.KindNotFound, avatars.KindOf(s.Delete(ctx, "4")))
	assert.Equal(0, s.Len())
}
