package persistent

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/buzkaaclicker/avatars"
	"github.com/stretchr/testify/assert"
)

func TestFileBlobStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	image := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'f', 'i', 'f'}
	root := filepath.Join(t.TempDir(), "images")
	store := &FileBlobStore{
		Root: root,
		Download: func(ctx context.Context, url string) ([]byte, error) {
			if url == "https://reqres.in/img/faces/4-image.jpg" {
				return image, nil
			}
			return nil, errors.New("no such host")
		},
	}

	exists, err := store.Exists(ctx, "4")
	if assert.NoError(err) {
		assert.False(exists)
	}
	_, err = store.Read(ctx, "4")
	assert.True(errors.Is(err, avatars.ErrBlobNotFound))
	assert.Equal(avatars.KindNotFound, avatars.KindOf(err))

	_, err = store.Write(ctx, "5", "https://unreachable.local/5.jpg")
	assert.Equal(avatars.KindFetch, avatars.KindOf(err))

	img64, err := store.Write(ctx, "4", "https://reqres.in/img/faces/4-image.jpg")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(base64.StdEncoding.EncodeToString(image), img64)

	onDisk, err := os.ReadFile(filepath.Join(root, "4.jpg"))
	if assert.NoError(err) {
		assert.Equal(image, onDisk)
	}
	entries, err := os.ReadDir(root)
	if assert.NoError(err) {
		assert.Len(entries, 1, "temp files are renamed")
	}

	exists, err = store.Exists(ctx, "4")
	if assert.NoError(err) {
		assert.True(exists)
	}
	read64, err := store.Read(ctx, "4")
	if assert.NoError(err) {
		assert.Equal(img64, read64)
	}

	assert.NoError(store.Delete(ctx, "4"))
	err = store.Delete(ctx, "4")
	assert.Equal(avatars.KindNotFound, avatars.KindOf(err))
}

func TestFileBlobStoreRejectsPaths(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	store := &FileBlobStore{Root: t.TempDir()}
	for _, id := range []avatars.UserId{"", ".", "..", "../4", "a/b", `a\b`} {
		_, err := store.Exists(ctx, id)
		assert.Equal(avatars.KindIO, avatars.KindOf(err), id)
		_, err = store.Read(ctx, id)
		assert.Equal(avatars.KindIO, avatars.KindOf(err), id)
		err = store.Delete(ctx, id)
		assert.Equal(avatars.KindIO, avatars.KindOf(err), id)
	}
}
