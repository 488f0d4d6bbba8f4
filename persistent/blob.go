package persistent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buzkaaclicker/avatars"
)

// FileBlobStore keeps avatar images as "{userId}.jpg" files in Root.
type FileBlobStore struct {
	Root     string
	Download avatars.ImageDownloader
}

var _ avatars.AvatarBlobStore = (*FileBlobStore)(nil)

func (s *FileBlobStore) Exists(ctx context.Context, userId avatars.UserId) (bool, error) {
	path, err := s.path(userId)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, ioError("stat avatar file", err)
	}
}

func (s *FileBlobStore) Read(ctx context.Context, userId avatars.UserId) (string, error) {
	path, err := s.path(userId)
	if err != nil {
		return "", err
	}
	image, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", notFoundError("read avatar file", path)
		}
		return "", ioError("read avatar file", err)
	}
	return base64.StdEncoding.EncodeToString(image), nil
}

func (s *FileBlobStore) Write(ctx context.Context, userId avatars.UserId, sourceUrl string) (string, error) {
	path, err := s.path(userId)
	if err != nil {
		return "", err
	}
	image, err := s.Download(ctx, sourceUrl)
	if err != nil {
		if avatars.KindOf(err) == avatars.KindFetch {
			return "", err
		}
		return "", &avatars.Error{Kind: avatars.KindFetch, Op: "download avatar", Err: err}
	}

	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return "", ioError("create avatar dir", err)
	}
	tmp, err := os.CreateTemp(s.Root, ".avatar-*")
	if err != nil {
		return "", ioError("create temp avatar file", err)
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(image)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", ioError("write temp avatar file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", ioError("rename avatar file", err)
	}
	return base64.StdEncoding.EncodeToString(image), nil
}

func (s *FileBlobStore) Delete(ctx context.Context, userId avatars.UserId) error {
	path, err := s.path(userId)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFoundError("remove avatar file", path)
		}
		return ioError("remove avatar file", err)
	}
	return nil
}

// path rejects user ids that are not a single path element.
func (s *FileBlobStore) path(userId avatars.UserId) (string, error) {
	name := string(userId)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ioError("resolve avatar file", fmt.Errorf("invalid user id '%s'", name))
	}
	return filepath.Join(s.Root, name+".jpg"), nil
}

func ioError(op string, err error) error {
	return &avatars.Error{Kind: avatars.KindIO, Op: op, Err: err}
}

func notFoundError(op string, path string) error {
	return &avatars.Error{
		Kind: avatars.KindNotFound,
		Op:   op,
		Err:  fmt.Errorf("%w: %s", avatars.ErrBlobNotFound, path),
	}
}
