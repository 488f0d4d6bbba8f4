package mock

import (
	"context"

	"github.com/buzkaaclicker/avatars"
)

type ProfileProvider struct {
	ByIdFn func(ctx context.Context, userId avatars.UserId) (avatars.Profile, error)
}

func (p ProfileProvider) ById(ctx context.Context, userId avatars.UserId) (avatars.Profile, error) {
	return p.ByIdFn(ctx, userId)
}

type AvatarRecordStore struct {
	AnyFn func(ctx context.Context) (avatars.AvatarRecord, error)

	ByUserIdFn func(ctx context.Context, userId avatars.UserId) (avatars.AvatarRecord, error)

	InsertFn func(ctx context.Context, userId avatars.UserId) error

	DeleteByUserIdFn func(ctx context.Context, userId avatars.UserId) error
}

func (s AvatarRecordStore) Any(ctx context.Context) (avatars.AvatarRecord, error) {
	return s.AnyFn(ctx)
}

func (s AvatarRecordStore) ByUserId(ctx context.Context, userId avatars.UserId) (avatars.AvatarRecord, error) {
	return s.ByUserIdFn(ctx, userId)
}

func (s AvatarRecordStore) Insert(ctx context.Context, userId avatars.UserId) error {
	return s.InsertFn(ctx, userId)
}

func (s AvatarRecordStore) DeleteByUserId(ctx context.Context, userId avatars.UserId) error {
	return s.DeleteByUserIdFn(ctx, userId)
}

type AvatarBlobStore struct {
	ExistsFn func(ctx context.Context, userId avatars.UserId) (bool, error)

	ReadFn func(ctx context.Context, userId avatars.UserId) (string, error)

	WriteFn func(ctx context.Context, userId avatars.UserId, sourceUrl string) (string, error)

	DeleteFn func(ctx context.Context, userId avatars.UserId) error
}

func (s AvatarBlobStore) Exists(ctx context.Context, userId avatars.UserId) (bool, error) {
	return s.ExistsFn(ctx, userId)
}

func (s AvatarBlobStore) Read(ctx context.Context, userId avatars.UserId) (string, error) {
	return s.ReadFn(ctx, userId)
}

func (s AvatarBlobStore) Write(ctx context.Context, userId avatars.UserId, sourceUrl string) (string, error) {
	return s.WriteFn(ctx, userId, sourceUrl)
}

func (s AvatarBlobStore) Delete(ctx context.Context, userId avatars.UserId) error {
	return s.DeleteFn(ctx, userId)
}
