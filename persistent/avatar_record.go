package persistent

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/uptrace/bun"
)

type AvatarRecord struct {
	bun.BaseModel `bun:"table:avatar_record"`

	Id        int64     `bun:",pk,autoincrement"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UserId    string    `bun:",unique,notnull"`
}

func (r AvatarRecord) ToDomain() avatars.AvatarRecord {
	return avatars.AvatarRecord{UserId: avatars.UserId(r.UserId)}
}

type AvatarRecordStore struct {
	DB *bun.DB
}

var _ avatars.AvatarRecordStore = (*AvatarRecordStore)(nil)

func (s *AvatarRecordStore) Any(ctx context.Context) (avatars.AvatarRecord, error) {
	record := new(AvatarRecord)
	err := s.DB.NewSelect().
		Model(record).
		Order("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return avatars.AvatarRecord{}, selectError("select any avatar record", err)
	}
	return record.ToDomain(), nil
}

func (s *AvatarRecordStore) ByUserId(ctx context.Context, userId avatars.UserId) (avatars.AvatarRecord, error) {
	record := new(AvatarRecord)
	err := s.DB.NewSelect().
		Model(record).
		Where("user_id=?", string(userId)).
		Scan(ctx)
	if err != nil {
		return avatars.AvatarRecord{}, selectError("select avatar record", err)
	}
	return record.ToDomain(), nil
}

func (s *AvatarRecordStore) Insert(ctx context.Context, userId avatars.UserId) error {
	_, err := s.DB.NewInsert().
		Model(&AvatarRecord{UserId: string(userId)}).
		Exec(ctx)
	if err != nil {
		return storeError("insert avatar record", err)
	}
	return nil
}

func (s *AvatarRecordStore) DeleteByUserId(ctx context.Context, userId avatars.UserId) error {
	_, err := s.DB.NewDelete().
		Model((*AvatarRecord)(nil)).
		Where("user_id=?", string(userId)).
		Exec(ctx)
	if err != nil {
		return storeError("delete avatar record", err)
	}
	return nil
}

func selectError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return avatars.ErrRecordNotFound
	}
	return storeError(op, err)
}

func storeError(op string, err error) error {
	return &avatars.Error{Kind: avatars.KindStore, Op: op, Err: err}
}
