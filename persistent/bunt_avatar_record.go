package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/buzkaaclicker/avatars"
	"github.com/tidwall/buntdb"
)

// BuntAvatarRecord is the JSON document kept under "avatar_record:{userId}".
type BuntAvatarRecord struct {
	UserId    string `json:"userId"`
	CreatedAt int64  `json:"createdAt"`
}

func (r BuntAvatarRecord) ToDomain() avatars.AvatarRecord {
	return avatars.AvatarRecord{UserId: avatars.UserId(r.UserId)}
}

// BuntAvatarRecordStore keeps avatar records in buntdb. Records are ordered
// by insertion time through the "avatar_records" index.
type BuntAvatarRecordStore struct {
	// first field keeps 64-bit alignment for atomic access
	lastCreatedAt int64

	Buntdb *buntdb.DB
}

var _ avatars.AvatarRecordStore = (*BuntAvatarRecordStore)(nil)

func (s *BuntAvatarRecordStore) CreateIndexes() error {
	err := s.Buntdb.CreateIndex("avatar_records", "avatar_record:*", buntdb.IndexJSON("createdAt"))
	if err != nil && !errors.Is(err, buntdb.ErrIndexExists) {
		return fmt.Errorf("create avatar_records index: %w", err)
	}
	return nil
}

func (s *BuntAvatarRecordStore) Any(ctx context.Context) (avatars.AvatarRecord, error) {
	var record BuntAvatarRecord
	found := false
	var decodeErr error
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		return tx.Ascend("avatar_records", func(key, value string) bool {
			decodeErr = json.Unmarshal([]byte(value), &record)
			found = true
			return false
		})
	})
	if err != nil {
		return avatars.AvatarRecord{}, storeError("ascend avatar records", err)
	}
	if decodeErr != nil {
		return avatars.AvatarRecord{}, storeError("deserialize avatar record", decodeErr)
	}
	if !found {
		return avatars.AvatarRecord{}, avatars.ErrRecordNotFound
	}
	return record.ToDomain(), nil
}

func (s *BuntAvatarRecordStore) ByUserId(ctx context.Context, userId avatars.UserId) (avatars.AvatarRecord, error) {
	var record BuntAvatarRecord
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		serialized, err := tx.Get(recordKey(userId))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(serialized), &record); err != nil {
			return fmt.Errorf("deserialize avatar record: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return avatars.AvatarRecord{}, avatars.ErrRecordNotFound
		}
		return avatars.AvatarRecord{}, storeError("get avatar record", err)
	}
	return record.ToDomain(), nil
}

func (s *BuntAvatarRecordStore) Insert(ctx context.Context, userId avatars.UserId) error {
	serialized, err := json.Marshal(BuntAvatarRecord{
		UserId:    string(userId),
		CreatedAt: s.nextCreatedAt(),
	})
	if err != nil {
		return storeError("serialize avatar record", err)
	}

	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		key := recordKey(userId)
		_, err := tx.Get(key)
		switch {
		case err == nil:
			return fmt.Errorf("avatar record of user '%s' already exists", userId)
		case !errors.Is(err, buntdb.ErrNotFound):
			return fmt.Errorf("get avatar record: %w", err)
		}
		_, _, err = tx.Set(key, string(serialized), nil)
		return err
	})
	if err != nil {
		return storeError("insert avatar record", err)
	}
	return nil
}

func (s *BuntAvatarRecordStore) DeleteByUserId(ctx context.Context, userId avatars.UserId) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete(recordKey(userId))
		return err
	})
	if err != nil && !errors.Is(err, buntdb.ErrNotFound) {
		return storeError("delete avatar record", err)
	}
	return nil
}

// nextCreatedAt returns strictly increasing unix nanos so two inserts within
// the same clock tick keep their order in the index.
func (s *BuntAvatarRecordStore) nextCreatedAt() int64 {
	for {
		last := atomic.LoadInt64(&s.lastCreatedAt)
		next := time.Now().UnixNano()
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapInt64(&s.lastCreatedAt, last, next) {
			return next
		}
	}
}

func recordKey(userId avatars.UserId) string {
	return "avatar_record:" + string(userId)
}
