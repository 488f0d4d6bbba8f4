package inmem

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"

	"github.com/buzkaaclicker/avatars"
)

var errDuplicateRecord = errors.New("duplicate user id")

// AvatarRecordStore keeps records in insertion order, so Any returns the
// oldest one.
type AvatarRecordStore struct {
	records []avatars.AvatarRecord
	mutex   sync.RWMutex
}

var _ avatars.AvatarRecordStore = (*AvatarRecordStore)(nil)

func NewAvatarRecordStore() AvatarRecordStore {
	return AvatarRecordStore{
		records: make([]avatars.AvatarRecord, 0, 10),
		mutex:   sync.RWMutex{},
	}
}

func (s *AvatarRecordStore) Any(ctx context.Context) (avatars.AvatarRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if len(s.records) == 0 {
		return avatars.AvatarRecord{}, avatars.ErrRecordNotFound
	}
	return s.records[0], nil
}

func (s *AvatarRecordStore) ByUserId(ctx context.Context, userId avatars.UserId) (avatars.AvatarRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if i := s.indexOf(userId); i >= 0 {
		return s.records[i], nil
	}
	return avatars.AvatarRecord{}, avatars.ErrRecordNotFound
}

func (s *AvatarRecordStore) Insert(ctx context.Context, userId avatars.UserId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.indexOf(userId) >= 0 {
		return &avatars.Error{Kind: avatars.KindStore, Op: "insert avatar record", Err: errDuplicateRecord}
	}
	s.records = append(s.records, avatars.AvatarRecord{UserId: userId})
	return nil
}

func (s *AvatarRecordStore) DeleteByUserId(ctx context.Context, userId avatars.UserId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if i := s.indexOf(userId); i >= 0 {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
	return nil
}

// Len returns number of stored records.
func (s *AvatarRecordStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.records)
}

func (s *AvatarRecordStore) indexOf(userId avatars.UserId) int {
	for i, r := range s.records {
		if r.UserId == userId {
			return i
		}
	}
	return -1
}

type AvatarBlobStore struct {
	Download avatars.ImageDownloader

	blobs map[avatars.UserId][]byte
	mutex sync.RWMutex
}

var _ avatars.AvatarBlobStore = (*AvatarBlobStore)(nil)

func NewAvatarBlobStore(download avatars.ImageDownloader) AvatarBlobStore {
	return AvatarBlobStore{
		Download: download,
		blobs:    map[avatars.UserId][]byte{},
		mutex:    sync.RWMutex{},
	}
}

func (s *AvatarBlobStore) Exists(ctx context.Context, userId avatars.UserId) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	_, ok := s.blobs[userId]
	return ok, nil
}

func (s *AvatarBlobStore) Read(ctx context.Context, userId avatars.UserId) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	blob, ok := s.blobs[userId]
	if !ok {
		return "", &avatars.Error{Kind: avatars.KindNotFound, Op: "read avatar blob", Err: avatars.ErrBlobNotFound}
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

func (s *AvatarBlobStore) Write(ctx context.Context, userId avatars.UserId, sourceUrl string) (string, error) {
	image, err := s.Download(ctx, sourceUrl)
	if err != nil {
		return "", &avatars.Error{Kind: avatars.KindFetch, Op: "download avatar", Err: err}
	}

	s.mutex.Lock()
	s.blobs[userId] = image
	s.mutex.Unlock()
	return base64.StdEncoding.EncodeToString(image), nil
}

func (s *AvatarBlobStore) Delete(ctx context.Context, userId avatars.UserId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.blobs[userId]; !ok {
		return &avatars.Error{Kind: avatars.KindNotFound, Op: "delete avatar blob", Err: avatars.ErrBlobNotFound}
	}
	delete(s.blobs, userId)
	return nil
}

// Len returns number of stored blobs.
func (s *AvatarBlobStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.blobs)
}
