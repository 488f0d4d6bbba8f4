package inmem

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/buzkaaclicker/avatars"
)

type UserStore struct {
	lastId int64
	users  map[avatars.UserRegistryId]avatars.User
	mutex  sync.RWMutex
}

var _ avatars.UserStore = (*UserStore)(nil)

func NewUserStore() UserStore {
	return UserStore{
		lastId: 0,
		users:  map[avatars.UserRegistryId]avatars.User{},
		mutex:  sync.RWMutex{},
	}
}

func (s *UserStore) Create(ctx context.Context, u avatars.NewUser) (avatars.User, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.byEmail(u.Email) {
		return avatars.User{}, avatars.ErrEmailTaken
	}

	s.lastId++
	uid := avatars.UserRegistryId(s.lastId)
	user := avatars.User{
		Id:           uid,
		CreatedAt:    time.Now(),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
	}
	s.users[uid] = user
	return user, nil
}

func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.byEmail(email), nil
}

func (s *UserStore) byEmail(email string) bool {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
