package credstore

import (
	"sync"

	"github.com/tharun-r1705/data-frontend-new/core/user"
)

// MemStore keeps the session pair in memory. It backs tests and any runtime
// where persistence across restarts is not wanted.
type MemStore struct {
	mu    sync.Mutex
	set   bool
	token string
	usr   user.User
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Write(token string, usr user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.usr, s.set = token, usr, true
	return nil
}

func (s *MemStore) Read() (string, user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", user.User{}, ErrNoSession
	}
	return s.token, s.usr, nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.usr, s.set = "", user.User{}, false
	return nil
}
