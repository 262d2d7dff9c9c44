package credstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core/user"
)

// document is the single on-disk payload. Token and user live in one file so
// they can only ever be written, read and removed together.
type document struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// FileStore persists the session pair as a JSON file (mode 0600), surviving
// process restarts. Writes go through a temp file + rename so a concurrent
// reader sees either the previous pair or the new one, never a torn mix.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Write(token string, usr user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(document{Token: token, User: usr})
	if err != nil {
		return errors.Wrap(err, "encoding session document")
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(err, "creating session directory")
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "creating temp session file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // no-op once renamed

	if err = tmp.Chmod(0600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "restricting session file mode")
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing session file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing session file")
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "committing session file")
	}
	return nil
}

func (s *FileStore) Read() (string, user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", user.User{}, ErrNoSession
		}
		return "", user.User{}, errors.Wrap(err, "reading session file")
	}

	var doc document
	if err = json.Unmarshal(data, &doc); err != nil {
		// corrupt state must never propagate
		_ = s.remove()
		return "", user.User{}, ErrNoSession
	}
	if doc.Token == "" || doc.User.ID == "" {
		// half a pair is as bad as garbage
		_ = s.remove()
		return "", user.User{}, ErrNoSession
	}
	return doc.Token, doc.User, nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remove()
}

func (s *FileStore) remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
