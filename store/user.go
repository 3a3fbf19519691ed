package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Role is the access level attached to a user and to the active session.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// ErrUserExists is returned when registering a username that is already taken.
var ErrUserExists = errors.New("username already exists")

// User is one credentials record.
type User struct {
	Username string
	Password string
	Role     Role
}

// UserStore persists users as (username, password, role) records in a CSV
// file. Users are append-only; there is no update or delete.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore returns a store backed by the CSV file at path. The file is
// created lazily on the first Add.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// Load reads all user records. A missing file means no users yet, not an
// error.
func (s *UserStore) Load() ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *UserStore) load() ([]User, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	users := make([]User, 0, len(records))
	for _, rec := range records {
		if len(rec) < 3 {
			log.Warn("skipping malformed user record", "fields", len(rec))
			continue
		}
		users = append(users, User{Username: rec[0], Password: rec[1], Role: Role(rec[2])})
	}
	return users, nil
}

// Add appends a new user unless the username is already taken, in which case
// it returns ErrUserExists. The duplicate scan and the append happen under
// one lock so concurrent registrations can't both win.
func (s *UserStore) Add(username, password string, role Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == username {
			return ErrUserExists
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open users file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write([]string{username, password, string(role)}); err != nil {
		return fmt.Errorf("failed to write user record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write user record: %w", err)
	}
	return nil
}

// Check scans for an exact (username, password) match and returns the stored
// role. The second return value is false when no record matches; a wrong
// password and an unknown username are indistinguishable.
func (s *UserStore) Check(username, password string) (Role, bool, error) {
	users, err := s.Load()
	if err != nil {
		return "", false, err
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			return u.Role, true, nil
		}
	}
	return "", false, nil
}

// Exists reports whether the backing file is present yet.
func (s *UserStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
