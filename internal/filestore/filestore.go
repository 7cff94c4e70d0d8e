package filestore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	UsersFile       = "users.txt"
	CurrentUserFile = "current_user.txt"
	separator       = "|"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidField = errors.New(`user fields cannot contain "|" or line breaks`)
)

type User struct {
	Email    string
	Password string
	Name     string
}

// FileStatus describes one store file on disk.
type FileStatus struct {
	Path   string
	Exists bool
	Size   int64
	Err    error
}

func (s FileStatus) Cleared() bool { return s.Exists && s.Size == 0 }

func (s FileStatus) String() string {
	switch {
	case s.Err != nil:
		return fmt.Sprintf("%s: Error reading - %v", s.Path, s.Err)
	case !s.Exists:
		return fmt.Sprintf("%s: Does not exist", s.Path)
	case s.Cleared():
		return fmt.Sprintf("%s: 0 bytes (CLEARED)", s.Path)
	default:
		return fmt.Sprintf("%s: %d bytes", s.Path, s.Size)
	}
}

// Store keeps users in pipe-delimited text files under a directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// LoadUsers reads every well-formed `email|password|name` line. A missing
// file yields no users.
func (s *Store) LoadUsers() ([]User, error) {
	lines, err := readLines(s.path(UsersFile))
	if err != nil {
		return nil, err
	}

	var users []User
	for _, line := range lines {
		parts := strings.Split(line, separator)
		if len(parts) != 3 {
			continue
		}
		users = append(users, User{Email: parts[0], Password: parts[1], Name: parts[2]})
	}
	return users, nil
}

func (s *Store) SaveUsers(users []User) error {
	var b strings.Builder
	for _, u := range users {
		b.WriteString(strings.Join([]string{u.Email, u.Password, u.Name}, separator))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path(UsersFile), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save users file: %w", err)
	}
	return nil
}

// Validate rejects fields that would not survive a round trip through the
// line format.
func (u User) Validate() error {
	for _, field := range []string{u.Email, u.Password, u.Name} {
		if strings.ContainsAny(field, separator+"\r\n") {
			return ErrInvalidField
		}
	}
	return nil
}

// AddUser appends u unless a user with the same email already exists.
func (s *Store) AddUser(u User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	users, err := s.LoadUsers()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrUserExists
		}
	}
	return s.SaveUsers(append(users, u))
}

// FindUser returns the user with the given email, or nil.
func (s *Store) FindUser(email string) (*User, error) {
	users, err := s.LoadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, nil
}

// LoadCurrentUser reads `email|name`; the password is never stored there.
func (s *Store) LoadCurrentUser() (*User, error) {
	lines, err := readLines(s.path(CurrentUserFile))
	if err != nil || len(lines) == 0 {
		return nil, err
	}

	parts := strings.Split(lines[0], separator)
	if len(parts) < 2 {
		return nil, nil
	}
	return &User{Email: parts[0], Name: parts[1]}, nil
}

func (s *Store) SaveCurrentUser(u *User) error {
	if u == nil {
		return s.ClearCurrentUser()
	}
	if err := u.Validate(); err != nil {
		return err
	}
	data := u.Email + separator + u.Name + "\n"
	if err := os.WriteFile(s.path(CurrentUserFile), []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to save current user file: %w", err)
	}
	return nil
}

func (s *Store) ClearCurrentUser() error {
	err := os.Remove(s.path(CurrentUserFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear current user: %w", err)
	}
	return nil
}

// Stat reports on one of the store files.
func (s *Store) Stat(name string) FileStatus {
	return StatPath(s.path(name))
}

func StatPath(path string) FileStatus {
	st := FileStatus{Path: path}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return st
	case err != nil:
		st.Err = err
		return st
	}
	st.Exists = true
	st.Size = info.Size()
	return st
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
