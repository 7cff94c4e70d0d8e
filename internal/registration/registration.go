package registration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	TypeUserRegistration = "user_registration"

	// TimeLayout is the local, zone-less timestamp stored in registeredAt.
	TimeLayout = "2006-01-02T15:04:05"

	MinPasswordLength = 6
	bcryptCost        = 12
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrNameRequired     = errors.New("name is required")
	ErrInvalidCharacter = errors.New(`email, password and name cannot contain "|" or line breaks`)
)

// reserved are the characters the local user files use as delimiters.
const reserved = "|\r\n"

// Record is a single user registration document.
type Record struct {
	Type         string `bson:"type" json:"type" yaml:"type"`
	Name         string `bson:"name" json:"name" yaml:"name"`
	Email        string `bson:"email" json:"email" yaml:"email"`
	Password     string `bson:"password" json:"password" yaml:"password"`
	RegisteredAt string `bson:"registeredAt" json:"registeredAt" yaml:"registeredAt"`
}

// TestRecord returns the fixed document written by the smoke run.
func TestRecord() Record {
	return Record{
		Type:         TypeUserRegistration,
		Name:         "Test User",
		Email:        "test@example.com",
		Password:     "testpass123",
		RegisteredAt: "2025-10-08T19:00:00",
	}
}

// VerificationRecord returns the registration used by the verify command.
func VerificationRecord(now time.Time) Record {
	return Record{
		Type:         TypeUserRegistration,
		Name:         "Verification User",
		Email:        "verify@example.com",
		Password:     "verify123",
		RegisteredAt: now.Format(TimeLayout),
	}
}

// New validates signup input and builds a registration record.
func New(email, password, name string, now time.Time) (Record, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return Record{}, ErrEmailRequired
	}
	if len(password) < MinPasswordLength {
		return Record{}, ErrPasswordTooShort
	}
	if name == "" {
		return Record{}, ErrNameRequired
	}
	for _, field := range []string{email, password, name} {
		if strings.ContainsAny(field, reserved) {
			return Record{}, ErrInvalidCharacter
		}
	}

	return Record{
		Type:         TypeUserRegistration,
		Name:         name,
		Email:        email,
		Password:     password,
		RegisteredAt: now.Format(TimeLayout),
	}, nil
}

// WithHashedPassword returns a copy of r whose password is a bcrypt hash.
func (r Record) WithHashedPassword() (Record, error) {
	hash, err := HashPassword(r.Password)
	if err != nil {
		return Record{}, err
	}
	r.Password = hash
	return r, nil
}

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// PasswordMatches compares pw with a stored password that may be either a
// bcrypt hash or plain text. Anything bcrypt cannot parse is plain text.
func PasswordMatches(stored, pw string) bool {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return CheckPassword(stored, pw)
	}
	return stored == pw
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
