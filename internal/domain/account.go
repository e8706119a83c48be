package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidCredentials is returned when a username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountType is the role an account plays at the conference.
type AccountType string

const (
	AccountAttendee  AccountType = "attendee"
	AccountSpeaker   AccountType = "speaker"
	AccountOrganizer AccountType = "organizer"
	AccountAdmin     AccountType = "admin"
)

// ParseAccountType maps a case-insensitive name to an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(strings.ToLower(strings.TrimSpace(s))); t {
	case AccountAttendee, AccountSpeaker, AccountOrganizer, AccountAdmin:
		return t, nil
	}
	return "", fmt.Errorf("account type %q: %w", s, ErrInvalidInput)
}

// Account is a registered user. Password material never leaves the server.
// swagger:model Account
type Account struct {
	Username     string      `json:"username"`
	Type         AccountType `json:"type"`
	Email        string      `json:"email,omitempty"`
	PasswordHash string      `json:"-"`
	Salt         string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
}

// NewAccount returns an Account without credentials; callers hash the password separately.
func NewAccount(username string, accountType AccountType, email string, createdAt time.Time) *Account {
	return &Account{
		Username:  username,
		Type:      accountType,
		Email:     email,
		CreatedAt: createdAt,
	}
}

// CanLogin reports whether password credentials were ever set for the account.
// Speakers registered by an import have none.
func (a *Account) CanLogin() bool {
	return a.PasswordHash != ""
}

// Ledger is a per-account map of event id to interval. The availability calendar,
// the speaker hosting list and the organizer's organized list all share this shape.
type Ledger interface {
	// IsFree reports whether iv overlaps no entry, ignoring the entries of the excluded event ids.
	IsFree(iv Interval, exclude ...string) bool
	// Book inserts or replaces the entry for eventID without checking availability.
	Book(eventID string, iv Interval)
	Release(eventID string) bool
	Entry(eventID string) (Interval, bool)
	Entries() []Booking
}

// AccountStore owns accounts and their ledgers. It doubles as the identity
// collaborator the scheduler consults for host eligibility.
type AccountStore interface {
	Create(account *Account) error
	Get(username string) (*Account, error)
	List(accountType AccountType) []*Account
	Count() int
	Calendar(username string) (Ledger, error)
	Hosting(username string) (Ledger, error)
	Organized(username string) (Ledger, error)
	IsSpeaker(username string) bool
	IsOrganizer(username string) bool
	Export() []AccountRecord
	Import(records []AccountRecord) error
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens for an authenticated account.
type TokenIssuer interface {
	Issue(username string, accountType AccountType, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated username.
type TokenVerifier interface {
	Verify(token string) (username string, err error)
}

// ScheduleView is everything an account has committed to.
// swagger:model ScheduleView
type ScheduleView struct {
	Username  string    `json:"username"`
	Calendar  []Booking `json:"calendar"`
	Hosting   []Booking `json:"hosting"`
	Organized []Booking `json:"organized"`
}

// AccountService registers accounts and matches credentials.
type AccountService interface {
	Register(ctx context.Context, username, password, email string) (*Account, error)
	CreateAccount(ctx context.Context, caller, username, password, email string, accountType AccountType) (*Account, error)
	EnsureAdmin(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (token string, account *Account, err error)
	Get(ctx context.Context, username string) (*Account, error)
	Schedule(ctx context.Context, username string) (*ScheduleView, error)
}
