package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"conferencescheduler/internal/domain"
)

type accountEntry struct {
	account   domain.Account
	calendar  *Calendar
	hosting   *Calendar
	organized *Calendar
}

func newAccountEntry(a domain.Account) *accountEntry {
	return &accountEntry{
		account:   a,
		calendar:  NewCalendar(),
		hosting:   NewCalendar(),
		organized: NewCalendar(),
	}
}

type accountStore struct {
	mu       sync.RWMutex
	accounts map[string]*accountEntry
}

// NewAccountStore returns an empty domain.AccountStore.
func NewAccountStore() domain.AccountStore {
	return &accountStore{accounts: make(map[string]*accountEntry)}
}

func (s *accountStore) Create(a *domain.Account) error {
	if a == nil || strings.TrimSpace(a.Username) == "" {
		return fmt.Errorf("username is required: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[a.Username]; exists {
		return fmt.Errorf("account %q: %w", a.Username, domain.ErrDuplicate)
	}
	s.accounts[a.Username] = newAccountEntry(*a)
	return nil
}

func (s *accountStore) entry(username string) (*accountEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accounts[username]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", username, domain.ErrNotFound)
	}
	return e, nil
}

func (s *accountStore) Get(username string) (*domain.Account, error) {
	e, err := s.entry(username)
	if err != nil {
		return nil, err
	}
	a := e.account
	return &a, nil
}

// List returns accounts of the given type (all types when empty) ordered by username.
func (s *accountStore) List(accountType domain.AccountType) []*domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Account, 0)
	for _, e := range s.accounts {
		if accountType != "" && e.account.Type != accountType {
			continue
		}
		a := e.account
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *accountStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func (s *accountStore) Calendar(username string) (domain.Ledger, error) {
	e, err := s.entry(username)
	if err != nil {
		return nil, err
	}
	return e.calendar, nil
}

func (s *accountStore) Hosting(username string) (domain.Ledger, error) {
	e, err := s.entry(username)
	if err != nil {
		return nil, err
	}
	return e.hosting, nil
}

func (s *accountStore) Organized(username string) (domain.Ledger, error) {
	e, err := s.entry(username)
	if err != nil {
		return nil, err
	}
	return e.organized, nil
}

func (s *accountStore) IsSpeaker(username string) bool {
	return s.isType(username, domain.AccountSpeaker)
}

func (s *accountStore) IsOrganizer(username string) bool {
	return s.isType(username, domain.AccountOrganizer)
}

func (s *accountStore) isType(username string, t domain.AccountType) bool {
	e, err := s.entry(username)
	return err == nil && e.account.Type == t
}

func (s *accountStore) Export() []domain.AccountRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AccountRecord, 0, len(s.accounts))
	for _, e := range s.accounts {
		out = append(out, domain.AccountRecord{
			Account:   e.account,
			Calendar:  e.calendar.Entries(),
			Hosting:   e.hosting.Entries(),
			Organized: e.organized.Entries(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account.Username < out[j].Account.Username })
	return out
}

// Import replaces every account with the given records.
func (s *accountStore) Import(records []domain.AccountRecord) error {
	accounts := make(map[string]*accountEntry, len(records))
	for _, rec := range records {
		if _, dup := accounts[rec.Account.Username]; dup {
			return fmt.Errorf("import account %q: %w", rec.Account.Username, domain.ErrDuplicate)
		}
		e := newAccountEntry(rec.Account)
		e.calendar.load(rec.Calendar)
		e.hosting.load(rec.Hosting)
		e.organized.load(rec.Organized)
		accounts[rec.Account.Username] = e
	}
	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()
	return nil
}
