package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"conferencescheduler/internal/domain"
)

type accountService struct {
	accounts    domain.AccountStore
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	tokenExpiry time.Duration
	logger      *slog.Logger
}

// NewAccountService returns an AccountService that hashes with hasher and signs tokens with issuer.
func NewAccountService(
	accounts domain.AccountStore,
	hasher domain.PasswordHasher,
	issuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	logger *slog.Logger,
) domain.AccountService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &accountService{
		accounts:    accounts,
		hasher:      hasher,
		issuer:      issuer,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Register creates an attendee account; anyone may do this.
func (s *accountService) Register(ctx context.Context, username, password, email string) (*domain.Account, error) {
	return s.create(ctx, username, password, email, domain.AccountAttendee)
}

// CreateAccount lets organizers add speakers and attendees, and admins add any type.
func (s *accountService) CreateAccount(ctx context.Context, caller, username, password, email string, accountType domain.AccountType) (*domain.Account, error) {
	c, err := s.accounts.Get(caller)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	switch c.Type {
	case domain.AccountAdmin:
	case domain.AccountOrganizer:
		if accountType != domain.AccountSpeaker && accountType != domain.AccountAttendee {
			return nil, fmt.Errorf("organizers cannot create %s accounts: %w", accountType, domain.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("%s accounts cannot create accounts: %w", c.Type, domain.ErrForbidden)
	}
	return s.create(ctx, username, password, email, accountType)
}

// EnsureAdmin creates the bootstrap admin unless the account already exists.
func (s *accountService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.accounts.Get(username); err == nil {
		return nil
	}
	_, err := s.create(ctx, username, password, "", domain.AccountAdmin)
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return err
	}
	return nil
}

func (s *accountService) create(ctx context.Context, username, password, email string, accountType domain.AccountType) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", domain.ErrInvalidInput)
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := domain.NewAccount(username, accountType, strings.TrimSpace(email), time.Now().UTC())
	account.Salt = salt
	account.PasswordHash = hash
	if err := s.accounts.Create(account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.logger.InfoContext(ctx, "account created", "username", username, "type", accountType)
	return account, nil
}

// Login matches credentials and issues a token carrying the username.
func (s *accountService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	account, err := s.accounts.Get(username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get account: %w", err)
	}
	if !account.CanLogin() {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(account.PasswordHash, account.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(account.Username, account.Type, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, account, nil
}

func (s *accountService) Get(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := s.accounts.Get(username)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// Schedule returns the account's calendar, hosting and organized ledgers.
func (s *accountService) Schedule(ctx context.Context, username string) (*domain.ScheduleView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cal, err := s.accounts.Calendar(username)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	hosting, err := s.accounts.Hosting(username)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	organized, err := s.accounts.Organized(username)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return &domain.ScheduleView{
		Username:  username,
		Calendar:  cal.Entries(),
		Hosting:   hosting.Entries(),
		Organized: organized.Entries(),
	}, nil
}
