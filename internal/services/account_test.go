package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"conferencescheduler/internal/domain"
	"conferencescheduler/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHasher "hashes" by concatenation so tests can compare without bcrypt.
type fakeHasher struct {
	saltErr error
}

func (f fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (fakeHasher) Hash(salt, password string) (string, error) {
	return salt + ":" + password, nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != salt+":"+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct {
	issued []string
}

func (f *fakeIssuer) Issue(username string, accountType domain.AccountType, _ time.Duration) (string, error) {
	f.issued = append(f.issued, username)
	return "token-" + username + "-" + string(accountType), nil
}

func newAccountFixture(t *testing.T) (domain.AccountStore, *fakeIssuer, domain.AccountService) {
	t.Helper()
	store := memory.NewAccountStore()
	issuer := &fakeIssuer{}
	svc := NewAccountService(store, fakeHasher{}, issuer, time.Hour, nil)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "secret"))
	return store, issuer, svc
}

func TestAccountService_Register(t *testing.T) {
	store, _, svc := newAccountFixture(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, " dave ", "pw", "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, "dave", a.Username)
	assert.Equal(t, domain.AccountAttendee, a.Type)
	assert.Equal(t, "salt:pw", a.PasswordHash)

	_, err = svc.Register(ctx, "dave", "pw", "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = svc.Register(ctx, "", "pw", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Register(ctx, "erin", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 2, store.Count())
}

func TestAccountService_Register_SaltFailure(t *testing.T) {
	svc := NewAccountService(memory.NewAccountStore(), fakeHasher{saltErr: errors.New("no entropy")}, &fakeIssuer{}, time.Hour, nil)
	_, err := svc.Register(context.Background(), "dave", "pw", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no entropy")
}

func TestAccountService_CreateAccount(t *testing.T) {
	_, _, svc := newAccountFixture(t)
	ctx := context.Background()
	_, err := svc.CreateAccount(ctx, "root", "olga", "pw", "", domain.AccountOrganizer)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "dave", "pw", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		caller   string
		username string
		typ      domain.AccountType
		wantErr  error
	}{
		{"admin creates organizer", "root", "oscar", domain.AccountOrganizer, nil},
		{"organizer creates speaker", "olga", "alice", domain.AccountSpeaker, nil},
		{"organizer creates attendee", "olga", "erin", domain.AccountAttendee, nil},
		{"organizer cannot create organizer", "olga", "otto", domain.AccountOrganizer, domain.ErrForbidden},
		{"attendee cannot create", "dave", "frank", domain.AccountAttendee, domain.ErrForbidden},
		{"unknown caller", "nobody", "frank", domain.AccountAttendee, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := svc.CreateAccount(ctx, tt.caller, tt.username, "pw", "", tt.typ)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.typ, a.Type)
		})
	}
}

func TestAccountService_EnsureAdmin(t *testing.T) {
	store, _, svc := newAccountFixture(t)
	require.NoError(t, svc.EnsureAdmin(context.Background(), "root", "other"))
	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	a, err := store.Get("root")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountAdmin, a.Type)
	assert.Equal(t, "salt:secret", a.PasswordHash, "existing admin keeps its password")
	assert.Equal(t, 1, store.Count())
}

func TestAccountService_Login(t *testing.T) {
	store, issuer, svc := newAccountFixture(t)
	ctx := context.Background()
	require.NoError(t, store.Create(domain.NewAccount("imported", domain.AccountSpeaker, "", time.Now())))

	token, a, err := svc.Login(ctx, "root", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-root-admin", token)
	assert.Equal(t, "root", a.Username)
	assert.Equal(t, []string{"root"}, issuer.issued)

	for _, tc := range []struct{ username, password string }{
		{"root", "wrong"},
		{"nobody", "secret"},
		{"imported", ""},
	} {
		_, _, err := svc.Login(ctx, tc.username, tc.password)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, tc.username)
	}
}

func TestAccountService_Schedule(t *testing.T) {
	store, _, svc := newAccountFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "dave", "pw", "")
	require.NoError(t, err)
	cal, _ := store.Calendar("dave")
	cal.Book("T0", may1(9, 0, 10, 0))

	view, err := svc.Schedule(ctx, "dave")
	require.NoError(t, err)
	require.Len(t, view.Calendar, 1)
	assert.Equal(t, "T0", view.Calendar[0].EventID)
	assert.Empty(t, view.Hosting)
	assert.Empty(t, view.Organized)

	_, err = svc.Schedule(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
