package auth

import (
	"testing"
	"time"

	"conferencescheduler/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_Issue(t *testing.T) {
	secret := "test-secret"
	j := NewJWT(secret)

	token, err := j.Issue("olga", domain.AccountOrganizer, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "olga", claims.Subject)
	assert.Equal(t, domain.AccountOrganizer, claims.Type)
	assert.Equal(t, issuerName, claims.Issuer)
}

func TestJWT_Verify(t *testing.T) {
	j := NewJWT("test-secret")
	good, err := j.Issue("dave", domain.AccountAttendee, time.Hour)
	require.NoError(t, err)
	expired, err := j.Issue("dave", domain.AccountAttendee, -time.Minute)
	require.NoError(t, err)
	foreign, err := NewJWT("other-secret").Issue("dave", domain.AccountAttendee, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuerName, Subject: "dave", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{name: "valid", token: good, want: "dave"},
		{name: "expired", token: expired, wantErr: true},
		{name: "other secret", token: foreign, wantErr: true},
		{name: "unsigned", token: none, wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Verify(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
