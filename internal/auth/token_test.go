package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue("owner-1")
	require.NoError(t, err)

	owner, err := svc.OwnerFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", owner)
}

func TestIssue_EmptyOwner(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).Issue("")
	require.Error(t, err)
}

func TestOwnerFromToken_Rejects(t *testing.T) {
	issuer := NewTokenService("secret", time.Hour)
	token, err := issuer.Issue("owner-1")
	require.NoError(t, err)

	expired := NewTokenService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *TokenService
		token string
	}{
		{"empty", issuer, ""},
		{"garbage", issuer, "not-a-token"},
		{"wrong secret", NewTokenService("other", time.Hour), token},
		{"expired", expired, token},
		{"no subject", issuer, noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.OwnerFromToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestOwnerFromToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "owner-1"},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).OwnerFromToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
