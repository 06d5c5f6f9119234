package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/finplan/backend/src/config"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	config.Cfg = &config.AppConfig{AccessTokenExpiry: time.Minute}
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService("0123456789abcdef0123456789abcdef")

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestAuthService_RejectsForeignSignature(t *testing.T) {
	issuer := NewAuthService("0123456789abcdef0123456789abcdef")
	verifier := NewAuthService("another-secret-another-secret-ab")

	token, err := issuer.GenerateToken("42")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsGarbageToken(t *testing.T) {
	svc := NewAuthService("0123456789abcdef0123456789abcdef")
	_, err := svc.ValidateToken("not-a-jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_HashPassword(t *testing.T) {
	svc := NewAuthService("0123456789abcdef0123456789abcdef")

	hashed, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("hunter22")))
	require.Error(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("wrong")))
}
