package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestKey generates a throwaway RSA key and writes it as PEM.
func writeTestKey(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "private.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	return path, key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthorized(t *testing.T) {
	admin := Claims{Role: RoleAdmin}
	employee := Claims{Role: RoleEmployee}

	assert.True(t, admin.Authorized(), "empty role list means any authenticated caller")
	assert.True(t, employee.Authorized())
	assert.True(t, admin.Authorized(RoleAdmin))
	assert.True(t, employee.Authorized(RoleAdmin, RoleEmployee))
	assert.False(t, employee.Authorized(RoleAdmin))
}

func TestValidateToken(t *testing.T) {
	path, key := writeTestKey(t)

	a, err := New(path)
	require.NoError(t, err)

	token := signToken(t, key, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		UserId:         7,
		Role:           RoleEmployee,
		Type:           TokenTypeAccess,
	})

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserId)
	assert.Equal(t, RoleEmployee, claims.Role)
}

func TestValidateToken_RejectsRefreshToken(t *testing.T) {
	path, key := writeTestKey(t)

	a, err := New(path)
	require.NoError(t, err)

	token := signToken(t, key, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		UserId:         7,
		Type:           TokenTypeRefresh,
	})

	_, err = a.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	path, key := writeTestKey(t)

	a, err := New(path)
	require.NoError(t, err)

	token := signToken(t, key, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
		UserId:         7,
		Type:           TokenTypeAccess,
	})

	_, err = a.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_RejectsWrongKey(t *testing.T) {
	path, _ := writeTestKey(t)
	_, otherKey := writeTestKey(t)

	a, err := New(path)
	require.NoError(t, err)

	token := signToken(t, otherKey, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Type:           TokenTypeAccess,
	})

	_, err = a.ValidateToken(token)
	require.Error(t, err)
}

func TestGetClaims(t *testing.T) {
	_, err := GetClaims(context.Background())
	require.Error(t, err, "missing claims must be rejected")

	want := Claims{UserId: 3, Role: RoleAdmin}
	ctx := context.WithValue(context.Background(), Key, want)

	got, err := GetClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
