package commands

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/repository/postgres/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestKey(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "private.pem")
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	return path
}

func TestGenTokenAndVerifyTokens(t *testing.T) {
	path := writeTestKey(t)

	access, refresh, err := GenToken(user.AuthClaims{ID: 5, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	accessClaims, refreshClaims, err := VerifyTokens(access, refresh, path)
	require.NoError(t, err)

	assert.Equal(t, 5, accessClaims.UserId)
	assert.Equal(t, auth.RoleEmployee, accessClaims.Role)
	assert.Equal(t, auth.TokenTypeAccess, accessClaims.Type)

	assert.Equal(t, 5, refreshClaims.UserId)
	assert.Equal(t, auth.TokenTypeRefresh, refreshClaims.Type)
}

func TestVerifyTokens_SwappedPair(t *testing.T) {
	path := writeTestKey(t)

	access, refresh, err := GenToken(user.AuthClaims{ID: 5, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)

	// Access token in the refresh slot must be rejected.
	_, _, err = VerifyTokens(access, access, path)
	require.Error(t, err)

	// Refresh token in the access slot must be rejected.
	_, _, err = VerifyTokens(refresh, refresh, path)
	require.Error(t, err)
}

func TestVerifyTokens_MismatchedUsers(t *testing.T) {
	path := writeTestKey(t)

	access, _, err := GenToken(user.AuthClaims{ID: 5, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)

	_, refresh, err := GenToken(user.AuthClaims{ID: 6, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)

	_, _, err = VerifyTokens(access, refresh, path)
	require.Error(t, err)
}

func TestVerifyTokens_WrongKey(t *testing.T) {
	path := writeTestKey(t)
	otherPath := writeTestKey(t)

	access, refresh, err := GenToken(user.AuthClaims{ID: 5, Role: auth.RoleEmployee}, path)
	require.NoError(t, err)

	_, _, err = VerifyTokens(access, refresh, otherPath)
	require.Error(t, err)
}
