// Package auth validates bearer tokens and carries the caller's identity
// through the request context.
package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"os"

	"timetrack/backend/foundation/web"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ctxKey keeps the context value private to this package.
type ctxKey int

// Key is where the authenticated Claims live in the request context.
const Key ctxKey = 1

type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
}

// Authorized reports whether the claims' role is one of roles. An empty
// role list means any authenticated caller.
func (c Claims) Authorized(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// Auth validates tokens signed with the service's RSA key.
type Auth struct {
	key *rsa.PrivateKey
}

// New loads the RSA private key used both to sign and to validate tokens.
func New(privateKeyPath string) (*Auth, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return &Auth{key: key}, nil
}

// ValidateToken parses and verifies an access token.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &a.key.PublicKey, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if claims.Type != TokenTypeAccess {
		return Claims{}, errors.New("not an access token")
	}

	return claims, nil
}

// GetClaims pulls the authenticated claims out of the request context.
func GetClaims(ctx context.Context) (Claims, error) {
	claims, ok := ctx.Value(Key).(Claims)
	if !ok {
		return Claims{}, web.NewRequestError(errors.New("authentication required"), http.StatusUnauthorized)
	}
	return claims, nil
}
