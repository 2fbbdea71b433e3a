package commands

import (
	"crypto/rsa"
	"os"
	"time"

	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/repository/postgres/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	AccessTokenDuration  = 12 * time.Hour
	RefreshTokenDuration = 7 * 24 * time.Hour
)

func loadPrivateKey(privateKeyPath string) (*rsa.PrivateKey, error) {
	pem, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading private key")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}

	return key, nil
}

// GenToken issues an access/refresh token pair for the signed-in user.
func GenToken(claims user.AuthClaims, privateKeyPath string) (string, string, error) {
	key, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return "", "", err
	}

	now := time.Now()

	accessClaims := auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(AccessTokenDuration).Unix(),
		},
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   auth.TokenTypeAccess,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, accessClaims).SignedString(key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshClaims := auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(RefreshTokenDuration).Unix(),
		},
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   auth.TokenTypeRefresh,
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, refreshClaims).SignedString(key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens checks a token pair for the refresh flow. The access token
// may be expired, the refresh token may not, and both must belong to the
// same user.
func VerifyTokens(accessToken, refreshToken, privateKeyPath string) (*auth.Claims, *auth.Claims, error) {
	key, err := loadPrivateKey(privateKeyPath)
	if err != nil {
		return nil, nil, err
	}

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return &key.PublicKey, nil
	}

	var accessClaims auth.Claims
	if _, err := jwt.ParseWithClaims(accessToken, &accessClaims, keyFunc); err != nil {
		ve, ok := err.(*jwt.ValidationError)
		if !ok || ve.Errors != jwt.ValidationErrorExpired {
			return nil, nil, errors.Wrap(err, "parsing access token")
		}
	}
	if accessClaims.Type != auth.TokenTypeAccess {
		return nil, nil, errors.New("not an access token")
	}

	var refreshClaims auth.Claims
	token, err := jwt.ParseWithClaims(refreshToken, &refreshClaims, keyFunc)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing refresh token")
	}
	if !token.Valid {
		return nil, nil, errors.New("invalid refresh token")
	}
	if refreshClaims.Type != auth.TokenTypeRefresh {
		return nil, nil, errors.New("not a refresh token")
	}

	if accessClaims.UserId != refreshClaims.UserId {
		return nil, nil, errors.New("token pair mismatch")
	}

	return &accessClaims, &refreshClaims, nil
}
