package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
)

// Authenticate validates the bearer token and, when roles are given,
// requires one of them. Claims land in the request context for the
// repositories' CheckClaims.
func Authenticate(a *auth.Auth, role ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {

			// Expecting: Bearer <token>
			authStr := c.Request.Header.Get("authorization")

			parts := strings.Split(authStr, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			if ok := claims.Authorized(role...); !ok {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}

// AuthenticateOptional attaches claims when a valid bearer token is
// present and lets the request through anonymously otherwise. Used for
// account creation, where the first account is created without a token.
func AuthenticateOptional(a *auth.Auth) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {

			authStr := c.Request.Header.Get("authorization")
			if authStr == "" {
				return handler(c)
			}

			parts := strings.Split(authStr, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}
