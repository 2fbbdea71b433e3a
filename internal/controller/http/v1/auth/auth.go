package auth

import (
	"fmt"
	"net/http"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/commands"
	"timetrack/backend/internal/repository/postgres/user"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type Controller struct {
	user  User
	redis *redis.Client
}

func NewController(user User, redis *redis.Client) *Controller {
	return &Controller{user: user, redis: redis}
}

func refreshTokenKey(userID int) string {
	return fmt.Sprintf("refresh_token:%d", userID)
}

func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	err := c.BindFunc(&data, "Username", "Password")
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.user.GetByUsername(c.Ctx, data.Username)
	if err != nil {
		return c.RespondError(err)
	}

	if detail.Password == nil {
		return c.RespondError(&web.Error{
			Err:    errors.New("user not found"),
			Status: http.StatusNotFound,
		})
	}

	if err = bcrypt.CompareHashAndPassword([]byte(*detail.Password), []byte(data.Password)); err != nil {
		return c.RespondError(web.NewRequestError(errors.New("incorrect password"), http.StatusUnauthorized))
	}

	accessToken, refreshToken, err := commands.GenToken(user.AuthClaims{
		ID:   detail.ID,
		Role: *detail.Role,
	}, "./private.pem")
	if err != nil {
		return c.RespondError(err)
	}

	// Only one live refresh token per user; sign-in replaces it.
	if err := uc.redis.Set(c.Ctx, refreshTokenKey(detail.ID), refreshToken, commands.RefreshTokenDuration).Err(); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "storing refresh token"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"error": nil,
	}, http.StatusOK)
}

func (uc Controller) RefreshToken(c *web.Context) error {
	var data user.RefreshTokenRequest

	err := c.BindFunc(&data, "AccessToken", "RefreshToken")
	if err != nil {
		return c.RespondError(err)
	}

	_, refreshTokenClaims, err := commands.VerifyTokens(data.AccessToken, data.RefreshToken, "./private.pem")
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	stored, err := uc.redis.Get(c.Ctx, refreshTokenKey(refreshTokenClaims.UserId)).Result()
	if err != nil || stored != data.RefreshToken {
		return c.RespondError(web.NewRequestError(errors.New("refresh token is not recognized"), http.StatusUnauthorized))
	}

	userClaims := user.AuthClaims{
		ID:   refreshTokenClaims.UserId,
		Role: refreshTokenClaims.Role,
	}

	accessToken, refreshToken, err := commands.GenToken(userClaims, "./private.pem")
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating new tokens"), http.StatusInternalServerError))
	}

	// Rotate: the old refresh token stops working immediately.
	if err := uc.redis.Set(c.Ctx, refreshTokenKey(refreshTokenClaims.UserId), refreshToken, commands.RefreshTokenDuration).Err(); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "storing refresh token"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]string{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		},
		"error": nil,
	}, http.StatusOK)
}
