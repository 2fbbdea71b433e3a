package auth

import (
	"context"

	"timetrack/backend/internal/entity"
)

type User interface {
	GetByUsername(ctx context.Context, username string) (entity.User, error)
}
