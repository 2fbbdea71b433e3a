package user

import (
	"context"

	"timetrack/backend/internal/repository/postgres/user"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (user.GetDetailByIdResponse, error)
	GetQrCode(ctx context.Context, id int) (string, error)

	Create(ctx context.Context, request user.CreateRequest) (user.CreateResponse, error)
	UpdateColumns(ctx context.Context, request user.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
