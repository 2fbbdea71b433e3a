package absence

import (
	"context"

	"timetrack/backend/internal/repository/postgres/absence"
)

type Absence interface {
	GetList(ctx context.Context, filter absence.Filter) ([]absence.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (absence.GetDetailByIdResponse, error)

	Create(ctx context.Context, request absence.CreateRequest) (absence.CreateResponse, error)
	UpdateColumns(ctx context.Context, request absence.UpdateRequest) error
	UpdateStatus(ctx context.Context, request absence.UpdateStatusRequest) error
	Delete(ctx context.Context, id int) error
}
