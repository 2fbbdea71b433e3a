package worklog

import (
	"context"

	"timetrack/backend/internal/repository/postgres/worklog"
)

type WorkLog interface {
	GetList(ctx context.Context, filter worklog.Filter) ([]worklog.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (worklog.GetDetailByIdResponse, error)
	GetExportList(ctx context.Context, filter worklog.Filter) ([]worklog.ExportRow, error)

	Create(ctx context.Context, request worklog.CreateRequest) (worklog.CreateResponse, error)
	UpdateColumns(ctx context.Context, request worklog.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
