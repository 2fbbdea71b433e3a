package worklog

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit     *int
	Offset    *int
	Page      *int
	UserID    *int
	StartDate *string
	EndDate   *string
}

type GetListResponse struct {
	ID         int        `json:"id"`
	UserID     *int       `json:"user_id"`
	Username   *string    `json:"username"`
	FullName   *string    `json:"full_name"`
	Date       *date.Date `json:"date"`
	StartTime  *string    `json:"start_time"`
	EndTime    *string    `json:"end_time"`
	TotalHours *int       `json:"total_hours"`
	Type       *string    `json:"type"`
}

type GetDetailByIdResponse struct {
	ID         int        `json:"id"`
	UserID     *int       `json:"user_id"`
	Username   *string    `json:"username"`
	FullName   *string    `json:"full_name"`
	Date       *date.Date `json:"date"`
	StartTime  *string    `json:"start_time"`
	EndTime    *string    `json:"end_time"`
	TotalHours *int       `json:"total_hours"`
	Type       *string    `json:"type"`
}

type CreateRequest struct {
	UserID    *int    `json:"user_id"    form:"user_id"`
	Date      *string `json:"date"       form:"date"`
	StartTime *string `json:"start_time" form:"start_time"`
	EndTime   *string `json:"end_time"   form:"end_time"`
	Type      *string `json:"type"       form:"type"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:work_logs"`

	ID         int       `json:"id" bun:"-"`
	UserID     int       `json:"user_id"     bun:"user_id"`
	LogDate    string    `json:"date"        bun:"log_date"`
	StartTime  *string   `json:"start_time"  bun:"start_time"`
	EndTime    *string   `json:"end_time"    bun:"end_time"`
	TotalHours int       `json:"total_hours" bun:"total_hours"`
	Type       string    `json:"type"        bun:"type"`
	CreatedAt  time.Time `json:"-"           bun:"created_at"`
	CreatedBy  int       `json:"-"           bun:"created_by"`
}

type UpdateRequest struct {
	ID        int     `json:"id"         form:"id"`
	UserID    *int    `json:"user_id"    form:"user_id"`
	Date      *string `json:"date"       form:"date"`
	StartTime *string `json:"start_time" form:"start_time"`
	EndTime   *string `json:"end_time"   form:"end_time"`
	Type      *string `json:"type"       form:"type"`
}

type ExportRow struct {
	Username   string
	FullName   string
	Date       string
	StartTime  string
	EndTime    string
	TotalHours int
	Type       string
}
