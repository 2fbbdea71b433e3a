package absence

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	UserID *int
	Status *string
}

type GetListResponse struct {
	ID           int        `json:"id"`
	UserID       *int       `json:"user_id"`
	Username     *string    `json:"username"`
	FullName     *string    `json:"full_name"`
	StartDate    *date.Date `json:"start_date"`
	EndDate      *date.Date `json:"end_date"`
	Reason       *string    `json:"reason"`
	Status       *string    `json:"status"`
	FileUrl      *string    `json:"file_url"`
	IsPartial    *bool      `json:"is_partial"`
	PartialHours *int       `json:"partial_hours"`
}

type GetDetailByIdResponse struct {
	ID           int        `json:"id"`
	UserID       *int       `json:"user_id"`
	Username     *string    `json:"username"`
	FullName     *string    `json:"full_name"`
	StartDate    *date.Date `json:"start_date"`
	EndDate      *date.Date `json:"end_date"`
	Reason       *string    `json:"reason"`
	Status       *string    `json:"status"`
	FileUrl      *string    `json:"file_url"`
	IsPartial    *bool      `json:"is_partial"`
	PartialHours *int       `json:"partial_hours"`
}

type CreateRequest struct {
	UserID       *int    `json:"user_id"       form:"user_id"`
	StartDate    *string `json:"start_date"    form:"start_date"`
	EndDate      *string `json:"end_date"      form:"end_date"`
	Reason       *string `json:"reason"        form:"reason"`
	FileUrl      *string `json:"file_url"      form:"file_url"`
	IsPartial    *bool   `json:"is_partial"    form:"is_partial"`
	PartialHours *int    `json:"partial_hours" form:"partial_hours"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:absences"`

	ID           int       `json:"id" bun:"-"`
	UserID       int       `json:"user_id"       bun:"user_id"`
	StartDate    string    `json:"start_date"    bun:"start_date"`
	EndDate      string    `json:"end_date"      bun:"end_date"`
	Reason       *string   `json:"reason"        bun:"reason"`
	Status       string    `json:"status"        bun:"status"`
	FileUrl      *string   `json:"file_url"      bun:"file_url"`
	IsPartial    bool      `json:"is_partial"    bun:"is_partial"`
	PartialHours *int      `json:"partial_hours" bun:"partial_hours"`
	CreatedAt    time.Time `json:"-"             bun:"created_at"`
	CreatedBy    int       `json:"-"             bun:"created_by"`
}

type UpdateRequest struct {
	ID           int     `json:"id"            form:"id"`
	StartDate    *string `json:"start_date"    form:"start_date"`
	EndDate      *string `json:"end_date"      form:"end_date"`
	Reason       *string `json:"reason"        form:"reason"`
	FileUrl      *string `json:"file_url"      form:"file_url"`
	IsPartial    *bool   `json:"is_partial"    form:"is_partial"`
	PartialHours *int    `json:"partial_hours" form:"partial_hours"`
}

type UpdateStatusRequest struct {
	ID     int     `json:"id"     form:"id"`
	Status *string `json:"status" form:"status"`
}
