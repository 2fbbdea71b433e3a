package entity

import (
	"github.com/uptrace/bun"
)

type Absence struct {
	bun.BaseModel `bun:"table:absences"`

	BasicEntity
	UserID       *int    `json:"user_id"       bun:"user_id"`
	StartDate    *string `json:"start_date"    bun:"start_date"`
	EndDate      *string `json:"end_date"      bun:"end_date"`
	Reason       *string `json:"reason"        bun:"reason"`
	Status       *string `json:"status"        bun:"status"`
	FileUrl      *string `json:"file_url"      bun:"file_url"`
	IsPartial    *bool   `json:"is_partial"    bun:"is_partial"`
	PartialHours *int    `json:"partial_hours" bun:"partial_hours"`
}
