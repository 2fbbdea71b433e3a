package entity

import (
	"github.com/uptrace/bun"
)

// WorkLog is one worked (or absence-marked) day for one user.
// total_hours is stored in minutes, start/end as HH:MM strings.
type WorkLog struct {
	bun.BaseModel `bun:"table:work_logs"`

	BasicEntity
	UserID     *int    `json:"user_id"     bun:"user_id"`
	LogDate    *string `json:"date"        bun:"log_date"`
	StartTime  *string `json:"start_time"  bun:"start_time"`
	EndTime    *string `json:"end_time"    bun:"end_time"`
	TotalHours *int    `json:"total_hours" bun:"total_hours"`
	Type       *string `json:"type"        bun:"type"`
}
