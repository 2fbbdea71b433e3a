package entity

import "time"

// BasicEntity carries the id and audit columns shared by every table.
// Deletes are soft: queries filter on deleted_at IS NULL.
type BasicEntity struct {
	ID        int        `json:"id" bun:"id,pk,autoincrement"`
	CreatedAt *time.Time `json:"-" bun:"created_at"`
	CreatedBy *int       `json:"-" bun:"created_by"`
	UpdatedAt *time.Time `json:"-" bun:"updated_at"`
	UpdatedBy *int       `json:"-" bun:"updated_by"`
	DeletedAt *time.Time `json:"-" bun:"deleted_at"`
	DeletedBy *int       `json:"-" bun:"deleted_by"`
}
