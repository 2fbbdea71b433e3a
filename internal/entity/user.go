package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Username *string `json:"username"   bun:"username"`
	Password *string `json:"-"          bun:"password"`
	Role     *string `json:"role"       bun:"role"`
	FullName *string `json:"full_name"  bun:"full_name"`
}
