package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type SignInRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type AuthClaims struct {
	ID   int
	Role string
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID        int        `json:"id"`
	Username  *string    `json:"username"`
	FullName  *string    `json:"full_name"`
	Role      *string    `json:"role"`
	CreatedAt *time.Time `json:"created_at"`
}

type GetDetailByIdResponse struct {
	ID        int        `json:"id"`
	Username  *string    `json:"username"`
	FullName  *string    `json:"full_name"`
	Role      *string    `json:"role"`
	CreatedAt *time.Time `json:"created_at"`
}

type CreateRequest struct {
	Username *string `json:"username"  form:"username"`
	Password *string `json:"password"  form:"password"`
	Role     *string `json:"role"      form:"role"`
	FullName *string `json:"full_name" form:"full_name"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID        int       `json:"id" bun:"-"`
	Username  *string   `json:"username"  bun:"username"`
	Password  *string   `json:"-"         bun:"password"`
	Role      *string   `json:"role"      bun:"role"`
	FullName  *string   `json:"full_name" bun:"full_name"`
	CreatedAt time.Time `json:"-"         bun:"created_at"`
	CreatedBy *int      `json:"-"         bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id"        form:"id"`
	Username *string `json:"username"  form:"username"`
	Password *string `json:"password"  form:"password"`
	Role     *string `json:"role"      form:"role"`
	FullName *string `json:"full_name" form:"full_name"`
}
