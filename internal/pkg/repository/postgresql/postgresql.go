// Package postgresql owns the bun database handle and the helpers shared
// by every repository: claims checks, required-field validation and soft
// deletes.
package postgresql

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/pkg/config"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Database struct {
	*bun.DB
}

func New(cfg *config.Config) *Database {
	pgconn := pgdriver.NewConnector(
		pgdriver.WithAddr(cfg.DBHost+":"+cfg.DBPort),
		pgdriver.WithUser(cfg.DBUsername),
		pgdriver.WithPassword(cfg.DBPassword),
		pgdriver.WithDatabase(cfg.DBName),
		pgdriver.WithInsecure(cfg.DisableTLS),
		pgdriver.WithDialTimeout(5*time.Second),
		pgdriver.WithTimeout(10*time.Second),
	)

	sqldb := sql.OpenDB(pgconn)
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.FromEnv("BUNDEBUG")))

	return &Database{DB: db}
}

// CheckClaims returns the caller's claims, requiring one of roles when any
// are given. Missing claims are a 401, a wrong role is a 403.
func (d Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, err := auth.GetClaims(ctx)
	if err != nil {
		return auth.Claims{}, err
	}

	if !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	return claims, nil
}

// ValidateStruct checks the named required fields of a request struct.
func (d Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	return web.ValidateStruct(s, requiredFields...)
}

// DeleteRow soft-deletes one row, stamping the caller. Callers gate
// ownership before reaching here.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	result, err := d.NewUpdate().
		Table(table).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", claims.UserId).
		Where("id = ? AND deleted_at IS NULL", id).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusInternalServerError)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking delete result"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(errors.New("row not found"), http.StatusNotFound)
	}

	return nil
}
