package user

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/entity"
	"timetrack/backend/internal/pkg/repository/postgresql"
	"timetrack/backend/internal/repository/postgres"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const qrCodeDir = "statics/qrcode"

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByUsername is the sign-in lookup, so it runs without claims.
func (r Repository) GetByUsername(ctx context.Context, username string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("username = ? AND deleted_at IS NULL", username).Scan(ctx)
	if err != nil {
		return entity.User{}, &web.Error{
			Err:    errors.New("user not found"),
			Status: http.StatusUnauthorized,
		}
	}

	return detail, nil
}

func (r Repository) GetById(ctx context.Context, id int) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting user"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Count reports live accounts. The create path uses it for the one-time
// bootstrap allowance, so it runs without claims.
func (r Repository) Count(ctx context.Context) (int, error) {
	count := 0
	if err := r.QueryRowContext(ctx, "SELECT count(id) FROM users WHERE deleted_at IS NULL").Scan(&count); err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "counting users"), http.StatusInternalServerError)
	}
	return count, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				u.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
		(u.username ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY u.full_name asc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.username,
			u.full_name,
			u.role,
			u.created_at
		FROM users u
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Username,
			&detail.FullName,
			&detail.Role,
			&detail.CreatedAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(u.id)
		FROM users u
			%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.username,
			u.full_name,
			u.role,
			u.created_at
		FROM
		    users u
		WHERE u.deleted_at IS NULL AND u.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.Username,
		&detail.FullName,
		&detail.Role,
		&detail.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user detail"), http.StatusInternalServerError)
	}

	return detail, nil
}

// Create makes a new account. Normally admin-only; when no accounts exist
// yet, an unauthenticated caller may create the first one.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	var createdBy *int
	if count > 0 {
		claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
		if err != nil {
			return CreateResponse{}, err
		}
		createdBy = &claims.UserId
	}

	if err := r.ValidateStruct(&request, "Username", "Password", "FullName"); err != nil {
		return CreateResponse{}, err
	}

	usernameStatus := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
    						CASE WHEN
    						(SELECT id FROM users WHERE username = '%s' AND deleted_at IS NULL) IS NOT NULL
    						THEN true ELSE false END`, *request.Username)).Scan(&usernameStatus); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "username check"), http.StatusInternalServerError)
	}
	if usernameStatus {
		return CreateResponse{}, web.NewRequestError(errors.New("username is used"), http.StatusConflict)
	}

	role := auth.RoleEmployee
	if request.Role != nil {
		role = strings.ToUpper(*request.Role)
	}
	if (role != auth.RoleEmployee) && (role != auth.RoleAdmin) {
		return CreateResponse{}, web.NewRequestError(errors.New("incorrect role. role should be EMPLOYEE or ADMIN"), http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	var response CreateResponse
	response.Role = &role
	response.FullName = request.FullName
	response.Username = request.Username
	response.Password = &hashedPassword
	response.CreatedAt = time.Now()
	response.CreatedBy = createdBy

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusBadRequest)
	}

	response.Password = nil

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Username != nil {
		usernameStatus := true
		if err := r.QueryRowContext(ctx, fmt.Sprintf("SELECT CASE WHEN (SELECT id FROM users WHERE username = '%s' AND deleted_at IS NULL AND id != %d) IS NOT NULL THEN true ELSE false END", *request.Username, request.ID)).Scan(&usernameStatus); err != nil {
			return web.NewRequestError(errors.Wrap(err, "username check"), http.StatusInternalServerError)
		}
		if usernameStatus {
			return web.NewRequestError(errors.New("username is used"), http.StatusConflict)
		}
		q.Set("username = ?", request.Username)
	}

	if request.Role != nil {
		role := strings.ToUpper(*request.Role)
		if (role != auth.RoleEmployee) && (role != auth.RoleAdmin) {
			return web.NewRequestError(errors.New("incorrect role. role should be EMPLOYEE or ADMIN"), http.StatusBadRequest)
		}
		q.Set("role = ?", role)
	}

	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}

	if request.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	result, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusBadRequest)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking update result"), http.StatusInternalServerError)
	}
	if rows == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

// Delete soft-deletes the account and its owned work logs and absences.
func (r Repository) Delete(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.DeleteRow(ctx, "users", id); err != nil {
		return err
	}

	now := time.Now()

	if _, err := r.NewUpdate().
		Table("work_logs").
		Set("deleted_at = ?", now).
		Set("deleted_by = ?", claims.UserId).
		Where("user_id = ? AND deleted_at IS NULL", id).
		Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "deleting user work logs"), http.StatusInternalServerError)
	}

	if _, err := r.NewUpdate().
		Table("absences").
		Set("deleted_at = ?", now).
		Set("deleted_by = ?", claims.UserId).
		Where("user_id = ? AND deleted_at IS NULL", id).
		Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "deleting user absences"), http.StatusInternalServerError)
	}

	return nil
}

// GetQrCode renders the badge QR for one user and returns the image path.
func (r Repository) GetQrCode(ctx context.Context, id int) (string, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return "", err
	}

	detail, err := r.GetById(ctx, id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(qrCodeDir, os.ModePerm); err != nil {
		return "", web.NewRequestError(errors.Wrap(err, "creating qrcode dir"), http.StatusInternalServerError)
	}

	content := fmt.Sprintf("timetrack:user:%d:%s", detail.ID, *detail.Username)
	filePath := filepath.Join(qrCodeDir, fmt.Sprintf("user_%d.png", detail.ID))

	if err := qrcode.WriteFile(content, qrcode.Medium, 256, filePath); err != nil {
		return "", web.NewRequestError(errors.Wrap(err, "writing qrcode"), http.StatusInternalServerError)
	}

	return filePath, nil
}
