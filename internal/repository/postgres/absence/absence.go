package absence

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/auth"
	"timetrack/backend/internal/entity"
	"timetrack/backend/internal/pkg/repository/postgresql"
	"timetrack/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// rangesOverlap reports whether [newStart, newEnd] touches [exStart, exEnd].
// Boundaries are inclusive: sharing a single day counts as an overlap.
func rangesOverlap(newStart, newEnd, exStart, exEnd time.Time) bool {
	if (newStart.Equal(exStart) || newStart.After(exStart)) && (newStart.Equal(exEnd) || newStart.Before(exEnd)) {
		return true
	}
	if (newEnd.Equal(exStart) || newEnd.After(exStart)) && (newEnd.Equal(exEnd) || newEnd.Before(exEnd)) {
		return true
	}
	if (newStart.Equal(exStart) || newStart.Before(exStart)) && (newEnd.Equal(exEnd) || newEnd.After(exEnd)) {
		return true
	}
	return false
}

func validStatus(status string) bool {
	return status == StatusPending || status == StatusApproved || status == StatusRejected
}

// canMutate reports whether the caller may change an absence request.
// Admins always may; the owner only while the request is still pending.
func canMutate(claims auth.Claims, ownerID int, status string) bool {
	if claims.Role == auth.RoleAdmin {
		return true
	}
	return claims.UserId == ownerID && status == StatusPending
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Absence, error) {
	var detail entity.Absence

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Absence{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Absence{}, web.NewRequestError(errors.Wrap(err, "selecting absence"), http.StatusInternalServerError)
	}

	return detail, nil
}

// checkOverlap rejects a date range that touches any live request of the
// same user, whatever its status. excludeID skips the row being updated.
func (r Repository) checkOverlap(ctx context.Context, userID int, startDate, endDate time.Time, excludeID int) error {
	query := fmt.Sprintf(`
		SELECT start_date, end_date FROM absences
		WHERE user_id = %d AND id != %d AND deleted_at IS NULL
	`, userID, excludeID)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "overlap check"), http.StatusInternalServerError)
	}

	for rows.Next() {
		var exStartString, exEndString string
		if err = rows.Scan(&exStartString, &exEndString); err != nil {
			return web.NewRequestError(errors.Wrap(err, "scanning overlap row"), http.StatusInternalServerError)
		}

		exStart, err := time.Parse("2006-01-02", exStartString)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing existing start_date"), http.StatusInternalServerError)
		}
		exEnd, err := time.Parse("2006-01-02", exEndString)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing existing end_date"), http.StatusInternalServerError)
		}

		if rangesOverlap(startDate, endDate, exStart, exEnd) {
			rows.Close()
			return web.NewRequestError(errors.New("an absence request already exists for this period"), http.StatusConflict)
		}
	}

	return nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Employees only ever see their own requests, whatever filter they send.
	if claims.Role != auth.RoleAdmin {
		filter.UserID = &claims.UserId
	}

	whereQuery := `
			WHERE
				a.deleted_at IS NULL
			`

	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(` AND a.user_id = %d`, *filter.UserID)
	}

	if filter.Status != nil {
		if !validStatus(*filter.Status) {
			return nil, 0, web.NewRequestError(errors.New("incorrect status. status should be pending, approved or rejected"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(` AND a.status = '%s'`, *filter.Status)
	}

	orderQuery := "ORDER BY a.start_date asc, a.id asc"

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
			a.id,
			a.user_id,
			u.username,
			u.full_name,
			a.start_date,
			a.end_date,
			a.reason,
			a.status,
			a.file_url,
			a.is_partial,
			a.partial_hours
		FROM absences a
		LEFT JOIN users u ON u.id = a.user_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting absences"), http.StatusInternalServerError)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var startDateString, endDateString string

		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.Username,
			&detail.FullName,
			&startDateString,
			&endDateString,
			&detail.Reason,
			&detail.Status,
			&detail.FileUrl,
			&detail.IsPartial,
			&detail.PartialHours); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning absence list"), http.StatusBadRequest)
		}

		startDate, err := date.ParseDate(startDateString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting start_date"), http.StatusBadRequest)
		}
		detail.StartDate = &startDate

		endDate, err := date.ParseDate(endDateString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting end_date"), http.StatusBadRequest)
		}
		detail.EndDate = &endDate

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM absences a
			%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning absence count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.user_id,
			u.username,
			u.full_name,
			a.start_date,
			a.end_date,
			a.reason,
			a.status,
			a.file_url,
			a.is_partial,
			a.partial_hours
		FROM absences a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.deleted_at IS NULL AND a.id = %d
	`, id)

	var detail GetDetailByIdResponse
	var startDateString, endDateString string

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.UserID,
		&detail.Username,
		&detail.FullName,
		&startDateString,
		&endDateString,
		&detail.Reason,
		&detail.Status,
		&detail.FileUrl,
		&detail.IsPartial,
		&detail.PartialHours,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting absence detail"), http.StatusInternalServerError)
	}

	if claims.Role != auth.RoleAdmin && (detail.UserID == nil || *detail.UserID != claims.UserId) {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	startDate, err := date.ParseDate(startDateString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting start_date"), http.StatusBadRequest)
	}
	detail.StartDate = &startDate

	endDate, err := date.ParseDate(endDateString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting end_date"), http.StatusBadRequest)
	}
	detail.EndDate = &endDate

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "StartDate", "Reason"); err != nil {
		return CreateResponse{}, err
	}

	// The owner is the caller; only admins may file for someone else.
	userID := claims.UserId
	if claims.Role == auth.RoleAdmin && request.UserID != nil {
		userID = *request.UserID
	}

	startDate, err := time.Parse("2006-01-02", *request.StartDate)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "start_date parse"), http.StatusBadRequest)
	}

	// A partial-day request covers its start date only.
	endDate := startDate
	if request.EndDate != nil {
		endDate, err = time.Parse("2006-01-02", *request.EndDate)
		if err != nil {
			return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "end_date parse"), http.StatusBadRequest)
		}
	}

	if endDate.Before(startDate) {
		return CreateResponse{}, web.NewRequestError(errors.New("end_date is before start_date"), http.StatusBadRequest)
	}

	if err := r.checkOverlap(ctx, userID, startDate, endDate, 0); err != nil {
		return CreateResponse{}, err
	}

	isPartial := false
	if request.IsPartial != nil {
		isPartial = *request.IsPartial
	}

	var response CreateResponse
	response.UserID = userID
	response.StartDate = startDate.Format("2006-01-02")
	response.EndDate = endDate.Format("2006-01-02")
	response.Reason = request.Reason
	response.Status = StatusPending
	response.FileUrl = request.FileUrl
	response.IsPartial = isPartial
	response.PartialHours = request.PartialHours
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating absence"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	existing, err := r.GetById(ctx, request.ID)
	if err != nil {
		return err
	}

	if existing.UserID == nil || existing.Status == nil || !canMutate(claims, *existing.UserID, *existing.Status) {
		return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	// Resolve the final range so the overlap check runs against what will
	// actually be stored.
	startDate, err := time.Parse("2006-01-02", *existing.StartDate)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "parsing stored start_date"), http.StatusInternalServerError)
	}
	if request.StartDate != nil {
		startDate, err = time.Parse("2006-01-02", *request.StartDate)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "start_date parse"), http.StatusBadRequest)
		}
	}

	endDate, err := time.Parse("2006-01-02", *existing.EndDate)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "parsing stored end_date"), http.StatusInternalServerError)
	}
	if request.EndDate != nil {
		endDate, err = time.Parse("2006-01-02", *request.EndDate)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "end_date parse"), http.StatusBadRequest)
		}
	}

	if endDate.Before(startDate) {
		return web.NewRequestError(errors.New("end_date is before start_date"), http.StatusBadRequest)
	}

	if err := r.checkOverlap(ctx, *existing.UserID, startDate, endDate, request.ID); err != nil {
		return err
	}

	q := r.NewUpdate().Table("absences").Where("deleted_at IS NULL AND id = ?", request.ID)

	q.Set("start_date = ?", startDate.Format("2006-01-02"))
	q.Set("end_date = ?", endDate.Format("2006-01-02"))
	if request.Reason != nil {
		q.Set("reason = ?", request.Reason)
	}
	if request.FileUrl != nil {
		q.Set("file_url = ?", request.FileUrl)
	}
	if request.IsPartial != nil {
		q.Set("is_partial = ?", request.IsPartial)
	}
	if request.PartialHours != nil {
		q.Set("partial_hours = ?", request.PartialHours)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating absence"), http.StatusBadRequest)
	}

	return nil
}

// UpdateStatus is the admin approve/reject action.
func (r Repository) UpdateStatus(ctx context.Context, request UpdateStatusRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID", "Status"); err != nil {
		return err
	}

	if !validStatus(*request.Status) {
		return web.NewRequestError(errors.New("incorrect status. status should be pending, approved or rejected"), http.StatusBadRequest)
	}

	result, err := r.NewUpdate().
		Table("absences").
		Set("status = ?", request.Status).
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Where("deleted_at IS NULL AND id = ?", request.ID).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating absence status"), http.StatusBadRequest)
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

func (r Repository) Delete(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	existing, err := r.GetById(ctx, id)
	if err != nil {
		return err
	}

	if existing.UserID == nil || existing.Status == nil || !canMutate(claims, *existing.UserID, *existing.Status) {
		return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	return r.DeleteRow(ctx, "absences", id)
}
