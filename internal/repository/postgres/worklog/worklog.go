package worklog

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
	TypeWork    = "work"
	TypeAbsence = "absence"
)

// defaultDayMinutes is recorded when the end time does not land after the
// start time: the entry counts as a standard full day instead of failing.
const defaultDayMinutes = 480

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// totalMinutes computes the span between two HH:MM times in minutes,
// falling back to a full working day for non-positive spans.
func totalMinutes(startTime, endTime string) (int, error) {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return 0, errors.Wrap(err, "parsing start_time")
	}

	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return 0, errors.Wrap(err, "parsing end_time")
	}

	minutes := int(end.Sub(start).Minutes())
	if minutes <= 0 {
		return defaultDayMinutes, nil
	}

	return minutes, nil
}

func validType(logType string) bool {
	return logType == TypeWork || logType == TypeAbsence
}

// canMutate reports whether the caller may change a work log owned by
// ownerID. Admins may change anything, employees only their own.
func canMutate(claims auth.Claims, ownerID int) bool {
	if claims.Role == auth.RoleAdmin {
		return true
	}
	return claims.UserId == ownerID
}

func (r Repository) GetById(ctx context.Context, id int) (entity.WorkLog, error) {
	var detail entity.WorkLog

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.WorkLog{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.WorkLog{}, web.NewRequestError(errors.Wrap(err, "selecting work log"), http.StatusInternalServerError)
	}

	return detail, nil
}

// checkDuplicate rejects a second live work log with the same user, date
// and type. excludeID skips the row being updated.
func (r Repository) checkDuplicate(ctx context.Context, userID int, logDate, logType string, excludeID int) error {
	count := 0
	query := fmt.Sprintf(`
		SELECT count(id) FROM work_logs
		WHERE user_id = %d AND log_date = '%s' AND type = '%s' AND id != %d AND deleted_at IS NULL
	`, userID, logDate, logType, excludeID)

	if err := r.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return web.NewRequestError(errors.Wrap(err, "duplicate check"), http.StatusInternalServerError)
	}
	if count > 0 {
		return web.NewRequestError(errors.Errorf("a %s entry already exists for this date", logType), http.StatusConflict)
	}

	return nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	// Employees only ever see their own logs, whatever filter they send.
	if claims.Role != auth.RoleAdmin {
		filter.UserID = &claims.UserId
	}

	whereQuery := `
			WHERE
				w.deleted_at IS NULL
			`

	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(` AND w.user_id = %d`, *filter.UserID)
	}

	if filter.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *filter.StartDate)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "start_date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND w.log_date >= '%s'", startDate.Format("2006-01-02"))
	}

	if filter.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *filter.EndDate)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "end_date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND w.log_date <= '%s'", endDate.Format("2006-01-02"))
	}

	orderQuery := "ORDER BY w.log_date asc, w.id asc"

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
			w.id,
			w.user_id,
			u.username,
			u.full_name,
			w.log_date,
			w.start_time,
			w.end_time,
			w.total_hours,
			w.type
		FROM work_logs w
		LEFT JOIN users u ON u.id = w.user_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting work logs"), http.StatusInternalServerError)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var logDateString string

		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.Username,
			&detail.FullName,
			&logDateString,
			&detail.StartTime,
			&detail.EndTime,
			&detail.TotalHours,
			&detail.Type); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning work log list"), http.StatusBadRequest)
		}

		logDate, err := date.ParseDate(logDateString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting log_date"), http.StatusBadRequest)
		}
		detail.Date = &logDate

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(w.id)
		FROM work_logs w
			%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning work log count"), http.StatusInternalServerError)
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
			w.id,
			w.user_id,
			u.username,
			u.full_name,
			w.log_date,
			w.start_time,
			w.end_time,
			w.total_hours,
			w.type
		FROM work_logs w
		LEFT JOIN users u ON u.id = w.user_id
		WHERE w.deleted_at IS NULL AND w.id = %d
	`, id)

	var detail GetDetailByIdResponse
	var logDateString string

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.UserID,
		&detail.Username,
		&detail.FullName,
		&logDateString,
		&detail.StartTime,
		&detail.EndTime,
		&detail.TotalHours,
		&detail.Type,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting work log detail"), http.StatusInternalServerError)
	}

	if detail.UserID != nil && !canMutate(claims, *detail.UserID) {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	logDate, err := date.ParseDate(logDateString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting log_date"), http.StatusBadRequest)
	}
	detail.Date = &logDate

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Date", "StartTime", "EndTime"); err != nil {
		return CreateResponse{}, err
	}

	// The owner is the caller; only admins may log time for someone else.
	userID := claims.UserId
	if claims.Role == auth.RoleAdmin && request.UserID != nil {
		userID = *request.UserID
	}

	logDate, err := time.Parse("2006-01-02", *request.Date)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
	}

	logType := TypeWork
	if request.Type != nil {
		logType = *request.Type
	}
	if !validType(logType) {
		return CreateResponse{}, web.NewRequestError(errors.New("incorrect type. type should be work or absence"), http.StatusBadRequest)
	}

	total, err := totalMinutes(*request.StartTime, *request.EndTime)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	if err := r.checkDuplicate(ctx, userID, logDate.Format("2006-01-02"), logType, 0); err != nil {
		return CreateResponse{}, err
	}

	var response CreateResponse
	response.UserID = userID
	response.LogDate = logDate.Format("2006-01-02")
	response.StartTime = request.StartTime
	response.EndTime = request.EndTime
	response.TotalHours = total
	response.Type = logType
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating work log"), http.StatusBadRequest)
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

	if existing.UserID == nil || !canMutate(claims, *existing.UserID) {
		return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	// Resolve what the row will look like so the duplicate check runs
	// against the final values, not the stored ones.
	userID := *existing.UserID
	if claims.Role == auth.RoleAdmin && request.UserID != nil {
		userID = *request.UserID
	}

	logDate := *existing.LogDate
	if request.Date != nil {
		parsed, err := time.Parse("2006-01-02", *request.Date)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		logDate = parsed.Format("2006-01-02")
	}

	logType := *existing.Type
	if request.Type != nil {
		logType = *request.Type
	}
	if !validType(logType) {
		return web.NewRequestError(errors.New("incorrect type. type should be work or absence"), http.StatusBadRequest)
	}

	if err := r.checkDuplicate(ctx, userID, logDate, logType, request.ID); err != nil {
		return err
	}

	startTime := *existing.StartTime
	if request.StartTime != nil {
		startTime = *request.StartTime
	}
	endTime := *existing.EndTime
	if request.EndTime != nil {
		endTime = *request.EndTime
	}

	total, err := totalMinutes(startTime, endTime)
	if err != nil {
		return web.NewRequestError(err, http.StatusBadRequest)
	}

	q := r.NewUpdate().Table("work_logs").Where("deleted_at IS NULL AND id = ?", request.ID)

	q.Set("user_id = ?", userID)
	q.Set("log_date = ?", logDate)
	q.Set("start_time = ?", startTime)
	q.Set("end_time = ?", endTime)
	q.Set("total_hours = ?", total)
	q.Set("type = ?", logType)
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating work log"), http.StatusBadRequest)
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

	if existing.UserID == nil || !canMutate(claims, *existing.UserID) {
		return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	return r.DeleteRow(ctx, "work_logs", id)
}

// GetExportList returns every live work log in the range for the admin
// excel and pdf exports.
func (r Repository) GetExportList(ctx context.Context, filter Filter) ([]ExportRow, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	whereQuery := `
			WHERE
				w.deleted_at IS NULL
			`

	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(` AND w.user_id = %d`, *filter.UserID)
	}
	if filter.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *filter.StartDate)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "start_date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND w.log_date >= '%s'", startDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *filter.EndDate)
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "end_date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND w.log_date <= '%s'", endDate.Format("2006-01-02"))
	}

	query := fmt.Sprintf(`
		SELECT
			u.username,
			u.full_name,
			w.log_date,
			w.start_time,
			w.end_time,
			w.total_hours,
			w.type
		FROM work_logs w
		LEFT JOIN users u ON u.id = w.user_id
		%s
		ORDER BY u.full_name asc, w.log_date asc
	`, whereQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting export rows"), http.StatusInternalServerError)
	}

	var list []ExportRow
	for rows.Next() {
		var row ExportRow
		if err = rows.Scan(
			&row.Username,
			&row.FullName,
			&row.Date,
			&row.StartTime,
			&row.EndTime,
			&row.TotalHours,
			&row.Type); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning export row"), http.StatusBadRequest)
		}
		list = append(list, row)
	}

	return list, nil
}
