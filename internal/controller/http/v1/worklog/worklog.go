package worklog

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"timetrack/backend/foundation/web"
	"timetrack/backend/internal/repository/postgres/worklog"
	"timetrack/backend/internal/service"

	"github.com/pkg/errors"
)

const exportDir = "statics/export"

type Controller struct {
	worklog WorkLog
}

func NewController(worklog WorkLog) *Controller {
	return &Controller{worklog}
}

func (wc Controller) filterFromQuery(c *web.Context) worklog.Filter {
	var filter worklog.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if userID, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok {
		filter.UserID = userID
	}
	if startDate, ok := c.GetQueryFunc(reflect.String, "start_date").(*string); ok {
		filter.StartDate = startDate
	}
	if endDate, ok := c.GetQueryFunc(reflect.String, "end_date").(*string); ok {
		filter.EndDate = endDate
	}

	return filter
}

func (wc Controller) GetList(c *web.Context) error {
	filter := wc.filterFromQuery(c)

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := wc.worklog.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (wc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := wc.worklog.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (wc Controller) Create(c *web.Context) error {
	var request worklog.CreateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	response, err := wc.worklog.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"created_data": response,
		"status":       true,
	}, http.StatusCreated)
}

func (wc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request worklog.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := wc.worklog.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (wc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := wc.worklog.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// ExportExcel streams the filtered timesheet as an xlsx workbook.
func (wc Controller) ExportExcel(c *web.Context) error {
	filter := wc.filterFromQuery(c)

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	rows, err := wc.worklog.GetExportList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	if err := os.MkdirAll(exportDir, os.ModePerm); err != nil {
		return c.RespondError(err)
	}

	fileName := filepath.Join(exportDir, fmt.Sprintf("timesheet-%d.xlsx", time.Now().UnixNano()))
	if err := service.WriteTimesheetExcel(toTimesheetRows(rows), fileName); err != nil {
		return c.RespondError(err)
	}
	defer os.Remove(fileName)

	file, err := os.Open(fileName)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"timesheet.xlsx\"")
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}
	return nil
}

// ExportPdf streams the month's timesheet as a pdf report. month is
// YYYY-MM and defaults to the current month.
func (wc Controller) ExportPdf(c *web.Context) error {
	month := time.Now().Format("2006-01")
	if m, ok := c.GetQueryFunc(reflect.String, "month").(*string); ok && m != nil {
		month = *m
	}

	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	first, err := time.Parse("2006-01", month)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "month parse"), http.StatusBadRequest))
	}
	last := first.AddDate(0, 1, -1)

	startDate := first.Format("2006-01-02")
	endDate := last.Format("2006-01-02")
	filter := worklog.Filter{StartDate: &startDate, EndDate: &endDate}

	rows, err := wc.worklog.GetExportList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	if err := os.MkdirAll(exportDir, os.ModePerm); err != nil {
		return c.RespondError(err)
	}

	fileName := filepath.Join(exportDir, fmt.Sprintf("timesheet-%d.pdf", time.Now().UnixNano()))
	if err := service.WriteTimesheetPDF(month, toTimesheetRows(rows), fileName); err != nil {
		return c.RespondError(err)
	}
	defer os.Remove(fileName)

	file, err := os.Open(fileName)
	if err != nil {
		return c.RespondError(err)
	}
	defer file.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\"timesheet.pdf\"")
	if _, err = io.Copy(c.Writer, file); err != nil {
		return c.RespondError(err)
	}
	return nil
}

func toTimesheetRows(rows []worklog.ExportRow) []service.TimesheetRow {
	out := make([]service.TimesheetRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, service.TimesheetRow{
			Username:   row.Username,
			FullName:   row.FullName,
			Date:       row.Date,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			TotalHours: row.TotalHours,
			Type:       row.Type,
		})
	}
	return out
}
