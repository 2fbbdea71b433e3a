package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type TimesheetRow struct {
	Username   string
	FullName   string
	Date       string
	StartTime  string
	EndTime    string
	TotalHours int
	Type       string
}

// WriteTimesheetExcel writes the timesheet rows to a new workbook.
func WriteTimesheetExcel(rows []TimesheetRow, fileName string) error {
	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"Username", "Full Name", "Date", "Start", "End", "Minutes", "Type"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.Username)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Date)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.StartTime)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.EndTime)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), entry.TotalHours)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", rowNum), entry.Type)
		rowNum++
	}

	if err := f.SaveAs(fileName); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}
