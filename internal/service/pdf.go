package service

import (
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
)

// WriteTimesheetPDF renders the monthly timesheet report.
func WriteTimesheetPDF(month string, rows []TimesheetRow, fileName string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Timesheet %s", month), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	widths := []float64{35, 45, 25, 20, 20, 20, 25}
	headers := []string{"Username", "Full Name", "Date", "Start", "End", "Minutes", "Type"}

	pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(widths[0], 8, row.Username, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 8, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, row.StartTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, row.EndTime, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[5], 8, fmt.Sprintf("%d", row.TotalHours), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 8, row.Type, "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(fileName)
}
