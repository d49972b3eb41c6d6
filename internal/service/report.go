package service

import (
	"fmt"
	"time"

	"schoolsync/backend/internal/repository/postgres/attendance"

	"github.com/jung-kurt/gofpdf/v2"
)

// BuildMonthlyReportPDF renders the per staff monthly attendance summary of
// one school into a PDF file.
func BuildMonthlyReportPDF(schoolName string, month time.Time, rows []attendance.MonthlySummary, fileName string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - attendance %s", schoolName, month.Format("January 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	headers := []string{"Staff ID", "Full Name", "Department", "Days Present", "Days Late", "Late Min", "Overtime Min"}
	widths := []float64{30, 70, 40, 35, 30, 30, 35}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(widths[0], 7, row.ExternalID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, row.Department, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, fmt.Sprintf("%d", row.DaysPresent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprintf("%d", row.DaysLate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, fmt.Sprintf("%d", row.LateMinutes), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 7, fmt.Sprintf("%d", row.OvertimeMinutes), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(fileName)
}
