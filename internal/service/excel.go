package service

import (
	"fmt"

	"schoolsync/backend/internal/repository/postgres/staff"

	"github.com/xuri/excelize/v2"
)

// BuildRosterExcel writes the staff roster of one school into an xlsx file.
func BuildRosterExcel(rows []staff.ExportRow, fileName string) error {
	f := excelize.NewFile()
	sheet := "Staff"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Staff ID", "Full Name", "Department", "Active", "Times Late", "School"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowNum := 2
	for _, entry := range rows {
		school := ""
		if entry.School != nil {
			school = *entry.School
		}

		f.SetCellValue(sheet, fmt.Sprintf("A%d", rowNum), entry.ExternalID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", rowNum), entry.FullName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", rowNum), entry.Department)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", rowNum), entry.Active)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", rowNum), entry.TimesLate)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", rowNum), school)
		rowNum++
	}

	if err := f.SaveAs(fileName); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}
