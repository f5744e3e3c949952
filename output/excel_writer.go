package output

import (
	"fmt"
	"groupstatus/worklog"

	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Status"

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, rows []worklog.Row) error {
	if err := requirePath(path, "excel"); err != nil {
		return err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, excelSheetName); err != nil {
		return fmt.Errorf("rename excel sheet: %w", err)
	}
	sheet = excelSheetName

	for col, header := range worklog.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	wrap, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return fmt.Errorf("create excel style: %w", err)
	}

	for i, entry := range rows {
		row := i + 2
		for col, value := range entry.Fields() {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if len(rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 2)
		last, _ := excelize.CoordinatesToCellName(len(worklog.Headers), len(rows)+1)
		if err := file.SetCellStyle(sheet, first, last, wrap); err != nil {
			return fmt.Errorf("set excel style: %w", err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
