package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paycontrol/internal/models"
	"paycontrol/internal/stats"
)

const exportSheet = "Historial"

// BuildHistoryWorkbook renders the full debt history as an Excel workbook,
// in the same order as the history view. The caller owns closing the file.
func BuildHistoryWorkbook(debts []models.Debt) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	headers := []string{"Tipo", "Persona", "Motivo", "Fecha", "Inicial", "Pagado", "Pendiente", "Estado", "Medio"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, d := range stats.SortHistory(debts) {
		values := []interface{}{
			string(d.Type),
			d.Counterparty,
			d.Reason,
			d.Date.Format("2006-01-02"),
			d.Amount,
			d.PaidAmount,
			d.Remaining(),
			string(d.Status),
			string(d.Medium),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "I", 16); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportFilename names the download with the export date.
func ExportFilename(yearMonthDay string) string {
	return fmt.Sprintf("paycontrol-historial-%s.xlsx", yearMonthDay)
}
