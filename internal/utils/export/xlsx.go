package export

import (
	"fmt"
	"io"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	"github.com/xuri/excelize/v2"
)

// WriteTrialBalanceXLSX renders a trial balance report as an XLSX workbook.
func WriteTrialBalanceXLSX(w io.Writer, report *domain.TrialBalanceReport) error {
	f := excelize.NewFile()
	sheetName := "Trial Balance"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Account Number", "Account Name", "Account Type", "Total Debits", "Total Credits"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, tbRow := range report.Rows {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), tbRow.AccountNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tbRow.AccountName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(tbRow.AccountType))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), tbRow.TotalDebits.String())
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), tbRow.TotalCredits.String())
	}

	// Totals row, with the balanced flag alongside
	totalsRow := len(report.Rows) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", totalsRow), "Totals")
	f.SetCellValue(sheetName, fmt.Sprintf("D%d", totalsRow), report.TotalDebits.String())
	f.SetCellValue(sheetName, fmt.Sprintf("E%d", totalsRow), report.TotalCredits.String())
	if !report.Balanced {
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", totalsRow), "OUT OF BALANCE")
	}

	f.SetColWidth(sheetName, "A", "A", 16)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "E", 14)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
