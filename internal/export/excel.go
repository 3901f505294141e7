// Package export renders a batch of payment records into the XLSX file
// the accounting system (Odoo) imports.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Row is one enriched spreadsheet row. Creator and category references
// are already resolved to display labels by the caller.
type Row struct {
	Employee    string
	Description string
	PaidAt      time.Time
	Category    string
	Amount      float64
}

// paidBy is the constant reimbursement marker Odoo expects.
const paidBy = "Empleado (a reembolsar)"

const sheetName = "Gastos"

var headers = []string{"Empleado", "Descripción", "Fecha del gasto", "Categoría", "Pagado por", "Total"}

var columnWidths = []float64{25, 50, 15, 20, 25, 15}

// Render produces the workbook bytes for the given rows, one sheet with
// the fixed column set and widths.
func Render(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for idx, r := range rows {
		rowNum := idx + 2
		values := []interface{}{
			r.Employee,
			r.Description,
			r.PaidAt.Format("02/01/2006"),
			r.Category,
			paidBy,
			fmt.Sprintf("%.2f", r.Amount),
		}
		for i, v := range values {
			cell := fmt.Sprintf("%c%d", 'A'+i, rowNum)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowNum, err)
			}
		}
	}

	for i, w := range columnWidths {
		col := string(rune('A' + i))
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename encodes the export date and row count, e.g.
// Gastos_Odoo_11-03-2025_17_registros.xlsx.
func Filename(exportedAt time.Time, rowCount int) string {
	return fmt.Sprintf("Gastos_Odoo_%s_%d_registros.xlsx",
		exportedAt.Format("02-01-2006"), rowCount)
}
