// Package export renders expense history as CSV, XLSX or PDF.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"expense-ledger/internal/store"
	"expense-ledger/internal/util"

	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"

	sheetName  = "Expenses"
	dateLayout = "2006-01-02 15:04"
)

var header = []string{"Date", "Account", "Amount", "Note"}

func row(r store.ExpenseRecord) []string {
	return []string{
		r.PaymentDate.Local().Format(dateLayout),
		r.AccountName,
		util.FormatCents(r.AmountCents),
		r.Note,
	}
}

// Filename builds an attachment name such as expenses_20250615.csv.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("expenses_%s.%s", now.Format("20060102"), ext)
}

// WriteCSV writes records with a UTF-8 BOM so spreadsheet apps detect the encoding.
func WriteCSV(w io.Writer, records []store.ExpenseRecord) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes records to a single-sheet workbook with a running total row.
func WriteXLSX(w io.Writer, records []store.ExpenseRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	// rename the default sheet instead of adding a second one
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}

	var total int64
	for idx, r := range records {
		n := idx + 2
		total += r.AmountCents
		values := []interface{}{
			r.PaymentDate.Local().Format(dateLayout),
			r.AccountName,
			util.FromCents(r.AmountCents).InexactFloat64(),
			r.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, n)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}
	last := len(records) + 2
	_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", last), "Total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", last), util.FromCents(total).InexactFloat64())

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", "B", 20)
	_ = f.SetColWidth(sheetName, "C", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "D", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// WritePDF renders records as a one-table A4 report.
func WritePDF(w io.Writer, title string, records []store.ExpenseRecord) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	widths := []float64{40, 45, 30, 75}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(7)

	var total int64
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range records {
		total += r.AmountCents
		for i, v := range row(r) {
			align := "L"
			if i == 2 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, v, "", 0, align, false, 0, "")
		}
		pdf.Ln(6)
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1], 7, fmt.Sprintf("Total (%d records)", len(records)), "T", 0, "L", false, 0, "")
	pdf.CellFormat(widths[2], 7, util.FormatCents(total), "T", 0, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
