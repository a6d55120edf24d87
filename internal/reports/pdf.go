package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/artosku/duitku-backend/internal/money"
)

// BuildPDF renders a statement as a single-page A4 PDF.
func BuildPDF(st Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("DuitKu Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DuitKu Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", st.From, st.To))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Income: %s", money.FormatRupiah(st.TotalIncome)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Expense: %s", money.FormatRupiah(st.TotalExpense)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %s", money.FormatRupiah(st.TotalIncome-st.TotalExpense)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(28, 7, "Date")
	pdf.Cell(22, 7, "Type")
	pdf.Cell(40, 7, "Category")
	pdf.Cell(60, 7, "Title")
	pdf.Cell(40, 7, "Amount")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range st.Items {
		pdf.Cell(28, 7, item.Date)
		pdf.Cell(22, 7, item.Type)
		pdf.Cell(40, 7, item.Category)
		pdf.Cell(60, 7, item.Title)
		pdf.Cell(40, 7, money.FormatRupiah(item.Amount))
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
