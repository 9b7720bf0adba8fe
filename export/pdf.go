package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

// WritePDF 生成单页汇总表
func WritePDF(w io.Writer, rep *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(rep.Title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(rep.Title))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr("Period: "+rep.PeriodLabel))
	pdf.Ln(6)
	pdf.Cell(0, 8, "Generated: "+rep.GeneratedAt.Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s in %d transactions", money(rep.Total), rep.TransactionCount))
	pdf.Ln(12)

	widths := []float64{45, 55, 40, 28, 20}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(79, 129, 189)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range []string{"Expense Type", "Expense", "Payment Method", "Amount", "Count"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, l := range rep.Lines {
		if l.Untracked {
			pdf.SetFont("Helvetica", "I", 10)
		}
		pdf.CellFormat(widths[0], 7, tr(l.ExpenseType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(l.ExpenseName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(l.PaymentMethod), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(l.Total), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, fmt.Sprint(l.TransactionCount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		if l.Untracked {
			pdf.SetFont("Helvetica", "", 10)
		}
	}
	if len(rep.Lines) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "No expenses or credit card payments in this period.")
	}

	return pdf.Output(w)
}
