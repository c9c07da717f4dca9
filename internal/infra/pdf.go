package infra

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// ReportTable is a titled grid rendered as a PDF document.
// Widths are relative; they are scaled to the printable page width.
type ReportTable struct {
	Title    string
	Subtitle string
	Headers  []string
	Widths   []float64
	Rows     [][]string
	// RightAlign marks numeric columns.
	RightAlign []bool
}

// RenderReportPDF writes t as an A4 portrait PDF to w. The header row is
// repeated on every page.
func RenderReportPDF(w io.Writer, t ReportTable) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("pdf: report has no columns")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	contentW := pageW - left - right
	widths := scaleWidths(t.Widths, len(t.Headers), contentW)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, t.Title, "", 1, "C", false, 0, "")
	if t.Subtitle != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW, 6, t.Subtitle, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	header()

	const rowH = 6.0
	for _, row := range t.Rows {
		if pdf.GetY()+rowH > pageH-bottom {
			pdf.AddPage()
			header()
		}
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if i < len(t.RightAlign) && t.RightAlign[i] {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowH, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(t.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, rowH, "No data for this period", "1", 1, "C", false, 0, "")
	}

	return pdf.Output(w)
}

func scaleWidths(rel []float64, n int, total float64) []float64 {
	out := make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		v := 1.0
		if i < len(rel) && rel[i] > 0 {
			v = rel[i]
		}
		out[i] = v
		sum += v
	}
	for i := range out {
		out[i] = out[i] / sum * total
	}
	return out
}
