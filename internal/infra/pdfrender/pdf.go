package pdfrender

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
)

// Renderer serializes a full report into a printable PDF. Rendering is a
// sequential walk over the structured content; entitlement checks happen
// before this layer is reached.
type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (Renderer) Render(r *report.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("College Application Plan", false)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "College Application Plan", "", 1, "L", false, 0, "")
	if name := strings.TrimSpace(r.Profile.Name); name != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("Prepared for %s", name), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	writeHeading(pdf, "Overview")
	writeBody(pdf, r.Content.Overview)

	writeHeading(pdf, "Timeline")
	for _, period := range r.Content.Timeline {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, period.Period, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, ev := range period.Events {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(0, 6, fmt.Sprintf("%s  [%s]", ev.Title, ev.Category), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, ev.Description, "", "L", false)
			pdf.Ln(1)
		}
		pdf.Ln(2)
	}

	writeHeading(pdf, "Next Steps")
	for i, step := range r.Content.NextSteps {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s (%s)", i+1, step.Title, step.Priority), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, step.Description, "", "L", false)
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func writeBody(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(3)
}
