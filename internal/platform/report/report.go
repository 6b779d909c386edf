// Package report renders lab results into a printable PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/carebook/carebook/internal/domain/lab"
)

// RenderLabReport writes a PDF listing the reports for one patient.
func RenderLabReport(w io.Writer, patient string, reports []lab.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Lab Reports", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Lab Reports")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Patient: %s", patient))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	if len(reports) == 0 {
		pdf.Cell(0, 8, "No lab reports on file.")
	}

	for _, r := range reports {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("%s  (%s)", r.TestName, r.ReportDate))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		value := r.ObservedValue
		if r.Unit != "" {
			value += " " + r.Unit
		}
		pdf.MultiCell(0, 6, fmt.Sprintf("Observed: %s", value), "", "", false)
		if r.ReferenceRange != "" {
			pdf.MultiCell(0, 6, fmt.Sprintf("Reference range: %s", r.ReferenceRange), "", "", false)
		}
		pdf.Cell(0, 6, fmt.Sprintf("Filed by: %s", r.Doctor))
		pdf.Ln(10)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render lab report pdf: %w", err)
	}
	return nil
}
