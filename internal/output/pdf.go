package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tasktrack/internal/service"
)

// WritePDF writes a printable report of tasks. Pages break automatically.
func WritePDF(w io.Writer, title string, tasks []service.Task, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator("tasktrack", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s, %d tasks", generated.Format(TimeLayout), len(tasks)))
	pdf.Ln(10)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, EmptyTitle, "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, EmptyHint, "0", "L", false)
	}

	for _, t := range tasks {
		v := NewTaskView(t)
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s #%d  %s", v.StatusIcon, v.ID, v.Title)), "0", "L", false)

		pdf.SetFont("Arial", "", 10)
		if v.Description != "" {
			pdf.MultiCell(0, 5, tr(v.Description), "0", "L", false)
		}
		if meta := pdfMeta(v); meta != "" {
			pdf.SetTextColor(90, 90, 90)
			pdf.MultiCell(0, 5, tr(meta), "0", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(3)
	}

	return pdf.Output(w)
}

// pdfMeta is MetaLine without icons; core PDF fonts have no emoji glyphs.
func pdfMeta(v TaskView) string {
	var parts []string
	if v.Category != "" {
		parts = append(parts, v.Category)
	}
	if v.Priority != "" {
		parts = append(parts, v.Priority)
	}
	if v.Due != "" {
		parts = append(parts, "due "+v.Due)
	}
	if len(v.Tags) > 0 {
		parts = append(parts, strings.Join(v.Tags, " "))
	}
	return strings.Join(parts, " | ")
}
