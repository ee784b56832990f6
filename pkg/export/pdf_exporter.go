package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Brand red used for header bars and section headings.
var brandRed = [3]int{220, 38, 38}

// TableHeading is printed above a tabular export.
type TableHeading struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
}

// PDFExporter renders datasets and training documents into PDF bytes.
type PDFExporter struct {
	compress bool
}

// NewPDFExporter constructs a PDF exporter with stream compression enabled.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{compress: true}
}

// NewPlainPDFExporter disables stream compression so rendered text stays
// searchable in the raw bytes.
func NewPlainPDFExporter() *PDFExporter {
	return &PDFExporter{compress: false}
}

// Render creates a landscape table document with a centered heading block.
func (e *PDFExporter) Render(data Dataset, heading TableHeading) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := e.newDocument("L")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if heading.Title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 9, tr(heading.Title), "", 1, "C", false, 0, "")
	}
	if heading.Subtitle != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 7, tr(heading.Subtitle), "", 1, "C", false, 0, "")
	}
	if !heading.GeneratedAt.IsZero() {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 6, "Generated on: "+heading.GeneratedAt.Format("2006/01/02"), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	width, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (width - left - right) / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(brandRed[0], brandRed[1], brandRed[2])
	pdf.SetTextColor(255, 255, 255)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

func (e *PDFExporter) newDocument(orientation string) *gofpdf.Fpdf {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetCreator("HU Tech-Train", false)
	return pdf
}

// headerBar draws the full-width red band with a centered white title.
func headerBar(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFillColor(brandRed[0], brandRed[1], brandRed[2])
	pdf.Rect(0, 0, 210, 20, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetXY(0, 5)
	pdf.CellFormat(210, 10, title, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func sectionHeading(pdf *gofpdf.Fpdf, title string, red bool) {
	pdf.Ln(4)
	if red {
		pdf.SetTextColor(brandRed[0], brandRed[1], brandRed[2])
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
