package export

import (
	"fmt"
	"strings"
	"time"
)

// TrainingSummary is the content of a student's end-of-training report.
type TrainingSummary struct {
	StudentName       string
	UniversityID      string
	CompanyName       string
	Position          string
	DurationWeeks     string
	Date              time.Time
	TrainingOverview  string
	TasksCompleted    string
	SkillsLearned     string
	Challenges        string
	Feedback          string
	OverallExperience string
}

// RenderTrainingSummary lays out the student final report with a page footer
// on every page.
func (e *PDFExporter) RenderTrainingSummary(r TrainingSummary) ([]byte, error) {
	pdf := e.newDocument("P")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 25, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	headerBar(pdf, "HU Tech-Train Training Report")

	pdf.SetXY(20, 25)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Training Report", "", 1, "C", false, 0, "")

	date := r.Date
	if date.IsZero() {
		date = time.Now()
	}
	pdf.SetFont("Arial", "", 12)
	for _, line := range []string{
		"Student Name: " + orNA(r.StudentName),
		"University ID: " + orNA(r.UniversityID),
		"Company: " + orNA(r.CompanyName),
		"Position: " + orNA(r.Position),
		"Duration: " + orNA(r.DurationWeeks) + " weeks",
		"Date: " + date.Format("2006-01-02"),
	} {
		pdf.CellFormat(0, 8, tr(line), "", 1, "L", false, 0, "")
	}
	y := pdf.GetY() + 2
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)

	sections := []struct{ title, body string }{
		{"Training Overview", r.TrainingOverview},
		{"Tasks Completed", r.TasksCompleted},
		{"Skills Learned", r.SkillsLearned},
		{"Challenges", r.Challenges},
		{"Feedback for Program", r.Feedback},
		{"Overall Experience", capitalize(r.OverallExperience)},
	}
	for _, s := range sections {
		sectionHeading(pdf, s.title, false)
		pdf.MultiCell(0, 6, tr(s.body), "", "L", false)
	}

	return output(pdf)
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

func capitalize(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + v[1:]
}
