package export

import (
	"fmt"
	"strings"
)

// WeeklyActivity is the content of a company's weekly training activity report.
type WeeklyActivity struct {
	StudentName        string
	StudentID          string
	CompanyName        string
	SupervisorName     string
	WeekNumber         int
	StartDate          string
	EndDate            string
	ActivitiesSummary  string
	SkillsLearned      []string
	ChallengesFaced    string
	SupervisorComments string
}

// RenderWeeklyActivity lays out the weekly report: header bar, metadata block,
// red section headings, and the company signature block.
func (e *PDFExporter) RenderWeeklyActivity(r WeeklyActivity) ([]byte, error) {
	pdf := e.newDocument("P")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 25, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	headerBar(pdf, "Weekly Training Activity Report")

	pdf.SetXY(20, 30)
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Student: %s (%s)", r.StudentName, r.StudentID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Company: "+r.CompanyName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr("Supervisor: "+r.SupervisorName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Week: %d (%s to %s)", r.WeekNumber, r.StartDate, r.EndDate)), "", 1, "L", false, 0, "")

	sectionHeading(pdf, "Activities Summary", true)
	pdf.MultiCell(0, 6, tr(r.ActivitiesSummary), "", "L", false)

	sectionHeading(pdf, "Skills Learned", true)
	for _, skill := range r.SkillsLearned {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		pdf.MultiCell(0, 6, tr("• "+skill), "", "L", false)
	}

	sectionHeading(pdf, "Challenges Faced", true)
	pdf.MultiCell(0, 6, tr(r.ChallengesFaced), "", "L", false)

	if strings.TrimSpace(r.SupervisorComments) != "" {
		sectionHeading(pdf, "Supervisor Comments", true)
		pdf.MultiCell(0, 6, tr(r.SupervisorComments), "", "L", false)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Company Representative Signature", "", 1, "L", false, 0, "")
	y := pdf.GetY() + 8
	pdf.Line(20, y, 100, y)
	pdf.SetY(y + 4)
	pdf.CellFormat(0, 6, "Date:", "", 1, "L", false, 0, "")

	return output(pdf)
}
