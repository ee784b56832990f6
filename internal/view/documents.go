package view

import (
	"fmt"
	"strings"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

// NoDocumentsMessage is shown when an application has nothing to view.
const NoDocumentsMessage = "No documents available yet"

// DocumentKind classifies an application document.
type DocumentKind string

const (
	DocumentCV                 DocumentKind = "CV"
	DocumentOfficial           DocumentKind = "OFFICIAL_DOCUMENT"
	DocumentStudentFinalReport DocumentKind = "STUDENT_FINAL_REPORT"
	DocumentCompanyFinalReport DocumentKind = "COMPANY_FINAL_REPORT"
	DocumentActivityReport     DocumentKind = "ACTIVITY_REPORT"
)

// Document is one viewable file of an application.
type Document struct {
	Kind  DocumentKind `json:"kind"`
	Label string       `json:"label"`
	Path  string       `json:"path"`
	URL   string       `json:"url"`
}

// DocumentSet lists the documents of one application. Empty is set instead
// of returning a bare empty list.
type DocumentSet struct {
	ApplicationID string     `json:"applicationId"`
	Documents     []Document `json:"documents"`
	Empty         bool       `json:"empty"`
	EmptyMessage  string     `json:"emptyMessage,omitempty"`
}

// Documents aggregates the viewable documents of app. The official document
// only counts for approved applications. Activity reports keep submission
// order and are numbered from 1.
func Documents(app models.Application, fileBaseURL string) DocumentSet {
	set := DocumentSet{ApplicationID: app.ID, Documents: []Document{}}
	add := func(kind DocumentKind, label, path string) {
		if strings.TrimSpace(path) == "" {
			return
		}
		set.Documents = append(set.Documents, Document{Kind: kind, Label: label, Path: path, URL: FileURL(fileBaseURL, path)})
	}

	add(DocumentCV, "CV", app.CV)
	if app.Status == models.StatusApproved {
		add(DocumentOfficial, "Official Document", app.OfficialDocument)
	}
	add(DocumentStudentFinalReport, "Student Final Report", app.FinalReportByStudent)
	add(DocumentCompanyFinalReport, "Company Final Report", app.FinalReportByCompany)
	n := 0
	for _, report := range app.ActivityReports {
		if strings.TrimSpace(report) == "" {
			continue
		}
		n++
		add(DocumentActivityReport, fmt.Sprintf("Activity Report %d", n), report)
	}

	if len(set.Documents) == 0 {
		set.Empty = true
		set.EmptyMessage = NoDocumentsMessage
	}
	return set
}

// FileURL resolves a backend-relative upload path against the file host.
func FileURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
