package dto

import (
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
)

// PostQuery captures the student post browser's query string.
type PostQuery struct {
	Search string `form:"search"`
	Sort   string `form:"sort"`
}

// PostView is a training post together with the caller's apply state.
type PostView struct {
	models.TrainingPost
	View view.Derived `json:"view"`
}

// ApplicationQuery captures the student application list filters.
type ApplicationQuery struct {
	Search string   `form:"search"`
	Status []string `form:"status"`
}

// ApplicationView is an application with its derived display state.
type ApplicationView struct {
	models.Application
	View view.Derived `json:"view"`
}

// ApplyResult reports the outcome of an apply or retry.
type ApplyResult struct {
	PostID  string       `json:"postId"`
	Message string       `json:"message"`
	View    view.Derived `json:"view"`
}

// SelectResult lists the student's applications after a successful select.
type SelectResult struct {
	Message      string            `json:"message"`
	Applications []ApplicationView `json:"applications"`
}

// StudentFinalReportRequest is the student report form plus the target application.
type StudentFinalReportRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	models.StudentFinalReportInput
}

// ReportSubmission is returned by report uploads. Fallback is set when the
// backend refused the report and the generated PDF was kept for download.
type ReportSubmission struct {
	Message  string             `json:"message"`
	Fallback *models.ReportFile `json:"fallback,omitempty"`
}
