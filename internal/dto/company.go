package dto

import (
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
)

// DeletePostRequest must carry an explicit confirmation.
type DeletePostRequest struct {
	Confirm bool `form:"confirm" json:"confirm"`
}

// UpdateApplicationStatusRequest approves or rejects a student request.
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// RequestQuery captures the company request filter.
type RequestQuery struct {
	Filter string `form:"filter"`
}

// RequestView is an application as shown on the company request board.
type RequestView struct {
	models.Application
	View      view.Derived     `json:"view"`
	CanReview bool             `json:"canReview"`
	Documents view.DocumentSet `json:"documents"`
}

// TraineeQuery narrows the trainee pickers.
type TraineeQuery struct {
	Search string `form:"search"`
	Scope  string `form:"scope"`
}

// Trainee scopes.
const (
	TraineeScopeWeekly = "weekly"
	TraineeScopeFinal  = "final"
)

// TraineeView is a placed student available for reporting.
type TraineeView struct {
	ApplicationID  string         `json:"applicationId"`
	Student        models.Student `json:"student"`
	TrainingTitle  string         `json:"trainingTitle"`
	CompanyName    string         `json:"companyName"`
	WeeklyReports  int            `json:"weeklyReports"`
	HasFinalReport bool           `json:"hasFinalReport"`
}

// CompanyProfileView is the company profile together with resolved picture URL.
type CompanyProfileView struct {
	models.Company
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}
