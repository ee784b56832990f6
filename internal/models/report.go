package models

import "time"

// WeeklyReportInput is filled in by the company supervisor for one trainee week.
type WeeklyReportInput struct {
	ApplicationID      string   `json:"applicationId" validate:"required"`
	StudentName        string   `json:"studentName"`
	StudentID          string   `json:"studentId"`
	CompanyName        string   `json:"companyName"`
	SupervisorName     string   `json:"supervisorName"`
	WeekNumber         int      `json:"weekNumber" validate:"required,min=1"`
	StartDate          string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate            string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	ActivitiesSummary  string   `json:"activitiesSummary" validate:"required"`
	ChallengesFaced    string   `json:"challengesFaced" validate:"required"`
	SupervisorComments string   `json:"supervisorComments"`
	SkillsLearned      []string `json:"skillsLearned" validate:"required,min=1,dive,required"`
}

// CompanyFinalReportInput accompanies the uploaded company evaluation PDF.
type CompanyFinalReportInput struct {
	ApplicationID  string `form:"applicationId" json:"applicationId" validate:"required"`
	StudentName    string `form:"studentName" json:"studentName" validate:"required"`
	StudentID      string `form:"studentId" json:"studentId" validate:"required"`
	CompanyName    string `form:"companyName" json:"companyName"`
	SupervisorName string `form:"supervisorName" json:"supervisorName" validate:"required"`
	TrainingTitle  string `form:"trainingTitle" json:"trainingTitle"`
	OverallRating  string `form:"overallRating" json:"overallRating" validate:"required"`
	Comments       string `form:"comments" json:"comments"`
}

// Overall experience ratings offered on the student final report.
const (
	ExperienceExcellent = "excellent"
	ExperienceGood      = "good"
	ExperienceAverage   = "average"
	ExperiencePoor      = "poor"
)

// StudentFinalReportInput is the student's end-of-training write-up.
type StudentFinalReportInput struct {
	TrainingOverview  string `json:"trainingOverview" validate:"required"`
	TasksCompleted    string `json:"tasksCompleted" validate:"required"`
	SkillsLearned     string `json:"skillsLearned" validate:"required"`
	Challenges        string `json:"challenges" validate:"required"`
	Feedback          string `json:"feedback" validate:"required"`
	OverallExperience string `json:"overallExperience" validate:"omitempty,oneof=excellent good average poor"`
}

// ReportFile is a generated report held for later download.
type ReportFile struct {
	Filename     string    `json:"filename"`
	RelativePath string    `json:"-"`
	DownloadURL  string    `json:"downloadUrl"`
	ExpiresAt    time.Time `json:"expiresAt"`
}
