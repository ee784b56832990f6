package models

import (
	"encoding/json"
	"time"
)

// ApplicationStatus is the server-side review status of an application.
type ApplicationStatus string

const (
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// TrainingStatus is the backend's training progress value for a student.
type TrainingStatus string

const (
	TrainingNotStarted TrainingStatus = "NOT_STARTED"
	// TrainingWaitingApproval is the canonical waiting bucket. The backend
	// spelling TrainingWaitingForApproval is accepted as input.
	TrainingWaitingApproval    TrainingStatus = "WAITING_APPROVAL"
	TrainingWaitingForApproval TrainingStatus = "WAITING_FOR_APPROVAL"
	TrainingInTraining         TrainingStatus = "IN_TRAINING"
	TrainingCompleted          TrainingStatus = "COMPLETED"
)

// Application is a student's application to a training post.
type Application struct {
	ID                   string            `json:"_id"`
	Student              *Student          `json:"student,omitempty"`
	TrainingPost         *TrainingPost     `json:"trainingPost,omitempty"`
	Status               ApplicationStatus `json:"status"`
	CV                   string            `json:"cv,omitempty"`
	OfficialDocument     string            `json:"officialDocument,omitempty"`
	FinalReportByStudent string            `json:"finalReportByStudent,omitempty"`
	FinalReportByCompany string            `json:"finalReportByCompany,omitempty"`
	ActivityReports      []string          `json:"activityReports,omitempty"`
	SelectedByStudent    bool              `json:"selectedByStudent"`
	CreatedAt            time.Time         `json:"createdAt"`
	UpdatedAt            time.Time         `json:"updatedAt"`
}

// PostTitle returns the populated post title.
func (a Application) PostTitle() string {
	if a.TrainingPost == nil {
		return ""
	}
	return a.TrainingPost.Title
}

// CompanyName returns the populated company name of the applied post.
func (a Application) CompanyName() string {
	if a.TrainingPost == nil {
		return ""
	}
	return a.TrainingPost.CompanyName()
}

// Student is a student record as seen by companies and department heads.
type Student struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	StudentID      string         `json:"studentId"`
	Department     string         `json:"department"`
	Email          string         `json:"email,omitempty"`
	CompletedHours float64        `json:"completedHours"`
	TrainingStatus TrainingStatus `json:"trainingStatus"`
	Applications   []Application  `json:"applications,omitempty"`
}

// UnmarshalJSON accepts a populated student or a bare id. Numeric student
// ids are kept as their decimal text.
func (s *Student) UnmarshalJSON(data []byte) error {
	id, ok, err := bareID(data)
	if err != nil {
		return err
	}
	if ok {
		*s = Student{ID: id}
		return nil
	}
	type plain Student
	var v struct {
		plain
		StudentID json.RawMessage `json:"studentId"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Student(v.plain)
	s.StudentID = rawText(v.StudentID)
	return nil
}

func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return string(raw)
}

// SubmissionOutcome is the local result of the student's latest apply attempt.
type SubmissionOutcome string

const (
	OutcomeSubmitted SubmissionOutcome = "SUBMITTED"
	OutcomeDuplicate SubmissionOutcome = "DUPLICATE"
	OutcomeFailed    SubmissionOutcome = "FAILED"
)

// SubmissionAttempt remembers how the last apply to a post ended. A failed
// attempt keeps the chosen CV so a retry does not need a new upload.
type SubmissionAttempt struct {
	PostID      string            `json:"postId"`
	Outcome     SubmissionOutcome `json:"outcome"`
	Message     string            `json:"message,omitempty"`
	CVName      string            `json:"cvName,omitempty"`
	CVType      string            `json:"cvType,omitempty"`
	CV          []byte            `json:"cv,omitempty"`
	AttemptedAt time.Time         `json:"attemptedAt"`
}
