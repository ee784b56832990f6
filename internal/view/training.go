package view

import "github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"

// Buckets lists the department buckets in display order.
var Buckets = []models.TrainingStatus{
	models.TrainingNotStarted,
	models.TrainingWaitingApproval,
	models.TrainingInTraining,
	models.TrainingCompleted,
}

var bucketLabels = map[models.TrainingStatus]string{
	models.TrainingNotStarted:      "Not Started",
	models.TrainingWaitingApproval: "Waiting Approval",
	models.TrainingInTraining:      "In Training",
	models.TrainingCompleted:       "Completed",
}

// HasWaitingApprovalApp reports whether an approved application still lacks
// its official document.
func HasWaitingApprovalApp(apps []models.Application) bool {
	for _, app := range apps {
		if app.Status == models.StatusApproved && app.OfficialDocument == "" {
			return true
		}
	}
	return false
}

// Bucket is the effective training bucket of a student. Counters and list
// filters must both go through it.
func Bucket(s models.Student) models.TrainingStatus {
	switch s.TrainingStatus {
	case models.TrainingWaitingForApproval, models.TrainingWaitingApproval:
		return models.TrainingWaitingApproval
	case models.TrainingNotStarted:
		if HasWaitingApprovalApp(s.Applications) {
			return models.TrainingWaitingApproval
		}
		return models.TrainingNotStarted
	case models.TrainingInTraining, models.TrainingCompleted:
		return s.TrainingStatus
	default:
		return models.TrainingNotStarted
	}
}

// BucketLabel is the human readable bucket name.
func BucketLabel(b models.TrainingStatus) string {
	if label, ok := bucketLabels[b]; ok {
		return label
	}
	return string(b)
}

// RowLabel is the badge shown on a student row: a not-started student with an
// application still under review reads "Pending".
func RowLabel(s models.Student) string {
	bucket := Bucket(s)
	if bucket == models.TrainingNotStarted {
		for _, app := range s.Applications {
			if app.Status == models.StatusUnderReview {
				return "Pending"
			}
		}
	}
	return BucketLabel(bucket)
}

// BucketCounts holds per-bucket student totals.
type BucketCounts struct {
	NotStarted      int `json:"NOT_STARTED"`
	WaitingApproval int `json:"WAITING_APPROVAL"`
	InTraining      int `json:"IN_TRAINING"`
	Completed       int `json:"COMPLETED"`
	Total           int `json:"total"`
}

// Get returns the count for one bucket.
func (c BucketCounts) Get(b models.TrainingStatus) int {
	switch b {
	case models.TrainingNotStarted:
		return c.NotStarted
	case models.TrainingWaitingApproval:
		return c.WaitingApproval
	case models.TrainingInTraining:
		return c.InTraining
	case models.TrainingCompleted:
		return c.Completed
	}
	return 0
}

// CountBuckets tallies students by Bucket.
func CountBuckets(students []models.Student) BucketCounts {
	var c BucketCounts
	for _, s := range students {
		switch Bucket(s) {
		case models.TrainingNotStarted:
			c.NotStarted++
		case models.TrainingWaitingApproval:
			c.WaitingApproval++
		case models.TrainingInTraining:
			c.InTraining++
		case models.TrainingCompleted:
			c.Completed++
		}
		c.Total++
	}
	return c
}

// Printable reports whether a student belongs on the printed progress roster.
func Printable(s models.Student) bool {
	b := Bucket(s)
	return b == models.TrainingInTraining || b == models.TrainingCompleted
}

// AssignedCompany is the company of the student's approved application.
func AssignedCompany(s models.Student) string {
	for _, app := range s.Applications {
		if app.Status == models.StatusApproved {
			if name := app.CompanyName(); name != "" {
				return name
			}
		}
	}
	return "Not Assigned"
}
