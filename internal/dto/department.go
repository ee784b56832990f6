package dto

import (
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
)

// StudentQuery captures the department student list filters.
type StudentQuery struct {
	Search string   `form:"search"`
	Status []string `form:"status"`
}

// StudentRow is a student line in the department listing.
type StudentRow struct {
	models.Student
	Bucket      models.TrainingStatus `json:"bucket"`
	BucketLabel string                `json:"bucketLabel"`
	RowLabel    string                `json:"rowLabel"`
	Company     string                `json:"company"`
}

// StudentList is the department listing with counters computed over every
// student, independent of the applied filter.
type StudentList struct {
	Counts   view.BucketCounts `json:"counts"`
	Students []StudentRow      `json:"students"`
}

// StudentDetail lists a student's documents per approved application.
type StudentDetail struct {
	StudentRow
	Applications []view.DocumentSet `json:"applications"`
	Empty        bool               `json:"empty"`
	EmptyMessage string             `json:"emptyMessage,omitempty"`
}

// RosterQuery selects the export format.
type RosterQuery struct {
	Format string `form:"format"`
}
