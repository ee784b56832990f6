package view

import (
	"sort"
	"strings"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

// PostSort orders student post listings.
type PostSort string

const (
	SortLatest       PostSort = "latest"
	SortDurationAsc  PostSort = "duration-asc"
	SortDurationDesc PostSort = "duration-desc"
)

// ParsePostSort falls back to SortLatest for unknown values.
func ParsePostSort(raw string) PostSort {
	switch PostSort(strings.ToLower(strings.TrimSpace(raw))) {
	case SortDurationAsc:
		return SortDurationAsc
	case SortDurationDesc:
		return SortDurationDesc
	default:
		return SortLatest
	}
}

// containsFold is the shared case-insensitive substring test. An empty query
// matches everything.
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// MatchPost searches title, company name and location.
func MatchPost(p models.TrainingPost, query string) bool {
	return containsFold(query, p.Title, p.CompanyName(), p.Location)
}

// MatchStudent searches name, student id and department.
func MatchStudent(s models.Student, query string) bool {
	return containsFold(query, s.Name, s.StudentID, s.Department)
}

// MatchApplication searches the applied post's title, company and location.
func MatchApplication(app models.Application, query string) bool {
	if app.TrainingPost == nil {
		return containsFold(query)
	}
	return MatchPost(*app.TrainingPost, query)
}

// QueryPosts filters by query then sorts the remainder. The input is not modified.
func QueryPosts(posts []models.TrainingPost, query string, order PostSort) []models.TrainingPost {
	out := make([]models.TrainingPost, 0, len(posts))
	for _, p := range posts {
		if MatchPost(p, query) {
			out = append(out, p)
		}
	}
	switch order {
	case SortDurationAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Duration < out[j].Duration })
	case SortDurationDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Duration > out[j].Duration })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// ParseStates maps filter keys (pending, approved, rejected, selected) to
// states. Unknown keys are ignored.
func ParseStates(keys []string) []State {
	states := make([]State, 0, len(keys))
	for _, raw := range keys {
		for _, k := range strings.Split(raw, ",") {
			switch strings.ToLower(strings.TrimSpace(k)) {
			case "pending":
				states = append(states, StatePending)
			case "approved":
				states = append(states, StateApproved)
			case "rejected":
				states = append(states, StateRejected)
			case "selected":
				states = append(states, StateSelected)
			}
		}
	}
	return states
}

// FilterApplications keeps applications whose state is any of states (all
// when empty) and that match query.
func FilterApplications(apps []models.Application, states []State, query string) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if !stateIn(DeriveApplication(app).State, states) {
			continue
		}
		if MatchApplication(app, query) {
			out = append(out, app)
		}
	}
	return out
}

func stateIn(s State, states []State) bool {
	if len(states) == 0 {
		return true
	}
	for _, candidate := range states {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBuckets maps filter keys to buckets. "ALL" or nothing selects every
// bucket; both waiting spellings select the waiting bucket.
func ParseBuckets(keys []string) []models.TrainingStatus {
	buckets := make([]models.TrainingStatus, 0, len(keys))
	for _, raw := range keys {
		for _, k := range strings.Split(raw, ",") {
			switch models.TrainingStatus(strings.ToUpper(strings.TrimSpace(k))) {
			case "ALL", "":
				continue
			case models.TrainingWaitingApproval, models.TrainingWaitingForApproval:
				buckets = append(buckets, models.TrainingWaitingApproval)
			case models.TrainingNotStarted:
				buckets = append(buckets, models.TrainingNotStarted)
			case models.TrainingInTraining:
				buckets = append(buckets, models.TrainingInTraining)
			case models.TrainingCompleted:
				buckets = append(buckets, models.TrainingCompleted)
			}
		}
	}
	return buckets
}

// FilterStudents keeps students whose Bucket is any of buckets (all when
// empty) and that match query.
func FilterStudents(students []models.Student, buckets []models.TrainingStatus, query string) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if len(buckets) > 0 && !bucketIn(Bucket(s), buckets) {
			continue
		}
		if MatchStudent(s, query) {
			out = append(out, s)
		}
	}
	return out
}

func bucketIn(b models.TrainingStatus, buckets []models.TrainingStatus) bool {
	for _, candidate := range buckets {
		if candidate == b {
			return true
		}
	}
	return false
}

// Company request filter keys.
const (
	RequestFilterAll      = "all"
	RequestFilterSelected = "selected"
)

// FilterCompanyRequests applies the company review filter: all, a server
// status (case-insensitive), or selected.
func FilterCompanyRequests(apps []models.Application, key string) []models.Application {
	key = strings.ToLower(strings.TrimSpace(key))
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		switch key {
		case "", RequestFilterAll:
			out = append(out, app)
		case RequestFilterSelected:
			if app.SelectedByStudent {
				out = append(out, app)
			}
		default:
			if strings.ToLower(string(app.Status)) == key {
				out = append(out, app)
			}
		}
	}
	return out
}

// CanReview reports whether the company may still approve or reject.
func CanReview(app models.Application) bool {
	return app.Status == models.StatusUnderReview
}

// InTraining reports whether app is an active trainee placement still owed a
// final report. Weekly activity reports are only accepted for these.
func InTraining(app models.Application) bool {
	return app.Status == models.StatusApproved &&
		app.SelectedByStudent &&
		app.OfficialDocument != "" &&
		(app.FinalReportByStudent == "" || app.FinalReportByCompany == "")
}

// Placed reports whether the student accepted this approved placement.
func Placed(app models.Application) bool {
	return app.Status == models.StatusApproved && app.SelectedByStudent
}

// MatchTrainee searches the trainee's name, student id and department.
func MatchTrainee(app models.Application, query string) bool {
	if app.Student == nil {
		return containsFold(query)
	}
	return MatchStudent(*app.Student, query)
}
