// Package view holds the pure derivations every dashboard shares: display
// states and actions for applications, training buckets for department
// listings, document lists, and the search/filter/sort predicates.
package view

import (
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

// State is the single display state of an application or post.
type State string

const (
	StateNotApplied     State = "NOT_APPLIED"
	StatePending        State = "PENDING"
	StateApproved       State = "APPROVED"
	StateRejected       State = "REJECTED"
	StateSelected       State = "SELECTED"
	StateAlreadyApplied State = "ALREADY_APPLIED"
)

// Action is a user action offered for a state.
type Action string

const (
	ActionApply  Action = "APPLY"
	ActionRetry  Action = "RETRY"
	ActionSelect Action = "SELECT"
)

// Derived is the result of collapsing server status, local attempt outcome and
// the selection flag.
type Derived struct {
	State   State    `json:"state"`
	Label   string   `json:"label"`
	Actions []Action `json:"actions"`
	// LocalFailure marks a Rejected state caused by a failed submission rather
	// than a server rejection.
	LocalFailure bool   `json:"localFailure,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Can reports whether the action is offered.
func (d Derived) Can(a Action) bool {
	for _, candidate := range d.Actions {
		if candidate == a {
			return true
		}
	}
	return false
}

var stateLabels = map[State]string{
	StateNotApplied:     "Not Applied",
	StatePending:        "Pending",
	StateApproved:       "Approved",
	StateRejected:       "Rejected",
	StateSelected:       "Selected",
	StateAlreadyApplied: "Already Applied",
}

func derived(state State, actions ...Action) Derived {
	if actions == nil {
		actions = []Action{}
	}
	return Derived{State: state, Label: stateLabels[state], Actions: actions}
}

// DeriveApplication maps a server application to its display state. Unknown
// statuses are shown as under review.
func DeriveApplication(app models.Application) Derived {
	switch app.Status {
	case models.StatusApproved:
		if app.SelectedByStudent {
			return derived(StateSelected)
		}
		return derived(StateApproved, ActionSelect)
	case models.StatusRejected:
		return derived(StateRejected)
	default:
		return derived(StatePending)
	}
}

// DerivePost resolves the state of a post for the student browsing it. The
// latest local attempt decides first; without one the server application, if
// any, decides; otherwise the post can be applied to.
func DerivePost(app *models.Application, attempt *models.SubmissionAttempt) Derived {
	if attempt != nil {
		switch attempt.Outcome {
		case models.OutcomeDuplicate:
			d := derived(StateAlreadyApplied)
			d.Message = attempt.Message
			return d
		case models.OutcomeFailed:
			d := derived(StateRejected, ActionRetry)
			d.LocalFailure = true
			d.Message = attempt.Message
			return d
		case models.OutcomeSubmitted:
			if app == nil {
				return derived(StatePending)
			}
		}
	}
	if app != nil {
		return DeriveApplication(*app)
	}
	return derived(StateNotApplied, ActionApply)
}

// CanSelect reports whether the application may be selected by its student.
func CanSelect(app models.Application) bool {
	return DeriveApplication(app).Can(ActionSelect)
}

// ApplySelection returns a copy of apps with targetID selected and any other
// selected application reverted to plain approved.
func ApplySelection(apps []models.Application, targetID string) ([]models.Application, error) {
	idx := -1
	for i := range apps {
		if apps[i].ID == targetID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	if !CanSelect(apps[idx]) {
		return nil, appErrors.ErrNotSelectable
	}

	out := make([]models.Application, len(apps))
	copy(out, apps)
	for i := range out {
		out[i].SelectedByStudent = i == idx
	}
	return out, nil
}
