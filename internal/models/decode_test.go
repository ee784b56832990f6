package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationDecodesBackendShapes(t *testing.T) {
	payload := `{
		"_id": "app-1",
		"status": "APPROVED",
		"selectedByStudent": true,
		"student": {"_id": "stu-1", "name": "Lina", "studentId": 2019901, "department": "CS"},
		"trainingPost": {"_id": "post-1", "title": "Backend Intern", "duration": "8", "company": "cmp-1"},
		"activityReports": ["uploads/a1.pdf"]
	}`

	var app Application
	require.NoError(t, json.Unmarshal([]byte(payload), &app))
	assert.Equal(t, "2019901", app.Student.StudentID)
	assert.Equal(t, Weeks(8), app.TrainingPost.Duration)
	assert.Equal(t, "cmp-1", app.TrainingPost.Company.ID)
	assert.Equal(t, "Backend Intern", app.PostTitle())
	assert.Empty(t, app.CompanyName())
}

func TestReferencesMayBeBareIDs(t *testing.T) {
	var app Application
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"a","student":"stu-9","trainingPost":"post-9"}`), &app))
	assert.Equal(t, "stu-9", app.Student.ID)
	assert.Equal(t, "post-9", app.TrainingPost.ID)
}

func TestWeeksAcceptsLooseValues(t *testing.T) {
	cases := map[string]Weeks{`6`: 6, `"12"`: 12, `"6 weeks"`: 6, `null`: 0, `"soon"`: 0}
	for raw, want := range cases {
		var w Weeks
		require.NoError(t, json.Unmarshal([]byte(raw), &w), raw)
		assert.Equal(t, want, w, raw)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleDepartmentHead.Valid())
	assert.False(t, Role("admin").Valid())
}
