package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

// SubmitWeeklyReport uploads a rendered weekly activity PDF together with the
// form values it was built from.
func (c *Client) SubmitWeeklyReport(ctx context.Context, token string, in models.WeeklyReportInput, report *upload.File) (Result, error) {
	skills, err := json.Marshal(in.SkillsLearned)
	if err != nil {
		return Result{}, err
	}
	form := NewForm().
		Field("studentName", in.StudentName).
		Field("studentId", in.StudentID).
		Field("companyName", in.CompanyName).
		Field("supervisorName", in.SupervisorName).
		Field("weekNumber", strconv.Itoa(in.WeekNumber)).
		Field("startDate", in.StartDate).
		Field("endDate", in.EndDate).
		Field("activitiesSummary", in.ActivitiesSummary).
		Field("challengesFaced", in.ChallengesFaced).
		Field("supervisorComments", in.SupervisorComments).
		Field("skillsLearned", string(skills)).
		File("activityReport", report)
	path := "/companies/applications/" + url.PathEscape(in.ApplicationID) + "/activity"
	return c.doMultipart(ctx, http.MethodPost, path, token, form, nil)
}

// SubmitCompanyFinalReport uploads the company's final evaluation PDF.
func (c *Client) SubmitCompanyFinalReport(ctx context.Context, token string, in models.CompanyFinalReportInput, report *upload.File) (Result, error) {
	form := NewForm().
		Field("studentName", in.StudentName).
		Field("studentId", in.StudentID).
		Field("companyName", in.CompanyName).
		Field("supervisorName", in.SupervisorName).
		Field("trainingTitle", in.TrainingTitle).
		Field("overallRating", in.OverallRating).
		Field("comments", in.Comments).
		File("finalReport", report)
	path := "/companies/applications/" + url.PathEscape(in.ApplicationID) + "/final-report"
	return c.doMultipart(ctx, http.MethodPost, path, token, form, nil)
}

// SubmitStudentFinalReport uploads the student's rendered training report.
func (c *Client) SubmitStudentFinalReport(ctx context.Context, token, studentName, universityID, applicationID string, report *upload.File) (Result, error) {
	form := NewForm().
		File("finalReport", report).
		Field("studentName", studentName).
		Field("universityId", universityID).
		Field("applicationId", applicationID)
	return c.doMultipart(ctx, http.MethodPost, "/students/training/report", token, form, nil)
}
