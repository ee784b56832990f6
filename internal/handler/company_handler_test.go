package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type fakeCompanyPosts struct {
	created   models.PostInput
	updatedID string
	deleted   string
	confirmed bool
}

func (f *fakeCompanyPosts) CompanyPosts(context.Context, *models.Principal) ([]models.TrainingPost, error) {
	return []models.TrainingPost{{ID: "p1", Title: "Backend Intern"}}, nil
}

func (f *fakeCompanyPosts) Create(_ context.Context, _ *models.Principal, in models.PostInput) (*models.TrainingPost, string, error) {
	f.created = in
	return &models.TrainingPost{ID: "p2", Title: in.Title}, "Training post created successfully", nil
}

func (f *fakeCompanyPosts) Update(_ context.Context, _ *models.Principal, id string, in models.PostInput) (*models.TrainingPost, string, error) {
	f.updatedID = id
	return &models.TrainingPost{ID: id, Title: in.Title}, "Training post updated successfully", nil
}

func (f *fakeCompanyPosts) Delete(_ context.Context, _ *models.Principal, id string, confirmed bool) (string, error) {
	if !confirmed {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "deletion must be confirmed")
	}
	f.deleted = id
	f.confirmed = confirmed
	return "Training post deleted successfully", nil
}

type fakeCompanyApps struct {
	filter  string
	review  dto.UpdateApplicationStatusRequest
	trainee dto.TraineeQuery
	scope   string
}

func (f *fakeCompanyApps) CompanyRequests(_ context.Context, _ *models.Principal, q dto.RequestQuery) ([]dto.RequestView, error) {
	f.filter = q.Filter
	return []dto.RequestView{}, nil
}

func (f *fakeCompanyApps) UpdateStatus(_ context.Context, _ *models.Principal, id string, req dto.UpdateApplicationStatusRequest) (string, error) {
	f.review = req
	return "Application approved successfully", nil
}

func (f *fakeCompanyApps) Trainees(_ context.Context, _ *models.Principal, q dto.TraineeQuery) ([]dto.TraineeView, error) {
	f.trainee = q
	return []dto.TraineeView{{ApplicationID: "a1"}}, nil
}

func (f *fakeCompanyApps) Trainee(_ context.Context, _ *models.Principal, id, scope string) (*models.Application, error) {
	f.scope = scope
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "trainee not found")
	}
	return &models.Application{ID: id, Status: models.StatusApproved}, nil
}

type fakeCompanyReports struct {
	weekly models.WeeklyReportInput
	final  models.CompanyFinalReportInput
	file   *upload.File
}

func (f *fakeCompanyReports) SubmitWeekly(_ context.Context, _ *models.Principal, in models.WeeklyReportInput) (*dto.ReportSubmission, error) {
	f.weekly = in
	return &dto.ReportSubmission{Message: "Weekly report submitted successfully"}, nil
}

func (f *fakeCompanyReports) SubmitCompanyFinal(_ context.Context, _ *models.Principal, in models.CompanyFinalReportInput, report *upload.File) (*dto.ReportSubmission, error) {
	f.final = in
	f.file = report
	return &dto.ReportSubmission{Message: "Final report submitted successfully"}, nil
}

type fakeProfile struct {
	update  models.CompanyProfileUpdate
	picture *upload.File
}

func (f *fakeProfile) Get(context.Context, *models.Principal) (*dto.CompanyProfileView, error) {
	return &dto.CompanyProfileView{Company: models.Company{ID: "cmp-1", Name: "Acme Labs"}, ProfilePictureURL: "http://files/p.png"}, nil
}

func (f *fakeProfile) Update(_ context.Context, _ *models.Principal, in models.CompanyProfileUpdate, picture *upload.File) (string, error) {
	f.update = in
	f.picture = picture
	return "Profile updated successfully", nil
}

func newCompanyHandler() (*CompanyHandler, *fakeCompanyPosts, *fakeCompanyApps, *fakeCompanyReports, *fakeProfile) {
	posts := &fakeCompanyPosts{}
	apps := &fakeCompanyApps{}
	reports := &fakeCompanyReports{}
	profile := &fakeProfile{}
	return NewCompanyHandler(posts, apps, reports, profile, 1<<20), posts, apps, reports, profile
}

func TestCompanyHandlerPostLifecycle(t *testing.T) {
	handler, posts, _, _, _ := newCompanyHandler()

	c, rec := newTestContext(jsonRequest(t, http.MethodGet, "/company/posts", nil), companyPrincipal())
	handler.ListPosts(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec).Data["posts"], 1)

	input := models.PostInput{Title: "Go Intern", Duration: "8", Location: "Amman", AvailableUntil: "2026-12-01", Description: "APIs"}
	c, rec = newTestContext(jsonRequest(t, http.MethodPost, "/company/posts", input), companyPrincipal())
	handler.CreatePost(c)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Go Intern", posts.created.Title)
	assert.Equal(t, "Training post created successfully", decode(t, rec).Message)

	c, rec = newTestContext(jsonRequest(t, http.MethodPut, "/company/posts/p2", input), companyPrincipal(), gin.Param{Key: "id", Value: "p2"})
	handler.UpdatePost(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p2", posts.updatedID)
}

func TestCompanyHandlerDeleteNeedsConfirmation(t *testing.T) {
	handler, posts, _, _, _ := newCompanyHandler()

	c, rec := newTestContext(jsonRequest(t, http.MethodDelete, "/company/posts/p1", nil), companyPrincipal(), gin.Param{Key: "id", Value: "p1"})
	handler.DeletePost(c)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Empty(t, posts.deleted)

	c, rec = newTestContext(jsonRequest(t, http.MethodDelete, "/company/posts/p1?confirm=true", nil), companyPrincipal(), gin.Param{Key: "id", Value: "p1"})
	handler.DeletePost(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", posts.deleted)
}

func TestCompanyHandlerRequestsAndReview(t *testing.T) {
	handler, _, apps, _, _ := newCompanyHandler()

	c, rec := newTestContext(jsonRequest(t, http.MethodGet, "/company/applications?filter=pending", nil), companyPrincipal())
	handler.Requests(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", apps.filter)

	c, rec = newTestContext(jsonRequest(t, http.MethodPut, "/company/applications/a1", map[string]string{"status": "approved"}), companyPrincipal(),
		gin.Param{Key: "id", Value: "a1"})
	handler.Review(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ApplicationStatus("approved"), apps.review.Status)
	assert.Equal(t, "Application approved successfully", decode(t, rec).Message)
}

func TestCompanyHandlerTrainees(t *testing.T) {
	handler, _, apps, _, _ := newCompanyHandler()

	c, rec := newTestContext(jsonRequest(t, http.MethodGet, "/company/trainees?scope=weekly&search=sara", nil), companyPrincipal())
	handler.Trainees(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dto.TraineeScopeWeekly, apps.trainee.Scope)
	assert.Len(t, decode(t, rec).Data["students"], 1)

	c, rec = newTestContext(jsonRequest(t, http.MethodGet, "/company/trainees/missing?scope=final", nil), companyPrincipal(),
		gin.Param{Key: "id", Value: "missing"})
	handler.Trainee(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dto.TraineeScopeFinal, apps.scope)
}

func TestCompanyHandlerWeeklyReportUsesPathID(t *testing.T) {
	handler, _, _, reports, _ := newCompanyHandler()

	body := map[string]interface{}{"applicationId": "other", "weekNumber": 3, "skillsLearned": []string{"Go"}}
	c, rec := newTestContext(jsonRequest(t, http.MethodPost, "/company/applications/a1/activity", body), companyPrincipal(),
		gin.Param{Key: "id", Value: "a1"})
	handler.WeeklyReport(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a1", reports.weekly.ApplicationID)
	assert.Equal(t, 3, reports.weekly.WeekNumber)
	assert.Equal(t, []string{"Go"}, reports.weekly.SkillsLearned)
}

func TestCompanyHandlerFinalReportMultipart(t *testing.T) {
	handler, _, _, reports, _ := newCompanyHandler()

	fields := map[string]string{"studentName": "Sara", "studentId": "2019901", "supervisorName": "Omar", "overallRating": "excellent"}
	req := multipartRequest(t, http.MethodPost, "/company/applications/a1/final-report", fields, "finalReport", "final.pdf", pdfBytes)
	c, rec := newTestContext(req, companyPrincipal(), gin.Param{Key: "id", Value: "a1"})
	handler.FinalReport(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "a1", reports.final.ApplicationID)
	assert.Equal(t, "Sara", reports.final.StudentName)
	assert.Equal(t, "excellent", reports.final.OverallRating)
	require.NotNil(t, reports.file)
	assert.Equal(t, "final.pdf", reports.file.Name)
}

func TestCompanyHandlerProfile(t *testing.T) {
	handler, _, _, _, profile := newCompanyHandler()

	c, rec := newTestContext(jsonRequest(t, http.MethodGet, "/company/profile", nil), companyPrincipal())
	handler.Profile(c)
	require.Equal(t, http.StatusOK, rec.Code)
	company := decode(t, rec).Data["company"].(map[string]interface{})
	assert.Equal(t, "http://files/p.png", company["profilePictureUrl"])

	fields := map[string]string{"name": "Acme", "phone": "0790000000", "location": "Amman", "fieldOfWork": "Software"}
	req := multipartRequest(t, http.MethodPut, "/company/profile", fields, "", "", nil)
	c, rec = newTestContext(req, companyPrincipal())
	handler.UpdateProfile(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Acme", profile.update.Name)
	assert.Equal(t, "Software", profile.update.FieldOfWork)
	assert.Nil(t, profile.picture)
}
