package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/export"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/storage"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

func newReportService(t *testing.T, backend *mockBackend) *ReportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	return NewReportService(backend, export.NewPlainPDFExporter(), store, signer, nil, zap.NewNop(), ReportConfig{APIPrefix: "/api/v1"})
}

func traineeApps() []models.Application {
	return []models.Application{{
		ID:                "app-1",
		Status:            models.StatusApproved,
		SelectedByStudent: true,
		OfficialDocument:  "uploads/doc.pdf",
		Student:           &models.Student{ID: "s1", Name: "Omar Khaled", StudentID: "2020111"},
		TrainingPost:      &models.TrainingPost{ID: "p1", Title: "Backend Intern", Duration: 8, Company: &models.Company{Name: "Acme Labs"}},
	}}
}

func validWeekly() models.WeeklyReportInput {
	return models.WeeklyReportInput{
		ApplicationID:     "app-1",
		SupervisorName:    "Rana Odeh",
		WeekNumber:        3,
		StartDate:         "2026-03-01",
		EndDate:           "2026-03-05",
		ActivitiesSummary: "Built REST endpoints for invoices",
		ChallengesFaced:   "Flaky integration environment",
		SkillsLearned:     []string{"Go testing", " "},
	}
}

func TestWeeklyReportValidationSendsNothing(t *testing.T) {
	cases := map[string]func(*models.WeeklyReportInput){
		"no trainee":  func(in *models.WeeklyReportInput) { in.ApplicationID = "" },
		"no week":     func(in *models.WeeklyReportInput) { in.WeekNumber = 0 },
		"bad date":    func(in *models.WeeklyReportInput) { in.StartDate = "03/01/2026" },
		"no summary":  func(in *models.WeeklyReportInput) { in.ActivitiesSummary = "  " },
		"no skills":   func(in *models.WeeklyReportInput) { in.SkillsLearned = []string{" "} },
		"no problems": func(in *models.WeeklyReportInput) { in.ChallengesFaced = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			backend := &mockBackend{companyApps: traineeApps()}
			svc := newReportService(t, backend)
			in := validWeekly()
			mutate(&in)

			_, err := svc.SubmitWeekly(context.Background(), companyPrincipal(), in)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
			assert.Zero(t, backend.total())
		})
	}
}

func TestWeeklyReportRendersEnteredValues(t *testing.T) {
	backend := &mockBackend{companyApps: traineeApps()}
	svc := newReportService(t, backend)

	res, err := svc.SubmitWeekly(context.Background(), companyPrincipal(), validWeekly())
	require.NoError(t, err)
	assert.Equal(t, "Weekly report submitted successfully", res.Message)

	require.NotNil(t, backend.weeklyFile)
	assert.Equal(t, upload.PDFMime, backend.weeklyFile.ContentType)
	assert.True(t, bytes.HasPrefix(backend.weeklyFile.Data, []byte("%PDF")))
	for _, literal := range []string{"Built REST endpoints for invoices", "Flaky integration environment", "Go testing", "Rana Odeh"} {
		assert.True(t, bytes.Contains(backend.weeklyFile.Data, []byte(literal)), literal)
	}
	assert.Equal(t, "Omar Khaled", backend.weeklyIn.StudentName)
	assert.Equal(t, "2020111", backend.weeklyIn.StudentID)
	assert.Equal(t, "Acme Labs", backend.weeklyIn.CompanyName)
	assert.Equal(t, []string{"Go testing"}, backend.weeklyIn.SkillsLearned)
}

func TestWeeklyReportRequiresActiveTrainee(t *testing.T) {
	apps := traineeApps()
	apps[0].OfficialDocument = ""
	backend := &mockBackend{companyApps: apps}
	svc := newReportService(t, backend)

	_, err := svc.SubmitWeekly(context.Background(), companyPrincipal(), validWeekly())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
	assert.Zero(t, backend.count("SubmitWeeklyReport"))
}

func TestCompanyFinalReportRequiresPDF(t *testing.T) {
	backend := &mockBackend{companyApps: traineeApps()}
	svc := newReportService(t, backend)
	in := models.CompanyFinalReportInput{ApplicationID: "app-1", StudentName: "Omar Khaled", StudentID: "2020111", SupervisorName: "Rana", OverallRating: "excellent"}

	_, err := svc.SubmitCompanyFinal(context.Background(), companyPrincipal(), in, upload.New("report.txt", []byte("not a pdf")))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, backend.total())

	_, err = svc.SubmitCompanyFinal(context.Background(), companyPrincipal(), in, pdfFile("final.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Backend Intern", backend.companyIn.TrainingTitle)
}

func studentFinalRequest() dto.StudentFinalReportRequest {
	return dto.StudentFinalReportRequest{
		ApplicationID: "app-1",
		StudentFinalReportInput: models.StudentFinalReportInput{
			TrainingOverview:  "Worked on the billing platform",
			TasksCompleted:    "Implemented invoice export",
			SkillsLearned:     "Go and PostgreSQL",
			Challenges:        "Legacy schema",
			Feedback:          "More mentoring sessions",
			OverallExperience: "Excellent",
		},
	}
}

func TestStudentFinalReportRequiresSelection(t *testing.T) {
	apps := traineeApps()
	apps[0].SelectedByStudent = false
	backend := &mockBackend{studentApps: apps}
	svc := newReportService(t, backend)

	_, err := svc.SubmitStudentFinal(context.Background(), studentPrincipal(), studentFinalRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
	assert.Zero(t, backend.count("SubmitStudentFinalReport"))
}

func TestStudentFinalReportKeepsPDFOnMinimumPeriod(t *testing.T) {
	backend := &mockBackend{
		studentApps: traineeApps(),
		reportErr:   appErrors.Clone(appErrors.ErrMinTrainingPeriod, "You must complete at least 8 weeks of training"),
	}
	svc := newReportService(t, backend)

	res, err := svc.SubmitStudentFinal(context.Background(), studentPrincipal(), studentFinalRequest())
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrMinTrainingPeriod))
	require.NotNil(t, res)
	require.NotNil(t, res.Fallback)
	assert.True(t, strings.HasPrefix(res.Fallback.DownloadURL, "/api/v1/downloads/"))

	token := strings.TrimPrefix(res.Fallback.DownloadURL, "/api/v1/downloads/")
	download, err := svc.ResolveDownload(token)
	require.NoError(t, err)
	assert.Equal(t, backend.studentFile.Data, download.Data)
	assert.True(t, bytes.Contains(download.Data, []byte("Implemented invoice export")))
	assert.True(t, strings.HasSuffix(download.Filename, ".pdf"))

	_, err = svc.ResolveDownload(token + "x")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestStudentFinalReportSuccess(t *testing.T) {
	backend := &mockBackend{studentApps: traineeApps()}
	svc := newReportService(t, backend)

	res, err := svc.SubmitStudentFinal(context.Background(), studentPrincipal(), studentFinalRequest())
	require.NoError(t, err)
	assert.Nil(t, res.Fallback)
	assert.Equal(t, "training-report-2019901.pdf", backend.studentFile.Name)
}

func TestStudentFinalReportValidation(t *testing.T) {
	backend := &mockBackend{studentApps: traineeApps()}
	svc := newReportService(t, backend)
	req := studentFinalRequest()
	req.Challenges = " "

	_, err := svc.SubmitStudentFinal(context.Background(), studentPrincipal(), req)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, backend.total())
}
