package service

import (
	"context"
	"sync"
	"time"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/jobs"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

// mockBackend stands in for the training backend client. Every call is
// counted by method name.
type mockBackend struct {
	mu    sync.Mutex
	calls map[string]int

	loginResult *models.AuthResult
	loginErr    error
	me          *models.WhoAmI
	meErr       error
	onMe        func()
	verify      map[string]interface{}
	verifyErr   error
	forgotMsg   string

	companyPosts []models.TrainingPost
	studentPosts []models.TrainingPost
	createdPost  *models.TrainingPost
	postResult   upstream.Result

	studentApps []models.Application
	companyApps []models.Application
	pendingApps []models.Application
	students    []models.Student
	company     *models.Company

	applyApp    *models.Application
	applyErr    error
	applyBlock  chan struct{}
	selectErr   error
	reviewErr   error
	writeResult upstream.Result

	weeklyIn    models.WeeklyReportInput
	weeklyFile  *upload.File
	companyIn   models.CompanyFinalReportInput
	studentFile *upload.File
	reportErr   error
	docFile     *upload.File
	profileIn   models.CompanyProfileUpdate
}

func (m *mockBackend) track(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockBackend) total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *mockBackend) Login(ctx context.Context, role models.Role, creds models.Credentials) (*models.AuthResult, error) {
	m.track("Login")
	return m.loginResult, m.loginErr
}

func (m *mockBackend) RegisterCompany(ctx context.Context, reg models.CompanyRegistration) (*models.AuthResult, error) {
	m.track("RegisterCompany")
	return m.loginResult, m.loginErr
}

func (m *mockBackend) VerifyCompany(ctx context.Context, nationalID string) (map[string]interface{}, error) {
	m.track("VerifyCompany")
	return m.verify, m.verifyErr
}

func (m *mockBackend) Me(ctx context.Context, token string) (*models.WhoAmI, error) {
	m.track("Me")
	if m.onMe != nil {
		m.onMe()
	}
	return m.me, m.meErr
}

func (m *mockBackend) ForgotPassword(ctx context.Context, email string) (string, error) {
	m.track("ForgotPassword")
	return m.forgotMsg, nil
}

func (m *mockBackend) ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.AuthResult, error) {
	m.track("ResetPassword")
	return m.loginResult, m.loginErr
}

func (m *mockBackend) CompanyPosts(ctx context.Context, token string) ([]models.TrainingPost, error) {
	m.track("CompanyPosts")
	return m.companyPosts, nil
}

func (m *mockBackend) StudentPosts(ctx context.Context, token string) ([]models.TrainingPost, error) {
	m.track("StudentPosts")
	return m.studentPosts, nil
}

func (m *mockBackend) CreatePost(ctx context.Context, token string, in models.PostInput) (*models.TrainingPost, upstream.Result, error) {
	m.track("CreatePost")
	return m.createdPost, m.postResult, nil
}

func (m *mockBackend) UpdatePost(ctx context.Context, token, id string, in models.PostInput) (*models.TrainingPost, upstream.Result, error) {
	m.track("UpdatePost")
	return m.createdPost, m.postResult, nil
}

func (m *mockBackend) DeletePost(ctx context.Context, token, id string) (upstream.Result, error) {
	m.track("DeletePost")
	return m.postResult, nil
}

func (m *mockBackend) Apply(ctx context.Context, token, postID string, cv *upload.File) (*models.Application, upstream.Result, error) {
	m.track("Apply")
	if m.applyBlock != nil {
		<-m.applyBlock
	}
	if m.applyErr != nil {
		return nil, upstream.Result{}, m.applyErr
	}
	return m.applyApp, m.writeResult, nil
}

func (m *mockBackend) StudentApplications(ctx context.Context, token string) ([]models.Application, error) {
	m.track("StudentApplications")
	return m.studentApps, nil
}

func (m *mockBackend) SelectApplication(ctx context.Context, token, id string) (upstream.Result, error) {
	m.track("SelectApplication")
	return m.writeResult, m.selectErr
}

func (m *mockBackend) CompanyApplications(ctx context.Context, token string) ([]models.Application, error) {
	m.track("CompanyApplications")
	return m.companyApps, nil
}

func (m *mockBackend) UpdateApplicationStatus(ctx context.Context, token, id string, status models.ApplicationStatus) (upstream.Result, error) {
	m.track("UpdateApplicationStatus")
	return m.writeResult, m.reviewErr
}

func (m *mockBackend) PendingApplications(ctx context.Context, token string) ([]models.Application, error) {
	m.track("PendingApplications")
	return m.pendingApps, nil
}

func (m *mockBackend) UploadOfficialDocument(ctx context.Context, token, id string, doc *upload.File) (upstream.Result, error) {
	m.track("UploadOfficialDocument")
	m.docFile = doc
	return m.writeResult, nil
}

func (m *mockBackend) DepartmentStudents(ctx context.Context, token string) ([]models.Student, error) {
	m.track("DepartmentStudents")
	return m.students, nil
}

func (m *mockBackend) CompanyProfile(ctx context.Context, token string) (*models.Company, error) {
	m.track("CompanyProfile")
	return m.company, nil
}

func (m *mockBackend) UpdateCompanyProfile(ctx context.Context, token string, in models.CompanyProfileUpdate, picture *upload.File) (upstream.Result, error) {
	m.track("UpdateCompanyProfile")
	m.profileIn = in
	return m.writeResult, nil
}

func (m *mockBackend) SubmitWeeklyReport(ctx context.Context, token string, in models.WeeklyReportInput, report *upload.File) (upstream.Result, error) {
	m.track("SubmitWeeklyReport")
	m.weeklyIn = in
	m.weeklyFile = report
	return m.writeResult, m.reportErr
}

func (m *mockBackend) SubmitCompanyFinalReport(ctx context.Context, token string, in models.CompanyFinalReportInput, report *upload.File) (upstream.Result, error) {
	m.track("SubmitCompanyFinalReport")
	m.companyIn = in
	return m.writeResult, m.reportErr
}

func (m *mockBackend) SubmitStudentFinalReport(ctx context.Context, token, studentName, universityID, applicationID string, report *upload.File) (upstream.Result, error) {
	m.track("SubmitStudentFinalReport")
	m.studentFile = report
	return m.writeResult, m.reportErr
}

// mockScheduler records jobs instead of running them.
type mockScheduler struct {
	jobs   []jobs.Job
	delays []time.Duration
}

func (m *mockScheduler) EnqueueAfter(job jobs.Job, delay time.Duration) error {
	m.jobs = append(m.jobs, job)
	m.delays = append(m.delays, delay)
	return nil
}

type mockAuditRepo struct {
	logs []*models.AuditLog
	err  error
}

func (m *mockAuditRepo) Create(ctx context.Context, log *models.AuditLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	out := make([]models.AuditLog, 0, len(m.logs))
	for _, l := range m.logs {
		out = append(out, *l)
	}
	return out, m.err
}

func studentPrincipal() *models.Principal {
	return &models.Principal{
		SessionID: "sid-1",
		UserID:    "stu-1",
		Role:      models.RoleStudent,
		Token:     "backend-token",
		User:      models.User{ID: "stu-1", Name: "Lina Haddad", UniversityID: "2019901", Role: models.RoleStudent},
	}
}

func companyPrincipal() *models.Principal {
	return &models.Principal{
		SessionID: "sid-2",
		UserID:    "cmp-1",
		Role:      models.RoleCompany,
		Token:     "backend-token",
		User:      models.User{ID: "cmp-1", Name: "Acme Labs", Role: models.RoleCompany},
	}
}

func departmentPrincipal() *models.Principal {
	return &models.Principal{
		SessionID: "sid-3",
		UserID:    "dh-1",
		Role:      models.RoleDepartmentHead,
		Token:     "backend-token",
		User:      models.User{ID: "dh-1", Name: "Dr. Sami", Department: "Computer Science", Role: models.RoleDepartmentHead},
	}
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func pdfFile(name string) *upload.File {
	return upload.New(name, pdfBytes)
}
