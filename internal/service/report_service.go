package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/export"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/storage"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type reportBackend interface {
	CompanyApplications(ctx context.Context, token string) ([]models.Application, error)
	StudentApplications(ctx context.Context, token string) ([]models.Application, error)
	SubmitWeeklyReport(ctx context.Context, token string, in models.WeeklyReportInput, report *upload.File) (upstream.Result, error)
	SubmitCompanyFinalReport(ctx context.Context, token string, in models.CompanyFinalReportInput, report *upload.File) (upstream.Result, error)
	SubmitStudentFinalReport(ctx context.Context, token, studentName, universityID, applicationID string, report *upload.File) (upstream.Result, error)
}

type reportRenderer interface {
	RenderWeeklyActivity(r export.WeeklyActivity) ([]byte, error)
	RenderTrainingSummary(r export.TrainingSummary) ([]byte, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Read(filename string) ([]byte, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ReportConfig tunes report generation and fallback downloads.
type ReportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// Download is a stored report resolved from a signed token.
type Download struct {
	Filename string
	Data     []byte
}

// ReportService renders training reports to PDF and relays them to the
// backend. When the backend refuses a student report for the minimum training
// period, the PDF is kept and offered as a signed download instead.
type ReportService struct {
	backend   reportBackend
	renderer  reportRenderer
	storage   fileStorage
	signer    *storage.SignedURLSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportConfig
	busy      *inFlight
	now       func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(backend reportBackend, renderer reportRenderer, store fileStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if renderer == nil {
		renderer = export.NewPDFExporter()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		backend:   backend,
		renderer:  renderer,
		storage:   store,
		signer:    signer,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		busy:      newInFlight(),
		now:       time.Now,
	}
}

// SubmitWeekly renders and uploads a weekly activity report for a trainee.
func (s *ReportService) SubmitWeekly(ctx context.Context, p *models.Principal, in models.WeeklyReportInput) (*dto.ReportSubmission, error) {
	in = trimWeekly(in)
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, weeklyValidationMessage(in))
	}
	app, err := s.trainee(ctx, p, in.ApplicationID, view.InTraining)
	if err != nil {
		return nil, err
	}
	if in.StudentName == "" && app.Student != nil {
		in.StudentName = app.Student.Name
	}
	if in.StudentID == "" && app.Student != nil {
		in.StudentID = app.Student.StudentID
	}
	if in.CompanyName == "" {
		in.CompanyName = firstNonEmpty(app.CompanyName(), p.User.Name)
	}

	release, err := s.busy.acquire("report:" + in.ApplicationID)
	if err != nil {
		return nil, err
	}
	defer release()

	pdf, err := s.renderer.RenderWeeklyActivity(export.WeeklyActivity{
		StudentName:        in.StudentName,
		StudentID:          in.StudentID,
		CompanyName:        in.CompanyName,
		SupervisorName:     in.SupervisorName,
		WeekNumber:         in.WeekNumber,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		ActivitiesSummary:  in.ActivitiesSummary,
		SkillsLearned:      in.SkillsLearned,
		ChallengesFaced:    in.ChallengesFaced,
		SupervisorComments: in.SupervisorComments,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render weekly report")
	}
	file := &upload.File{
		Name:        fmt.Sprintf("weekly-report-week-%d-%s.pdf", in.WeekNumber, sanitizeFilename(in.StudentID)),
		ContentType: upload.PDFMime,
		Data:        pdf,
	}
	res, err := s.backend.SubmitWeeklyReport(ctx, p.Token, in, file)
	if err != nil {
		return nil, err
	}
	s.logger.Info("weekly report submitted", zap.String("application_id", in.ApplicationID), zap.Int("week", in.WeekNumber))
	return &dto.ReportSubmission{Message: messageOr(res.Message, "Weekly report submitted successfully")}, nil
}

// SubmitCompanyFinal relays the company's final evaluation PDF.
func (s *ReportService) SubmitCompanyFinal(ctx context.Context, p *models.Principal, in models.CompanyFinalReportInput, report *upload.File) (*dto.ReportSubmission, error) {
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.StudentName = strings.TrimSpace(in.StudentName)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.SupervisorName = strings.TrimSpace(in.SupervisorName)
	if err := s.validator.Struct(in); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please complete all required fields")
	}
	if report == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please upload the final report as a PDF file")
	}
	if err := upload.RequirePDF(report); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Only PDF files are accepted for the final report")
	}
	app, err := s.trainee(ctx, p, in.ApplicationID, view.Placed)
	if err != nil {
		return nil, err
	}
	if in.CompanyName == "" {
		in.CompanyName = firstNonEmpty(app.CompanyName(), p.User.Name)
	}
	if in.TrainingTitle == "" {
		in.TrainingTitle = app.PostTitle()
	}

	release, err := s.busy.acquire("report:" + in.ApplicationID)
	if err != nil {
		return nil, err
	}
	defer release()

	res, err := s.backend.SubmitCompanyFinalReport(ctx, p.Token, in, report)
	if err != nil {
		return nil, err
	}
	s.logger.Info("company final report submitted", zap.String("application_id", in.ApplicationID))
	return &dto.ReportSubmission{Message: messageOr(res.Message, "Final report submitted successfully")}, nil
}

// SubmitStudentFinal renders the student's training report for their selected
// placement and uploads it.
func (s *ReportService) SubmitStudentFinal(ctx context.Context, p *models.Principal, req dto.StudentFinalReportRequest) (*dto.ReportSubmission, error) {
	req = trimStudentFinal(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please fill in all report sections")
	}
	apps, err := s.backend.StudentApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	var app *models.Application
	for i := range apps {
		if apps[i].ID == req.ApplicationID {
			app = &apps[i]
			break
		}
	}
	if app == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	if view.DeriveApplication(*app).State != view.StateSelected {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "select your training position before submitting the final report")
	}

	release, err := s.busy.acquire("report:" + app.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	summary := export.TrainingSummary{
		StudentName:       p.User.Name,
		UniversityID:      p.User.UniversityID,
		CompanyName:       app.CompanyName(),
		Position:          app.PostTitle(),
		Date:              s.now(),
		TrainingOverview:  req.TrainingOverview,
		TasksCompleted:    req.TasksCompleted,
		SkillsLearned:     req.SkillsLearned,
		Challenges:        req.Challenges,
		Feedback:          req.Feedback,
		OverallExperience: req.OverallExperience,
	}
	if app.TrainingPost != nil && app.TrainingPost.Duration > 0 {
		summary.DurationWeeks = strconv.Itoa(int(app.TrainingPost.Duration))
	}
	pdf, err := s.renderer.RenderTrainingSummary(summary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render training report")
	}
	file := &upload.File{
		Name:        fmt.Sprintf("training-report-%s.pdf", sanitizeFilename(firstNonEmpty(p.User.UniversityID, p.UserID))),
		ContentType: upload.PDFMime,
		Data:        pdf,
	}

	res, err := s.backend.SubmitStudentFinalReport(ctx, p.Token, p.User.Name, p.User.UniversityID, app.ID, file)
	if err != nil {
		if !appErrors.Is(err, appErrors.ErrMinTrainingPeriod) {
			return nil, err
		}
		fallback, keepErr := s.keep(p.UserID, file)
		if keepErr != nil {
			s.logger.Error("failed to keep refused training report", zap.String("user_id", p.UserID), zap.Error(keepErr))
			return nil, err
		}
		s.logger.Info("training report refused, kept for download", zap.String("user_id", p.UserID), zap.String("path", fallback.RelativePath))
		return &dto.ReportSubmission{Message: appErrors.FromError(err).Message, Fallback: fallback}, err
	}
	s.logger.Info("student final report submitted", zap.String("user_id", p.UserID), zap.String("application_id", app.ID))
	return &dto.ReportSubmission{Message: messageOr(res.Message, "Training report submitted successfully")}, nil
}

// ResolveDownload returns the stored report behind a signed token.
func (s *ReportService) ResolveDownload(token string) (*Download, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "download link is invalid or has expired")
	}
	data, err := s.storage.Read(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "report file is no longer available")
	}
	name := relPath
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	return &Download{Filename: name, Data: data}, nil
}

// Cleanup removes kept reports older than ttl, defaulting to the configured
// result TTL.
func (s *ReportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// RunCleanup calls Cleanup on every tick until ctx is done.
func (s *ReportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(0)
			if err != nil {
				s.logger.Warn("report cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired reports removed", zap.Int("count", len(removed)))
			}
		}
	}
}

func (s *ReportService) keep(ownerID string, file *upload.File) (*models.ReportFile, error) {
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("report storage not configured")
	}
	name := fmt.Sprintf("%s/%s_%s", sanitizeFilename(ownerID), s.now().UTC().Format("20060102_150405"), file.Name)
	relPath, err := s.storage.Save(name, file.Data)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(ownerID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &models.ReportFile{
		Filename:     file.Name,
		RelativePath: relPath,
		DownloadURL:  fmt.Sprintf("%s/downloads/%s", prefix, token),
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *ReportService) trainee(ctx context.Context, p *models.Principal, applicationID string, eligible func(models.Application) bool) (*models.Application, error) {
	apps, err := s.backend.CompanyApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID != applicationID {
			continue
		}
		if !eligible(apps[i]) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "please select a student currently training with your company")
		}
		return &apps[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "please select a student")
}

func weeklyValidationMessage(in models.WeeklyReportInput) string {
	switch {
	case in.ApplicationID == "":
		return "please select a student"
	case in.WeekNumber < 1 || in.StartDate == "" || in.EndDate == "" || in.ActivitiesSummary == "" || in.ChallengesFaced == "":
		return "please complete all required fields"
	case len(in.SkillsLearned) == 0:
		return "please add at least one skill learned"
	}
	return "invalid weekly report"
}

func trimWeekly(in models.WeeklyReportInput) models.WeeklyReportInput {
	in.ApplicationID = strings.TrimSpace(in.ApplicationID)
	in.StudentName = strings.TrimSpace(in.StudentName)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.SupervisorName = strings.TrimSpace(in.SupervisorName)
	in.StartDate = strings.TrimSpace(in.StartDate)
	in.EndDate = strings.TrimSpace(in.EndDate)
	in.ActivitiesSummary = strings.TrimSpace(in.ActivitiesSummary)
	in.ChallengesFaced = strings.TrimSpace(in.ChallengesFaced)
	skills := make([]string, 0, len(in.SkillsLearned))
	for _, skill := range in.SkillsLearned {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	in.SkillsLearned = skills
	return in
}

func trimStudentFinal(req dto.StudentFinalReportRequest) dto.StudentFinalReportRequest {
	req.ApplicationID = strings.TrimSpace(req.ApplicationID)
	req.TrainingOverview = strings.TrimSpace(req.TrainingOverview)
	req.TasksCompleted = strings.TrimSpace(req.TasksCompleted)
	req.SkillsLearned = strings.TrimSpace(req.SkillsLearned)
	req.Challenges = strings.TrimSpace(req.Challenges)
	req.Feedback = strings.TrimSpace(req.Feedback)
	req.OverallExperience = strings.ToLower(strings.TrimSpace(req.OverallExperience))
	return req
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
