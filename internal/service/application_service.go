package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type applicationBackend interface {
	Apply(ctx context.Context, token, postID string, cv *upload.File) (*models.Application, upstream.Result, error)
	StudentApplications(ctx context.Context, token string) ([]models.Application, error)
	SelectApplication(ctx context.Context, token, id string) (upstream.Result, error)
	CompanyApplications(ctx context.Context, token string) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, token, id string, status models.ApplicationStatus) (upstream.Result, error)
}

type attemptRecorder interface {
	attemptReader
	Get(ctx context.Context, userID, postID string) (*models.SubmissionAttempt, error)
	Record(ctx context.Context, userID string, attempt models.SubmissionAttempt) error
}

// ApplicationConfig tunes application handling.
type ApplicationConfig struct {
	AllowedCVMIMEs []string
	FileBaseURL    string
}

// ApplicationService drives the student apply/select flow and the company
// review board.
type ApplicationService struct {
	backend   applicationBackend
	attempts  attemptRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    ApplicationConfig
	busy      *inFlight
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(backend applicationBackend, attempts attemptRecorder, validate *validator.Validate, logger *zap.Logger, cfg ApplicationConfig) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{backend: backend, attempts: attempts, validator: validate, logger: logger, config: cfg, busy: newInFlight()}
}

// Apply submits a CV to a post and records the outcome.
func (s *ApplicationService) Apply(ctx context.Context, p *models.Principal, postID string, cv *upload.File) (*dto.ApplyResult, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "post id is required")
	}
	if cv == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please upload your CV before applying.")
	}
	if err := upload.RequireOneOf(cv, s.config.AllowedCVMIMEs); err != nil {
		return nil, err
	}
	previous, err := s.attempts.Get(ctx, p.UserID, postID)
	if err != nil {
		s.logger.Warn("failed to read submission attempt", zap.String("post_id", postID), zap.Error(err))
	}
	if previous != nil && previous.Outcome == models.OutcomeDuplicate {
		return nil, appErrors.Clone(appErrors.ErrAlreadyApplied, "You have already applied for this training post")
	}
	return s.submit(ctx, p, postID, cv)
}

// Retry resubmits after a local failure, reusing the kept CV unless a new one is given.
func (s *ApplicationService) Retry(ctx context.Context, p *models.Principal, postID string, cv *upload.File) (*dto.ApplyResult, error) {
	previous, err := s.attempts.Get(ctx, p.UserID, postID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read submission attempt")
	}
	if previous == nil || previous.Outcome != models.OutcomeFailed {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "there is no failed application to retry")
	}
	if cv == nil {
		if len(previous.CV) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Please upload your CV before applying.")
		}
		cv = &upload.File{Name: previous.CVName, ContentType: previous.CVType, Data: previous.CV}
	}
	if err := upload.RequireOneOf(cv, s.config.AllowedCVMIMEs); err != nil {
		return nil, err
	}
	return s.submit(ctx, p, postID, cv)
}

func (s *ApplicationService) submit(ctx context.Context, p *models.Principal, postID string, cv *upload.File) (*dto.ApplyResult, error) {
	release, err := s.busy.acquire("apply:" + p.UserID + ":" + postID)
	if err != nil {
		return nil, err
	}
	defer release()

	app, res, err := s.backend.Apply(ctx, p.Token, postID, cv)
	if err != nil {
		s.recordFailure(ctx, p, postID, cv, err)
		return nil, err
	}

	attempt := models.SubmissionAttempt{PostID: postID, Outcome: models.OutcomeSubmitted, Message: res.Message}
	if err := s.attempts.Record(ctx, p.UserID, attempt); err != nil {
		s.logger.Warn("failed to record submission attempt", zap.String("post_id", postID), zap.Error(err))
	}
	return &dto.ApplyResult{
		PostID:  postID,
		Message: messageOr(res.Message, "Your application was submitted."),
		View:    view.DerivePost(app, &attempt),
	}, nil
}

func (s *ApplicationService) recordFailure(ctx context.Context, p *models.Principal, postID string, cv *upload.File, cause error) {
	if errors.Is(cause, context.Canceled) {
		return
	}
	attempt := models.SubmissionAttempt{PostID: postID, Message: appErrors.FromError(cause).Message}
	if appErrors.Is(cause, appErrors.ErrAlreadyApplied) {
		attempt.Outcome = models.OutcomeDuplicate
	} else {
		attempt.Outcome = models.OutcomeFailed
		attempt.CVName = cv.Name
		attempt.CVType = cv.ContentType
		attempt.CV = cv.Data
	}
	if err := s.attempts.Record(ctx, p.UserID, attempt); err != nil {
		s.logger.Warn("failed to record submission attempt", zap.String("post_id", postID), zap.Error(err))
	}
	s.logger.Info("application submission failed",
		zap.String("user_id", p.UserID),
		zap.String("post_id", postID),
		zap.String("outcome", string(attempt.Outcome)),
	)
}

// StudentApplications lists the student's applications with derived states,
// filtered by state keys and search.
func (s *ApplicationService) StudentApplications(ctx context.Context, p *models.Principal, q dto.ApplicationQuery) ([]dto.ApplicationView, error) {
	apps, err := s.backend.StudentApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	return applicationViews(view.FilterApplications(apps, view.ParseStates(q.Status), q.Search)), nil
}

// Select marks an approved application as the student's chosen placement.
func (s *ApplicationService) Select(ctx context.Context, p *models.Principal, id string) (*dto.SelectResult, error) {
	release, err := s.busy.acquire("select:" + id)
	if err != nil {
		return nil, err
	}
	defer release()

	apps, err := s.backend.StudentApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	updated, err := view.ApplySelection(apps, id)
	if err != nil {
		return nil, err
	}
	res, err := s.backend.SelectApplication(ctx, p.Token, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application selected", zap.String("user_id", p.UserID), zap.String("application_id", id))
	return &dto.SelectResult{
		Message:      messageOr(res.Message, "You have successfully selected this training position."),
		Applications: applicationViews(updated),
	}, nil
}

// CompanyRequests lists applications to the company's posts under a filter.
func (s *ApplicationService) CompanyRequests(ctx context.Context, p *models.Principal, q dto.RequestQuery) ([]dto.RequestView, error) {
	apps, err := s.backend.CompanyApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	filtered := view.FilterCompanyRequests(apps, q.Filter)
	out := make([]dto.RequestView, 0, len(filtered))
	for _, app := range filtered {
		out = append(out, dto.RequestView{
			Application: app,
			View:        view.DeriveApplication(app),
			CanReview:   view.CanReview(app) && !s.busy.busy("review:"+app.ID),
			Documents:   view.Documents(app, s.config.FileBaseURL),
		})
	}
	return out, nil
}

// UpdateStatus approves or rejects an application.
func (s *ApplicationService) UpdateStatus(ctx context.Context, p *models.Principal, id string, req dto.UpdateApplicationStatusRequest) (string, error) {
	req.Status = models.ApplicationStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be APPROVED or REJECTED")
	}
	release, err := s.busy.acquire("review:" + id)
	if err != nil {
		return "", err
	}
	defer release()

	res, err := s.backend.UpdateApplicationStatus(ctx, p.Token, id, req.Status)
	if err != nil {
		return "", err
	}
	s.logger.Info("application reviewed", zap.String("application_id", id), zap.String("status", string(req.Status)))
	return messageOr(res.Message, "Application "+strings.ToLower(string(req.Status))+" successfully"), nil
}

// Trainees lists the company's placed students. The weekly scope keeps only
// students still in training; the final scope keeps every accepted placement.
func (s *ApplicationService) Trainees(ctx context.Context, p *models.Principal, q dto.TraineeQuery) ([]dto.TraineeView, error) {
	apps, err := s.backend.CompanyApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	eligible := view.InTraining
	if strings.EqualFold(q.Scope, dto.TraineeScopeFinal) {
		eligible = view.Placed
	}
	out := make([]dto.TraineeView, 0)
	for _, app := range apps {
		if !eligible(app) || !view.MatchTrainee(app, q.Search) {
			continue
		}
		trainee := dto.TraineeView{
			ApplicationID:  app.ID,
			TrainingTitle:  app.PostTitle(),
			CompanyName:    app.CompanyName(),
			WeeklyReports:  len(app.ActivityReports),
			HasFinalReport: app.FinalReportByCompany != "",
		}
		if app.Student != nil {
			trainee.Student = *app.Student
		}
		out = append(out, trainee)
	}
	return out, nil
}

// Trainee finds one placed student by application id.
func (s *ApplicationService) Trainee(ctx context.Context, p *models.Principal, applicationID string, scope string) (*models.Application, error) {
	apps, err := s.backend.CompanyApplications(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if apps[i].ID != applicationID {
			continue
		}
		ok := view.InTraining(apps[i])
		if strings.EqualFold(scope, dto.TraineeScopeFinal) {
			ok = view.Placed(apps[i])
		}
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student is not in training with your company")
		}
		return &apps[i], nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
}

func applicationViews(apps []models.Application) []dto.ApplicationView {
	out := make([]dto.ApplicationView, 0, len(apps))
	for _, app := range apps {
		out = append(out, dto.ApplicationView{Application: app, View: view.DeriveApplication(app)})
	}
	return out
}
