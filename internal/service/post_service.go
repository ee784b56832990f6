package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

const studentPostsCachePattern = "posts:student:*"

type postBackend interface {
	CompanyPosts(ctx context.Context, token string) ([]models.TrainingPost, error)
	StudentPosts(ctx context.Context, token string) ([]models.TrainingPost, error)
	StudentApplications(ctx context.Context, token string) ([]models.Application, error)
	CreatePost(ctx context.Context, token string, in models.PostInput) (*models.TrainingPost, upstream.Result, error)
	UpdatePost(ctx context.Context, token, id string, in models.PostInput) (*models.TrainingPost, upstream.Result, error)
	DeletePost(ctx context.Context, token, id string) (upstream.Result, error)
}

type attemptReader interface {
	All(ctx context.Context, userID string) (map[string]models.SubmissionAttempt, error)
}

// PostService serves company post management and the student post browser.
type PostService struct {
	backend   postBackend
	attempts  attemptReader
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService constructs a PostService.
func NewPostService(backend postBackend, attempts attemptReader, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PostService{backend: backend, attempts: attempts, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// CompanyPosts lists the signed-in company's posts, newest first.
func (s *PostService) CompanyPosts(ctx context.Context, p *models.Principal) ([]models.TrainingPost, error) {
	posts, err := s.backend.CompanyPosts(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	return view.QueryPosts(posts, "", view.SortLatest), nil
}

// Create publishes a post.
func (s *PostService) Create(ctx context.Context, p *models.Principal, in models.PostInput) (*models.TrainingPost, string, error) {
	in = trimPostInput(in)
	if err := s.validator.Struct(in); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training post payload")
	}
	post, res, err := s.backend.CreatePost(ctx, p.Token, in)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	return post, messageOr(res.Message, "Post created successfully"), nil
}

// Update replaces a post.
func (s *PostService) Update(ctx context.Context, p *models.Principal, id string, in models.PostInput) (*models.TrainingPost, string, error) {
	if strings.TrimSpace(id) == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "post id is required")
	}
	in = trimPostInput(in)
	if err := s.validator.Struct(in); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid training post payload")
	}
	post, res, err := s.backend.UpdatePost(ctx, p.Token, id, in)
	if err != nil {
		return nil, "", err
	}
	s.invalidate(ctx)
	return post, messageOr(res.Message, "Post updated successfully"), nil
}

// Delete removes a post. Without an explicit confirmation no backend request is made.
func (s *PostService) Delete(ctx context.Context, p *models.Principal, id string, confirmed bool) (string, error) {
	if !confirmed {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "deleting a post must be confirmed")
	}
	if strings.TrimSpace(id) == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "post id is required")
	}
	res, err := s.backend.DeletePost(ctx, p.Token, id)
	if err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return messageOr(res.Message, "Your post has been deleted."), nil
}

// Browse lists posts for a student with search, sort and the apply state of each.
func (s *PostService) Browse(ctx context.Context, p *models.Principal, q dto.PostQuery) ([]dto.PostView, bool, error) {
	var posts []models.TrainingPost
	cached, err := s.cache.Remember(ctx, "posts:student:"+p.UserID, s.cacheTTL, &posts, func() error {
		loaded, err := s.backend.StudentPosts(ctx, p.Token)
		if err != nil {
			return err
		}
		posts = loaded
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	apps, err := s.backend.StudentApplications(ctx, p.Token)
	if err != nil {
		s.logger.Warn("student applications unavailable for post states", zap.String("user_id", p.UserID), zap.Error(err))
		apps = nil
	}
	byPost := make(map[string]*models.Application, len(apps))
	for i := range apps {
		if apps[i].TrainingPost != nil {
			byPost[apps[i].TrainingPost.ID] = &apps[i]
		}
	}

	attempts := map[string]models.SubmissionAttempt{}
	if s.attempts != nil {
		if all, err := s.attempts.All(ctx, p.UserID); err == nil {
			attempts = all
		}
	}

	filtered := view.QueryPosts(posts, q.Search, view.ParsePostSort(q.Sort))
	out := make([]dto.PostView, 0, len(filtered))
	for _, post := range filtered {
		var attempt *models.SubmissionAttempt
		if a, ok := attempts[post.ID]; ok {
			attempt = &a
		}
		out = append(out, dto.PostView{TrainingPost: post, View: view.DerivePost(byPost[post.ID], attempt)})
	}
	return out, cached, nil
}

func (s *PostService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, studentPostsCachePattern)
}

func trimPostInput(in models.PostInput) models.PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Location = strings.TrimSpace(in.Location)
	in.AvailableUntil = strings.TrimSpace(in.AvailableUntil)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}
