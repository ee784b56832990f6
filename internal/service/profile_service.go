package service

import (
	"context"
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

var profilePictureMIMEs = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type profileBackend interface {
	CompanyProfile(ctx context.Context, token string) (*models.Company, error)
	UpdateCompanyProfile(ctx context.Context, token string, in models.CompanyProfileUpdate, picture *upload.File) (upstream.Result, error)
}

// ProfileService reads and edits the company profile.
type ProfileService struct {
	backend     profileBackend
	validator   *validator.Validate
	fileBaseURL string
	logger      *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(backend profileBackend, validate *validator.Validate, fileBaseURL string, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ProfileService{backend: backend, validator: validate, fileBaseURL: fileBaseURL, logger: logger}
}

// Get returns the company profile with an absolute picture URL.
func (s *ProfileService) Get(ctx context.Context, p *models.Principal) (*dto.CompanyProfileView, error) {
	company, err := s.backend.CompanyProfile(ctx, p.Token)
	if err != nil {
		return nil, err
	}
	out := &dto.CompanyProfileView{Company: *company}
	if company.ProfilePicture != "" {
		out.ProfilePictureURL = view.FileURL(s.fileBaseURL, company.ProfilePicture)
	}
	return out, nil
}

// Update saves the editable fields. A blank password leaves it unchanged.
func (s *ProfileService) Update(ctx context.Context, p *models.Principal, in models.CompanyProfileUpdate, picture *upload.File) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	in.FieldOfWork = strings.TrimSpace(in.FieldOfWork)
	in.NewPassword = strings.TrimSpace(in.NewPassword)
	if err := s.validator.Struct(in); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if picture != nil {
		if err := upload.RequireOneOf(picture, profilePictureMIMEs); err != nil {
			return "", appErrors.Clone(appErrors.ErrValidation, "profile picture must be an image")
		}
	}
	res, err := s.backend.UpdateCompanyProfile(ctx, p.Token, in, picture)
	if err != nil {
		return "", err
	}
	s.logger.Info("company profile updated", zap.String("user_id", p.UserID), zap.Bool("picture", picture != nil), zap.Bool("password_changed", in.NewPassword != ""))
	return messageOr(res.Message, "Profile updated successfully"), nil
}
