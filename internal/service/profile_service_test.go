package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

func TestProfileGetResolvesPicture(t *testing.T) {
	backend := &mockBackend{company: &models.Company{ID: "cmp-1", Name: "Acme Labs", ProfilePicture: "uploads/logo.png"}}
	svc := NewProfileService(backend, nil, "https://files.example.com/", zap.NewNop())

	profile, err := svc.Get(context.Background(), companyPrincipal())
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/uploads/logo.png", profile.ProfilePictureURL)
}

func TestProfileUpdateValidation(t *testing.T) {
	backend := &mockBackend{}
	svc := NewProfileService(backend, nil, "", zap.NewNop())
	in := models.CompanyProfileUpdate{Name: "Acme", Phone: "0790000000", Location: "Amman", FieldOfWork: "Software", NewPassword: "123"}

	_, err := svc.Update(context.Background(), companyPrincipal(), in, nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(context.Background(), companyPrincipal(), models.CompanyProfileUpdate{Name: "Acme", Phone: "1", Location: "Amman", FieldOfWork: "IT"}, pdfFile("logo.pdf"))
	require.Error(t, err)
	assert.Zero(t, backend.total())

	in.NewPassword = "  "
	msg, err := svc.Update(context.Background(), companyPrincipal(), in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully", msg)
	assert.Empty(t, backend.profileIn.NewPassword)
}

func TestAuditServiceIsBestEffort(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, nil, zap.NewNop())
	svc.Record(context.Background(), &models.AuditLog{Action: models.AuditActionApply, Resource: "application"})
	require.Len(t, repo.logs, 1)

	repo.err = errors.New("db down")
	svc.Record(context.Background(), &models.AuditLog{Action: models.AuditActionSelect, Resource: "application"})

	var disabled *AuditService
	assert.False(t, disabled.Enabled())
	disabled.Record(context.Background(), &models.AuditLog{Action: models.AuditActionLogin})
	logs, err := NewAuditService(nil, nil, nil).List(context.Background(), models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
