package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditService records portal mutations. A nil service or repository turns
// every call into a no-op.
type AuditService struct {
	repo    auditRepository
	metrics *MetricsService
	logger  *zap.Logger
	timeout time.Duration
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditRepository, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, metrics: metrics, logger: logger, timeout: 2 * time.Second}
}

// Enabled reports whether audit records are persisted.
func (s *AuditService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record stores an entry. Failures are logged and swallowed.
func (s *AuditService) Record(ctx context.Context, entry *models.AuditLog) {
	if !s.Enabled() || entry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	start := time.Now()
	err := s.repo.Create(ctx, entry)
	s.metrics.ObserveAuditWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("audit write failed", zap.String("action", entry.Action), zap.String("resource", entry.Resource), zap.Error(err))
	}
}

// List returns recent audit records.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	if !s.Enabled() {
		return []models.AuditLog{}, nil
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return logs, nil
}
