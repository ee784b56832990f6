package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

type attemptRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// AttemptStore remembers the outcome of each student's latest apply per post.
// The backend has no notion of a failed or duplicate submission, so the
// gateway keeps it.
type AttemptStore struct {
	repo attemptRepository
	ttl  time.Duration
	mu   sync.Mutex
	now  func() time.Time
}

// NewAttemptStore constructs an AttemptStore.
func NewAttemptStore(repo attemptRepository, ttl time.Duration) *AttemptStore {
	return &AttemptStore{repo: repo, ttl: ttl, now: time.Now}
}

// All returns every attempt of the user keyed by post id.
func (s *AttemptStore) All(ctx context.Context, userID string) (map[string]models.SubmissionAttempt, error) {
	attempts := map[string]models.SubmissionAttempt{}
	if err := s.repo.Get(ctx, attemptsKey(userID), &attempts); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return map[string]models.SubmissionAttempt{}, nil
		}
		return nil, err
	}
	return attempts, nil
}

// Get returns the attempt for one post, or nil.
func (s *AttemptStore) Get(ctx context.Context, userID, postID string) (*models.SubmissionAttempt, error) {
	all, err := s.All(ctx, userID)
	if err != nil {
		return nil, err
	}
	attempt, ok := all[postID]
	if !ok {
		return nil, nil
	}
	return &attempt, nil
}

// Record replaces the attempt for attempt.PostID.
func (s *AttemptStore) Record(ctx context.Context, userID string, attempt models.SubmissionAttempt) error {
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = s.now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all, err := s.All(ctx, userID)
	if err != nil {
		return err
	}
	all[attempt.PostID] = attempt
	return s.repo.Set(ctx, attemptsKey(userID), all, s.ttl)
}

func attemptsKey(userID string) string { return "attempts:" + userID }
