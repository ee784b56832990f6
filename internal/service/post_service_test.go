package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/repository"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/view"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

func newPostService(backend *mockBackend) (*PostService, *AttemptStore) {
	store := repository.NewMemoryRepository()
	attempts := NewAttemptStore(store, time.Hour)
	cache := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	return NewPostService(backend, attempts, cache, time.Minute, nil, zap.NewNop()), attempts
}

func validPostInput() models.PostInput {
	return models.PostInput{
		Title:          "  Backend Intern ",
		Duration:       "8",
		Location:       "Amman",
		AvailableUntil: "2026-12-31",
		Description:    "Go services",
	}
}

func TestDeleteWithoutConfirmSendsNothing(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newPostService(backend)

	_, err := svc.Delete(context.Background(), companyPrincipal(), "post-1", false)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrPreconditionFailed))
	assert.Zero(t, backend.total())

	msg, err := svc.Delete(context.Background(), companyPrincipal(), "post-1", true)
	require.NoError(t, err)
	assert.Equal(t, "Your post has been deleted.", msg)
	assert.Equal(t, 1, backend.count("DeletePost"))
}

func TestCreatePostValidatesBeforeBackend(t *testing.T) {
	backend := &mockBackend{createdPost: &models.TrainingPost{ID: "p1", Title: "Backend Intern"}}
	svc, _ := newPostService(backend)

	bad := validPostInput()
	bad.Duration = "eight"
	_, _, err := svc.Create(context.Background(), companyPrincipal(), bad)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, backend.total())

	post, msg, err := svc.Create(context.Background(), companyPrincipal(), validPostInput())
	require.NoError(t, err)
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "Post created successfully", msg)
}

func TestBrowseDerivesStatesAndCaches(t *testing.T) {
	now := time.Now()
	backend := &mockBackend{
		studentPosts: []models.TrainingPost{
			{ID: "p1", Title: "Backend Intern", Duration: 8, CreatedAt: now.Add(-time.Hour)},
			{ID: "p2", Title: "Frontend Intern", Duration: 6, CreatedAt: now},
			{ID: "p3", Title: "Data Intern", Duration: 10, CreatedAt: now.Add(-2 * time.Hour)},
		},
		studentApps: []models.Application{
			{ID: "a1", Status: models.StatusApproved, TrainingPost: &models.TrainingPost{ID: "p1"}},
		},
	}
	svc, attempts := newPostService(backend)
	require.NoError(t, attempts.Record(context.Background(), "stu-1", models.SubmissionAttempt{PostID: "p3", Outcome: models.OutcomeFailed}))

	posts, cached, err := svc.Browse(context.Background(), studentPrincipal(), dto.PostQuery{Sort: "duration-asc"})
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"p2", "p1", "p3"}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, view.StateNotApplied, posts[0].View.State)
	assert.Equal(t, view.StateApproved, posts[1].View.State)
	assert.Equal(t, view.StateRejected, posts[2].View.State)
	assert.True(t, posts[2].View.LocalFailure)

	posts, cached, err = svc.Browse(context.Background(), studentPrincipal(), dto.PostQuery{Search: "INTERN"})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Len(t, posts, 3)
	assert.Equal(t, "p2", posts[0].ID)
	assert.Equal(t, 1, backend.count("StudentPosts"))

	_, _, err = svc.Create(context.Background(), companyPrincipal(), validPostInput())
	require.NoError(t, err)
	_, cached, err = svc.Browse(context.Background(), studentPrincipal(), dto.PostQuery{})
	require.NoError(t, err)
	assert.False(t, cached)
}
