package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/repository"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

func newSessionService(backend *mockBackend) (*SessionService, *mockScheduler) {
	svc := NewSessionService(backend, repository.NewMemoryRepository(), nil, nil, zap.NewNop(), SessionConfig{
		Secret:         "secret",
		Expiration:     time.Hour,
		Issuer:         "hu-tech-train",
		RehydrateDelay: 300 * time.Millisecond,
	})
	scheduler := &mockScheduler{}
	svc.UseScheduler(scheduler)
	return svc, scheduler
}

func TestSessionLoginStoresSessionAndSchedulesRefresh(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "backend-token", User: models.User{ID: "stu-1", Name: "Lina"}}}
	svc, scheduler := newSessionService(backend)

	login, err := svc.Login(context.Background(), models.RoleStudent, models.Credentials{UniversityID: "2019901", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.True(t, login.Session.Loading)
	assert.Equal(t, models.RoleStudent, login.Session.User.Role)

	require.Len(t, scheduler.jobs, 1)
	assert.Equal(t, JobTypeRehydrate, scheduler.jobs[0].Type)
	assert.Equal(t, 300*time.Millisecond, scheduler.delays[0])

	principal, err := svc.Authenticate(context.Background(), login.Token)
	require.NoError(t, err)
	assert.Equal(t, "backend-token", principal.Token)
	assert.Equal(t, "stu-1", principal.UserID)
}

func TestSessionLoginRejectsBadUniversityIDWithoutBackendCall(t *testing.T) {
	backend := &mockBackend{}
	svc, _ := newSessionService(backend)

	for _, id := range []string{"123", "12345678", "abc1234"} {
		_, err := svc.Login(context.Background(), models.RoleStudent, models.Credentials{UniversityID: id, Password: "pw"})
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrValidation), id)
		assert.Equal(t, "University ID must be exactly 7 digits (numbers only)", appErrors.FromError(err).Message)
	}
	assert.Zero(t, backend.total())
}

func TestSessionRehydrateMergesProfile(t *testing.T) {
	backend := &mockBackend{
		loginResult: &models.AuthResult{Token: "backend-token", User: models.User{ID: "cmp-1", Name: "Acme"}},
		me: &models.WhoAmI{
			User:    models.User{ID: "cmp-1", Name: "Acme Labs"},
			Profile: map[string]interface{}{"fieldOfWork": "Software"},
		},
	}
	svc, scheduler := newSessionService(backend)

	login, err := svc.Login(context.Background(), models.RoleCompany, models.Credentials{NationalID: "99", Password: "pw"})
	require.NoError(t, err)
	require.Len(t, scheduler.jobs, 1)

	require.NoError(t, svc.HandleJob(context.Background(), scheduler.jobs[0]))

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	view, err := svc.Current(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Equal(t, "Acme Labs", view.User.Name)
	assert.Equal(t, "Software", view.User.Profile["fieldOfWork"])
	assert.Equal(t, models.RoleCompany, view.User.Role)
}

func TestSessionRehydrateFailureKeepsStaleProfile(t *testing.T) {
	backend := &mockBackend{
		loginResult: &models.AuthResult{Token: "backend-token", User: models.User{ID: "dh-1", Name: "Dr. Sami", Email: "sami@hu.edu.jo"}},
		meErr:       appErrors.Clone(appErrors.ErrUpstreamDown, ""),
	}
	svc, scheduler := newSessionService(backend)

	login, err := svc.Login(context.Background(), models.RoleDepartmentHead, models.Credentials{Email: "sami@hu.edu.jo", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(context.Background(), scheduler.jobs[0]))

	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	view, err := svc.Current(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Equal(t, "Dr. Sami", view.User.Name)
	assert.Empty(t, view.User.Profile)
	assert.Equal(t, 1, backend.count("Me"))
}

func TestSessionRestoreReportsLoadingUntilRefreshed(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "stu-1"}}}
	svc, _ := newSessionService(backend)
	login, err := svc.Login(context.Background(), models.RoleStudent, models.Credentials{UniversityID: "2019901", Password: "pw"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)

	// A second process sharing the store has never refreshed this session.
	restored := NewSessionService(backend, svc.store, nil, nil, zap.NewNop(), svc.config)
	scheduler := &mockScheduler{}
	restored.UseScheduler(scheduler)

	view, err := restored.Current(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.True(t, view.Loading)
	view, err = restored.Current(context.Background(), claims.SessionID)
	require.NoError(t, err)
	assert.True(t, view.Loading)
	assert.Len(t, scheduler.jobs, 1)
}

func TestSessionLogoutClearsStore(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "stu-1"}}}
	svc, _ := newSessionService(backend)
	login, err := svc.Login(context.Background(), models.RoleStudent, models.Credentials{UniversityID: "2019901", Password: "pw"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.SessionID))

	_, err = svc.Authenticate(context.Background(), login.Token)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestSessionLogoutDuringRehydrateWritesNothing(t *testing.T) {
	backend := &mockBackend{
		loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "cmp-1", Name: "Old"}},
		me: &models.WhoAmI{
			User:    models.User{ID: "cmp-1", Name: "New"},
			Profile: map[string]interface{}{"fieldOfWork": "Software"},
		},
	}
	svc, scheduler := newSessionService(backend)
	ctx := context.Background()

	login, err := svc.Login(ctx, models.RoleCompany, models.Credentials{NationalID: "99", Password: "pw"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(login.Token)
	require.NoError(t, err)
	sessionID := claims.SessionID
	backend.onMe = func() { require.NoError(t, svc.Logout(ctx, sessionID)) }

	require.NoError(t, svc.HandleJob(ctx, scheduler.jobs[0]))

	var record sessionRecord
	assert.True(t, errors.Is(svc.store.Get(ctx, userKey(sessionID), &record), appErrors.ErrCacheMiss))
	var marker string
	assert.True(t, errors.Is(svc.store.Get(ctx, refreshedKey(sessionID), &marker), appErrors.ErrCacheMiss))
	assert.Empty(t, svc.refreshing)
}

func TestSessionRefreshMarkerExpiresWithSession(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "stu-1"}}}
	svc := NewSessionService(backend, repository.NewMemoryRepository(), nil, nil, zap.NewNop(), SessionConfig{
		Secret:     "secret",
		Expiration: time.Hour,
		TTL:        200 * time.Millisecond,
	})
	scheduler := &mockScheduler{}
	svc.UseScheduler(scheduler)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := svc.Login(ctx, models.RoleStudent, models.Credentials{UniversityID: "2019901", Password: "pw"})
		require.NoError(t, err)
	}
	for _, job := range scheduler.jobs {
		require.NoError(t, svc.HandleJob(ctx, job))
	}
	assert.Empty(t, svc.refreshing)

	sessionID := scheduler.jobs[0].Payload.(string)
	var marker string
	require.NoError(t, svc.store.Get(ctx, refreshedKey(sessionID), &marker))

	time.Sleep(400 * time.Millisecond)
	assert.True(t, errors.Is(svc.store.Get(ctx, refreshedKey(sessionID), &marker), appErrors.ErrCacheMiss))
}

func TestSessionAuthenticateSchedulesRestoreRefresh(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "stu-1"}}}
	svc, _ := newSessionService(backend)
	login, err := svc.Login(context.Background(), models.RoleStudent, models.Credentials{UniversityID: "2019901", Password: "pw"})
	require.NoError(t, err)

	restored := NewSessionService(backend, svc.store, nil, nil, zap.NewNop(), svc.config)
	scheduler := &mockScheduler{}
	restored.UseScheduler(scheduler)

	principal, err := restored.Authenticate(context.Background(), login.Token)
	require.NoError(t, err)
	assert.True(t, principal.Loading)
	require.Len(t, scheduler.jobs, 1)

	require.NoError(t, restored.HandleJob(context.Background(), scheduler.jobs[0]))
	principal, err = restored.Authenticate(context.Background(), login.Token)
	require.NoError(t, err)
	assert.False(t, principal.Loading)
	assert.Len(t, scheduler.jobs, 1)
}

func TestSessionVerifyCompanyNotFoundMessage(t *testing.T) {
	backend := &mockBackend{verifyErr: appErrors.Clone(appErrors.ErrNotFound, "")}
	svc, _ := newSessionService(backend)

	_, err := svc.VerifyCompany(context.Background(), "123")
	require.Error(t, err)
	assert.Equal(t, "Company not found or invalid ID", appErrors.FromError(err).Message)

	backend.verifyErr = errors.New("boom")
	_, err = svc.VerifyCompany(context.Background(), "123")
	require.Error(t, err)
	assert.NotEqual(t, "Company not found or invalid ID", err.Error())
}

func TestSessionForgotPasswordDefaultsMessage(t *testing.T) {
	svc, _ := newSessionService(&mockBackend{})
	msg, err := svc.ForgotPassword(context.Background(), "user@hu.edu.jo")
	require.NoError(t, err)
	assert.Equal(t, "Check your inbox for reset instructions.", msg)
}

func TestSessionResetPasswordSignsIn(t *testing.T) {
	backend := &mockBackend{loginResult: &models.AuthResult{Token: "t", User: models.User{ID: "u1", Role: models.RoleStudent}}}
	svc, _ := newSessionService(backend)

	_, err := svc.ResetPassword(context.Background(), "reset", "123")
	require.Error(t, err)
	assert.Zero(t, backend.count("ResetPassword"))

	login, err := svc.ResetPassword(context.Background(), "reset", "123456")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, login.Session.Role)
}
