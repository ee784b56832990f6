package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/jobs"
)

// JobTypeRehydrate refreshes a stored session profile from GET /auth/me.
const JobTypeRehydrate = "session.rehydrate"

type sessionStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type authBackend interface {
	Login(ctx context.Context, role models.Role, creds models.Credentials) (*models.AuthResult, error)
	RegisterCompany(ctx context.Context, reg models.CompanyRegistration) (*models.AuthResult, error)
	VerifyCompany(ctx context.Context, nationalID string) (map[string]interface{}, error)
	Me(ctx context.Context, token string) (*models.WhoAmI, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.AuthResult, error)
}

type jobScheduler interface {
	EnqueueAfter(job jobs.Job, delay time.Duration) error
}

// SessionConfig defines portal session behaviour.
type SessionConfig struct {
	Secret         string
	Expiration     time.Duration
	Issuer         string
	TTL            time.Duration
	RehydrateDelay time.Duration
}

// sessionRecord is stored under session:<sid>:user and always replaced whole.
type sessionRecord struct {
	Role        models.Role `json:"role"`
	User        models.User `json:"user"`
	CreatedAt   time.Time   `json:"createdAt"`
	RefreshedAt *time.Time  `json:"refreshedAt,omitempty"`
}

type studentLogin struct {
	UniversityID string `validate:"required,len=7,numeric"`
	Password     string `validate:"required"`
}

type companyLogin struct {
	NationalID string `validate:"required"`
	Password   string `validate:"required"`
}

type departmentLogin struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `validate:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `validate:"required"`
	NewPassword string `validate:"required,min=6"`
}

// SessionService owns the portal session lifecycle: login, restore, profile
// rehydration and logout.
type SessionService struct {
	backend   authBackend
	store     sessionStore
	scheduler jobScheduler
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    SessionConfig

	// instance marks refreshes done by this process in the shared store.
	instance string

	mu         sync.Mutex
	refreshing map[string]string

	// writeMu serializes session writes so a refresh never outlives Logout.
	writeMu sync.Mutex
}

// NewSessionService constructs a SessionService instance.
func NewSessionService(backend authBackend, store sessionStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, cfg SessionConfig) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 24 * time.Hour
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cfg.Expiration
	}
	return &SessionService{
		backend:    backend,
		store:      store,
		validator:  validate,
		metrics:    metrics,
		logger:     logger,
		config:     cfg,
		instance:   uuid.NewString(),
		refreshing: make(map[string]string),
	}
}

// UseScheduler wires the background queue that runs profile refreshes.
func (s *SessionService) UseScheduler(scheduler jobScheduler) {
	s.scheduler = scheduler
}

// Login signs in through the backend endpoint of role and opens a portal session.
func (s *SessionService) Login(ctx context.Context, role models.Role, creds models.Credentials) (*models.PortalLogin, error) {
	if err := s.validateCredentials(role, creds); err != nil {
		return nil, err
	}
	result, err := s.backend.Login(ctx, role, creds)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, role, result)
}

// RegisterCompany creates a company account and signs it in.
func (s *SessionService) RegisterCompany(ctx context.Context, reg models.CompanyRegistration) (*models.PortalLogin, error) {
	if err := s.validator.Struct(reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}
	result, err := s.backend.RegisterCompany(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, models.RoleCompany, result)
}

// VerifyCompany checks a national id before registration.
func (s *SessionService) VerifyCompany(ctx context.Context, nationalID string) (map[string]interface{}, error) {
	if err := s.validator.Var(nationalID, "required"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Please enter a National ID")
	}
	company, err := s.backend.VerifyCompany(ctx, nationalID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) || appErrors.Is(err, appErrors.ErrValidation) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Company not found or invalid ID")
		}
		return nil, err
	}
	return company, nil
}

// ForgotPassword requests a reset mail.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := s.validator.Struct(forgotPasswordRequest{Email: email}); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid forgot password payload")
	}
	message, err := s.backend.ForgotPassword(ctx, email)
	if err != nil {
		return "", err
	}
	if message == "" {
		message = "Check your inbox for reset instructions."
	}
	return message, nil
}

// ResetPassword consumes a reset token and signs the user in.
func (s *SessionService) ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.PortalLogin, error) {
	if err := s.validator.Struct(resetPasswordRequest{Token: resetToken, NewPassword: newPassword}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reset password payload")
	}
	result, err := s.backend.ResetPassword(ctx, resetToken, newPassword)
	if err != nil {
		return nil, err
	}
	role := result.User.Role
	if !role.Valid() {
		role = models.RoleCompany
	}
	return s.open(ctx, role, result)
}

// Logout destroys the stored session.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	s.writeMu.Lock()
	err := s.store.Delete(ctx, tokenKey(sessionID), userKey(sessionID), refreshedKey(sessionID))
	if err == nil {
		s.forget(sessionID)
	}
	s.writeMu.Unlock()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	s.metrics.SessionClosed()
	s.logger.Info("session closed", zap.String("session_id", sessionID))
	return nil
}

// Authenticate validates a portal token and loads the stored session. A
// session this process has not refreshed yet gets a refresh scheduled.
func (s *SessionService) Authenticate(ctx context.Context, tokenString string) (*models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	var backendToken string
	if err := s.store.Get(ctx, tokenKey(claims.SessionID), &backendToken); err != nil {
		return nil, s.missingSession(err)
	}
	record, err := s.load(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		SessionID: claims.SessionID,
		UserID:    claims.UserID,
		Role:      claims.Role,
		Token:     backendToken,
		User:      record.User,
		Loading:   s.ensureRefresh(ctx, claims.SessionID, 0),
	}, nil
}

// Current reports the session as the portal sees it. A session this process
// has not refreshed yet schedules a refresh and reports loading until it ends.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*models.SessionView, error) {
	record, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	loading := s.ensureRefresh(ctx, sessionID, 0)
	return &models.SessionView{Role: record.Role, User: record.User, Loading: loading}, nil
}

// Rehydrate merges the /auth/me profile into the stored user. Failures are
// logged and the stale profile is kept. Nothing is written once the session
// has been logged out.
func (s *SessionService) Rehydrate(ctx context.Context, sessionID string) error {
	generation := s.claimRefresh(sessionID)
	defer s.finishRefresh(sessionID, generation)

	var backendToken string
	if err := s.store.Get(ctx, tokenKey(sessionID), &backendToken); err != nil {
		s.logger.Debug("rehydrate skipped, session gone", zap.String("session_id", sessionID))
		return nil
	}
	record, err := s.load(ctx, sessionID)
	if err != nil {
		return nil
	}

	me, err := s.backend.Me(ctx, backendToken)
	if err != nil {
		s.logger.Warn("failed to fetch user profile", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if !s.refreshOwner(sessionID, generation) {
		s.logger.Debug("rehydrate dropped, session closed meanwhile", zap.String("session_id", sessionID))
		return nil
	}
	if err := s.store.Get(ctx, tokenKey(sessionID), &backendToken); err != nil {
		return nil
	}

	if err == nil && me != nil && me.User.ID != "" && len(me.Profile) > 0 {
		merged := me.User
		merged.Profile = me.Profile
		if merged.Role == "" {
			merged.Role = record.Role
		}
		now := time.Now().UTC()
		next := sessionRecord{Role: record.Role, User: merged, CreatedAt: record.CreatedAt, RefreshedAt: &now}
		if err := s.store.Set(ctx, userKey(sessionID), next, s.config.TTL); err != nil {
			s.logger.Warn("failed to store refreshed profile", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	if err := s.store.Set(ctx, refreshedKey(sessionID), s.instance, s.config.TTL); err != nil {
		s.logger.Warn("failed to mark session refreshed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

// HandleJob runs queued session jobs.
func (s *SessionService) HandleJob(ctx context.Context, job jobs.Job) error {
	switch job.Type {
	case JobTypeRehydrate:
		sessionID, ok := job.Payload.(string)
		if !ok {
			return fmt.Errorf("rehydrate job %s: unexpected payload %T", job.ID, job.Payload)
		}
		return s.Rehydrate(ctx, sessionID)
	default:
		return fmt.Errorf("unknown session job type %s", job.Type)
	}
}

// ValidateToken parses and validates a portal session token returning the claims.
func (s *SessionService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *SessionService) validateCredentials(role models.Role, creds models.Credentials) error {
	var err error
	switch role {
	case models.RoleStudent:
		err = s.validator.Struct(studentLogin{UniversityID: creds.UniversityID, Password: creds.Password})
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "University ID must be exactly 7 digits (numbers only)")
		}
		return nil
	case models.RoleCompany:
		err = s.validator.Struct(companyLogin{NationalID: creds.NationalID, Password: creds.Password})
	case models.RoleDepartmentHead:
		err = s.validator.Struct(departmentLogin{Email: creds.Email, Password: creds.Password})
	default:
		return appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	return nil
}

func (s *SessionService) open(ctx context.Context, role models.Role, result *models.AuthResult) (*models.PortalLogin, error) {
	if result == nil || result.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "login response carried no token")
	}
	sessionID := uuid.NewString()
	user := result.User
	if user.Role == "" {
		user.Role = role
	}
	record := sessionRecord{Role: role, User: user, CreatedAt: time.Now().UTC()}

	if err := s.store.Set(ctx, tokenKey(sessionID), result.Token, s.config.TTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}
	if err := s.store.Set(ctx, userKey(sessionID), record, s.config.TTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	token, expiresAt, err := s.issue(sessionID, user.ID, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	s.metrics.SessionOpened()
	loading := s.ensureRefresh(ctx, sessionID, s.config.RehydrateDelay)
	s.logger.Info("session opened", zap.String("session_id", sessionID), zap.String("role", string(role)), zap.String("user_id", user.ID))

	return &models.PortalLogin{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   models.SessionView{Role: role, User: user, Loading: loading},
	}, nil
}

func (s *SessionService) issue(sessionID, userID string, role models.Role) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.Expiration)
	claims := &models.SessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *SessionService) load(ctx context.Context, sessionID string) (*sessionRecord, error) {
	var record sessionRecord
	if err := s.store.Get(ctx, userKey(sessionID), &record); err != nil {
		return nil, s.missingSession(err)
	}
	return &record, nil
}

func (s *SessionService) missingSession(err error) error {
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
}

// ensureRefresh schedules a profile refresh unless one already ran or is
// running in this process. It reports whether a refresh is in flight.
func (s *SessionService) ensureRefresh(ctx context.Context, sessionID string, delay time.Duration) bool {
	var marker string
	if err := s.store.Get(ctx, refreshedKey(sessionID), &marker); err == nil && marker == s.instance {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, running := s.refreshing[sessionID]; running {
		return true
	}
	if s.scheduler == nil {
		return false
	}
	job := jobs.Job{ID: uuid.NewString(), Type: JobTypeRehydrate, Payload: sessionID}
	if err := s.scheduler.EnqueueAfter(job, delay); err != nil {
		s.logger.Warn("failed to schedule profile refresh", zap.String("session_id", sessionID), zap.Error(err))
		return false
	}
	s.refreshing[sessionID] = job.ID
	return true
}

// claimRefresh returns the generation of the in-flight refresh, registering
// one when Rehydrate runs without a scheduled job.
func (s *SessionService) claimRefresh(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation, ok := s.refreshing[sessionID]; ok {
		return generation
	}
	generation := uuid.NewString()
	s.refreshing[sessionID] = generation
	return generation
}

func (s *SessionService) refreshOwner(sessionID, generation string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshing[sessionID] == generation
}

// finishRefresh clears the in-flight marker unless Logout already did.
func (s *SessionService) finishRefresh(sessionID, generation string) {
	s.mu.Lock()
	if s.refreshing[sessionID] == generation {
		delete(s.refreshing, sessionID)
	}
	s.mu.Unlock()
}

func (s *SessionService) forget(sessionID string) {
	s.mu.Lock()
	delete(s.refreshing, sessionID)
	s.mu.Unlock()
}

func tokenKey(sessionID string) string { return "session:" + sessionID + ":token" }

func userKey(sessionID string) string { return "session:" + sessionID + ":user" }

func refreshedKey(sessionID string) string { return "session:" + sessionID + ":refreshed" }
