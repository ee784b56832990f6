package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/middleware"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
)

type sessionService interface {
	Login(ctx context.Context, role models.Role, creds models.Credentials) (*models.PortalLogin, error)
	RegisterCompany(ctx context.Context, reg models.CompanyRegistration) (*models.PortalLogin, error)
	VerifyCompany(ctx context.Context, nationalID string) (map[string]interface{}, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.PortalLogin, error)
	Logout(ctx context.Context, sessionID string) error
	Current(ctx context.Context, sessionID string) (*models.SessionView, error)
}

// AuthHandler wires HTTP endpoints to the session service.
type AuthHandler struct {
	service sessionService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc sessionService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Login godoc
// @Summary Sign in to a portal
// @Description Students sign in with universityId, companies with nationalId, department heads with email
// @Tags Authentication
// @Accept json
// @Produce json
// @Param role path string true "student, company or department-head"
// @Param payload body models.Credentials true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login/{role} [post]
func (h *AuthHandler) Login(c *gin.Context) {
	role := models.Role(c.Param("role"))
	if !role.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown portal"))
		return
	}
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), role, creds)
	if err != nil {
		response.Error(c, err)
		return
	}
	signedIn(c, res)
	response.JSON(c, http.StatusOK, res)
}

// RegisterCompany godoc
// @Summary Register a company account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.CompanyRegistration true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/register/company [post]
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req models.CompanyRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	res, err := h.service.RegisterCompany(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	signedIn(c, res)
	response.Created(c, res)
}

// VerifyCompany godoc
// @Summary Look up a company by national id before registration
// @Tags Authentication
// @Produce json
// @Param nationalId path string true "National ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /auth/verify-company/{nationalId} [get]
func (h *AuthHandler) VerifyCompany(c *gin.Context) {
	company, err := h.service.VerifyCompany(c.Request.Context(), c.Param("nationalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"company": company})
}

// ForgotPassword godoc
// @Summary Request a password reset mail
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body map[string]string true "Email"
// @Success 200 {object} response.Envelope
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid forgot password payload"))
		return
	}
	msg, err := h.service.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg, nil)
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param payload body map[string]string true "New password"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/reset-password/{token} [put]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reset password payload"))
		return
	}
	res, err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}
	signedIn(c, res)
	response.JSON(c, http.StatusOK, res)
}

// Me godoc
// @Summary Current session
// @Description Reports loading while the profile is still being refreshed
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	session, err := h.service.Current(c.Request.Context(), principal.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetSessionLoading(c, session.Loading)
	response.JSON(c, http.StatusOK, session, middleware.ExtractMeta(c))
}

// Logout godoc
// @Summary Sign out
// @Tags Authentication
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := h.service.Logout(c.Request.Context(), principal.SessionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// signedIn exposes the opened session to the rest of the chain.
func signedIn(c *gin.Context, login *models.PortalLogin) {
	if login == nil {
		return
	}
	middleware.SetPrincipal(c, &models.Principal{
		UserID: login.Session.User.ID,
		Role:   login.Session.Role,
		User:   login.Session.User,
	})
}
