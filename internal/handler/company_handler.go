package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type companyPostService interface {
	CompanyPosts(ctx context.Context, p *models.Principal) ([]models.TrainingPost, error)
	Create(ctx context.Context, p *models.Principal, in models.PostInput) (*models.TrainingPost, string, error)
	Update(ctx context.Context, p *models.Principal, id string, in models.PostInput) (*models.TrainingPost, string, error)
	Delete(ctx context.Context, p *models.Principal, id string, confirmed bool) (string, error)
}

type companyApplicationService interface {
	CompanyRequests(ctx context.Context, p *models.Principal, q dto.RequestQuery) ([]dto.RequestView, error)
	UpdateStatus(ctx context.Context, p *models.Principal, id string, req dto.UpdateApplicationStatusRequest) (string, error)
	Trainees(ctx context.Context, p *models.Principal, q dto.TraineeQuery) ([]dto.TraineeView, error)
	Trainee(ctx context.Context, p *models.Principal, applicationID string, scope string) (*models.Application, error)
}

type companyReportService interface {
	SubmitWeekly(ctx context.Context, p *models.Principal, in models.WeeklyReportInput) (*dto.ReportSubmission, error)
	SubmitCompanyFinal(ctx context.Context, p *models.Principal, in models.CompanyFinalReportInput, report *upload.File) (*dto.ReportSubmission, error)
}

type companyProfileService interface {
	Get(ctx context.Context, p *models.Principal) (*dto.CompanyProfileView, error)
	Update(ctx context.Context, p *models.Principal, in models.CompanyProfileUpdate, picture *upload.File) (string, error)
}

// CompanyHandler serves the company portal.
type CompanyHandler struct {
	posts        companyPostService
	applications companyApplicationService
	reports      companyReportService
	profile      companyProfileService
	maxUpload    int64
}

// NewCompanyHandler constructs a CompanyHandler.
func NewCompanyHandler(posts companyPostService, applications companyApplicationService, reports companyReportService, profile companyProfileService, maxUpload int64) *CompanyHandler {
	return &CompanyHandler{
		posts:        posts,
		applications: applications,
		reports:      reports,
		profile:      profile,
		maxUpload:    maxUpload,
	}
}

// ListPosts godoc
// @Summary List my training posts
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /company/posts [get]
func (h *CompanyHandler) ListPosts(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	posts, err := h.posts.CompanyPosts(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"posts": posts})
}

// CreatePost godoc
// @Summary Publish a training post
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.PostInput true "Post"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /company/posts [post]
func (h *CompanyHandler) CreatePost(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	post, msg, err := h.posts.Create(c.Request.Context(), principal, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, msg, gin.H{"post": post})
}

// UpdatePost godoc
// @Summary Edit a training post
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param payload body models.PostInput true "Post"
// @Success 200 {object} response.Envelope
// @Router /company/posts/{id} [put]
func (h *CompanyHandler) UpdatePost(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var in models.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid post payload"))
		return
	}
	post, msg, err := h.posts.Update(c.Request.Context(), principal, c.Param("id"), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg, gin.H{"post": post})
}

// DeletePost godoc
// @Summary Delete a training post
// @Description The request must carry confirm=true
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param confirm query bool true "Confirmation"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /company/posts/{id} [delete]
func (h *CompanyHandler) DeletePost(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req dto.DeletePostRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirmation flag"))
		return
	}
	msg, err := h.posts.Delete(c.Request.Context(), principal, c.Param("id"), req.Confirm)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg, nil)
}

// Requests godoc
// @Summary List student requests
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param filter query string false "all, pending, approved, rejected"
// @Success 200 {object} response.Envelope
// @Router /company/applications [get]
func (h *CompanyHandler) Requests(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.RequestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	requests, err := h.applications.CompanyRequests(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"applications": requests})
}

// Review godoc
// @Summary Approve or reject a request
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body dto.UpdateApplicationStatusRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /company/applications/{id} [put]
func (h *CompanyHandler) Review(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	msg, err := h.applications.UpdateStatus(c.Request.Context(), principal, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg, nil)
}

// Trainees godoc
// @Summary List students available for reporting
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param scope query string false "weekly or final"
// @Param search query string false "Name or university id"
// @Success 200 {object} response.Envelope
// @Router /company/trainees [get]
func (h *CompanyHandler) Trainees(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.TraineeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	trainees, err := h.applications.Trainees(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"students": trainees})
}

// Trainee godoc
// @Summary Show one trainee's application
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param scope query string false "weekly or final"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /company/trainees/{id} [get]
func (h *CompanyHandler) Trainee(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	app, err := h.applications.Trainee(c.Request.Context(), principal, c.Param("id"), c.Query("scope"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"application": app})
}

// WeeklyReport godoc
// @Summary Submit a weekly activity report
// @Description The gateway renders the PDF from the form fields
// @Tags Company
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param payload body models.WeeklyReportInput true "Weekly report"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /company/applications/{id}/activity [post]
func (h *CompanyHandler) WeeklyReport(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var in models.WeeklyReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekly report payload"))
		return
	}
	in.ApplicationID = c.Param("id")
	res, err := h.reports.SubmitWeekly(c.Request.Context(), principal, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, res.Message, nil)
}

// FinalReport godoc
// @Summary Upload the company final report
// @Tags Company
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param finalReport formData file true "Final report PDF"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /company/applications/{id}/final-report [post]
func (h *CompanyHandler) FinalReport(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var in models.CompanyFinalReportInput
	if err := c.ShouldBind(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid final report payload"))
		return
	}
	in.ApplicationID = c.Param("id")
	file, err := formFile(c, "finalReport", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.reports.SubmitCompanyFinal(c.Request.Context(), principal, in, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, res.Message, nil)
}

// Profile godoc
// @Summary Show the company profile
// @Tags Company
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /company/profile [get]
func (h *CompanyHandler) Profile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	profile, err := h.profile.Get(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"company": profile})
}

// UpdateProfile godoc
// @Summary Update the company profile
// @Tags Company
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Name"
// @Param phone formData string true "Phone"
// @Param location formData string true "Location"
// @Param fieldOfWork formData string true "Field of work"
// @Param newPassword formData string false "New password"
// @Param profilePicture formData file false "Picture"
// @Success 200 {object} response.Envelope
// @Router /company/profile [put]
func (h *CompanyHandler) UpdateProfile(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	in := models.CompanyProfileUpdate{
		Name:        c.PostForm("name"),
		Phone:       c.PostForm("phone"),
		Location:    c.PostForm("location"),
		FieldOfWork: c.PostForm("fieldOfWork"),
		NewPassword: c.PostForm("newPassword"),
	}
	picture, err := formFile(c, "profilePicture", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.profile.Update(c.Request.Context(), principal, in, picture)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, msg, nil)
}
