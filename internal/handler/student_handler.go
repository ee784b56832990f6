package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/middleware"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type postBrowser interface {
	Browse(ctx context.Context, p *models.Principal, q dto.PostQuery) ([]dto.PostView, bool, error)
}

type studentApplicationService interface {
	Apply(ctx context.Context, p *models.Principal, postID string, cv *upload.File) (*dto.ApplyResult, error)
	Retry(ctx context.Context, p *models.Principal, postID string, cv *upload.File) (*dto.ApplyResult, error)
	StudentApplications(ctx context.Context, p *models.Principal, q dto.ApplicationQuery) ([]dto.ApplicationView, error)
	Select(ctx context.Context, p *models.Principal, id string) (*dto.SelectResult, error)
}

type studentReportService interface {
	SubmitStudentFinal(ctx context.Context, p *models.Principal, req dto.StudentFinalReportRequest) (*dto.ReportSubmission, error)
}

// StudentHandler serves the student portal.
type StudentHandler struct {
	posts        postBrowser
	applications studentApplicationService
	reports      studentReportService
	maxUpload    int64
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(posts postBrowser, applications studentApplicationService, reports studentReportService, maxUpload int64) *StudentHandler {
	return &StudentHandler{posts: posts, applications: applications, reports: reports, maxUpload: maxUpload}
}

// Posts godoc
// @Summary Browse training posts
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param search query string false "Title, company or location"
// @Param sort query string false "latest, duration-asc or duration-desc"
// @Success 200 {object} response.Envelope
// @Router /student/posts [get]
func (h *StudentHandler) Posts(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	posts, cached, err := h.posts.Browse(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, gin.H{"posts": posts}, middleware.ExtractMeta(c))
}

// Apply godoc
// @Summary Apply to a training post
// @Tags Student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param cv formData file true "CV"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/posts/{id}/apply [post]
func (h *StudentHandler) Apply(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	cv, err := formFile(c, "cv", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.applications.Apply(c.Request.Context(), principal, c.Param("id"), cv)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, res.Message, res)
}

// Retry godoc
// @Summary Retry a failed application
// @Description Reuses the previously chosen CV unless a new one is sent
// @Tags Student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param cv formData file false "CV"
// @Success 201 {object} response.Envelope
// @Router /student/posts/{id}/retry [post]
func (h *StudentHandler) Retry(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	cv, err := formFile(c, "cv", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.applications.Retry(c.Request.Context(), principal, c.Param("id"), cv)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, res.Message, res)
}

// Applications godoc
// @Summary List my applications
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param status query []string false "pending, approved, rejected, selected"
// @Param search query string false "Search"
// @Success 200 {object} response.Envelope
// @Router /student/applications [get]
func (h *StudentHandler) Applications(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.ApplicationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	apps, err := h.applications.StudentApplications(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"applications": apps})
}

// Select godoc
// @Summary Select an approved training position
// @Tags Student
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/applications/{id}/select [put]
func (h *StudentHandler) Select(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	res, err := h.applications.Select(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, res.Message, gin.H{"applications": res.Applications})
}

// FinalReport godoc
// @Summary Submit the student training report
// @Description Refused reports for an incomplete training period come back with a download link for the generated PDF
// @Tags Student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.StudentFinalReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /student/training/report [post]
func (h *StudentHandler) FinalReport(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var req dto.StudentFinalReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	res, err := h.reports.SubmitStudentFinal(c.Request.Context(), principal, req)
	if err != nil {
		if res != nil && res.Fallback != nil {
			response.ErrorWithData(c, err, gin.H{"fallback": res.Fallback})
			return
		}
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, res.Message, nil)
}
