package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/dto"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/service"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type departmentService interface {
	Students(ctx context.Context, p *models.Principal, q dto.StudentQuery) (*dto.StudentList, error)
	StudentDetail(ctx context.Context, p *models.Principal, id string) (*dto.StudentDetail, error)
	Pending(ctx context.Context, p *models.Principal) ([]dto.RequestView, error)
	UploadDocument(ctx context.Context, p *models.Principal, id string, doc *upload.File) (string, error)
	Roster(ctx context.Context, p *models.Principal, q dto.RosterQuery) (*service.RosterFile, error)
}

type auditLister interface {
	Enabled() bool
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// DepartmentHandler serves the department head portal.
type DepartmentHandler struct {
	service   departmentService
	audit     auditLister
	maxUpload int64
}

// NewDepartmentHandler constructs a DepartmentHandler. audit may be nil.
func NewDepartmentHandler(svc departmentService, audit auditLister, maxUpload int64) *DepartmentHandler {
	return &DepartmentHandler{service: svc, audit: audit, maxUpload: maxUpload}
}

// Students godoc
// @Summary List department students
// @Description Counters always cover every student regardless of filters
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Param status query []string false "Training status buckets"
// @Param search query string false "Name or university id"
// @Success 200 {object} response.Envelope
// @Router /department/students [get]
func (h *DepartmentHandler) Students(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.StudentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	list, err := h.service.Students(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list)
}

// Student godoc
// @Summary Show a student's training documents
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID or university id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /department/students/{id} [get]
func (h *DepartmentHandler) Student(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	detail, err := h.service.StudentDetail(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Pending godoc
// @Summary List selections awaiting an official document
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /department/applications/pending [get]
func (h *DepartmentHandler) Pending(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	pending, err := h.service.Pending(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"applications": pending})
}

// UploadDocument godoc
// @Summary Upload the official training document
// @Tags Department
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param officialDocument formData file true "Official document PDF"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /department/applications/{id}/document [post]
func (h *DepartmentHandler) UploadDocument(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	doc, err := formFile(c, "officialDocument", h.maxUpload)
	if err != nil {
		response.Error(c, err)
		return
	}
	msg, err := h.service.UploadDocument(c.Request.Context(), principal, c.Param("id"), doc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, msg, nil)
}

// Roster godoc
// @Summary Export students in training
// @Tags Department
// @Produce application/pdf,text/csv
// @Security BearerAuth
// @Param format query string false "pdf or csv"
// @Success 200 {file} binary
// @Failure 412 {object} response.Envelope
// @Router /department/roster [get]
func (h *DepartmentHandler) Roster(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var q dto.RosterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	file, err := h.service.Roster(c.Request.Context(), principal, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// AuditLogs godoc
// @Summary List recorded portal actions
// @Tags Department
// @Produce json
// @Security BearerAuth
// @Param userId query string false "User ID"
// @Param action query string false "Action"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Envelope
// @Router /department/audit-logs [get]
func (h *DepartmentHandler) AuditLogs(c *gin.Context) {
	if h.audit == nil || !h.audit.Enabled() {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "audit log is not enabled"))
		return
	}
	filter := models.AuditFilter{UserID: c.Query("userId"), Action: c.Query("action")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive number"))
			return
		}
		filter.Limit = limit
	}
	logs, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"logs": logs})
}
