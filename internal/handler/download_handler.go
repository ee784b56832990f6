package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/service"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type downloadResolver interface {
	ResolveDownload(token string) (*service.Download, error)
}

// DownloadHandler serves generated report PDFs behind signed links.
type DownloadHandler struct {
	resolver downloadResolver
}

// NewDownloadHandler constructs a DownloadHandler.
func NewDownloadHandler(resolver downloadResolver) *DownloadHandler {
	return &DownloadHandler{resolver: resolver}
}

// Download godoc
// @Summary Download a kept report
// @Description The token itself authorizes the download
// @Tags Downloads
// @Produce application/pdf
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /downloads/{token} [get]
func (h *DownloadHandler) Download(c *gin.Context) {
	file, err := h.resolver.ResolveDownload(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, upload.PDFMime, file.Data)
}
