package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/middleware"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/response"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

func principalFromContext(c *gin.Context) *models.Principal {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return nil
	}
	return principal
}

// requirePrincipal writes 401 when the route was mounted without the session guard.
func requirePrincipal(c *gin.Context) (*models.Principal, bool) {
	principal := principalFromContext(c)
	if principal == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return principal, true
}

// formFile reads an optional multipart file. A missing part yields nil.
func formFile(c *gin.Context, field string, maxBytes int64) (*upload.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart payload")
	}
	return upload.FromHeader(fh, maxBytes)
}
