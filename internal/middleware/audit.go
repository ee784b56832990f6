package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

// AuditRecorder persists audit entries without failing the request.
type AuditRecorder interface {
	Record(ctx context.Context, entry *models.AuditLog)
}

// Audit creates a middleware that records audit logs after successful requests.
func Audit(recorder AuditRecorder, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if recorder == nil || c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			Status:    c.Writer.Status(),
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if principal, ok := CurrentPrincipal(c); ok {
			userID := principal.UserID
			entry.UserID = &userID
			entry.Role = string(principal.Role)
		}
		if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}

		entry.Details, _ = json.Marshal(map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"latency": time.Since(start).Milliseconds(),
		})

		recorder.Record(c.Request.Context(), entry)
	}
}
