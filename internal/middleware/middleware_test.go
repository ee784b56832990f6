package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/logger"
)

type stubAuthenticator struct {
	principal *models.Principal
	err       error
	token     string
}

func (s *stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	s.token = token
	return s.principal, s.err
}

type stubRecorder struct {
	entries []*models.AuditLog
}

func (s *stubRecorder) Record(ctx context.Context, entry *models.AuditLog) {
	s.entries = append(s.entries, entry)
}

type stubObserver struct {
	paths []string
}

func (s *stubObserver) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	s.paths = append(s.paths, method+" "+path)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionGuard(t *testing.T) {
	auth := &stubAuthenticator{principal: &models.Principal{UserID: "stu-1", Role: models.RoleStudent}}
	router := gin.New()
	router.GET("/me", Session(auth), func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		require.True(t, ok)
		assert.Equal(t, "student", c.GetString(logger.RoleContextKey))
		c.String(http.StatusOK, principal.UserID)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "stu-1", w.Body.String())
	assert.Equal(t, "abc", auth.token)

	auth.err = appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session expired")
}

func TestRequireRoles(t *testing.T) {
	auth := &stubAuthenticator{principal: &models.Principal{UserID: "stu-1", Role: models.RoleStudent}}
	router := gin.New()
	router.GET("/company", Session(auth), RequireRoles(models.RoleCompany), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/student", Session(auth), RequireRoles(models.RoleStudent), func(c *gin.Context) { c.Status(http.StatusOK) })

	for path, want := range map[string]int{"/company": http.StatusForbidden, "/student": http.StatusOK} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer t")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, path)
	}
}

func TestAuditRecordsOnlySuccess(t *testing.T) {
	auth := &stubAuthenticator{principal: &models.Principal{UserID: "cmp-1", Role: models.RoleCompany}}
	recorder := &stubRecorder{}
	router := gin.New()
	router.DELETE("/posts/:id", Session(auth), Audit(recorder, models.AuditActionPostDelete, "training_post"), func(c *gin.Context) {
		if c.Query("fail") != "" {
			c.Status(http.StatusPreconditionFailed)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, target := range []string{"/posts/p1?fail=1", "/posts/p1"} {
		req := httptest.NewRequest(http.MethodDelete, target, nil)
		req.Header.Set("Authorization", "Bearer t")
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, models.AuditActionPostDelete, entry.Action)
	assert.Equal(t, "p1", *entry.ResourceID)
	assert.Equal(t, "cmp-1", *entry.UserID)
	assert.Equal(t, "company", entry.Role)
}

func TestAuditAttributesSignIn(t *testing.T) {
	recorder := &stubRecorder{}
	router := gin.New()
	router.POST("/login/:role", Audit(recorder, models.AuditActionLogin, "session"), func(c *gin.Context) {
		SetPrincipal(c, &models.Principal{UserID: "dh-1", Role: models.RoleDepartmentHead})
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login/department-head", nil))

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "dh-1", *entry.UserID)
	assert.Equal(t, string(models.RoleDepartmentHead), entry.Role)
}

func TestSessionGuardFlagsLoading(t *testing.T) {
	auth := &stubAuthenticator{principal: &models.Principal{UserID: "stu-1", Role: models.RoleStudent, Loading: true}}
	router := gin.New()
	router.GET("/posts", WithResponseMeta(), Session(auth), func(c *gin.Context) {
		c.JSON(http.StatusOK, ExtractMeta(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"session_loading":true`)
}

func TestRateLimitPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	fixed := time.Now()
	limiter.now = func() time.Time { return fixed }
	router := gin.New()
	router.POST("/login", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	limiter.now = func() time.Time { return fixed.Add(limiterIdleTTL + time.Second) }
	limiter.Sweep()
	assert.Empty(t, limiter.buckets)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	observer := &stubObserver{}
	router := gin.New()
	router.Use(Metrics(observer), WithResponseMeta())
	router.GET("/posts/:id", func(c *gin.Context) {
		SetCacheHit(c, true)
		assert.Equal(t, true, ExtractMeta(c)["cache_hit"])
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/42", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, []string{"GET /posts/:id", "GET unmatched"}, observer.paths)
}
