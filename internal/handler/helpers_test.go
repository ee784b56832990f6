package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/middleware"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

type responseEnvelope struct {
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(req *http.Request, principal *models.Principal, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = req
	c.Params = params
	if principal != nil {
		c.Set(middleware.ContextUserKey, principal)
	}
	return c, rec
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// multipartRequest builds a form with the given fields and an optional file part.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func studentPrincipal() *models.Principal {
	return &models.Principal{SessionID: "sess-1", UserID: "stu-1", Role: models.RoleStudent}
}

func companyPrincipal() *models.Principal {
	return &models.Principal{SessionID: "sess-2", UserID: "cmp-1", Role: models.RoleCompany}
}

func departmentPrincipal() *models.Principal {
	return &models.Principal{SessionID: "sess-3", UserID: "dep-1", Role: models.RoleDepartmentHead}
}
