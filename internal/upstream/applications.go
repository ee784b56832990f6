package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type applicationsPayload struct {
	Applications []models.Application `json:"applications"`
}

type applicationPayload struct {
	Application *models.Application `json:"application"`
}

// Apply submits the student's CV for a post.
func (c *Client) Apply(ctx context.Context, token, postID string, cv *upload.File) (*models.Application, Result, error) {
	var out applicationPayload
	form := NewForm().File("cv", cv)
	res, err := c.doMultipart(ctx, http.MethodPost, "/students/posts/"+url.PathEscape(postID)+"/apply", token, form, &out)
	if err != nil {
		return nil, res, err
	}
	return out.Application, res, nil
}

// StudentApplications lists the signed-in student's applications.
func (c *Client) StudentApplications(ctx context.Context, token string) ([]models.Application, error) {
	return c.applications(ctx, "/students/applications", token)
}

// SelectApplication marks an approved application as the student's choice.
func (c *Client) SelectApplication(ctx context.Context, token, id string) (Result, error) {
	return c.doJSON(ctx, http.MethodPut, "/students/applications/"+url.PathEscape(id)+"/select", token, struct{}{}, nil)
}

// CompanyApplications lists applications to the company's posts.
func (c *Client) CompanyApplications(ctx context.Context, token string) ([]models.Application, error) {
	return c.applications(ctx, "/companies/applications", token)
}

// UpdateApplicationStatus approves or rejects an application.
func (c *Client) UpdateApplicationStatus(ctx context.Context, token, id string, status models.ApplicationStatus) (Result, error) {
	body := map[string]string{"status": string(status)}
	return c.doJSON(ctx, http.MethodPut, "/companies/applications/"+url.PathEscape(id), token, body, nil)
}

// PendingApplications lists approved applications awaiting the department's
// official document.
func (c *Client) PendingApplications(ctx context.Context, token string) ([]models.Application, error) {
	return c.applications(ctx, "/department-heads/applications/pending", token)
}

// UploadOfficialDocument attaches the department's official training letter.
func (c *Client) UploadOfficialDocument(ctx context.Context, token, id string, doc *upload.File) (Result, error) {
	form := NewForm().File("officialDocument", doc)
	return c.doMultipart(ctx, http.MethodPost, "/department-heads/applications/"+url.PathEscape(id)+"/document", token, form, nil)
}

func (c *Client) applications(ctx context.Context, path, token string) ([]models.Application, error) {
	var out applicationsPayload
	if _, err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if out.Applications == nil {
		return []models.Application{}, nil
	}
	return out.Applications, nil
}
