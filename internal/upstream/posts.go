package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

type postsPayload struct {
	Posts []models.TrainingPost `json:"posts"`
}

type postPayload struct {
	Post *models.TrainingPost `json:"post"`
}

// CompanyPosts lists the signed-in company's posts.
func (c *Client) CompanyPosts(ctx context.Context, token string) ([]models.TrainingPost, error) {
	var out postsPayload
	if _, err := c.doJSON(ctx, http.MethodGet, "/companies/posts", token, nil, &out); err != nil {
		return nil, err
	}
	return nonNilPosts(out.Posts), nil
}

// StudentPosts lists posts open to students.
func (c *Client) StudentPosts(ctx context.Context, token string) ([]models.TrainingPost, error) {
	var out postsPayload
	if _, err := c.doJSON(ctx, http.MethodGet, "/students/posts", token, nil, &out); err != nil {
		return nil, err
	}
	return nonNilPosts(out.Posts), nil
}

// CreatePost publishes a new training post.
func (c *Client) CreatePost(ctx context.Context, token string, in models.PostInput) (*models.TrainingPost, Result, error) {
	var out postPayload
	res, err := c.doJSON(ctx, http.MethodPost, "/training-posts", token, in, &out)
	if err != nil {
		return nil, res, err
	}
	return out.Post, res, nil
}

// UpdatePost replaces a training post.
func (c *Client) UpdatePost(ctx context.Context, token, id string, in models.PostInput) (*models.TrainingPost, Result, error) {
	var out postPayload
	res, err := c.doJSON(ctx, http.MethodPut, "/training-posts/"+url.PathEscape(id), token, in, &out)
	if err != nil {
		return nil, res, err
	}
	return out.Post, res, nil
}

// DeletePost removes a training post.
func (c *Client) DeletePost(ctx context.Context, token, id string) (Result, error) {
	return c.doJSON(ctx, http.MethodDelete, "/training-posts/"+url.PathEscape(id), token, nil, nil)
}

func nonNilPosts(posts []models.TrainingPost) []models.TrainingPost {
	if posts == nil {
		return []models.TrainingPost{}
	}
	return posts
}
