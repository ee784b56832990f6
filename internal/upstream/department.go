package upstream

import (
	"context"
	"net/http"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
)

type studentsPayload struct {
	Students []models.Student `json:"students"`
}

// DepartmentStudents lists the department's students with their applications.
func (c *Client) DepartmentStudents(ctx context.Context, token string) ([]models.Student, error) {
	var out studentsPayload
	if _, err := c.doJSON(ctx, http.MethodGet, "/department-heads/students", token, nil, &out); err != nil {
		return nil, err
	}
	if out.Students == nil {
		return []models.Student{}, nil
	}
	return out.Students, nil
}
