package upstream

import (
	"context"
	"net/http"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/upload"
)

type companyProfilePayload struct {
	Company models.Company `json:"company"`
}

// CompanyProfile returns the signed-in company's profile.
func (c *Client) CompanyProfile(ctx context.Context, token string) (*models.Company, error) {
	var out companyProfilePayload
	if _, err := c.doJSON(ctx, http.MethodGet, "/companies/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return &out.Company, nil
}

// UpdateCompanyProfile sends the editable profile fields with an optional picture.
func (c *Client) UpdateCompanyProfile(ctx context.Context, token string, in models.CompanyProfileUpdate, picture *upload.File) (Result, error) {
	form := NewForm().
		Field("name", in.Name).
		Field("phone", in.Phone).
		Field("location", in.Location).
		Field("fieldOfWork", in.FieldOfWork).
		OptionalField("newPassword", in.NewPassword).
		File("profilePicture", picture)
	return c.doMultipart(ctx, http.MethodPut, "/companies/profile", token, form, nil)
}
