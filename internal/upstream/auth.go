package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/models"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

// Login signs in with the login endpoint of the given role.
func (c *Client) Login(ctx context.Context, role models.Role, creds models.Credentials) (*models.AuthResult, error) {
	if !role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	body := map[string]string{"password": creds.Password}
	switch role {
	case models.RoleStudent:
		body["universityId"] = creds.UniversityID
	case models.RoleCompany:
		body["nationalId"] = creds.NationalID
	case models.RoleDepartmentHead:
		body["email"] = creds.Email
	}

	var out models.AuthResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/login/"+string(role), "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterCompany creates a company account and returns its login data.
func (c *Client) RegisterCompany(ctx context.Context, reg models.CompanyRegistration) (*models.AuthResult, error) {
	var out models.AuthResult
	if _, err := c.doJSON(ctx, http.MethodPost, "/auth/register/company", "", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCompany checks that a national id belongs to a known company.
func (c *Client) VerifyCompany(ctx context.Context, nationalID string) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if _, err := c.doJSON(ctx, http.MethodGet, "/auth/verify-company/"+url.PathEscape(nationalID), "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me returns the current user and their role profile.
func (c *Client) Me(ctx context.Context, token string) (*models.WhoAmI, error) {
	var out models.WhoAmI
	if _, err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to mail reset instructions.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	res, err := c.doJSON(ctx, http.MethodPost, "/auth/forgotpassword", "", map[string]string{"email": email}, nil)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// ResetPassword sets a new password using a mailed token and returns login data.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) (*models.AuthResult, error) {
	var out models.AuthResult
	path := "/auth/resetpassword/" + url.PathEscape(resetToken)
	if _, err := c.doJSON(ctx, http.MethodPut, path, "", map[string]string{"newPassword": newPassword}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
