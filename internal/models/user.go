package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies which portal a user signs into.
type Role string

const (
	RoleStudent        Role = "student"
	RoleCompany        Role = "company"
	RoleDepartmentHead Role = "department-head"
)

// Valid reports whether the role is one of the three portal roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleCompany, RoleDepartmentHead:
		return true
	}
	return false
}

// User is the account returned by the training backend.
type User struct {
	ID           string                 `json:"_id"`
	Name         string                 `json:"name,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Role         Role                   `json:"role,omitempty"`
	UniversityID string                 `json:"universityId,omitempty"`
	NationalID   string                 `json:"nationalId,omitempty"`
	Department   string                 `json:"department,omitempty"`
	Profile      map[string]interface{} `json:"profile,omitempty"`
}

// Session is the server-side record of a signed-in portal user. It is
// persisted whole and never patched in place.
type Session struct {
	ID          string     `json:"id"`
	Token       string     `json:"token"`
	Role        Role       `json:"role"`
	User        User       `json:"user"`
	CreatedAt   time.Time  `json:"createdAt"`
	RefreshedAt *time.Time `json:"refreshedAt,omitempty"`
}

// SessionView is what the portal exposes about the current session.
type SessionView struct {
	Role    Role `json:"role"`
	User    User `json:"user"`
	Loading bool `json:"loading"`
}

// SessionClaims is the payload of the portal session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// Credentials covers the three login forms. Which identifier is required
// depends on the role.
type Credentials struct {
	UniversityID string `json:"universityId,omitempty"`
	NationalID   string `json:"nationalId,omitempty"`
	Email        string `json:"email,omitempty"`
	Password     string `json:"password" validate:"required"`
}

// AuthResult is the backend payload for login, registration, and password reset.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// WhoAmI is the backend payload of GET /auth/me.
type WhoAmI struct {
	User    User                   `json:"user"`
	Profile map[string]interface{} `json:"profile"`
}

// CompanyRegistration is submitted by a new company account.
type CompanyRegistration struct {
	NationalID  string `json:"nationalId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Location    string `json:"location" validate:"required"`
	FieldOfWork string `json:"fieldOfWork" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

// Principal is the authenticated caller of a portal request. Token is the
// backend bearer token and never leaves the gateway.
type Principal struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`
	Token     string `json:"-"`
	User      User   `json:"user"`
	Loading   bool   `json:"loading"`
}

// PortalLogin is returned after any flow that signs the user in.
type PortalLogin struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Session   SessionView `json:"session"`
}
