package models

import "time"

// Audit actions recorded for portal mutations.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionRegister       = "REGISTER"
	AuditActionPasswordReset  = "PASSWORD_RESET"
	AuditActionPostCreate     = "POST_CREATE"
	AuditActionPostUpdate     = "POST_UPDATE"
	AuditActionPostDelete     = "POST_DELETE"
	AuditActionApply          = "APPLY"
	AuditActionSelect         = "SELECT"
	AuditActionReview         = "REVIEW"
	AuditActionReportUpload   = "REPORT_UPLOAD"
	AuditActionDocumentUpload = "DOCUMENT_UPLOAD"
	AuditActionProfileUpdate  = "PROFILE_UPDATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Role       string    `db:"role" json:"role"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Status     int       `db:"status" json:"status"`
	Details    []byte    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit listings.
type AuditFilter struct {
	UserID string
	Action string
	Limit  int
}
