package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction enumerates recorded action kinds.
type AuditAction string

// Audit actions.
const (
	AuditLoginSuccess AuditAction = "LOGIN_SUCCESS"
	AuditLoginFailed  AuditAction = "LOGIN_FAILED"
	AuditLogout       AuditAction = "LOGOUT"
	AuditCreate       AuditAction = "CREATE"
	AuditUpdate       AuditAction = "UPDATE"
	AuditDelete       AuditAction = "DELETE"
	AuditExport       AuditAction = "EXPORT"
	AuditView         AuditAction = "VIEW"
)

// AuditResource enumerates the resource types an audit entry can point at.
type AuditResource string

// Audit resource types.
const (
	AuditResourceUser     AuditResource = "USER"
	AuditResourceEvent    AuditResource = "EVENT"
	AuditResourceNews     AuditResource = "NEWS"
	AuditResourceQuote    AuditResource = "QUOTE"
	AuditResourceMember   AuditResource = "MEMBER"
	AuditResourceDonation AuditResource = "DONATION"
	AuditResourceSetting  AuditResource = "SETTING"
	AuditResourceTaxonomy AuditResource = "TAXONOMY"
)

// AuditStatus is the outcome recorded on an entry.
type AuditStatus string

// Audit statuses.
const (
	AuditStatusSuccess AuditStatus = "SUCCESS"
	AuditStatusFailure AuditStatus = "FAILURE"
	AuditStatusWarning AuditStatus = "WARNING"
)

// AuditLog is an append-only trail entry; rows are never modified after insert.
type AuditLog struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	Username     string         `gorm:"size:50" json:"username"`
	Action       AuditAction    `gorm:"size:32;not null;index" json:"action"`
	ResourceType AuditResource  `gorm:"size:32;index" json:"resource_type"`
	ResourceID   *uint          `json:"resource_id"`
	ResourceName string         `gorm:"size:255" json:"resource_name"`
	Description  string         `gorm:"type:text" json:"description"`
	OldValues    datatypes.JSON `json:"old_values"`
	NewValues    datatypes.JSON `json:"new_values"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	UserAgent    string         `gorm:"type:text" json:"user_agent"`
	Status       AuditStatus    `gorm:"size:16;not null;default:SUCCESS" json:"status"`
	ErrorMessage string         `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}
