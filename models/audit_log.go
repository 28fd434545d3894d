package models

import "time"

// Audit actions recorded on state-changing operations.
const (
	AuditActionCreate         = "create"
	AuditActionReview         = "review"
	AuditActionApprove        = "approve"
	AuditActionReject         = "reject"
	AuditActionCancel         = "cancel"
	AuditActionHold           = "hold"
	AuditActionResume         = "resume"
	AuditActionComplete       = "complete"
	AuditActionRejectComplete = "reject_completed"
	AuditActionFinishRework   = "finish_rework"
	AuditActionResolveRework  = "resolve_rework"
	AuditActionConfirmReturn  = "confirm_return"
	AuditActionMarkLost       = "mark_lost"
)

// AuditLog is an append-only record of a state-changing action. Rows are
// never updated or deleted.
type AuditLog struct {
	AuditLogID   int       `gorm:"primaryKey;column:audit_log_id" json:"audit_log_id"`
	UserID       int       `gorm:"column:user_id" json:"user_id"`
	Action       string    `gorm:"column:action" json:"action"`
	EntityType   string    `gorm:"column:entity_type" json:"entity_type"`
	EntityID     *int      `gorm:"column:entity_id" json:"entity_id,omitempty"`
	EntityNumber *string   `gorm:"column:entity_number" json:"entity_number,omitempty"`
	OldValues    *string   `gorm:"column:old_values" json:"old_values,omitempty"`
	NewValues    *string   `gorm:"column:new_values" json:"new_values,omitempty"`
	Description  *string   `gorm:"column:description" json:"description,omitempty"`
	IPAddress    string    `gorm:"column:ip_address" json:"ip_address"`
	UserAgent    *string   `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
