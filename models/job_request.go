package models

import "time"

// Rework attempt statuses. A job request has at most one OPEN attempt.
const (
	ReworkOpen           = "OPEN"
	ReworkClosedApproved = "CLOSED_APPROVED"
	ReworkClosedRejected = "CLOSED_REJECTED"
)

// JobRequest is the job/maintenance specialization payload.
type JobRequest struct {
	JobRequestID   int        `gorm:"primaryKey;column:job_request_id" json:"job_request_id"`
	RequestID      int        `gorm:"column:request_id;unique" json:"request_id"`
	JobType        string     `gorm:"column:job_type" json:"job_type"`
	Priority       string     `gorm:"column:priority" json:"priority"` // low|medium|high|urgent
	Section        string     `gorm:"column:section" json:"section"`
	AssignedUserID *int       `gorm:"column:assigned_user_id" json:"assigned_user_id,omitempty"`
	ReviewerID     *int       `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	DueDate        *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	AssignedUser   *User           `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
	Reviewer       *User           `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	ReworkAttempts []ReworkAttempt `gorm:"foreignKey:JobRequestID" json:"rework_attempts,omitempty"`
}

// ReworkAttempt is one redo cycle opened after a post-completion rejection.
type ReworkAttempt struct {
	ReworkAttemptID int        `gorm:"primaryKey;column:rework_attempt_id" json:"rework_attempt_id"`
	JobRequestID    int        `gorm:"column:job_request_id" json:"job_request_id"`
	StartDate       time.Time  `gorm:"column:start_date" json:"start_date"`
	EndDate         *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	Status          string     `gorm:"column:status" json:"status"`
	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
}

// IsOpen reports whether the attempt is still unresolved.
func (a *ReworkAttempt) IsOpen() bool {
	return a.Status == ReworkOpen
}

// TableName overrides
func (JobRequest) TableName() string {
	return "job_requests"
}

func (ReworkAttempt) TableName() string {
	return "rework_attempts"
}
