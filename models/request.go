package models

import "time"

// Request statuses. REJECTED, CANCELLED and COMPLETED are terminal;
// ON_HOLD is a detour reachable only from APPROVED.
const (
	StatusPending   = "PENDING"
	StatusReviewed  = "REVIEWED"
	StatusApproved  = "APPROVED"
	StatusOnHold    = "ON_HOLD"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

// Request type discriminants. Exactly one payload table holds a row per
// request, selected by this value.
const (
	RequestTypeJob       = "job"
	RequestTypeSupply    = "supply"
	RequestTypeBorrow    = "borrow"
	RequestTypeTransport = "transport"
	RequestTypeVenue     = "venue"
)

// Request is the parent envelope shared by all request kinds.
type Request struct {
	RequestID       int        `gorm:"primaryKey;column:request_id" json:"request_id"`
	RequestNumber   string     `gorm:"column:request_number;unique" json:"request_number"`
	RequestType     string     `gorm:"column:request_type" json:"request_type"`
	Title           string     `gorm:"column:title" json:"title"`
	Notes           string     `gorm:"column:notes" json:"notes"`
	RequesterID     int        `gorm:"column:requester_id" json:"requester_id"`
	DepartmentID    int        `gorm:"column:department_id" json:"department_id"`
	Status          string     `gorm:"column:status" json:"status"`
	RejectionReason *string    `gorm:"column:rejection_reason" json:"rejection_reason,omitempty"`
	RejectionCount  int        `gorm:"column:rejection_count" json:"rejection_count"`
	ClientToken     *string    `gorm:"column:client_token;unique" json:"client_token,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at" json:"updated_at"`
	CompletedAt     *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	DeletedAt       *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	// Relations
	Requester  *User       `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`

	JobDetail       *JobRequest       `gorm:"foreignKey:RequestID" json:"job_detail,omitempty"`
	SupplyDetail    *SupplyRequest    `gorm:"foreignKey:RequestID" json:"supply_detail,omitempty"`
	BorrowDetail    *BorrowRequest    `gorm:"foreignKey:RequestID" json:"borrow_detail,omitempty"`
	TransportDetail *TransportRequest `gorm:"foreignKey:RequestID" json:"transport_detail,omitempty"`
	VenueDetail     *VenueRequest     `gorm:"foreignKey:RequestID" json:"venue_detail,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}

// IsTerminal reports whether no further lifecycle transition is possible.
func (r *Request) IsTerminal() bool {
	switch r.Status {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ValidRequestType reports whether t is one of the five payload discriminants.
func ValidRequestType(t string) bool {
	switch t {
	case RequestTypeJob, RequestTypeSupply, RequestTypeBorrow, RequestTypeTransport, RequestTypeVenue:
		return true
	}
	return false
}
