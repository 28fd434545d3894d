package models

import "time"

// VenueRequest is the venue-reservation specialization payload.
type VenueRequest struct {
	VenueRequestID int        `gorm:"primaryKey;column:venue_request_id" json:"venue_request_id"`
	RequestID      int        `gorm:"column:request_id;unique" json:"request_id"`
	VenueID        int        `gorm:"column:venue_id" json:"venue_id"`
	StartTime      time.Time  `gorm:"column:start_time" json:"start_time"`
	EndTime        time.Time  `gorm:"column:end_time" json:"end_time"`
	InProgress     bool       `gorm:"column:in_progress" json:"in_progress"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Venue *Venue `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
}

type Venue struct {
	VenueID    int        `gorm:"primaryKey;column:venue_id" json:"venue_id"`
	VenueName  string     `gorm:"column:venue_name" json:"venue_name"`
	Location   string     `gorm:"column:location" json:"location"`
	Capacity   int        `gorm:"column:capacity" json:"capacity"`
	IsReserved bool       `gorm:"column:is_reserved" json:"is_reserved"`
	IsActive   bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt   *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt   *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt   *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (VenueRequest) TableName() string {
	return "venue_requests"
}

func (Venue) TableName() string {
	return "venues"
}
