package models

import "time"

// TransportRequest is the vehicle-reservation specialization payload.
// InProgress is flipped by the scheduled promotion once the scheduled
// time arrives; clients cannot set it.
type TransportRequest struct {
	TransportRequestID int        `gorm:"primaryKey;column:transport_request_id" json:"transport_request_id"`
	RequestID          int        `gorm:"column:request_id;unique" json:"request_id"`
	VehicleID          int        `gorm:"column:vehicle_id" json:"vehicle_id"`
	DateTimeNeeded     time.Time  `gorm:"column:date_time_needed" json:"date_time_needed"`
	Destination        string     `gorm:"column:destination" json:"destination"`
	InProgress         bool       `gorm:"column:in_progress" json:"in_progress"`
	CreateAt           time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt           *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}

type Vehicle struct {
	VehicleID   int        `gorm:"primaryKey;column:vehicle_id" json:"vehicle_id"`
	VehicleName string     `gorm:"column:vehicle_name" json:"vehicle_name"`
	PlateNumber string     `gorm:"column:plate_number" json:"plate_number"`
	Capacity    int        `gorm:"column:capacity" json:"capacity"`
	IsReserved  bool       `gorm:"column:is_reserved" json:"is_reserved"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (TransportRequest) TableName() string {
	return "transport_requests"
}

func (Vehicle) TableName() string {
	return "vehicles"
}
