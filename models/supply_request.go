package models

import "time"

// SupplyRequest is the consumable-supply specialization payload.
type SupplyRequest struct {
	SupplyRequestID int        `gorm:"primaryKey;column:supply_request_id" json:"supply_request_id"`
	RequestID       int        `gorm:"column:request_id;unique" json:"request_id"`
	ItemDescription string     `gorm:"column:item_description" json:"item_description"`
	Quantity        int        `gorm:"column:quantity" json:"quantity"`
	Unit            string     `gorm:"column:unit" json:"unit"`
	FulfilledAt     *time.Time `gorm:"column:fulfilled_at" json:"fulfilled_at,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
}

func (SupplyRequest) TableName() string {
	return "supply_requests"
}
