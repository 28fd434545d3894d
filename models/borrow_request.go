package models

import "time"

// BorrowRequest is the returnable-item specialization payload. The flag
// columns are derived or manager-set and never accepted from a client.
type BorrowRequest struct {
	BorrowRequestID int        `gorm:"primaryKey;column:borrow_request_id" json:"borrow_request_id"`
	RequestID       int        `gorm:"column:request_id;unique" json:"request_id"`
	InventoryItemID int        `gorm:"column:inventory_item_id" json:"inventory_item_id"`
	DueDate         time.Time  `gorm:"column:due_date" json:"due_date"`
	ReturnDate      time.Time  `gorm:"column:return_date" json:"return_date"`
	ReturnedAt      *time.Time `gorm:"column:returned_at" json:"returned_at,omitempty"`
	IsOverdue       bool       `gorm:"column:is_overdue" json:"is_overdue"`
	IsLost          bool       `gorm:"column:is_lost" json:"is_lost"`
	InProgress      bool       `gorm:"column:in_progress" json:"in_progress"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
}

// InventoryItem is an allocatable borrowable sub-item.
type InventoryItem struct {
	InventoryItemID int        `gorm:"primaryKey;column:inventory_item_id" json:"inventory_item_id"`
	ItemName        string     `gorm:"column:item_name" json:"item_name"`
	SerialNumber    string     `gorm:"column:serial_number" json:"serial_number"`
	IsReserved      bool       `gorm:"column:is_reserved" json:"is_reserved"`
	IsActive        bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (BorrowRequest) TableName() string {
	return "borrow_requests"
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
