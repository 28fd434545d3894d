package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"resource-request-api/models"
)

var (
	ErrNotBorrowRequest = errors.New("operation is only valid for borrow requests")
	ErrAlreadyReturned  = errors.New("item has already been returned")
	ErrNotOverdue       = errors.New("item can only be marked lost while overdue")
)

// BorrowOverdue computes the derived overdue flag: the return date has
// passed, the request is still APPROVED, and the item was never confirmed
// returned.
func BorrowOverdue(request *models.Request, now time.Time) bool {
	detail := request.BorrowDetail
	if detail == nil {
		return false
	}
	return request.Status == models.StatusApproved &&
		detail.ReturnedAt == nil &&
		detail.ReturnDate.Before(now)
}

// ApplyOverdueFlags refreshes the derived overdue flag on loaded borrow
// requests. The persisted flag is kept once set (lost items stay overdue
// even after the envelope leaves APPROVED).
func ApplyOverdueFlags(requests []models.Request, now time.Time) {
	for i := range requests {
		if requests[i].BorrowDetail == nil {
			continue
		}
		if BorrowOverdue(&requests[i], now) {
			requests[i].BorrowDetail.IsOverdue = true
		}
	}
}

// ConfirmReturn records the physical return of a borrowed item and
// completes the request in the same transaction.
func ConfirmReturn(db *gorm.DB, requestID int, actor ActorContext) (*models.Request, error) {
	var request models.Request
	if err := db.Preload("BorrowDetail").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestType != models.RequestTypeBorrow || request.BorrowDetail == nil {
		return nil, ErrNotBorrowRequest
	}
	if request.BorrowDetail.ReturnedAt != nil {
		return nil, ErrAlreadyReturned
	}
	if request.Status != models.StatusApproved {
		return nil, ErrInvalidTransition
	}

	now := time.Now()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&models.BorrowRequest{}).
		Where("request_id = ?", request.RequestID).
		Updates(map[string]interface{}{
			"returned_at": now,
			"is_overdue":  false,
			"in_progress": false,
			"update_at":   now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	result := tx.Model(&models.Request{}).
		Where("request_id = ? AND status = ?", request.RequestID, models.StatusApproved).
		Updates(map[string]interface{}{
			"status":       models.StatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrStaleStatus
	}

	if err := tx.Model(&models.InventoryItem{}).
		Where("inventory_item_id = ?", request.BorrowDetail.InventoryItemID).
		Update("is_reserved", false).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, &request, models.StatusCompleted, actor.UserID, "", "item_returned", now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, &request, models.AuditActionConfirmReturn, actor, map[string]interface{}{
		"status":      models.StatusCompleted,
		"returned_at": now,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	title := "Item returned"
	message := "Borrowed item on request " + request.RequestNumber + " was confirmed returned"
	if err := createNotificationTx(tx, request.RequesterID, title, message, "success", request.RequestID, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	go sendNotificationEmail(db, request.RequesterID, title, message)

	var updated models.Request
	if err := db.Preload("BorrowDetail").First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkLost flags an overdue borrowed item as lost. The flag never clears
// automatically; recovery is a manual resolution.
func MarkLost(db *gorm.DB, requestID int, actor ActorContext) (*models.Request, error) {
	var request models.Request
	if err := db.Preload("BorrowDetail").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestType != models.RequestTypeBorrow || request.BorrowDetail == nil {
		return nil, ErrNotBorrowRequest
	}
	if request.BorrowDetail.IsLost {
		return &request, nil
	}
	now := time.Now()
	if !BorrowOverdue(&request, now) {
		return nil, ErrNotOverdue
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// is_overdue is persisted alongside is_lost so the pair stays readable
	// after the envelope leaves APPROVED.
	if err := tx.Model(&models.BorrowRequest{}).
		Where("request_id = ? AND is_lost = ?", request.RequestID, false).
		Updates(map[string]interface{}{
			"is_lost":    true,
			"is_overdue": true,
			"update_at":  now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeAudit(tx, &request, models.AuditActionMarkLost, actor, map[string]interface{}{
		"is_lost":    true,
		"is_overdue": true,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	title := "Borrowed item marked lost"
	message := "The item on request " + request.RequestNumber + " has been marked as lost"
	if err := createNotificationTx(tx, request.RequesterID, title, message, "error", request.RequestID, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	go sendNotificationEmail(db, request.RequesterID, title, message)

	var updated models.Request
	if err := db.Preload("BorrowDetail").First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}
