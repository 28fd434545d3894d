package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"resource-request-api/models"
)

// Lifecycle events shared by all request kinds.
const (
	EventReview   = "review"
	EventApprove  = "approve"
	EventReject   = "reject"
	EventCancel   = "cancel"
	EventHold     = "hold"
	EventResume   = "resume"
	EventComplete = "complete"
)

var (
	ErrRequestNotFound    = errors.New("request not found")
	ErrInvalidTransition  = errors.New("transition not allowed from current status")
	ErrStaleStatus        = errors.New("request status changed concurrently, re-fetch and retry")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrNotRequester       = errors.New("only the original requester may cancel")
	ErrCompletionNotReady = errors.New("completion condition not met")
)

// ActorContext carries the acting principal and request metadata for the
// audit trail.
type ActorContext struct {
	UserID    int
	IP        string
	UserAgent string
}

type transitionRule struct {
	from []string
	to   string
}

var transitionTable = map[string]transitionRule{
	EventReview:   {from: []string{models.StatusPending}, to: models.StatusReviewed},
	EventApprove:  {from: []string{models.StatusPending, models.StatusReviewed}, to: models.StatusApproved},
	EventReject:   {from: []string{models.StatusPending, models.StatusReviewed}, to: models.StatusRejected},
	EventCancel:   {from: []string{models.StatusPending}, to: models.StatusCancelled},
	EventHold:     {from: []string{models.StatusApproved}, to: models.StatusOnHold},
	EventResume:   {from: []string{models.StatusOnHold}, to: models.StatusApproved},
	EventComplete: {from: []string{models.StatusApproved}, to: models.StatusCompleted},
}

// CanTransition returns the target status for applying event to a request
// currently in status, or false when the transition table has no such edge.
func CanTransition(status, event string) (string, bool) {
	rule, ok := transitionTable[event]
	if !ok {
		return "", false
	}
	for _, from := range rule.from {
		if from == status {
			return rule.to, true
		}
	}
	return "", false
}

// Transition applies a lifecycle event to a request. Status update, history,
// audit entry and notification are written in one transaction; the status
// update is guarded on the expected prior status so a concurrent transition
// loses with ErrStaleStatus instead of overwriting.
func Transition(db *gorm.DB, requestID int, event string, actor ActorContext, reason string) (*models.Request, error) {
	var request models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").Preload("SupplyDetail").Preload("BorrowDetail").
		Preload("TransportDetail").Preload("VenueDetail").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	next, ok := CanTransition(request.Status, event)
	if !ok {
		return nil, ErrInvalidTransition
	}

	// A job under rework only leaves PENDING through the rework resolution;
	// regular events would strand the open attempt.
	if request.JobDetail != nil && openAttempt(request.JobDetail.ReworkAttempts) != nil {
		return nil, ErrOpenReworkExists
	}

	now := time.Now()

	switch event {
	case EventReject:
		if reason == "" {
			return nil, ErrReasonRequired
		}
	case EventCancel:
		if actor.UserID != request.RequesterID {
			return nil, ErrNotRequester
		}
	case EventComplete:
		if err := checkCompletion(&request, now); err != nil {
			return nil, err
		}
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	updates := map[string]interface{}{
		"status":     next,
		"updated_at": now,
	}
	if event == EventReject {
		updates["rejection_reason"] = reason
		updates["rejection_count"] = gorm.Expr("rejection_count + 1")
	}
	if event == EventComplete {
		updates["completed_at"] = now
	}

	// Optimistic guard: the update only applies while the status still
	// matches what we loaded.
	result := tx.Model(&models.Request{}).
		Where("request_id = ? AND status = ?", request.RequestID, request.Status).
		Updates(updates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrStaleStatus
	}

	switch event {
	case EventApprove:
		if err := setResourceReserved(tx, &request, true); err != nil {
			tx.Rollback()
			return nil, err
		}
	case EventComplete:
		if err := setResourceReserved(tx, &request, false); err != nil {
			tx.Rollback()
			return nil, err
		}
		if err := stampCompletion(tx, &request, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := writeHistory(tx, &request, next, actor.UserID, reason, "event:"+event, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, &request, auditAction(event), actor, map[string]interface{}{
		"status": next,
		"reason": reason,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	title, message, ntype, notify := statusNotification(event, &request, reason)
	if notify {
		if err := createNotificationTx(tx, request.RequesterID, title, message, ntype, request.RequestID, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if notify {
		go sendNotificationEmail(db, request.RequesterID, title, message)
	}

	var updated models.Request
	if err := db.Preload("Requester").Preload("Department").
		Preload("JobDetail.ReworkAttempts").Preload("SupplyDetail").Preload("BorrowDetail").
		Preload("TransportDetail").Preload("VenueDetail").
		First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// checkCompletion enforces the payload-specific completion condition.
func checkCompletion(request *models.Request, now time.Time) error {
	switch request.RequestType {
	case models.RequestTypeJob, models.RequestTypeSupply:
		// Completion is the confirming action itself; route gates decide
		// who may confirm.
		return nil
	case models.RequestTypeBorrow:
		if request.BorrowDetail == nil || request.BorrowDetail.ReturnedAt == nil {
			return ErrCompletionNotReady
		}
		return nil
	case models.RequestTypeTransport:
		if request.TransportDetail == nil || request.TransportDetail.DateTimeNeeded.After(now) {
			return ErrCompletionNotReady
		}
		return nil
	case models.RequestTypeVenue:
		if request.VenueDetail == nil || request.VenueDetail.EndTime.After(now) {
			return ErrCompletionNotReady
		}
		return nil
	}
	return fmt.Errorf("unknown request type %q", request.RequestType)
}

// setResourceReserved marks the allocatable resource behind the payload as
// reserved (approve) or released (complete). Job and supply requests hold
// no allocatable resource.
func setResourceReserved(tx *gorm.DB, request *models.Request, reserved bool) error {
	switch request.RequestType {
	case models.RequestTypeBorrow:
		if request.BorrowDetail == nil {
			return fmt.Errorf("borrow request %d has no payload row", request.RequestID)
		}
		return tx.Model(&models.InventoryItem{}).
			Where("inventory_item_id = ?", request.BorrowDetail.InventoryItemID).
			Update("is_reserved", reserved).Error
	case models.RequestTypeTransport:
		if request.TransportDetail == nil {
			return fmt.Errorf("transport request %d has no payload row", request.RequestID)
		}
		return tx.Model(&models.Vehicle{}).
			Where("vehicle_id = ?", request.TransportDetail.VehicleID).
			Update("is_reserved", reserved).Error
	case models.RequestTypeVenue:
		if request.VenueDetail == nil {
			return fmt.Errorf("venue request %d has no payload row", request.RequestID)
		}
		return tx.Model(&models.Venue{}).
			Where("venue_id = ?", request.VenueDetail.VenueID).
			Update("is_reserved", reserved).Error
	}
	return nil
}

func stampCompletion(tx *gorm.DB, request *models.Request, now time.Time) error {
	switch request.RequestType {
	case models.RequestTypeSupply:
		return tx.Model(&models.SupplyRequest{}).
			Where("request_id = ?", request.RequestID).
			Updates(map[string]interface{}{"fulfilled_at": now, "update_at": now}).Error
	case models.RequestTypeBorrow:
		return tx.Model(&models.BorrowRequest{}).
			Where("request_id = ?", request.RequestID).
			Updates(map[string]interface{}{"in_progress": false, "update_at": now}).Error
	case models.RequestTypeTransport:
		return tx.Model(&models.TransportRequest{}).
			Where("request_id = ?", request.RequestID).
			Updates(map[string]interface{}{"in_progress": false, "update_at": now}).Error
	case models.RequestTypeVenue:
		return tx.Model(&models.VenueRequest{}).
			Where("request_id = ?", request.RequestID).
			Updates(map[string]interface{}{"in_progress": false, "update_at": now}).Error
	}
	return nil
}

func writeHistory(tx *gorm.DB, request *models.Request, newStatus string, changedBy int, reason, notes string, now time.Time) error {
	oldStatus := request.Status
	history := models.RequestStatusHistory{
		RequestID: request.RequestID,
		OldStatus: &oldStatus,
		NewStatus: newStatus,
		ChangedBy: changedBy,
		CreatedAt: now,
	}
	if reason != "" {
		history.Reason = &reason
	}
	if notes != "" {
		history.Notes = &notes
	}
	return tx.Create(&history).Error
}

func writeAudit(tx *gorm.DB, request *models.Request, action string, actor ActorContext, newValues map[string]interface{}, now time.Time) error {
	serialized, _ := json.Marshal(newValues)
	oldValues, _ := json.Marshal(map[string]interface{}{"status": request.Status})
	entityID := request.RequestID
	audit := models.AuditLog{
		UserID:     actor.UserID,
		Action:     action,
		EntityType: "request",
		EntityID:   &entityID,
		OldValues:  ptr(string(oldValues)),
		NewValues:  ptr(string(serialized)),
		IPAddress:  actor.IP,
		CreatedAt:  now,
	}
	if request.RequestNumber != "" {
		number := request.RequestNumber
		audit.EntityNumber = &number
	}
	if actor.UserAgent != "" {
		ua := actor.UserAgent
		audit.UserAgent = &ua
	}
	return tx.Create(&audit).Error
}

func auditAction(event string) string {
	switch event {
	case EventReview:
		return models.AuditActionReview
	case EventApprove:
		return models.AuditActionApprove
	case EventReject:
		return models.AuditActionReject
	case EventCancel:
		return models.AuditActionCancel
	case EventHold:
		return models.AuditActionHold
	case EventResume:
		return models.AuditActionResume
	case EventComplete:
		return models.AuditActionComplete
	}
	return event
}

// statusNotification builds the requester-facing notification for an event.
// Cancel and resume only leave an audit trail.
func statusNotification(event string, request *models.Request, reason string) (title, message, ntype string, notify bool) {
	switch event {
	case EventReview:
		return "Request reviewed",
			fmt.Sprintf("Request %s has been reviewed and forwarded for approval", request.RequestNumber),
			"info", true
	case EventApprove:
		return "Request approved",
			fmt.Sprintf("Request %s has been approved", request.RequestNumber),
			"success", true
	case EventReject:
		return "Request rejected",
			fmt.Sprintf("Request %s was rejected: %s", request.RequestNumber, reason),
			"error", true
	case EventHold:
		return "Request on hold",
			fmt.Sprintf("Request %s has been placed on hold", request.RequestNumber),
			"warning", true
	case EventComplete:
		return "Request completed",
			fmt.Sprintf("Request %s has been completed", request.RequestNumber),
			"success", true
	}
	return "", "", "", false
}

func ptr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
