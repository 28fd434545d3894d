package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"resource-request-api/models"
)

var (
	ErrNotJobRequest     = errors.New("operation is only valid for job requests")
	ErrOpenReworkExists  = errors.New("job has an open rework attempt")
	ErrNoOpenRework      = errors.New("job has no open rework attempt")
	ErrNotJobParticipant = errors.New("only the requester or the assigned user may act on this job")
)

// RejectCompletedJob sends a completed job back to PENDING and opens a
// rework attempt. Only valid for job requests; a new attempt may only be
// created while no attempt is open.
func RejectCompletedJob(db *gorm.DB, requestID int, actor ActorContext, reason string) (*models.Request, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	var request models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestType != models.RequestTypeJob || request.JobDetail == nil {
		return nil, ErrNotJobRequest
	}
	if request.Status != models.StatusCompleted {
		return nil, ErrInvalidTransition
	}
	if openAttempt(request.JobDetail.ReworkAttempts) != nil {
		return nil, ErrOpenReworkExists
	}

	now := time.Now()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	result := tx.Model(&models.Request{}).
		Where("request_id = ? AND status = ?", request.RequestID, models.StatusCompleted).
		Updates(map[string]interface{}{
			"status":           models.StatusPending,
			"rejection_reason": reason,
			"rejection_count":  gorm.Expr("rejection_count + 1"),
			"completed_at":     nil,
			"updated_at":       now,
		})
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrStaleStatus
	}

	attempt := models.ReworkAttempt{
		JobRequestID: request.JobDetail.JobRequestID,
		StartDate:    now,
		Status:       models.ReworkOpen,
		CreateAt:     now,
	}
	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, &request, models.StatusPending, actor.UserID, reason, "rework_opened", now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, &request, models.AuditActionRejectComplete, actor, map[string]interface{}{
		"status":            models.StatusPending,
		"reason":            reason,
		"rework_attempt_id": attempt.ReworkAttemptID,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	notifyUserID := request.RequesterID
	if request.JobDetail.AssignedUserID != nil {
		notifyUserID = *request.JobDetail.AssignedUserID
	}
	title := "Job requires rework"
	message := "Completed work on request " + request.RequestNumber + " was rejected: " + reason
	if err := createNotificationTx(tx, notifyUserID, title, message, "warning", request.RequestID, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	go sendNotificationEmail(db, notifyUserID, title, message)

	var updated models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// FinishRework lets the requester or the assigned user report the open
// rework attempt as done. The attempt stays OPEN until a reviewer resolves
// it; finishing leaves an audit trail and pings the reviewer.
func FinishRework(db *gorm.DB, requestID int, actor ActorContext) (*models.Request, error) {
	var request models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestType != models.RequestTypeJob || request.JobDetail == nil {
		return nil, ErrNotJobRequest
	}
	attempt := openAttempt(request.JobDetail.ReworkAttempts)
	if attempt == nil {
		return nil, ErrNoOpenRework
	}
	assigned := request.JobDetail.AssignedUserID
	if actor.UserID != request.RequesterID && (assigned == nil || *assigned != actor.UserID) {
		return nil, ErrNotJobParticipant
	}

	now := time.Now()

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := writeAudit(tx, &request, models.AuditActionFinishRework, actor, map[string]interface{}{
		"rework_attempt_id": attempt.ReworkAttemptID,
		"finished":          true,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	reviewer := request.JobDetail.ReviewerID
	title := "Rework finished"
	message := "Rework on request " + request.RequestNumber + " is ready for review"
	if reviewer != nil {
		if err := createNotificationTx(tx, *reviewer, title, message, "info", request.RequestID, now); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if reviewer != nil {
		go sendNotificationEmail(db, *reviewer, title, message)
	}

	var updated models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// ResolveRework closes the open rework attempt on a job request. Approval
// re-enters the parent into APPROVED; rejection terminates it in REJECTED.
func ResolveRework(db *gorm.DB, requestID int, actor ActorContext, approve bool, reason string) (*models.Request, error) {
	if !approve && reason == "" {
		return nil, ErrReasonRequired
	}

	var request models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if request.RequestType != models.RequestTypeJob || request.JobDetail == nil {
		return nil, ErrNotJobRequest
	}
	attempt := openAttempt(request.JobDetail.ReworkAttempts)
	if attempt == nil {
		return nil, ErrNoOpenRework
	}

	now := time.Now()
	attemptStatus := models.ReworkClosedApproved
	targetStatus := models.StatusApproved
	if !approve {
		attemptStatus = models.ReworkClosedRejected
		targetStatus = models.StatusRejected
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	attemptUpdates := map[string]interface{}{
		"status":   attemptStatus,
		"end_date": now,
	}
	if !approve {
		attemptUpdates["rejection_reason"] = reason
	}
	result := tx.Model(&models.ReworkAttempt{}).
		Where("rework_attempt_id = ? AND status = ?", attempt.ReworkAttemptID, models.ReworkOpen).
		Updates(attemptUpdates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrStaleStatus
	}

	requestUpdates := map[string]interface{}{
		"status":     targetStatus,
		"updated_at": now,
	}
	if !approve {
		requestUpdates["rejection_reason"] = reason
		requestUpdates["rejection_count"] = gorm.Expr("rejection_count + 1")
	}
	result = tx.Model(&models.Request{}).
		Where("request_id = ? AND status = ?", request.RequestID, models.StatusPending).
		Updates(requestUpdates)
	if result.Error != nil {
		tx.Rollback()
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, ErrStaleStatus
	}

	if err := writeHistory(tx, &request, targetStatus, actor.UserID, reason, "rework_resolved", now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, &request, models.AuditActionResolveRework, actor, map[string]interface{}{
		"status":            targetStatus,
		"reason":            reason,
		"rework_attempt_id": attempt.ReworkAttemptID,
		"attempt_status":    attemptStatus,
	}, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	title := "Rework approved"
	message := "Rework on request " + request.RequestNumber + " was accepted"
	ntype := "success"
	if !approve {
		title = "Rework rejected"
		message = "Rework on request " + request.RequestNumber + " was rejected: " + reason
		ntype = "error"
	}
	if err := createNotificationTx(tx, request.RequesterID, title, message, ntype, request.RequestID, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	go sendNotificationEmail(db, request.RequesterID, title, message)

	var updated models.Request
	if err := db.Preload("JobDetail.ReworkAttempts").First(&updated, request.RequestID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// openAttempt returns the open attempt, or nil when every attempt is closed.
func openAttempt(attempts []models.ReworkAttempt) *models.ReworkAttempt {
	for i := range attempts {
		if attempts[i].IsOpen() {
			return &attempts[i]
		}
	}
	return nil
}

// PersonnelJobActions reports which action set personnel see on a job:
// the regular actions while the job was never rejected, the rework actions
// while a rework attempt is open, and none once a rejected job is settled.
func PersonnelJobActions(request *models.Request) []string {
	if request.RequestType != models.RequestTypeJob || request.JobDetail == nil {
		return nil
	}
	if request.RejectionCount == 0 {
		return []string{"complete"}
	}
	if openAttempt(request.JobDetail.ReworkAttempts) != nil {
		return []string{"finish_rework"}
	}
	return nil
}
