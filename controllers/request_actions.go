package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"resource-request-api/config"
	"resource-request-api/middleware"
	"resource-request-api/models"
	"resource-request-api/services"
	"resource-request-api/utils"
)

type actionReq struct {
	Reason string `json:"reason"`
}

// ReviewRequest marks a pending request as reviewed.
func ReviewRequest(c *gin.Context) {
	applyTransition(c, services.EventReview, []string{
		models.RoleRequestReviewer, models.RoleRequestManager,
		models.RoleDepartmentHead, models.RoleAdmin, models.RoleSystemAdmin,
	})
}

// ApproveRequest approves a pending or reviewed request and reserves the
// referenced resource.
func ApproveRequest(c *gin.Context) {
	applyTransition(c, services.EventApprove, managerRoles)
}

// RejectRequest rejects a pending or reviewed request. A reason is required.
func RejectRequest(c *gin.Context) {
	applyTransition(c, services.EventReject, managerRoles)
}

// CancelRequest cancels the caller's own pending request.
func CancelRequest(c *gin.Context) {
	applyTransition(c, services.EventCancel, nil)
}

// HoldRequest places an approved request on hold.
func HoldRequest(c *gin.Context) {
	applyTransition(c, services.EventHold, managerRoles)
}

// ResumeRequest returns an on-hold request to approved.
func ResumeRequest(c *gin.Context) {
	applyTransition(c, services.EventResume, managerRoles)
}

// CompleteRequest confirms operational completion of an approved request.
// The requester and, on jobs, the assigned user may confirm their own work;
// anyone else needs a review-capable role in the owning department.
func CompleteRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req actionReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	reason := strings.TrimSpace(utils.SanitizeInput(req.Reason))

	var request models.Request
	if err := config.DB.Preload("JobDetail").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load request"})
		return
	}

	if !canConfirmCompletion(actor.UserID, &request) {
		rs, ok := middleware.CurrentRoleSet(c)
		if !ok || !services.Authorize(rs, reviewRoles, &request.DepartmentID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	updated, err := services.Transition(config.DB, requestID, services.EventComplete, actor, reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": updated,
	})
}

// canConfirmCompletion reports whether the user may confirm completion
// without a review-capable role: the requester, or the user assigned to
// carry out a job.
func canConfirmCompletion(userID int, request *models.Request) bool {
	if request.RequesterID == userID {
		return true
	}
	return request.JobDetail != nil &&
		request.JobDetail.AssignedUserID != nil &&
		*request.JobDetail.AssignedUserID == userID
}

// applyTransition runs the shared gate-then-transition flow: resolve the
// target row, check the actor's role in the owning department, then hand
// off to the lifecycle service. allowedRoles == nil skips the role gate
// (requester-only events guard inside the service).
func applyTransition(c *gin.Context, event string, allowedRoles []string) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req actionReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	reason := strings.TrimSpace(utils.SanitizeInput(req.Reason))

	var request models.Request
	if err := config.DB.Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load request"})
		return
	}

	if allowedRoles != nil {
		rs, ok := middleware.CurrentRoleSet(c)
		if !ok || !services.Authorize(rs, allowedRoles, &request.DepartmentID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
	}

	updated, err := services.Transition(config.DB, requestID, event, actor, reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": updated,
	})
}

// respondTransitionError maps lifecycle errors onto the API taxonomy.
// Guard failures are 409, never a generic 500.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
	case errors.Is(err, services.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A reason is required"})
	case errors.Is(err, services.ErrNotRequester):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the original requester may cancel"})
	case errors.Is(err, services.ErrNotJobParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the requester or the assigned user may act on this job"})
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrCompletionNotReady),
		errors.Is(err, services.ErrStaleStatus),
		errors.Is(err, services.ErrOpenReworkExists),
		errors.Is(err, services.ErrNoOpenRework),
		errors.Is(err, services.ErrNotJobRequest),
		errors.Is(err, services.ErrNotBorrowRequest),
		errors.Is(err, services.ErrAlreadyReturned),
		errors.Is(err, services.ErrNotOverdue):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
