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

// RejectCompletedJob sends a completed job back to rework. Review-capable
// roles only; a rejection reason is required.
func RejectCompletedJob(c *gin.Context) {
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

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}
	reason := strings.TrimSpace(utils.SanitizeInput(req.Reason))
	if reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A rejection reason is required"})
		return
	}

	if !authorizeForRequest(c, requestID, reviewRoles) {
		return
	}

	updated, err := services.RejectCompletedJob(config.DB, requestID, actor, reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Job sent back for rework",
		"request": updated,
	})
}

// ResolveRework closes the open rework attempt on a job request.
func ResolveRework(c *gin.Context) {
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

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	decision := strings.ToLower(strings.TrimSpace(req.Decision))
	if decision != "approve" && decision != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Decision must be either 'approve' or 'reject'"})
		return
	}
	reason := strings.TrimSpace(utils.SanitizeInput(req.Reason))

	if !authorizeForRequest(c, requestID, reviewRoles) {
		return
	}

	updated, err := services.ResolveRework(config.DB, requestID, actor, decision == "approve", reason)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	message := "Rework accepted, request re-approved"
	if decision == "reject" {
		message = "Rework rejected, request closed"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"request": updated,
	})
}

// FinishRework reports the open rework attempt as done, handing the job
// back to its reviewer. Requester or assigned user only; the participant
// check happens in the service against the loaded row.
func FinishRework(c *gin.Context) {
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

	updated, err := services.FinishRework(config.DB, requestID, actor)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rework reported finished",
		"request": updated,
	})
}

// GetRequestActions reports the action set currently offered to personnel
// for a job request.
func GetRequestActions(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.Request
	if err := config.DB.Preload("JobDetail.ReworkAttempts").
		Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load request"})
		return
	}

	if !canSeeRequest(c, &request) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	actions := services.PersonnelJobActions(&request)
	if actions == nil {
		actions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"actions": actions,
	})
}

// authorizeForRequest loads the target row and checks the caller holds one
// of the roles in its owning department. Writes the error response itself.
func authorizeForRequest(c *gin.Context, requestID int, allowedRoles []string) bool {
	var request models.Request
	if err := config.DB.Where("request_id = ? AND deleted_at IS NULL", requestID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load request"})
		return false
	}

	rs, ok := middleware.CurrentRoleSet(c)
	if !ok || !services.Authorize(rs, allowedRoles, &request.DepartmentID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return false
	}
	return true
}
