package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resource-request-api/config"
	"resource-request-api/middleware"
	"resource-request-api/models"
	"resource-request-api/services"
)

// ConfirmReturn records the return of a borrowed item and completes the
// request.
func ConfirmReturn(c *gin.Context) {
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

	if !authorizeForRequest(c, requestID, managerRoles) {
		return
	}

	updated, err := services.ConfirmReturn(config.DB, requestID, actor)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item return confirmed",
		"request": updated,
	})
}

// MarkLost flags an overdue borrowed item as lost.
func MarkLost(c *gin.Context) {
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

	if !authorizeForRequest(c, requestID, managerRoles) {
		return
	}

	updated, err := services.MarkLost(config.DB, requestID, actor)
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item marked as lost",
		"request": updated,
	})
}

// GetOverdueBorrows lists overdue borrow requests for a department the
// caller manages.
func GetOverdueBorrows(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Query("department_id"))
	if err != nil || deptID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	rs, ok := middleware.CurrentRoleSet(c)
	if !ok || !services.Authorize(rs, managerRoles, &deptID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	now := time.Now()
	var requests []models.Request
	if err := config.DB.Preload("Requester").Preload("BorrowDetail.InventoryItem").
		Where("deleted_at IS NULL AND request_type = ? AND department_id = ? AND status = ?",
			models.RequestTypeBorrow, deptID, models.StatusApproved).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	services.ApplyOverdueFlags(requests, now)

	overdue := make([]models.Request, 0, len(requests))
	for _, request := range requests {
		if request.BorrowDetail != nil && request.BorrowDetail.IsOverdue {
			overdue = append(overdue, request)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": overdue,
		"total":    len(overdue),
	})
}
