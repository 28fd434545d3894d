package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resource-request-api/config"
	"resource-request-api/middleware"
	"resource-request-api/models"
)

// GetAuditLogs returns the audit trail for one entity, newest first.
// Audit access is admin territory; department-scoped readers go through
// the request detail endpoint instead.
func GetAuditLogs(c *gin.Context) {
	entityType := strings.TrimSpace(c.Param("entityType"))
	if entityType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity type"})
		return
	}

	entityID, err := strconv.Atoi(c.Param("entityId"))
	if err != nil || entityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entity ID"})
		return
	}

	rs, ok := middleware.CurrentRoleSet(c)
	if !ok || !rs.HasRole(models.RoleAdmin, models.RoleSystemAdmin, models.RoleDepartmentHead) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var entries []models.AuditLog
	if err := config.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"total":   len(entries),
	})
}
