package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resource-request-api/config"
	"resource-request-api/models"
	"resource-request-api/services"
)

// GetDepartments lists active departments (cached).
func GetDepartments(c *gin.Context) {
	departments, err := services.GetDepartments()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": departments})
}

// GetVehicles lists active vehicles.
func GetVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Where("delete_at IS NULL AND is_active = ?", true).
		Order("vehicle_name").Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vehicles": vehicles})
}

// GetVenues lists active venues.
func GetVenues(c *gin.Context) {
	var venues []models.Venue
	if err := config.DB.Where("delete_at IS NULL AND is_active = ?", true).
		Order("venue_name").Find(&venues).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch venues"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "venues": venues})
}

// GetInventoryItems lists active borrowable items.
func GetInventoryItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := config.DB.Where("delete_at IS NULL AND is_active = ?", true).
		Order("item_name").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}
