package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resource-request-api/config"
	"resource-request-api/models"
	"resource-request-api/services"
	"resource-request-api/utils"
)

// Admin-only reference data maintenance. Route gates restrict these to
// ADMIN/SYSTEMADMIN; rows are deactivated, never hard-deleted.

type departmentReq struct {
	DepartmentName string `json:"department_name" binding:"required"`
	IsActive       *bool  `json:"is_active"`
}

func CreateDepartment(c *gin.Context) {
	var req departmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	dept := models.Department{
		DepartmentName: utils.SanitizeInput(req.DepartmentName),
		IsActive:       true,
		CreateAt:       &now,
	}
	if err := config.DB.Create(&dept).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create department"})
		return
	}

	services.ClearDepartmentCache()
	c.JSON(http.StatusCreated, gin.H{"success": true, "department": dept})
}

func UpdateDepartment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
		return
	}

	var req departmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"department_name": utils.SanitizeInput(req.DepartmentName),
		"update_at":       time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	result := config.DB.Model(&models.Department{}).
		Where("department_id = ? AND delete_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update department"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	services.ClearDepartmentCache()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type vehicleReq struct {
	VehicleName string `json:"vehicle_name" binding:"required"`
	PlateNumber string `json:"plate_number"`
	Capacity    int    `json:"capacity"`
	IsActive    *bool  `json:"is_active"`
}

func CreateVehicle(c *gin.Context) {
	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	vehicle := models.Vehicle{
		VehicleName: utils.SanitizeInput(req.VehicleName),
		PlateNumber: utils.SanitizeInput(req.PlateNumber),
		Capacity:    req.Capacity,
		IsActive:    true,
		CreateAt:    &now,
	}
	if err := config.DB.Create(&vehicle).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "vehicle": vehicle})
}

func UpdateVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var req vehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"vehicle_name": utils.SanitizeInput(req.VehicleName),
		"plate_number": utils.SanitizeInput(req.PlateNumber),
		"capacity":     req.Capacity,
		"update_at":    time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	result := config.DB.Model(&models.Vehicle{}).
		Where("vehicle_id = ? AND delete_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type venueReq struct {
	VenueName string `json:"venue_name" binding:"required"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity"`
	IsActive  *bool  `json:"is_active"`
}

func CreateVenue(c *gin.Context) {
	var req venueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	venue := models.Venue{
		VenueName: utils.SanitizeInput(req.VenueName),
		Location:  utils.SanitizeInput(req.Location),
		Capacity:  req.Capacity,
		IsActive:  true,
		CreateAt:  &now,
	}
	if err := config.DB.Create(&venue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create venue"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "venue": venue})
}

func UpdateVenue(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue ID"})
		return
	}

	var req venueReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"venue_name": utils.SanitizeInput(req.VenueName),
		"location":   utils.SanitizeInput(req.Location),
		"capacity":   req.Capacity,
		"update_at":  time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	result := config.DB.Model(&models.Venue{}).
		Where("venue_id = ? AND delete_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update venue"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type inventoryItemReq struct {
	ItemName     string `json:"item_name" binding:"required"`
	SerialNumber string `json:"serial_number"`
	IsActive     *bool  `json:"is_active"`
}

func CreateInventoryItem(c *gin.Context) {
	var req inventoryItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	item := models.InventoryItem{
		ItemName:     utils.SanitizeInput(req.ItemName),
		SerialNumber: utils.SanitizeInput(req.SerialNumber),
		IsActive:     true,
		CreateAt:     &now,
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
}

func UpdateInventoryItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var req inventoryItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"item_name":     utils.SanitizeInput(req.ItemName),
		"serial_number": utils.SanitizeInput(req.SerialNumber),
		"update_at":     time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	result := config.DB.Model(&models.InventoryItem{}).
		Where("inventory_item_id = ? AND delete_at IS NULL", id).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
