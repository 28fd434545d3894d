package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"resource-request-api/config"
	"resource-request-api/middleware"
	"resource-request-api/models"
	"resource-request-api/services"
	"resource-request-api/utils"
)

// Roles allowed to see and act on another user's requests within a
// department. Managers are a subset with approve/reject powers.
var (
	reviewRoles = []string{
		models.RoleRequestReviewer, models.RoleRequestManager,
		models.RoleDepartmentHead, models.RoleAdmin, models.RoleSystemAdmin,
	}
	managerRoles = []string{
		models.RoleRequestManager, models.RoleDepartmentHead,
		models.RoleAdmin, models.RoleSystemAdmin,
	}
)

func getCurrentUserID(c *gin.Context) (int, bool) {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(int); ok {
			return id, true
		}
	}
	return 0, false
}

func currentActor(c *gin.Context) (services.ActorContext, bool) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return services.ActorContext{}, false
	}
	return services.ActorContext{
		UserID:    userID,
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}, true
}

// canSeeRequest implements the visibility policy: the requester always sees
// their own rows; everyone else needs a review-capable role in the owning
// department. Rows outside the caller's scope read as 404.
func canSeeRequest(c *gin.Context, request *models.Request) bool {
	userID, ok := getCurrentUserID(c)
	if !ok {
		return false
	}
	if request.RequesterID == userID {
		return true
	}
	rs, ok := middleware.CurrentRoleSet(c)
	if !ok {
		return false
	}
	return services.Authorize(rs, reviewRoles, &request.DepartmentID)
}

type jobPayload struct {
	JobType        string     `json:"job_type" binding:"required"`
	Priority       string     `json:"priority" binding:"required"`
	Section        string     `json:"section"`
	AssignedUserID *int       `json:"assigned_user_id"`
	ReviewerID     *int       `json:"reviewer_id"`
	DueDate        *time.Time `json:"due_date"`
}

type supplyPayload struct {
	ItemDescription string `json:"item_description" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
	Unit            string `json:"unit"`
}

type borrowPayload struct {
	InventoryItemID int       `json:"inventory_item_id" binding:"required"`
	DueDate         time.Time `json:"due_date" binding:"required"`
	ReturnDate      time.Time `json:"return_date" binding:"required"`
}

type transportPayload struct {
	VehicleID      int       `json:"vehicle_id" binding:"required"`
	DateTimeNeeded time.Time `json:"date_time_needed" binding:"required"`
	Destination    string    `json:"destination" binding:"required"`
}

type venuePayload struct {
	VenueID   int       `json:"venue_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type createRequestReq struct {
	RequestType  string `json:"request_type" binding:"required"`
	Title        string `json:"title" binding:"required"`
	Notes        string `json:"notes"`
	DepartmentID int    `json:"department_id" binding:"required"`
	ClientToken  string `json:"client_token"`

	Job       *jobPayload       `json:"job"`
	Supply    *supplyPayload    `json:"supply"`
	Borrow    *borrowPayload    `json:"borrow"`
	Transport *transportPayload `json:"transport"`
	Venue     *venuePayload     `json:"venue"`
}

// payloadFor enforces the tagged union at write time: exactly one payload
// must be present and it must match the declared type.
func (r *createRequestReq) payloadFor() (string, error) {
	attached := 0
	if r.Job != nil {
		attached++
	}
	if r.Supply != nil {
		attached++
	}
	if r.Borrow != nil {
		attached++
	}
	if r.Transport != nil {
		attached++
	}
	if r.Venue != nil {
		attached++
	}
	if attached != 1 {
		return "", fmt.Errorf("exactly one payload must be attached, got %d", attached)
	}

	switch {
	case r.RequestType == models.RequestTypeJob && r.Job != nil,
		r.RequestType == models.RequestTypeSupply && r.Supply != nil,
		r.RequestType == models.RequestTypeBorrow && r.Borrow != nil,
		r.RequestType == models.RequestTypeTransport && r.Transport != nil,
		r.RequestType == models.RequestTypeVenue && r.Venue != nil:
		return r.RequestType, nil
	}
	return "", fmt.Errorf("payload does not match request_type %q", r.RequestType)
}

// CreateRequest submits a new request. The envelope and its specialization
// payload are created atomically; an optional client_token makes retried
// submissions idempotent.
func CreateRequest(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRequestType(req.RequestType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request type"})
		return
	}
	if _, err := req.payloadFor(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := services.GetDepartmentByID(req.DepartmentID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Department not found"})
		return
	}

	// Retried submission with the same token returns the original row.
	clientToken := strings.TrimSpace(req.ClientToken)
	if clientToken != "" {
		var existing models.Request
		if err := config.DB.Where("client_token = ? AND deleted_at IS NULL", clientToken).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "request": existing, "duplicate": true})
			return
		}
	}

	if err := validateReferencedResource(&req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	request := models.Request{
		RequestNumber: fmt.Sprintf("REQ-%s", strings.ToUpper(uuid.New().String()[:8])),
		RequestType:   req.RequestType,
		Title:         utils.SanitizeInput(req.Title),
		Notes:         utils.SanitizeInput(req.Notes),
		RequesterID:   actor.UserID,
		DepartmentID:  req.DepartmentID,
		Status:        models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if clientToken != "" {
		request.ClientToken = &clientToken
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&request).Error; err != nil {
		tx.Rollback()
		// Two racing submissions with the same token: the loser's insert
		// hits the unique index, so hand back the winner's row.
		if clientToken != "" {
			var existing models.Request
			if lookupErr := config.DB.Where("client_token = ? AND deleted_at IS NULL", clientToken).
				First(&existing).Error; lookupErr == nil {
				c.JSON(http.StatusOK, gin.H{"success": true, "request": existing, "duplicate": true})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	if err := createPayloadRow(tx, &request, &req, now); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request payload"})
		return
	}

	history := models.RequestStatusHistory{
		RequestID: request.RequestID,
		NewStatus: models.StatusPending,
		ChangedBy: actor.UserID,
		CreatedAt: now,
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log status history"})
		return
	}

	entityID := request.RequestID
	number := request.RequestNumber
	description := "Request submitted"
	audit := models.AuditLog{
		UserID:       actor.UserID,
		Action:       models.AuditActionCreate,
		EntityType:   "request",
		EntityID:     &entityID,
		EntityNumber: &number,
		Description:  &description,
		IPAddress:    actor.IP,
		CreatedAt:    now,
	}
	if actor.UserAgent != "" {
		ua := actor.UserAgent
		audit.UserAgent = &ua
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write audit log"})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize request"})
		return
	}

	var created models.Request
	if err := config.DB.Preload("Requester").Preload("Department").
		Preload("JobDetail").Preload("SupplyDetail").Preload("BorrowDetail").
		Preload("TransportDetail").Preload("VenueDetail").
		First(&created, request.RequestID).Error; err == nil {
		c.JSON(http.StatusCreated, gin.H{"success": true, "request": created})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "request": request})
}

func validateReferencedResource(req *createRequestReq) error {
	switch req.RequestType {
	case models.RequestTypeBorrow:
		var item models.InventoryItem
		if err := config.DB.Where("inventory_item_id = ? AND delete_at IS NULL AND is_active = ?",
			req.Borrow.InventoryItemID, true).First(&item).Error; err != nil {
			return errors.New("Inventory item not found")
		}
	case models.RequestTypeTransport:
		var vehicle models.Vehicle
		if err := config.DB.Where("vehicle_id = ? AND delete_at IS NULL AND is_active = ?",
			req.Transport.VehicleID, true).First(&vehicle).Error; err != nil {
			return errors.New("Vehicle not found")
		}
	case models.RequestTypeVenue:
		var venue models.Venue
		if err := config.DB.Where("venue_id = ? AND delete_at IS NULL AND is_active = ?",
			req.Venue.VenueID, true).First(&venue).Error; err != nil {
			return errors.New("Venue not found")
		}
	}
	return nil
}

func createPayloadRow(tx *gorm.DB, request *models.Request, req *createRequestReq, now time.Time) error {
	switch request.RequestType {
	case models.RequestTypeJob:
		return tx.Create(&models.JobRequest{
			RequestID:      request.RequestID,
			JobType:        utils.SanitizeInput(req.Job.JobType),
			Priority:       req.Job.Priority,
			Section:        utils.SanitizeInput(req.Job.Section),
			AssignedUserID: req.Job.AssignedUserID,
			ReviewerID:     req.Job.ReviewerID,
			DueDate:        req.Job.DueDate,
			CreateAt:       now,
		}).Error
	case models.RequestTypeSupply:
		return tx.Create(&models.SupplyRequest{
			RequestID:       request.RequestID,
			ItemDescription: utils.SanitizeInput(req.Supply.ItemDescription),
			Quantity:        req.Supply.Quantity,
			Unit:            utils.SanitizeInput(req.Supply.Unit),
			CreateAt:        now,
		}).Error
	case models.RequestTypeBorrow:
		return tx.Create(&models.BorrowRequest{
			RequestID:       request.RequestID,
			InventoryItemID: req.Borrow.InventoryItemID,
			DueDate:         req.Borrow.DueDate,
			ReturnDate:      req.Borrow.ReturnDate,
			CreateAt:        now,
		}).Error
	case models.RequestTypeTransport:
		return tx.Create(&models.TransportRequest{
			RequestID:      request.RequestID,
			VehicleID:      req.Transport.VehicleID,
			DateTimeNeeded: req.Transport.DateTimeNeeded,
			Destination:    utils.SanitizeInput(req.Transport.Destination),
			CreateAt:       now,
		}).Error
	case models.RequestTypeVenue:
		return tx.Create(&models.VenueRequest{
			RequestID: request.RequestID,
			VenueID:   req.Venue.VenueID,
			StartTime: req.Venue.StartTime,
			EndTime:   req.Venue.EndTime,
			CreateAt:  now,
		}).Error
	}
	return fmt.Errorf("unknown request type %q", request.RequestType)
}

// GetRequests lists the caller's own requests, or a department's requests
// when the caller holds a review-capable role there.
func GetRequests(c *gin.Context) {
	userID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	query := config.DB.Preload("Requester").Preload("Department").
		Preload("JobDetail").Preload("SupplyDetail").Preload("BorrowDetail").
		Preload("TransportDetail").Preload("VenueDetail").
		Where("deleted_at IS NULL")

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if requestType := strings.TrimSpace(c.Query("type")); requestType != "" {
		query = query.Where("request_type = ?", requestType)
	}

	deptParam := strings.TrimSpace(c.Query("department_id"))
	if deptParam != "" {
		deptID, err := strconv.Atoi(deptParam)
		if err != nil || deptID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid department ID"})
			return
		}
		rs, ok := middleware.CurrentRoleSet(c)
		if !ok || !services.Authorize(rs, reviewRoles, &deptID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		query = query.Where("department_id = ?", deptID)
	} else {
		query = query.Where("requester_id = ?", userID)
	}

	var requests []models.Request
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch requests"})
		return
	}

	services.ApplyOverdueFlags(requests, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"requests": requests,
		"total":    len(requests),
	})
}

// GetRequest returns one request with its specialization payload, scoped to
// the requesting principal.
func GetRequest(c *gin.Context) {
	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.Request
	if err := config.DB.Preload("Requester").Preload("Department").
		Preload("JobDetail.ReworkAttempts").Preload("SupplyDetail").
		Preload("BorrowDetail.InventoryItem").
		Preload("TransportDetail.Vehicle").Preload("VenueDetail.Venue").
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
		// Out-of-scope rows read the same as missing ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	services.ApplyOverdueFlags([]models.Request{request}, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"request": request,
		"actions": services.PersonnelJobActions(&request),
	})
}
