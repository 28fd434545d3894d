package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"resource-request-api/models"
)

// PromoteDueTransport flips in_progress on APPROVED transport requests whose
// scheduled time has arrived. One batch update; re-running is a no-op since
// promoted rows no longer match the filter.
func PromoteDueTransport(db *gorm.DB, now time.Time) (int64, error) {
	approved := db.Model(&models.Request{}).
		Select("request_id").
		Where("status = ? AND request_type = ? AND deleted_at IS NULL",
			models.StatusApproved, models.RequestTypeTransport)

	result := db.Model(&models.TransportRequest{}).
		Where("in_progress = ? AND date_time_needed <= ?", false, now).
		Where("request_id IN (?)", approved).
		Updates(map[string]interface{}{
			"in_progress": true,
			"update_at":   now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("transport promotion: %d request(s) marked in progress", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
