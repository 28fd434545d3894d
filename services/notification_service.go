package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"resource-request-api/config"
	"resource-request-api/models"
)

// createNotificationTx appends a notification row inside the caller's
// transaction so a failed transition never leaves a stray notification.
func createNotificationTx(tx *gorm.DB, userID int, title, message, ntype string, requestID int, now time.Time) error {
	related := uint(requestID)
	n := models.Notification{
		UserID:           uint(userID),
		Title:            title,
		Message:          message,
		Type:             ntype,
		RelatedRequestID: &related,
		IsRead:           false,
		CreateAt:         now,
	}
	return tx.Create(&n).Error
}

// sendNotificationEmail sends a best-effort email copy of a notification.
// Failures are logged, never surfaced: the notification row is the source
// of truth.
func sendNotificationEmail(db *gorm.DB, userID int, subject, message string) {
	var user models.User
	if err := db.Select("email", "user_fname", "user_lname").
		Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		log.Printf("notification email skipped, user %d not found: %v", userID, err)
		return
	}
	if user.Email == "" {
		return
	}

	html := fmt.Sprintf("<p>Dear %s %s,</p><p>%s</p><p>— Resource Request System</p>",
		user.UserFname, user.UserLname, message)
	if err := config.SendMail([]string{user.Email}, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%s): %v", subject, user.Email, err)
	}
}
