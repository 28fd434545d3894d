package services

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens a gorm handle over a sqlmock connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var requestColumns = []string{
	"request_id", "request_number", "request_type", "title", "notes",
	"requester_id", "department_id", "status", "rejection_count",
	"created_at", "updated_at",
}

func requestRow(id int, requestType, status string, requesterID int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(requestColumns).AddRow(
		id, "REQ-TEST0001", requestType, "test request", "",
		requesterID, 3, status, 0, now, now,
	)
}

func emptyRows(column string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{column})
}

// expectEnvelopePreloads queues the payload preload queries issued when a
// request is loaded with all five detail relations. gorm runs preloads in
// name order.
func expectEnvelopePreloads(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(emptyRows("borrow_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `job_requests`").
		WillReturnRows(emptyRows("job_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `supply_requests`").
		WillReturnRows(emptyRows("supply_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `transport_requests`").
		WillReturnRows(emptyRows("transport_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `venue_requests`").
		WillReturnRows(emptyRows("venue_request_id"))
}

func borrowDetailRow(requestID, itemID int, returnDate time.Time, returnedAt *time.Time, lost bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"borrow_request_id", "request_id", "inventory_item_id",
		"due_date", "return_date", "returned_at", "is_overdue", "is_lost", "in_progress",
	})
	rows.AddRow(requestID*10, requestID, itemID, returnDate, returnDate, returnedAt, false, lost, true)
	return rows
}

func jobDetailRow(requestID int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"job_request_id", "request_id", "job_type", "priority"}).
		AddRow(requestID*10, requestID, "maintenance", "medium")
}

func reworkAttemptRows(jobRequestID int, statuses ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"rework_attempt_id", "job_request_id", "start_date", "status"})
	for i, status := range statuses {
		rows.AddRow(i+1, jobRequestID, time.Now(), status)
	}
	return rows
}
