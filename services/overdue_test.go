package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"resource-request-api/models"
)

func borrowRequest(status string, returnDate time.Time, returnedAt *time.Time) models.Request {
	return models.Request{
		RequestID:   9,
		RequestType: models.RequestTypeBorrow,
		Status:      status,
		BorrowDetail: &models.BorrowRequest{
			RequestID:  9,
			ReturnDate: returnDate,
			ReturnedAt: returnedAt,
		},
	}
}

func TestBorrowOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	t.Run("past return date while approved", func(t *testing.T) {
		request := borrowRequest(models.StatusApproved, past, nil)
		require.True(t, BorrowOverdue(&request, now))
	})

	t.Run("return date not reached", func(t *testing.T) {
		request := borrowRequest(models.StatusApproved, future, nil)
		require.False(t, BorrowOverdue(&request, now))
	})

	t.Run("already returned", func(t *testing.T) {
		returned := past.Add(time.Hour)
		request := borrowRequest(models.StatusApproved, past, &returned)
		require.False(t, BorrowOverdue(&request, now))
	})

	t.Run("not yet approved", func(t *testing.T) {
		request := borrowRequest(models.StatusPending, past, nil)
		require.False(t, BorrowOverdue(&request, now))
	})

	t.Run("no borrow payload", func(t *testing.T) {
		request := models.Request{RequestType: models.RequestTypeSupply, Status: models.StatusApproved}
		require.False(t, BorrowOverdue(&request, now))
	})
}

func TestApplyOverdueFlags(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due := borrowRequest(models.StatusApproved, past, nil)
	notDue := borrowRequest(models.StatusApproved, future, nil)

	// A persisted flag survives even after the envelope leaves APPROVED,
	// e.g. on a lost item.
	lost := borrowRequest(models.StatusCompleted, past, nil)
	lost.BorrowDetail.IsOverdue = true
	lost.BorrowDetail.IsLost = true

	requests := []models.Request{due, notDue, lost, {RequestType: models.RequestTypeJob}}
	ApplyOverdueFlags(requests, now)

	require.True(t, requests[0].BorrowDetail.IsOverdue)
	require.False(t, requests[1].BorrowDetail.IsOverdue)
	require.True(t, requests[2].BorrowDetail.IsOverdue)
}

func TestConfirmReturnWrongType(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(9, models.RequestTypeSupply, models.StatusApproved, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(emptyRows("borrow_request_id"))

	_, err := ConfirmReturn(db, 9, ActorContext{UserID: 1})
	require.ErrorIs(t, err, ErrNotBorrowRequest)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReturnAlreadyReturned(t *testing.T) {
	db, mock := newMockDB(t)
	returned := time.Now().Add(-time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(9, models.RequestTypeBorrow, models.StatusApproved, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(borrowDetailRow(9, 3, time.Now().Add(-48*time.Hour), &returned, false))

	_, err := ConfirmReturn(db, 9, ActorContext{UserID: 1})
	require.ErrorIs(t, err, ErrAlreadyReturned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmReturnRequiresApprovedStatus(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(9, models.RequestTypeBorrow, models.StatusOnHold, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(borrowDetailRow(9, 3, time.Now().Add(-48*time.Hour), nil, false))

	_, err := ConfirmReturn(db, 9, ActorContext{UserID: 1})
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkLostNotOverdue(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(9, models.RequestTypeBorrow, models.StatusApproved, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(borrowDetailRow(9, 3, time.Now().Add(48*time.Hour), nil, false))

	_, err := MarkLost(db, 9, ActorContext{UserID: 1})
	require.ErrorIs(t, err, ErrNotOverdue)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkLostIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(9, models.RequestTypeBorrow, models.StatusApproved, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(borrowDetailRow(9, 3, time.Now().Add(-48*time.Hour), nil, true))

	request, err := MarkLost(db, 9, ActorContext{UserID: 1})
	require.NoError(t, err)
	require.True(t, request.BorrowDetail.IsLost)
	require.NoError(t, mock.ExpectationsWereMet())
}
