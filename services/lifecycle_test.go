package services

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"resource-request-api/models"
)

var allStatuses = []string{
	models.StatusPending, models.StatusReviewed, models.StatusApproved,
	models.StatusOnHold, models.StatusRejected, models.StatusCancelled,
	models.StatusCompleted,
}

var allEvents = []string{
	EventReview, EventApprove, EventReject, EventCancel,
	EventHold, EventResume, EventComplete,
}

func TestCanTransitionTableClosure(t *testing.T) {
	// Every edge of the lifecycle, and nothing else.
	edges := map[string]map[string]string{
		models.StatusPending: {
			EventReview:  models.StatusReviewed,
			EventApprove: models.StatusApproved,
			EventReject:  models.StatusRejected,
			EventCancel:  models.StatusCancelled,
		},
		models.StatusReviewed: {
			EventApprove: models.StatusApproved,
			EventReject:  models.StatusRejected,
		},
		models.StatusApproved: {
			EventHold:     models.StatusOnHold,
			EventComplete: models.StatusCompleted,
		},
		models.StatusOnHold: {
			EventResume: models.StatusApproved,
		},
	}

	for _, status := range allStatuses {
		for _, event := range allEvents {
			target, ok := CanTransition(status, event)
			want, wantOK := edges[status][event]
			require.Equal(t, wantOK, ok, "status=%s event=%s", status, event)
			require.Equal(t, want, target, "status=%s event=%s", status, event)
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, status := range []string{models.StatusRejected, models.StatusCancelled, models.StatusCompleted} {
		request := models.Request{Status: status}
		require.True(t, request.IsTerminal())
		for _, event := range allEvents {
			_, ok := CanTransition(status, event)
			require.False(t, ok, "status=%s event=%s", status, event)
		}
	}
}

func TestCanTransitionUnknownEvent(t *testing.T) {
	_, ok := CanTransition(models.StatusPending, "escalate")
	require.False(t, ok)
}

func TestTransitionRequestNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(sqlmock.NewRows(requestColumns))

	_, err := Transition(db, 99, EventApprove, ActorContext{UserID: 1}, "")
	require.ErrorIs(t, err, ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionFromTerminalStatus(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusCompleted, 42))
	expectEnvelopePreloads(mock)

	_, err := Transition(db, 7, EventApprove, ActorContext{UserID: 1}, "")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRejectRequiresReason(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusPending, 42))
	expectEnvelopePreloads(mock)

	_, err := Transition(db, 7, EventReject, ActorContext{UserID: 1}, "")
	require.ErrorIs(t, err, ErrReasonRequired)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionCancelByNonRequester(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusPending, 42))
	expectEnvelopePreloads(mock)

	_, err := Transition(db, 7, EventCancel, ActorContext{UserID: 13}, "")
	require.ErrorIs(t, err, ErrNotRequester)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionRefusedWhileReworkOpen(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(5, models.RequestTypeJob, models.StatusPending, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(emptyRows("borrow_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `job_requests`").
		WillReturnRows(jobDetailRow(5))
	mock.ExpectQuery("SELECT (.+) FROM `rework_attempts`").
		WillReturnRows(reworkAttemptRows(50, models.ReworkOpen))
	mock.ExpectQuery("SELECT (.+) FROM `supply_requests`").
		WillReturnRows(emptyRows("supply_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `transport_requests`").
		WillReturnRows(emptyRows("transport_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `venue_requests`").
		WillReturnRows(emptyRows("venue_request_id"))

	// The parent may only leave PENDING through the rework resolution; a
	// regular approve here would strand the open attempt forever.
	_, err := Transition(db, 5, EventApprove, ActorContext{UserID: 1}, "")
	require.ErrorIs(t, err, ErrOpenReworkExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionStaleStatusLosesRace(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusPending, 42))
	expectEnvelopePreloads(mock)

	// The guarded update matches zero rows when a concurrent transition
	// already moved the request off PENDING.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := Transition(db, 7, EventApprove, ActorContext{UserID: 1}, "")
	require.ErrorIs(t, err, ErrStaleStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionCancelHappyPath(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusPending, 42))
	expectEnvelopePreloads(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `requests` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `request_status_history`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `audit_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Cancellation leaves only an audit trail; no notification row.
	mock.ExpectCommit()

	// Reload with relations, in preload name order.
	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(requestRow(7, models.RequestTypeSupply, models.StatusCancelled, 42))
	mock.ExpectQuery("SELECT (.+) FROM `borrow_requests`").
		WillReturnRows(emptyRows("borrow_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `departments`").
		WillReturnRows(emptyRows("department_id"))
	mock.ExpectQuery("SELECT (.+) FROM `job_requests`").
		WillReturnRows(emptyRows("job_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `users`").
		WillReturnRows(emptyRows("user_id"))
	mock.ExpectQuery("SELECT (.+) FROM `supply_requests`").
		WillReturnRows(emptyRows("supply_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `transport_requests`").
		WillReturnRows(emptyRows("transport_request_id"))
	mock.ExpectQuery("SELECT (.+) FROM `venue_requests`").
		WillReturnRows(emptyRows("venue_request_id"))

	updated, err := Transition(db, 7, EventCancel, ActorContext{UserID: 42}, "")
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, updated.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusNotificationSilentEvents(t *testing.T) {
	request := models.Request{RequestNumber: "REQ-ABCD1234"}
	for _, event := range []string{EventCancel, EventResume} {
		_, _, _, notify := statusNotification(event, &request, "")
		require.False(t, notify, "event=%s", event)
	}
	for _, event := range []string{EventReview, EventApprove, EventReject, EventHold, EventComplete} {
		_, _, _, notify := statusNotification(event, &request, "broken")
		require.True(t, notify, "event=%s", event)
	}
}
