package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"resource-request-api/models"
	"resource-request-api/services"
)

func TestPayloadForEnforcesUnion(t *testing.T) {
	base := createRequestReq{
		RequestType:  models.RequestTypeSupply,
		Title:        "toner cartridges",
		DepartmentID: 3,
	}

	t.Run("no payload attached", func(t *testing.T) {
		req := base
		_, err := req.payloadFor()
		require.Error(t, err)
	})

	t.Run("matching payload", func(t *testing.T) {
		req := base
		req.Supply = &supplyPayload{ItemDescription: "toner", Quantity: 2}
		requestType, err := req.payloadFor()
		require.NoError(t, err)
		require.Equal(t, models.RequestTypeSupply, requestType)
	})

	t.Run("payload does not match declared type", func(t *testing.T) {
		req := base
		req.Job = &jobPayload{JobType: "maintenance", Priority: "high"}
		_, err := req.payloadFor()
		require.Error(t, err)
	})

	t.Run("two payloads attached", func(t *testing.T) {
		req := base
		req.Supply = &supplyPayload{ItemDescription: "toner", Quantity: 2}
		req.Borrow = &borrowPayload{InventoryItemID: 1}
		_, err := req.payloadFor()
		require.Error(t, err)
	})
}

func TestCreateRequestDuplicateTokenRace(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := setMockDB(t)
	services.ClearDepartmentCache()
	t.Cleanup(services.ClearDepartmentCache)

	// Department cache warm-up.
	mock.ExpectQuery("SELECT (.+) FROM `departments`").
		WillReturnRows(sqlmock.NewRows([]string{"department_id", "department_name", "is_active"}).
			AddRow(3, "Facilities", true))

	// The token lookup sees nothing yet; the concurrent winner commits
	// between this check and our insert.
	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(sqlmock.NewRows([]string{"request_id"}))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `requests`").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'tok-1' for key 'requests.client_token'"))
	mock.ExpectRollback()

	// The loser hands back the winner's row instead of a 500.
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM `requests`").
		WillReturnRows(sqlmock.NewRows([]string{
			"request_id", "request_number", "request_type", "status",
			"requester_id", "department_id", "created_at", "updated_at",
		}).AddRow(11, "REQ-AAAA1111", models.RequestTypeSupply, models.StatusPending, 42, 3, now, now))

	body := `{"request_type":"supply","title":"toner","department_id":3,"client_token":"tok-1",` +
		`"supply":{"item_description":"toner","quantity":2}}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", 42)

	CreateRequest(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"duplicate":true`)
	require.Contains(t, w.Body.String(), "REQ-AAAA1111")
	require.NoError(t, mock.ExpectationsWereMet())
}
