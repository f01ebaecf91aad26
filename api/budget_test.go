package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func budgetRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "category", "limit_amount", "spent_amount", "period", "created_at", "updated_at", "deleted_at"})
}

func TestBudgetHandler_Create_SeedsSpentFromHistory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// the initial spent total is a true aggregate, not zero
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(uint(1), "expense", "Food").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(120.5))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `budgets`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/budgets", NewBudgetHandler().Create)

	body := `{"category":"Food","limit_amount":500,"period":"monthly"}`
	req := httptest.NewRequest("POST", "/budgets", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 120.5, data["spent_amount"])
	assert.InDelta(t, 24.1, data["percentage"], 0.001)
	assert.Equal(t, false, data["over_limit"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Create_BadPeriod(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/budgets", NewBudgetHandler().Create)

	body := `{"category":"Food","limit_amount":500,"period":"daily"}`
	req := httptest.NewRequest("POST", "/budgets", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "period must be weekly, monthly or yearly", resp["message"])
}

func TestBudgetHandler_List_FlagsOverLimit(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint(1)).
		WillReturnRows(budgetRows().
			AddRow(1, 1, "Food", 500.0, 650.0, "monthly", time.Now(), time.Now(), nil).
			AddRow(2, 1, "Transport", 200.0, 80.0, "monthly", time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.GET("/budgets", NewBudgetHandler().List)

	req := httptest.NewRequest("GET", "/budgets", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 2)
	first := data[0].(map[string]interface{})
	assert.Equal(t, true, first["over_limit"])
	assert.InDelta(t, 130.0, first["percentage"], 0.001)
	second := data[1].(map[string]interface{})
	assert.Equal(t, false, second["over_limit"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Recalculate(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint64(5), uint(1)).
		WillReturnRows(budgetRows().
			AddRow(5, 1, "Food", 500.0, 175.0, "monthly", time.Now(), time.Now(), nil))

	// fresh aggregate replaces whatever drifted
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(uint(1), "expense", "Food").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(200.0))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/budgets/:id/recalculate", NewBudgetHandler().Recalculate)

	req := httptest.NewRequest("POST", "/budgets/5/recalculate", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 200.0, data["spent_amount"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBudgetHandler_Update_BadPeriod(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `budgets`").
		WithArgs(uint64(5), uint(1)).
		WillReturnRows(budgetRows().
			AddRow(5, 1, "Food", 500.0, 100.0, "monthly", time.Now(), time.Now(), nil))

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.PUT("/budgets/:id", NewBudgetHandler().Update)

	body := `{"period":"hourly"}`
	req := httptest.NewRequest("PUT", "/budgets/5", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
