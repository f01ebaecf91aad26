package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"fintrack/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvUpload(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestImportHandler_ImportCSV(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	// one transaction per upload row, all inside one database transaction
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `budgets` SET `spent_amount`=spent_amount \\+ \\?").
		WithArgs(12.5, sqlmock.AnyArg(), uint(1), "Food").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	body, contentType := csvUpload(t, "type,amount,category,description,date\n"+
		"expense,12.50,Food,lunch,2025-07-01\n"+
		"income,5000,Salary,,2025-07-05\n")

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/import/csv", NewImportHandler().ImportCSV)

	req := httptest.NewRequest("POST", "/import/csv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["transactions"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportHandler_ImportCSV_BadRowRejectsWholeUpload(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// the bad second row rolls the first insert back
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	body, contentType := csvUpload(t, "type,amount,category,description,date\n"+
		"income,5000,Salary,,2025-07-05\n"+
		"transfer,10,Food,,2025-07-06\n")

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/import/csv", NewImportHandler().ImportCSV)

	req := httptest.NewRequest("POST", "/import/csv", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportHandler_ImportCSV_MissingFile(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/import/csv", NewImportHandler().ImportCSV)

	req := httptest.NewRequest("POST", "/import/csv", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing file upload", resp["message"])
}

func TestImportHandler_ImportJSON_TransactionsAndTemplates(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `recurring_transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/import/json", NewImportHandler().ImportJSON)

	body := `{
		"transactions": [
			{"type":"income","amount":"5000.00","category":"Salary","date":"2025-07-05"}
		],
		"recurring_transactions": [
			{"name":"Rent","type":"expense","amount":1200,"category":"Housing","frequency":"monthly","start_date":"2025-08-01"}
		]
	}`
	req := httptest.NewRequest("POST", "/import/json", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["transactions"])
	assert.Equal(t, float64(1), data["templates"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImportHandler_ImportJSON_Empty(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.Use(setUserIDMiddleware(1))
	router.POST("/import/json", NewImportHandler().ImportJSON)

	req := httptest.NewRequest("POST", "/import/json", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "nothing to import", resp["message"])
}
