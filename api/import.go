package api

import (
	"fintrack/database"
	"fintrack/middleware"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ImportHandler serves transaction and template imports.
type ImportHandler struct{}

// NewImportHandler creates an import handler.
func NewImportHandler() *ImportHandler {
	return &ImportHandler{}
}

// ImportResult reports how many records an upload created.
type ImportResult struct {
	Transactions int `json:"transactions"`
	Templates    int `json:"templates"`
}

// ImportCSV imports transactions from a CSV upload
// @Summary Import transactions from CSV
// @Description Accepts a multipart "file" field with type,amount,category,description,date columns. The whole upload is applied atomically: one bad row rejects everything. Expense rows add to matching budgets' spent totals.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} Response{data=ImportResult} "imported"
// @Failure 400 {object} Response "bad upload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/import/csv [post]
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file upload")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "cannot open upload"))
		return
	}
	defer file.Close()

	records, err := service.ParseCSVTransactions(file)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "parsing CSV failed"))
		return
	}

	n, err := service.ImportTransactions(database.DB, userID, records)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "import failed"))
		return
	}

	SuccessWithMessage(c, "imported", ImportResult{Transactions: n})
}

// ImportJSON imports transactions and recurring templates from JSON
// @Summary Import from JSON
// @Description Accepts {"transactions": [...], "recurring_transactions": [...]}. Imported templates run through the occurrence calculator so next_occurrence is seeded and bad schedules are rejected up front.
// @Tags import
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ImportPayload true "import payload"
// @Success 200 {object} Response{data=ImportResult} "imported"
// @Failure 400 {object} Response "bad payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/import/json [post]
func (h *ImportHandler) ImportJSON(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	payload, err := service.ParseJSONImport(c.Request.Body)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "parsing JSON failed"))
		return
	}
	if len(payload.Transactions) == 0 && len(payload.RecurringTransactions) == 0 {
		BadRequest(c, "nothing to import")
		return
	}

	var result ImportResult

	result.Transactions, err = service.ImportTransactions(database.DB, userID, payload.Transactions)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "importing transactions failed"))
		return
	}

	result.Templates, err = service.ImportTemplates(database.DB, userID, payload.RecurringTransactions)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "importing templates failed"))
		return
	}

	SuccessWithMessage(c, "imported", result)
}
