package api

import (
	"strconv"
	"strings"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// TransactionHandler serves income/expense records.
type TransactionHandler struct {
	mailer *service.EmailService
}

// NewTransactionHandler creates a transaction handler.
func NewTransactionHandler(mailer *service.EmailService) *TransactionHandler {
	return &TransactionHandler{mailer: mailer}
}

// CreateTransactionRequest is the creation payload.
type CreateTransactionRequest struct {
	Type        string  `json:"type" binding:"required" example:"expense"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"99.99"`
	Category    string  `json:"category" binding:"required" example:"Food"`
	Description string  `json:"description" example:"lunch"`
	Date        string  `json:"date" binding:"required" example:"2025-07-01"`
}

// TransactionListRequest is the list filter.
type TransactionListRequest struct {
	Page      int    `form:"page" example:"1"`
	PageSize  int    `form:"page_size" example:"10"`
	Type      string `form:"type" example:"expense"`
	Category  string `form:"category" example:"Food"`
	StartDate string `form:"start_date" example:"2025-01-01"`
	EndDate   string `form:"end_date" example:"2025-12-31"`
}

// Create records a transaction
// @Summary Create transaction
// @Description Records an income or expense. Expense creation adds the amount to matching budgets' spent totals. Transactions are immutable afterwards; delete and re-create to correct one.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction payload"
// @Success 200 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid payload or unknown category"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.ValidType(req.Type) {
		BadRequest(c, "type must be income or expense")
		return
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "category is required")
		return
	}
	var cat models.Category
	if err := database.DB.Where("user_id = ? AND name = ? AND type = ?", userID, req.Category, req.Type).
		First(&cat).Error; err != nil {
		BadRequest(c, "unknown category for this type")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "bad date, want format: 2006-01-02")
		return
	}

	txn := models.Transaction{
		UserID:      userID,
		Type:        req.Type,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
	}

	if err := database.DB.Create(&txn).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "creating transaction failed"))
		return
	}

	if txn.Type == models.TypeExpense {
		if err := service.ApplyExpenseToBudgets(database.DB, userID, txn.Category, txn.Amount); err != nil {
			InternalError(c, SafeErrorMessage(err, "updating budget failed"))
			return
		}
		service.NotifyBudgetsOverLimit(database.DB, h.mailer, userID, txn.Category)
	}

	SuccessWithMessage(c, "created", txn)
}

// List returns the user's transactions
// @Summary List transactions
// @Description Lists the current user's transactions with pagination and filters.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param type query string false "income or expense"
// @Param category query string false "category filter"
// @Param start_date query string false "start date (2025-01-01)"
// @Param end_date query string false "end date (2025-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)

	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}
	if req.StartDate != "" {
		startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err == nil {
			query = query.Where("date >= ?", startDate)
		}
	}
	if req.EndDate != "" {
		endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err == nil {
			// include the whole end day
			endDate = endDate.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", endDate)
		}
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).Find(&transactions).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     transactions,
	})
}

// Get returns one transaction
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	Success(c, txn)
}

// Delete removes a transaction
// @Summary Delete transaction
// @Description Deletes a transaction. Deleting an expense subtracts its amount from matching budgets' spent totals, floored at zero.
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	if err := database.DB.Delete(&txn).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	if txn.Type == models.TypeExpense {
		if err := service.RemoveExpenseFromBudgets(database.DB, userID, txn.Category, txn.Amount); err != nil {
			InternalError(c, SafeErrorMessage(err, "updating budget failed"))
			return
		}
	}

	SuccessWithMessage(c, "deleted", nil)
}
