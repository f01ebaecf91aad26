package api

import (
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// BudgetHandler serves category budgets.
type BudgetHandler struct{}

// NewBudgetHandler creates a budget handler.
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// CreateBudgetRequest is the creation payload.
type CreateBudgetRequest struct {
	Category    string  `json:"category" binding:"required" example:"Food"`
	LimitAmount float64 `json:"limit_amount" binding:"required,gt=0" example:"500"`
	Period      string  `json:"period" binding:"required" example:"monthly"`
}

// UpdateBudgetRequest is the update payload.
type UpdateBudgetRequest struct {
	LimitAmount float64 `json:"limit_amount" binding:"omitempty,gt=0"`
	Period      string  `json:"period"`
}

// BudgetView is a budget with its derived usage figures.
type BudgetView struct {
	models.Budget
	Percentage float64 `json:"percentage"`
	OverLimit  bool    `json:"over_limit"`
}

func budgetView(b models.Budget) BudgetView {
	v := BudgetView{Budget: b}
	if b.LimitAmount > 0 {
		v.Percentage = b.SpentAmount / b.LimitAmount * 100
	}
	v.OverLimit = b.SpentAmount > b.LimitAmount
	return v
}

// Create adds a budget
// @Summary Create budget
// @Description Creates a category budget. The initial spent total is a true aggregate over the user's existing expense transactions in that category; later updates are incremental.
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "budget payload"
// @Success 200 {object} Response{data=BudgetView} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.ValidPeriod(req.Period) {
		BadRequest(c, "period must be weekly, monthly or yearly")
		return
	}
	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		BadRequest(c, "category is required")
		return
	}

	spent, err := service.SumExpensesByCategory(database.DB, userID, req.Category)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "aggregating expenses failed"))
		return
	}

	budget := models.Budget{
		UserID:      userID,
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
		SpentAmount: spent,
		Period:      req.Period,
	}
	if err := database.DB.Create(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "creating budget failed"))
		return
	}

	SuccessWithMessage(c, "created", budgetView(budget))
}

// List returns the user's budgets
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]BudgetView} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budgets []models.Budget
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	views := make([]BudgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, budgetView(b))
	}
	Success(c, views)
}

// Get returns one budget
// @Summary Get budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response{data=BudgetView} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	Success(c, budgetView(budget))
}

// Update edits a budget's limit or period
// @Summary Update budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Param request body UpdateBudgetRequest true "update payload"
// @Success 200 {object} Response{data=BudgetView} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.LimitAmount > 0 {
		updates["limit_amount"] = req.LimitAmount
	}
	if req.Period != "" {
		if !models.ValidPeriod(req.Period) {
			BadRequest(c, "period must be weekly, monthly or yearly")
			return
		}
		updates["period"] = req.Period
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&budget).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&budget, budget.ID)
	SuccessWithMessage(c, "updated", budgetView(budget))
}

// Delete removes a budget
// @Summary Delete budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	if err := database.DB.Delete(&budget).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// Recalculate re-derives the spent total from the transaction log
// @Summary Recalculate budget spent total
// @Description Replaces the incrementally maintained spent total with a fresh aggregate over the transaction log. Use this to repair drift.
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response{data=BudgetView} "recalculated"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id}/recalculate [post]
func (h *BudgetHandler) Recalculate(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	if err := service.RecalculateBudgetSpent(database.DB, &budget); err != nil {
		InternalError(c, SafeErrorMessage(err, "recalculation failed"))
		return
	}

	SuccessWithMessage(c, "recalculated", budgetView(budget))
}
