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

// RecurringHandler serves recurring-transaction templates.
type RecurringHandler struct{}

// NewRecurringHandler creates a recurring-template handler.
func NewRecurringHandler() *RecurringHandler {
	return &RecurringHandler{}
}

// CreateRecurringRequest is the creation payload.
type CreateRecurringRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=100" example:"Rent"`
	Type           string  `json:"type" binding:"required" example:"expense"`
	Amount         float64 `json:"amount" binding:"required,gt=0" example:"1200"`
	Category       string  `json:"category" binding:"required" example:"Housing"`
	Description    string  `json:"description" example:"monthly rent"`
	Frequency      string  `json:"frequency" binding:"required" example:"monthly"`
	FrequencyValue int     `json:"frequency_value" example:"1"`
	StartDate      string  `json:"start_date" binding:"required" example:"2025-01-01"`
	EndDate        string  `json:"end_date" example:"2026-01-01"`
}

// UpdateRecurringRequest is the update payload.
type UpdateRecurringRequest struct {
	Name           string  `json:"name" binding:"omitempty,min=1,max=100"`
	Amount         float64 `json:"amount" binding:"omitempty,gt=0"`
	Category       string  `json:"category"`
	Description    *string `json:"description"`
	Frequency      string  `json:"frequency"`
	FrequencyValue *int    `json:"frequency_value"`
	EndDate        *string `json:"end_date"`
	IsActive       *bool   `json:"is_active"`
}

// Create adds a recurring template
// @Summary Create recurring template
// @Description Creates a recurring-transaction template. The schedule is validated through the occurrence calculator and next_occurrence is seeded to the start date.
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecurringRequest true "template payload"
// @Success 200 {object} Response{data=models.RecurringTransaction} "created"
// @Failure 400 {object} Response "invalid payload, frequency or interval"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateRecurringRequest
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

	interval := req.FrequencyValue
	if interval == 0 {
		interval = 1
	}

	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		BadRequest(c, "bad start_date, want format: 2006-01-02")
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
		if err != nil {
			BadRequest(c, "bad end_date, want format: 2006-01-02")
			return
		}
		if parsed.Before(startDate) {
			BadRequest(c, "end_date must not be before start_date")
			return
		}
		endDate = &parsed
	}

	// Rejects a bad frequency or interval before anything persists.
	if _, err := service.NextOccurrence(startDate, req.Frequency, interval); err != nil {
		BadRequest(c, err.Error())
		return
	}

	tpl := models.RecurringTransaction{
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		Amount:         req.Amount,
		Category:       req.Category,
		Description:    req.Description,
		Frequency:      req.Frequency,
		FrequencyValue: interval,
		StartDate:      startDate,
		EndDate:        endDate,
		NextOccurrence: startDate,
		IsActive:       true,
	}
	if err := database.DB.Create(&tpl).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "creating template failed"))
		return
	}

	SuccessWithMessage(c, "created", tpl)
}

// List returns the user's templates
// @Summary List recurring templates
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param active query bool false "filter on is_active"
// @Success 200 {object} Response{data=[]models.RecurringTransaction} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/recurring [get]
func (h *RecurringHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			BadRequest(c, "active must be true or false")
			return
		}
		query = query.Where("is_active = ?", active)
	}

	var templates []models.RecurringTransaction
	if err := query.Order("next_occurrence ASC, id ASC").Find(&templates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, templates)
}

// Get returns one template
// @Summary Get recurring template
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path int true "template id"
// @Success 200 {object} Response{data=models.RecurringTransaction} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring/{id} [get]
func (h *RecurringHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tpl models.RecurringTransaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tpl).Error; err != nil {
		NotFound(c, "template not found")
		return
	}

	Success(c, tpl)
}

// Update edits a template
// @Summary Update recurring template
// @Description Updates template fields. Changing the frequency or interval re-validates the schedule through the occurrence calculator.
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "template id"
// @Param request body UpdateRecurringRequest true "update payload"
// @Success 200 {object} Response{data=models.RecurringTransaction} "updated"
// @Failure 400 {object} Response "invalid payload, frequency or interval"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring/{id} [put]
func (h *RecurringHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tpl models.RecurringTransaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tpl).Error; err != nil {
		NotFound(c, "template not found")
		return
	}

	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = strings.TrimSpace(req.Name)
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.Category != "" {
		updates["category"] = strings.TrimSpace(req.Category)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	frequency := tpl.Frequency
	interval := tpl.FrequencyValue
	if req.Frequency != "" {
		frequency = req.Frequency
		updates["frequency"] = req.Frequency
	}
	if req.FrequencyValue != nil {
		interval = *req.FrequencyValue
		updates["frequency_value"] = *req.FrequencyValue
	}
	if frequency != tpl.Frequency || interval != tpl.FrequencyValue {
		if _, err := service.NextOccurrence(tpl.NextOccurrence, frequency, interval); err != nil {
			BadRequest(c, err.Error())
			return
		}
	}

	if req.EndDate != nil {
		if *req.EndDate == "" {
			updates["end_date"] = nil
		} else {
			endDate, err := time.ParseInLocation("2006-01-02", *req.EndDate, time.Local)
			if err != nil {
				BadRequest(c, "bad end_date, want format: 2006-01-02")
				return
			}
			if endDate.Before(tpl.StartDate) {
				BadRequest(c, "end_date must not be before start_date")
				return
			}
			updates["end_date"] = endDate
		}
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&tpl).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&tpl, tpl.ID)
	SuccessWithMessage(c, "updated", tpl)
}

// Delete removes a template
// @Summary Delete recurring template
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path int true "template id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/recurring/{id} [delete]
func (h *RecurringHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var tpl models.RecurringTransaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&tpl).Error; err != nil {
		NotFound(c, "template not found")
		return
	}

	if err := database.DB.Delete(&tpl).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// Process runs the due-template scan now
// @Summary Process due templates
// @Description Materializes a transaction for every active template of the current user whose next occurrence has arrived and advances each template by one cycle. Failures are reported per template; one failure never blocks the rest.
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ProcessResult} "scan finished"
// @Failure 401 {object} Response "unauthorized"
// @Failure 500 {object} Response "scan could not run"
// @Router /api/v1/recurring/process [post]
func (h *RecurringHandler) Process(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	result, err := service.ProcessDueTemplatesForUser(database.DB, userID, time.Now())
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "processing recurring transactions failed"))
		return
	}

	SuccessWithMessage(c, "processed", result)
}
