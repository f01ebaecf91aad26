package api

import (
	"strconv"
	"strings"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GoalHandler serves savings goals.
type GoalHandler struct{}

// NewGoalHandler creates a goal handler.
func NewGoalHandler() *GoalHandler {
	return &GoalHandler{}
}

// CreateGoalRequest is the creation payload.
type CreateGoalRequest struct {
	Title        string  `json:"title" binding:"required,min=1,max=100" example:"Emergency fund"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0" example:"10000"`
	Deadline     string  `json:"deadline" example:"2026-12-31"`
	Description  string  `json:"description" example:"six months of expenses"`
}

// UpdateGoalRequest is the update payload.
type UpdateGoalRequest struct {
	Title        string  `json:"title" binding:"omitempty,min=1,max=100"`
	TargetAmount float64 `json:"target_amount" binding:"omitempty,gt=0"`
	Deadline     *string `json:"deadline"`
	Description  *string `json:"description"`
}

// AddFundsRequest is the add-funds payload.
type AddFundsRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"250"`
}

// GoalView is a goal with its derived progress.
type GoalView struct {
	models.Goal
	Percentage float64 `json:"percentage"`
	Completed  bool    `json:"completed"`
}

func goalView(g models.Goal) GoalView {
	v := GoalView{Goal: g}
	if g.TargetAmount > 0 {
		v.Percentage = g.CurrentAmount / g.TargetAmount * 100
	}
	v.Completed = g.CurrentAmount >= g.TargetAmount
	return v
}

// Create adds a goal
// @Summary Create goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "goal payload"
// @Success 200 {object} Response{data=GoalView} "created"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	goal := models.Goal{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		TargetAmount: req.TargetAmount,
		Description:  req.Description,
	}
	if goal.Title == "" {
		BadRequest(c, "title is required")
		return
	}
	if req.Deadline != "" {
		deadline, err := time.ParseInLocation("2006-01-02", req.Deadline, time.Local)
		if err != nil {
			BadRequest(c, "bad deadline, want format: 2006-01-02")
			return
		}
		goal.Deadline = &deadline
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "creating goal failed"))
		return
	}

	SuccessWithMessage(c, "created", goalView(goal))
}

// List returns the user's goals
// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]GoalView} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", userID).Order("id ASC").Find(&goals).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	views := make([]GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, goalView(g))
	}
	Success(c, views)
}

// Get returns one goal
// @Summary Get goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} Response{data=GoalView} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	Success(c, goalView(goal))
}

// Update edits a goal
// @Summary Update goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body UpdateGoalRequest true "update payload"
// @Success 200 {object} Response{data=GoalView} "updated"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			BadRequest(c, "title cannot be blank")
			return
		}
		updates["title"] = title
	}
	if req.TargetAmount > 0 {
		updates["target_amount"] = req.TargetAmount
		// current funds never exceed the target, even when the target shrinks
		if goal.CurrentAmount > req.TargetAmount {
			updates["current_amount"] = req.TargetAmount
		}
	}
	if req.Deadline != nil {
		if *req.Deadline == "" {
			updates["deadline"] = nil
		} else {
			deadline, err := time.ParseInLocation("2006-01-02", *req.Deadline, time.Local)
			if err != nil {
				BadRequest(c, "bad deadline, want format: 2006-01-02")
				return
			}
			updates["deadline"] = deadline
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&goal).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&goal, goal.ID)
	SuccessWithMessage(c, "updated", goalView(goal))
}

// Delete removes a goal
// @Summary Delete goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	if err := database.DB.Delete(&goal).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}

// AddFunds adds money toward a goal
// @Summary Add funds to goal
// @Description Adds a fixed amount to the goal's current total, capped at the target amount.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body AddFundsRequest true "amount to add"
// @Success 200 {object} Response{data=GoalView} "added"
// @Failure 400 {object} Response "invalid payload"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/goals/{id}/add-funds [post]
func (h *GoalHandler) AddFunds(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		NotFound(c, "goal not found")
		return
	}

	// capped at the target in SQL, atomically
	if err := database.DB.Model(&goal).
		Update("current_amount", gorm.Expr("LEAST(current_amount + ?, target_amount)", req.Amount)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "adding funds failed"))
		return
	}

	database.DB.First(&goal, goal.ID)
	SuccessWithMessage(c, "funds added", goalView(goal))
}
