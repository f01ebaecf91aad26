package api

import (
	"strconv"
	"strings"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves per-user category management.
type CategoryHandler struct{}

// NewCategoryHandler creates a category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// CategoryCreateRequest is the creation payload.
type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50"`
	Type  string `json:"type" binding:"required" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#ef4444"`
	Icon  string `json:"icon" binding:"omitempty,max=50" example:"utensils"`
	Sort  int    `json:"sort"`
}

// CategoryUpdateRequest is the update payload.
type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,max=20"`
	Icon  *string `json:"icon" binding:"omitempty,max=50"`
	Sort  *int    `json:"sort"`
}

// List returns the user's categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if typ := c.Query("type"); typ != "" {
		query = query.Where("type = ?", typ)
	}

	var list []models.Category
	if err := query.Order("sort ASC, id ASC").Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// Create adds a category
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "category payload"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid payload or duplicate name"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	if !models.ValidType(req.Type) {
		BadRequest(c, "type must be income or expense")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name is required")
		return
	}

	var existing models.Category
	if err := database.DB.Where("user_id = ? AND name = ? AND type = ?", userID, req.Name, req.Type).
		First(&existing).Error; err == nil {
		BadRequest(c, "category name already exists")
		return
	}

	color := req.Color
	if color == "" {
		color = "#64748b"
	}
	cat := models.Category{
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
		Color:  color,
		Icon:   req.Icon,
		Sort:   req.Sort,
	}
	if err := database.DB.Create(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "creating category failed"))
		return
	}
	SuccessWithMessage(c, "created", cat)
}

// Update edits a category
// @Summary Update category
// @Description Updates a user-defined category. Default categories are read-only.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryUpdateRequest true "update payload"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 400 {object} Response "invalid payload or default category"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "category not found")
		return
	}
	if cat.IsDefault {
		BadRequest(c, "default categories cannot be edited")
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "name cannot be blank")
			return
		}
		var existing models.Category
		if err := database.DB.Where("user_id = ? AND name = ? AND type = ? AND id <> ?", userID, name, cat.Type, cat.ID).
			First(&existing).Error; err == nil {
			BadRequest(c, "category name already exists")
			return
		}
		updates["name"] = name
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&cat).Updates(updates).Error; err != nil {
			InternalError(c, SafeErrorMessage(err, "update failed"))
			return
		}
	}

	database.DB.First(&cat, cat.ID)
	SuccessWithMessage(c, "updated", cat)
}

// Delete removes a category
// @Summary Delete category
// @Description Deletes a user-defined category. Default categories are read-only.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 400 {object} Response "default category"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var cat models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		NotFound(c, "category not found")
		return
	}
	if cat.IsDefault {
		BadRequest(c, "default categories cannot be deleted")
		return
	}

	if err := database.DB.Delete(&cat).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "delete failed"))
		return
	}

	SuccessWithMessage(c, "deleted", nil)
}
