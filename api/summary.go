package api

import (
	"strconv"
	"time"

	"fintrack/database"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SummaryHandler serves aggregated figures for dashboards and charts.
type SummaryHandler struct{}

// NewSummaryHandler creates a summary handler.
func NewSummaryHandler() *SummaryHandler {
	return &SummaryHandler{}
}

// SummaryResponse is the overall balance summary.
type SummaryResponse struct {
	TotalIncome  float64 `json:"total_income" example:"5000.00"`
	TotalExpense float64 `json:"total_expense" example:"1234.56"`
	Balance      float64 `json:"balance" example:"3765.44"`
}

// CategoryStat is one slice of the category breakdown.
type CategoryStat struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MonthlyStat is one bucket of the monthly series.
type MonthlyStat struct {
	Month   string  `json:"month" example:"2025-07"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// dateRange applies optional start_date/end_date query filters.
func dateRange(c *gin.Context, query *gorm.DB) *gorm.DB {
	if startStr := c.Query("start_date"); startStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", startStr, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if endStr := c.Query("end_date"); endStr != "" {
		if t, err := time.ParseInLocation("2006-01-02", endStr, time.Local); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}
	return query
}

// GetSummary returns income, expense and balance totals
// @Summary Get balance summary
// @Description Sums income and expense over an optional date range. Without start_date/end_date the whole history counts.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "start date (2025-01-01)"
// @Param end_date query string false "end date (2025-12-31)"
// @Success 200 {object} Response{data=SummaryResponse} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/statistics/summary [get]
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var totalIncome, totalExpense float64

	incomeQ := dateRange(c, database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TypeIncome))
	incomeQ.Select("COALESCE(SUM(amount), 0)").Scan(&totalIncome)

	expenseQ := dateRange(c, database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TypeExpense))
	expenseQ.Select("COALESCE(SUM(amount), 0)").Scan(&totalExpense)

	Success(c, SummaryResponse{
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Balance:      totalIncome - totalExpense,
	})
}

// GetCategoryStats returns per-category totals
// @Summary Get category breakdown
// @Description Per-category totals with percentages for one transaction type, ready for a pie chart.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param type query string false "income or expense" default(expense)
// @Param start_date query string false "start date (2025-01-01)"
// @Param end_date query string false "end date (2025-12-31)"
// @Success 200 {object} Response{data=[]CategoryStat} "ok"
// @Failure 400 {object} Response "bad type"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/statistics/categories [get]
func (h *SummaryHandler) GetCategoryStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	typ := c.DefaultQuery("type", models.TypeExpense)
	if !models.ValidType(typ) {
		BadRequest(c, "type must be income or expense")
		return
	}

	query := dateRange(c, database.DB.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, typ))

	var stats []CategoryStat
	if err := query.
		Select("category, SUM(amount) as total, COUNT(*) as count").
		Group("category").
		Order("total DESC").
		Scan(&stats).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	var totalAmount float64
	for _, s := range stats {
		totalAmount += s.Total
	}
	for i := range stats {
		if totalAmount > 0 {
			stats[i].Percentage = stats[i].Total / totalAmount * 100
		}
	}

	Success(c, stats)
}

// GetMonthlyStats returns the monthly income/expense series
// @Summary Get monthly series
// @Description Income and expense sums bucketed per calendar month for the last N months, ready for a bar chart.
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param months query int false "number of months" default(12)
// @Success 200 {object} Response{data=[]MonthlyStat} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/statistics/monthly [get]
func (h *SummaryHandler) GetMonthlyStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
	if err != nil || months <= 0 {
		months = 12
	}
	if months > 60 {
		months = 60
	}

	now := time.Now()
	// first day of the earliest bucket
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local).AddDate(0, -(months - 1), 0)

	type rawBucket struct {
		Month string
		Type  string
		Total float64
	}
	var rows []rawBucket
	if err := database.DB.Model(&models.Transaction{}).
		Select("DATE_FORMAT(date, '%Y-%m') as month, type, SUM(amount) as total").
		Where("user_id = ? AND date >= ?", userID, start).
		Group("month, type").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	// every month appears, including empty ones
	stats := make([]MonthlyStat, 0, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		index[month] = len(stats)
		stats = append(stats, MonthlyStat{Month: month})
	}
	for _, row := range rows {
		i, ok := index[row.Month]
		if !ok {
			continue
		}
		switch row.Type {
		case models.TypeIncome:
			stats[i].Income = row.Total
		case models.TypeExpense:
			stats[i].Expense = row.Total
		}
	}

	Success(c, stats)
}
