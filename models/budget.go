package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// ValidPeriod reports whether p is a known budget period.
func ValidPeriod(p string) bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Budget is a spending limit for one category. SpentAmount is a denormalized
// running total: it is seeded from a real SUM over existing expenses when the
// budget is created and maintained by atomic in-database increments from then
// on. POST /budgets/:id/recalculate re-derives it from the transaction log.
type Budget struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Category    string         `json:"category" gorm:"size:50;not null;index"`
	LimitAmount float64        `json:"limit_amount" gorm:"type:decimal(10,2);not null"`
	SpentAmount float64        `json:"spent_amount" gorm:"type:decimal(10,2);not null;default:0"`
	Period      string         `json:"period" gorm:"size:10;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Budget) TableName() string {
	return "budgets"
}
