package models

import (
	"time"

	"gorm.io/gorm"
)

// Recurrence frequencies.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// RecurringTransaction is a template that periodically materializes into
// concrete transactions. NextOccurrence is always >= StartDate for an active
// template and strictly advances after each materialization.
type RecurringTransaction struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"size:100;not null"`
	Type           string         `json:"type" gorm:"size:10;not null"`
	Amount         float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category       string         `json:"category" gorm:"size:50;not null"`
	Description    string         `json:"description" gorm:"size:255"`
	Frequency      string         `json:"frequency" gorm:"size:10;not null"`
	FrequencyValue int            `json:"frequency_value" gorm:"not null;default:1"`
	StartDate      time.Time      `json:"start_date" gorm:"not null"`
	EndDate        *time.Time     `json:"end_date"`
	NextOccurrence time.Time      `json:"next_occurrence" gorm:"not null;index"`
	IsActive       bool           `json:"is_active" gorm:"default:true;index"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
	User           User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (RecurringTransaction) TableName() string {
	return "recurring_transactions"
}
