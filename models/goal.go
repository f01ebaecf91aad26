package models

import (
	"time"

	"gorm.io/gorm"
)

// Goal is a savings target. CurrentAmount only moves through explicit
// add-funds actions and never exceeds TargetAmount.
type Goal struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Title         string         `json:"title" gorm:"size:100;not null"`
	TargetAmount  float64        `json:"target_amount" gorm:"type:decimal(10,2);not null"`
	CurrentAmount float64        `json:"current_amount" gorm:"type:decimal(10,2);not null;default:0"`
	Deadline      *time.Time     `json:"deadline"`
	Description   string         `json:"description" gorm:"size:255"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Goal) TableName() string {
	return "goals"
}
