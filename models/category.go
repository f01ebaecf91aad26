package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a per-user transaction category. Budgets and transactions
// reference categories by name, not by foreign key.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_category"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex:idx_user_category"`
	Type      string         `json:"type" gorm:"size:10;not null;uniqueIndex:idx_user_category"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"`
	Icon      string         `json:"icon" gorm:"size:50"`
	IsDefault bool           `json:"is_default" gorm:"default:false"`
	Sort      int            `json:"sort" gorm:"default:0;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the category set seeded for every new user.
// Default categories cannot be renamed or deleted by the user.
func DefaultCategories(userID uint) []Category {
	defaults := []struct {
		Name  string
		Type  string
		Color string
		Icon  string
	}{
		{"Food", TypeExpense, "#ef4444", "utensils"},
		{"Transport", TypeExpense, "#3b82f6", "bus"},
		{"Shopping", TypeExpense, "#a855f7", "shopping-bag"},
		{"Entertainment", TypeExpense, "#ec4899", "film"},
		{"Health", TypeExpense, "#10b981", "heart-pulse"},
		{"Education", TypeExpense, "#f59e0b", "graduation-cap"},
		{"Housing", TypeExpense, "#14b8a6", "home"},
		{"Other", TypeExpense, "#64748b", "ellipsis"},
		{"Salary", TypeIncome, "#10b981", "wallet"},
		{"Bonus", TypeIncome, "#3b82f6", "gift"},
		{"Investment", TypeIncome, "#a855f7", "chart-line"},
		{"Side Job", TypeIncome, "#f59e0b", "briefcase"},
		{"Other", TypeIncome, "#64748b", "ellipsis"},
	}

	cats := make([]Category, 0, len(defaults))
	for i, d := range defaults {
		cats = append(cats, Category{
			UserID:    userID,
			Name:      d.Name,
			Type:      d.Type,
			Color:     d.Color,
			Icon:      d.Icon,
			IsDefault: true,
			Sort:      (i + 1) * 10,
		})
	}
	return cats
}
