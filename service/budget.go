package service

import (
	"log"

	"fintrack/models"

	"gorm.io/gorm"
)

// ApplyExpenseToBudgets adds amount to the spent total of every budget of
// the user matching the category (case-sensitive exact match). The increment
// is a single in-database UPDATE, so concurrent writers cannot lose it.
func ApplyExpenseToBudgets(db *gorm.DB, userID uint, category string, amount float64) error {
	return db.Model(&models.Budget{}).
		Where("user_id = ? AND category = ?", userID, category).
		Update("spent_amount", gorm.Expr("spent_amount + ?", amount)).Error
}

// RemoveExpenseFromBudgets subtracts amount from matching budgets' spent
// totals, floored at zero in SQL.
func RemoveExpenseFromBudgets(db *gorm.DB, userID uint, category string, amount float64) error {
	return db.Model(&models.Budget{}).
		Where("user_id = ? AND category = ?", userID, category).
		Update("spent_amount", gorm.Expr("GREATEST(spent_amount - ?, 0)", amount)).Error
}

// SumExpensesByCategory returns the true aggregate of the user's expense
// transactions in a category. Used to seed a new budget's spent total and to
// repair drift on recalculation.
func SumExpensesByCategory(db *gorm.DB, userID uint, category string) (float64, error) {
	var total float64
	err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND category = ?", userID, models.TypeExpense, category).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// RecalculateBudgetSpent re-derives a budget's spent total from the
// transaction log and persists it.
func RecalculateBudgetSpent(db *gorm.DB, budget *models.Budget) error {
	total, err := SumExpensesByCategory(db, budget.UserID, budget.Category)
	if err != nil {
		return err
	}
	if err := db.Model(budget).Update("spent_amount", total).Error; err != nil {
		return err
	}
	budget.SpentAmount = total
	return nil
}

// NotifyBudgetsOverLimit mails the user an alert for every budget in the
// category that is now over its limit. Mail failures are logged, never
// propagated: alerting must not fail the write that triggered it.
func NotifyBudgetsOverLimit(db *gorm.DB, mailer *EmailService, userID uint, category string) {
	if mailer == nil || !mailer.Enabled() {
		return
	}

	var budgets []models.Budget
	if err := db.Where("user_id = ? AND category = ? AND spent_amount > limit_amount", userID, category).
		Find(&budgets).Error; err != nil {
		log.Printf("budget alert lookup failed: %v", err)
		return
	}
	if len(budgets) == 0 {
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}

	for _, b := range budgets {
		if err := mailer.SendBudgetAlertEmail(user.Email, user.Username, b.Category, b.SpentAmount, b.LimitAmount); err != nil {
			log.Printf("budget alert mail failed for budget %d: %v", b.ID, err)
		}
	}
}
