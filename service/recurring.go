package service

import (
	"time"

	"fintrack/models"

	"gorm.io/gorm"
)

// ProcessFailure describes one template a scan could not materialize.
type ProcessFailure struct {
	TemplateID uint   `json:"template_id"`
	Name       string `json:"name"`
	Error      string `json:"error"`
}

// ProcessResult is the outcome of one due-template scan.
type ProcessResult struct {
	Processed int              `json:"processed"`
	Failures  []ProcessFailure `json:"failures,omitempty"`
}

// ProcessDueTemplates scans every user's templates. Only the background
// scheduler runs this; anything client-triggered goes through
// ProcessDueTemplatesForUser so a caller never touches other users' rows.
func ProcessDueTemplates(db *gorm.DB, now time.Time) (ProcessResult, error) {
	return processDue(db, 0, now)
}

// ProcessDueTemplatesForUser confines the scan to one user's templates.
func ProcessDueTemplatesForUser(db *gorm.DB, userID uint, now time.Time) (ProcessResult, error) {
	return processDue(db, userID, now)
}

// processDue finds every active template whose next occurrence has arrived,
// materializes one transaction per template, and advances each template's
// pointer by exactly one cycle. A template that missed several cycles
// catches up one cycle per call rather than jumping to the future. Each
// template runs in its own database transaction: one failure never blocks
// the rest of the scan. userID 0 means no owner scope.
func processDue(db *gorm.DB, userID uint, now time.Time) (ProcessResult, error) {
	var result ProcessResult

	// Anything due at some point today counts as due.
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	query := db.Where("is_active = ? AND next_occurrence <= ?", true, endOfDay).
		Where("end_date IS NULL OR next_occurrence <= end_date")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var due []models.RecurringTransaction
	if err := query.Find(&due).Error; err != nil {
		return result, err
	}

	for _, tpl := range due {
		if err := materializeTemplate(db, tpl); err != nil {
			result.Failures = append(result.Failures, ProcessFailure{
				TemplateID: tpl.ID,
				Name:       tpl.Name,
				Error:      err.Error(),
			})
			continue
		}
		result.Processed++
	}

	return result, nil
}

// materializeTemplate inserts the due transaction and advances the
// template's pointer atomically.
func materializeTemplate(db *gorm.DB, tpl models.RecurringTransaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		description := tpl.Description
		if description == "" {
			description = tpl.Name
		}

		txn := models.Transaction{
			UserID:      tpl.UserID,
			Type:        tpl.Type,
			Amount:      tpl.Amount,
			Category:    tpl.Category,
			Description: description,
			Date:        tpl.NextOccurrence,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		if tpl.Type == models.TypeExpense {
			if err := ApplyExpenseToBudgets(tx, tpl.UserID, tpl.Category, tpl.Amount); err != nil {
				return err
			}
		}

		// Advance from the current pointer, not from today.
		next, err := NextOccurrence(tpl.NextOccurrence, tpl.Frequency, tpl.FrequencyValue)
		if err != nil {
			return err
		}

		return tx.Model(&models.RecurringTransaction{}).
			Where("id = ?", tpl.ID).
			Update("next_occurrence", next).Error
	})
}
