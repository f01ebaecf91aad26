package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImportedTransaction is one plain transaction record from an upload.
// Amount is a decimal so "12.30" survives exactly whether it arrives as a
// JSON number or a CSV string.
type ImportedTransaction struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

// ImportedTemplate is one plain recurring-template record from an upload.
type ImportedTemplate struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Frequency      string          `json:"frequency"`
	FrequencyValue int             `json:"frequency_value"`
	StartDate      string          `json:"start_date"`
	EndDate        string          `json:"end_date"`
}

// ImportPayload is the JSON import body.
type ImportPayload struct {
	Transactions          []ImportedTransaction `json:"transactions"`
	RecurringTransactions []ImportedTemplate    `json:"recurring_transactions"`
}

const importDateLayout = "2006-01-02"

// ParseCSVTransactions reads transaction records from CSV with a
// type,amount,category,description,date header row.
func ParseCSVTransactions(r io.Reader) ([]ImportedTransaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"type", "amount", "category", "date"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []ImportedTransaction
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		amount, err := decimal.NewFromString(field(row, "amount"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: bad amount %q", line, field(row, "amount"))
		}

		records = append(records, ImportedTransaction{
			Type:        field(row, "type"),
			Amount:      amount,
			Category:    field(row, "category"),
			Description: field(row, "description"),
			Date:        field(row, "date"),
		})
	}

	return records, nil
}

// ParseJSONImport reads an ImportPayload from r.
func ParseJSONImport(r io.Reader) (*ImportPayload, error) {
	var payload ImportPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode import json: %w", err)
	}
	return &payload, nil
}

// ImportTransactions validates and inserts uploaded transaction records for
// the user. All rows and their budget increments commit in one transaction:
// a bad row rejects the whole upload rather than half-applying it.
func ImportTransactions(db *gorm.DB, userID uint, records []ImportedTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, rec := range records {
			if !models.ValidType(rec.Type) {
				return fmt.Errorf("record %d: unknown type %q", i+1, rec.Type)
			}
			if rec.Category == "" {
				return fmt.Errorf("record %d: missing category", i+1)
			}
			if !rec.Amount.IsPositive() {
				return fmt.Errorf("record %d: amount must be positive", i+1)
			}
			date, err := time.ParseInLocation(importDateLayout, rec.Date, time.Local)
			if err != nil {
				return fmt.Errorf("record %d: bad date %q, want YYYY-MM-DD", i+1, rec.Date)
			}

			amount := rec.Amount.Round(2).InexactFloat64()
			txn := models.Transaction{
				UserID:      userID,
				Type:        rec.Type,
				Amount:      amount,
				Category:    rec.Category,
				Description: rec.Description,
				Date:        date,
			}
			if err := tx.Create(&txn).Error; err != nil {
				return fmt.Errorf("record %d: %w", i+1, err)
			}

			if rec.Type == models.TypeExpense {
				if err := ApplyExpenseToBudgets(tx, userID, rec.Category, amount); err != nil {
					return fmt.Errorf("record %d: %w", i+1, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// ImportTemplates validates and inserts uploaded recurring templates for the
// user. Every template's schedule is run through the occurrence calculator
// so a bad frequency or interval is rejected up front, and next_occurrence
// is seeded to the start date.
func ImportTemplates(db *gorm.DB, userID uint, records []ImportedTemplate) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, rec := range records {
			if rec.Name == "" {
				return fmt.Errorf("template %d: missing name", i+1)
			}
			if !models.ValidType(rec.Type) {
				return fmt.Errorf("template %d: unknown type %q", i+1, rec.Type)
			}
			if rec.Category == "" {
				return fmt.Errorf("template %d: missing category", i+1)
			}
			if !rec.Amount.IsPositive() {
				return fmt.Errorf("template %d: amount must be positive", i+1)
			}

			interval := rec.FrequencyValue
			if interval == 0 {
				interval = 1
			}

			startDate, err := time.ParseInLocation(importDateLayout, rec.StartDate, time.Local)
			if err != nil {
				return fmt.Errorf("template %d: bad start_date %q, want YYYY-MM-DD", i+1, rec.StartDate)
			}

			var endDate *time.Time
			if rec.EndDate != "" {
				parsed, err := time.ParseInLocation(importDateLayout, rec.EndDate, time.Local)
				if err != nil {
					return fmt.Errorf("template %d: bad end_date %q, want YYYY-MM-DD", i+1, rec.EndDate)
				}
				endDate = &parsed
			}

			// Proves the schedule is computable before anything persists.
			if _, err := NextOccurrence(startDate, rec.Frequency, interval); err != nil {
				return fmt.Errorf("template %d: %w", i+1, err)
			}

			tpl := models.RecurringTransaction{
				UserID:         userID,
				Name:           rec.Name,
				Type:           rec.Type,
				Amount:         rec.Amount.Round(2).InexactFloat64(),
				Category:       rec.Category,
				Description:    rec.Description,
				Frequency:      rec.Frequency,
				FrequencyValue: interval,
				StartDate:      startDate,
				EndDate:        endDate,
				NextOccurrence: startDate,
				IsActive:       true,
			}
			if err := tx.Create(&tpl).Error; err != nil {
				return fmt.Errorf("template %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(records), nil
}
