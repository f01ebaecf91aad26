package service

import (
	"testing"

	"fintrack/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyExpenseToBudgets(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	// a single atomic increment, no read-modify-write
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET `spent_amount`=spent_amount \\+ \\?").
		WithArgs(50.0, sqlmock.AnyArg(), 1, "Food").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, ApplyExpenseToBudgets(db, 1, "Food", 50))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveExpenseFromBudgets_FlooredAtZero(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets` SET `spent_amount`=GREATEST\\(spent_amount - \\?, 0\\)").
		WithArgs(50.0, sqlmock.AnyArg(), 1, "Food").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, RemoveExpenseFromBudgets(db, 1, "Food", 50))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSumExpensesByCategory(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(1, models.TypeExpense, "Food").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(123.45))

	total, err := SumExpensesByCategory(db, 1, "Food")
	require.NoError(t, err)
	assert.Equal(t, 123.45, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecalculateBudgetSpent(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `transactions`").
		WithArgs(1, models.TypeExpense, "Food").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(200.0))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `budgets`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	budget := &models.Budget{ID: 5, UserID: 1, Category: "Food", SpentAmount: 175}
	require.NoError(t, RecalculateBudgetSpent(db, budget))
	assert.Equal(t, 200.0, budget.SpentAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}
