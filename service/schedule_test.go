package service

import (
	"errors"
	"testing"
	"time"

	"fintrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNextOccurrence_Daily(t *testing.T) {
	next, err := NextOccurrence(date(2025, 7, 1), models.FrequencyDaily, 2)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 7, 3), next)
}

func TestNextOccurrence_Weekly(t *testing.T) {
	next, err := NextOccurrence(date(2025, 7, 1), models.FrequencyWeekly, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 7, 8), next)
}

func TestNextOccurrence_MonthlyClampsToShortMonth(t *testing.T) {
	// Jan 31 + 1 month is the last day of February, never an invalid Feb 31
	next, err := NextOccurrence(date(2024, 1, 31), models.FrequencyMonthly, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 29), next) // leap year

	next, err = NextOccurrence(date(2025, 1, 31), models.FrequencyMonthly, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), next)

	// day survives when the target month is long enough
	next, err = NextOccurrence(date(2025, 1, 15), models.FrequencyMonthly, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 15), next)
}

func TestNextOccurrence_MonthlyCrossesYear(t *testing.T) {
	next, err := NextOccurrence(date(2025, 11, 30), models.FrequencyMonthly, 3)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 2, 28), next)
}

func TestNextOccurrence_YearlyClampsLeapDay(t *testing.T) {
	next, err := NextOccurrence(date(2024, 2, 29), models.FrequencyYearly, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), next)

	next, err = NextOccurrence(date(2024, 2, 29), models.FrequencyYearly, 4)
	require.NoError(t, err)
	assert.Equal(t, date(2028, 2, 29), next)
}

func TestNextOccurrence_StrictlyAdvances(t *testing.T) {
	frequencies := []string{
		models.FrequencyDaily,
		models.FrequencyWeekly,
		models.FrequencyMonthly,
		models.FrequencyYearly,
	}
	refs := []time.Time{
		date(2025, 1, 1),
		date(2024, 2, 29),
		date(2025, 12, 31),
	}

	for _, freq := range frequencies {
		for _, ref := range refs {
			for _, interval := range []int{1, 2, 5, 13} {
				next, err := NextOccurrence(ref, freq, interval)
				require.NoError(t, err)
				assert.True(t, next.After(ref),
					"%s x%d from %s must advance, got %s", freq, interval, ref, next)
			}
		}
	}
}

func TestNextOccurrence_InvalidFrequency(t *testing.T) {
	// an unknown unit must fail, never return the input date unchanged
	_, err := NextOccurrence(date(2025, 7, 1), "fortnightly", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFrequency))

	_, err = NextOccurrence(date(2025, 7, 1), "", 1)
	assert.True(t, errors.Is(err, ErrInvalidFrequency))
}

func TestNextOccurrence_InvalidInterval(t *testing.T) {
	for _, interval := range []int{0, -1, -100} {
		_, err := NextOccurrence(date(2025, 7, 1), models.FrequencyDaily, interval)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInterval))
	}
}
