package service

import (
	"errors"
	"fmt"
	"time"

	"fintrack/models"
)

var (
	// ErrInvalidFrequency is returned for an unknown frequency unit. An
	// unknown unit is always an error: silently returning the reference
	// date would stall a recurring schedule forever.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrInvalidInterval is returned for a non-positive interval.
	ErrInvalidInterval = errors.New("invalid interval")
)

// NextOccurrence computes the occurrence date strictly after ref: ref plus
// interval days, 7-day weeks, calendar months, or calendar years. Monthly
// and yearly steps clamp to the last valid day of the target month, so
// Jan 31 + 1 month lands on Feb 28 (or 29), never on an invalid date.
func NextOccurrence(ref time.Time, frequency string, interval int) (time.Time, error) {
	if interval <= 0 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrInvalidInterval, interval)
	}

	switch frequency {
	case models.FrequencyDaily:
		return ref.AddDate(0, 0, interval), nil
	case models.FrequencyWeekly:
		return ref.AddDate(0, 0, 7*interval), nil
	case models.FrequencyMonthly:
		return addMonthsClamped(ref, interval), nil
	case models.FrequencyYearly:
		return addMonthsClamped(ref, 12*interval), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, frequency)
	}
}

// addMonthsClamped steps forward by whole calendar months, clamping the day
// of month to the last day of the target month. time.AddDate would roll
// Jan 31 + 1 month over into March instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	year += total / 12
	targetMonth := time.Month(total%12 + 1)
	if last := daysInMonth(year, targetMonth); day > last {
		day = last
	}
	return time.Date(year, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// day 0 of the following month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
