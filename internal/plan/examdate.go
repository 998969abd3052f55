package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrExamDateMissing   = errors.New("exam date is missing or invalid")
	ErrExamDateNotFuture = errors.New("exam date is not in the future")
)

// DaysUntil counts calendar days from now's date to the exam date. Today and
// past dates are rejected.
func DaysUntil(examDate string, now time.Time) (int, error) {
	examDate = strings.TrimSpace(examDate)
	if examDate == "" {
		return 0, ErrExamDateMissing
	}
	exam, err := time.Parse(DateLayout, examDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExamDateMissing, err)
	}

	// Compare dates in UTC so DST changes cannot stretch a day.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(exam.Sub(today) / (24 * time.Hour))
	if days <= 0 {
		return 0, ErrExamDateNotFuture
	}
	return days, nil
}

// DaysText is the counter label shown under the date picker.
func DaysText(days int) string {
	return fmt.Sprintf("%d days until exam", days)
}
