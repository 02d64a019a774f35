// Package datehour handles the "YYYY-MM-DD HH" date-hour values used to
// address one hour of station data.
package datehour

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Layout is the time layout matching the date-hour text format.
const Layout = "2006-01-02 15"

// Example is shown to users who enter a malformed date-hour.
const Example = "1978-10-01 10"

var (
	// ErrInvalid is returned when a string is not a date-hour.
	ErrInvalid = errors.New("invalid date-hour")

	validPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}$`)
	fieldPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2}) (\d{2})`)
)

// IsValid reports whether s is exactly four-two-two-two digits in the
// "YYYY-MM-DD HH" shape. It does not check calendar ranges.
func IsValid(s string) bool {
	return validPattern.MatchString(s)
}

// Parse converts a date-hour string to a UTC time. Field values outside their
// calendar range are normalized the way time.Date normalizes them.
func Parse(s string) (time.Time, error) {
	if !IsValid(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return fromFields(s), nil
}

// Format renders t, converted to UTC, as a date-hour string.
func Format(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%04d-%02d-%02d %02d", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

// Truncate returns t in UTC with minutes and below cleared.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Hour)
}

// Increment returns the date-hour one hour after s. Callers validate s first;
// for input without a date-hour in it the result is meaningless.
func Increment(s string) string {
	return Format(fromFields(s).Add(time.Hour))
}

func fromFields(s string) time.Time {
	m := fieldPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	return time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
}
