package core

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date in fixed-width ISO "yyyy-MM-dd" form with no time
// component. Because the format is fixed-width and zero-padded, plain string
// comparison orders dates chronologically; Before/After/Compare rely on this
// invariant, so a Date must never hold any other format. ParseDate is the
// only way untrusted input becomes a Date.
type Date string

// NewDate builds a Date from a time.Time, dropping the time component.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate validates s as a yyyy-MM-dd date and normalizes it.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return NewDate(t), nil
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) Validate() error {
	if _, err := time.Parse(DateLayout, string(d)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, string(d))
	}
	return nil
}

// Time returns the date at midnight UTC. Zero or malformed dates return the
// zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Lexicographic comparison, chronological by the format invariant.
func (d Date) Before(o Date) bool { return string(d) < string(o) }
func (d Date) After(o Date) bool  { return string(d) > string(o) }

func (d Date) String() string { return string(d) }

// Advance returns the next occurrence date for the given frequency.
// Monthly and yearly steps preserve the day of month, clamping to the last
// day when the target month is shorter (Jan 31 -> Feb 29/28, Feb 29 ->
// Feb 28 in non-leap years). An unrecognized frequency is a data-integrity
// bug: validation rejects it on every write path, so Advance panics rather
// than returning an error nothing could sensibly handle.
func (d Date) Advance(f Frequency) Date {
	t := d.Time()
	switch f {
	case Daily:
		return NewDate(t.AddDate(0, 0, 1))
	case Weekly:
		return NewDate(t.AddDate(0, 0, 7))
	case Monthly:
		return NewDate(addMonthClamped(t))
	case Yearly:
		return NewDate(addYearClamped(t))
	default:
		panic(fmt.Sprintf("core: unknown frequency %q", f))
	}
}

func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

func addYearClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year+1, month, 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in the month containing t.
func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the first and last day of the given month.
func MonthRange(year, month int) (Date, Date) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return NewDate(first), NewDate(last)
}
