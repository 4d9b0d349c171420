package domain

import "time"

const (
	isoDateLayout     = "2006-01-02"
	displayDateLayout = "1/2/2006"
)

// FormatISODate renders t as YYYY-MM-DD in UTC, the format used for chart series
func FormatISODate(t time.Time) string {
	return t.UTC().Format(isoDateLayout)
}

// FormatDisplayDate renders t as M/D/YYYY in GMT, the format used for "last updated" labels
func FormatDisplayDate(t time.Time) string {
	return t.UTC().Format(displayDateLayout)
}

// MonthIndex maps t to a month counter so that month arithmetic is plain integer addition.
// Two dates in the same calendar month (UTC) always share an index.
func MonthIndex(t time.Time) int {
	u := t.UTC()
	return u.Year()*12 + int(u.Month()) - 1
}

// Day truncates t to midnight of its calendar day in UTC
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
