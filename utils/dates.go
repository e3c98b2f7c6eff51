package utils

import "time"

const dateLayout = "2006-01-02"

// DateUTC formats t as a YYYY-MM-DD calendar date in UTC. All activity
// dates are stored and compared in this form so day boundaries are
// timezone independent.
func DateUTC(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// PrevDateUTC returns the calendar date one day before t, in UTC.
func PrevDateUTC(t time.Time) string {
	return t.UTC().AddDate(0, 0, -1).Format(dateLayout)
}
