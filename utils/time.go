// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// BranchTimezone is the fixed civil timezone for all queue dating. Ticket
// numbering restarts per calendar date in this zone regardless of where the
// server runs.
const BranchTimezone = "Asia/Manila"

// CivilDateLayout is the zero-padded calendar date format used as the ticket
// numbering partition key.
const CivilDateLayout = "2006-01-02"

// CivilDateTimeLayout is the full timestamp format used on the wire.
const CivilDateTimeLayout = "2006-01-02 15:04:05"

// ClockTimeLayout is the time-of-day format used for serving timestamps.
const ClockTimeLayout = "15:04:05"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// BranchNow returns the current time in the branch timezone.
func BranchNow() (time.Time, error) {
	loc, err := time.LoadLocation(BranchTimezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// CivilDate formats a time as a zero-padded YYYY-MM-DD calendar date.
func CivilDate(t time.Time) string {
	return t.Format(CivilDateLayout)
}

// CivilDateTime formats a time as a zero-padded YYYY-MM-DD HH:MM:SS timestamp.
func CivilDateTime(t time.Time) string {
	return t.Format(CivilDateTimeLayout)
}

// ClockTime formats a time as a zero-padded HH:MM:SS time of day.
func ClockTime(t time.Time) string {
	return t.Format(ClockTimeLayout)
}

// ClockTimePtr formats an optional time as HH:MM:SS, nil in for nil out.
func ClockTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := ClockTime(*t)
	return &s
}

// TimeToUTC converts a time to UTC if it's not already
func TimeToUTC(t time.Time) time.Time {
	return t.UTC()
}

// TimeToUTCPtr converts a time pointer to UTC if it's not already
func TimeToUTCPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := TimeToUTC(*t)
	return &utc
}
