package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivilDateZeroPadding(t *testing.T) {
	d := time.Date(2025, time.March, 5, 8, 4, 9, 0, time.UTC)
	assert.Equal(t, "2025-03-05", CivilDate(d))
	assert.Equal(t, "2025-03-05 08:04:09", CivilDateTime(d))
	assert.Equal(t, "08:04:09", ClockTime(d))
}

func TestClockTimePtr(t *testing.T) {
	assert.Nil(t, ClockTimePtr(nil))

	d := time.Date(2025, time.March, 5, 14, 30, 0, 0, time.UTC)
	s := ClockTimePtr(&d)
	require.NotNil(t, s)
	assert.Equal(t, "14:30:00", *s)
}

func TestBranchNow(t *testing.T) {
	now, err := BranchNow()
	require.NoError(t, err)
	assert.Equal(t, BranchTimezone, now.Location().String())
}

func TestBranchDateRollsOverAtLocalMidnight(t *testing.T) {
	loc, err := time.LoadLocation(BranchTimezone)
	require.NoError(t, err)

	// 16:30 UTC is already past midnight in the branch timezone (UTC+8), so
	// the partition key must be the next calendar date.
	utc := time.Date(2025, time.March, 14, 16, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-14", CivilDate(utc))
	assert.Equal(t, "2025-03-15", CivilDate(utc.In(loc)))

	// Just before local midnight the date is unchanged
	utc = time.Date(2025, time.March, 14, 15, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-14", CivilDate(utc.In(loc)))
}
