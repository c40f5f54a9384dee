package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	valid := []string{
		"0 3 * * *",  // daily at 03:00
		"0 * * * *",  // hourly
		"*/5 * * * *",
		"30 2 * * 0",
	}
	for _, schedule := range valid {
		assert.NoError(t, ValidateCronSchedule(schedule), schedule)
	}

	invalid := []string{
		"",
		"not a schedule",
		"0 3 * *",       // too few fields
		"0 3 * * * * *", // too many fields
		"61 * * * *",
	}
	for _, schedule := range invalid {
		assert.Error(t, ValidateCronSchedule(schedule), schedule)
	}
}

func TestGetNextRunTime(t *testing.T) {
	next, err := GetNextRunTime("0 3 * * *")
	require.NoError(t, err)
	require.NotNil(t, next)

	assert.True(t, next.After(time.Now()))
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 0, next.Minute())

	_, err = GetNextRunTime("bogus")
	assert.Error(t, err)
}
