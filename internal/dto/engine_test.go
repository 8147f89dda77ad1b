package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/scheduler-api/internal/models"
)

func TestIntervalPayloadToModel(t *testing.T) {
	interval, err := IntervalPayload{
		DayOfWeek: "MONDAY",
		StartTime: "09:00",
		EndTime:   "10:30",
	}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, models.Monday, interval.DayOfWeek)
	assert.Equal(t, 540, interval.StartMinute)
	assert.Equal(t, 630, interval.EndMinute)
}

func TestIntervalPayloadToModelRequiresDayQualifier(t *testing.T) {
	_, err := IntervalPayload{
		StartTime: "09:00",
		EndTime:   "10:00",
	}.ToModel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dayOfWeek or dayType")
}

func TestIntervalPayloadToModelDayTypeOnly(t *testing.T) {
	interval, err := IntervalPayload{
		DayType:   "DAILY",
		StartTime: "08:00",
		EndTime:   "09:00",
	}.ToModel()
	require.NoError(t, err)
	assert.Equal(t, models.DayTypeDaily, interval.DayType)
}

func TestIntervalPayloadToModelBadClock(t *testing.T) {
	_, err := IntervalPayload{
		DayOfWeek: "MONDAY",
		StartTime: "9am",
		EndTime:   "10:00",
	}.ToModel()
	require.Error(t, err)
}
