package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueDate(t *testing.T) {
	tests := []struct {
		name       string
		dayOfMonth int
		in         time.Time
		wantDay    int
	}{
		{name: "plain day", dayOfMonth: 15, in: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), wantDay: 15},
		{name: "day 31 in a 30-day month clamps", dayOfMonth: 31, in: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), wantDay: 30},
		{name: "day 31 in february clamps", dayOfMonth: 31, in: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), wantDay: 28},
		{name: "day 29 in a leap february", dayOfMonth: 29, in: time.Date(2028, 2, 1, 0, 0, 0, 0, time.UTC), wantDay: 29},
		{name: "day 30 in a non-leap february clamps", dayOfMonth: 30, in: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), wantDay: 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueDate(tt.dayOfMonth, tt.in)
			assert.Equal(t, tt.wantDay, got.Day())
			assert.Equal(t, tt.in.Month(), got.Month())
			assert.Equal(t, tt.in.Year(), got.Year())
		})
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(10, nil, now), "never generated and day reached")
	assert.True(t, IsDue(5, &lastMonth, now), "last generation was a previous month")
	assert.False(t, IsDue(5, &thisMonth, now), "already generated this month")
	assert.False(t, IsDue(20, nil, now), "day not reached yet")
	assert.True(t, IsDue(10, nil, time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)), "due on the day itself")
}

func TestIsDueClampedDay(t *testing.T) {
	// A day-31 template in a 30-day month becomes due on the 30th.
	now := time.Date(2026, 4, 30, 8, 0, 0, 0, time.UTC)
	assert.True(t, IsDue(31, nil, now))

	dayBefore := time.Date(2026, 4, 29, 23, 0, 0, 0, time.UTC)
	assert.False(t, IsDue(31, nil, dayBefore))
}
