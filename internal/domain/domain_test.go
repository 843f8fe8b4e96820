package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

func TestSortDurationOptions(t *testing.T) {
	options := []DurationOption{
		{ID: 3, DurationMinutes: 120, IsActive: true},
		{ID: 2, DurationMinutes: 60, IsActive: true},
		{ID: 9, DurationMinutes: 30, IsActive: false},
		{ID: 1, DurationMinutes: 60, IsActive: true},
		{ID: 4, DurationMinutes: 90, IsActive: true},
	}

	sorted := SortDurationOptions(options)

	ids := make([]int64, 0, len(sorted))
	for _, opt := range sorted {
		ids = append(ids, opt.ID)
	}
	assert.Equal(t, []int64{1, 2, 4, 3}, ids)
	assert.Equal(t, int64(3), options[0].ID, "input must stay untouched")

	shortest, ok := ShortestDurationOption(options)
	assert.True(t, ok)
	assert.Equal(t, int64(1), shortest.ID)

	_, ok = FindDurationOption(options, 9)
	assert.False(t, ok, "inactive option is not offered")
}

func TestReservation_Overlaps(t *testing.T) {
	r := Reservation{
		StartTime: types.MustTimeString("10:00"),
		EndTime:   types.MustTimeString("11:30"),
		Status:    ReservationActive,
	}

	tests := []struct {
		start, end string
		want       bool
	}{
		{"09:00", "10:00", false},
		{"09:00", "10:30", true},
		{"11:30", "12:00", false},
		{"10:30", "11:00", true},
		{"09:00", "12:00", true},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Overlaps(types.MustTimeString(tt.start), types.MustTimeString(tt.end)))
		})
	}
}

func TestReservation_IsActive(t *testing.T) {
	assert.True(t, (&Reservation{Status: ReservationActive}).IsActive())
	assert.True(t, (&Reservation{Status: ReservationCompleted}).IsActive())
	assert.True(t, (&Reservation{Status: ReservationNoShow}).IsActive())
	assert.False(t, (&Reservation{Status: ReservationCancelled}).IsActive())
}

func TestSameDate(t *testing.T) {
	msk := time.FixedZone("MSK", 3*3600)
	a := time.Date(2026, 3, 2, 23, 59, 0, 0, msk)
	b := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, b))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, msk), DateOnly(a))
}
