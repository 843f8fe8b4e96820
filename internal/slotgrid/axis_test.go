package slotgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

func TestDefault(t *testing.T) {
	axis := Default()

	assert.Equal(t, types.TimeString("08:00"), axis.Open())
	assert.Equal(t, types.TimeString("24:00"), axis.Close())
	assert.Equal(t, 30, axis.Granularity())
	assert.Equal(t, 32, axis.SlotCount())
}

func TestNewAxis_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
		granularity int
	}{
		{"zero granularity", "08:00", "24:00", 0},
		{"inverted", "20:00", "08:00", 30},
		{"empty window", "08:00", "08:00", 30},
		{"open off grid", "08:15", "24:00", 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAxis(types.MustTimeString(tt.open), types.MustTimeString(tt.close), tt.granularity)
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}
}

func TestAxis_InverseMapping(t *testing.T) {
	axis := Default()

	for i, tm := range axis.Times() {
		slot, err := axis.TimeToSlot(tm)
		require.NoError(t, err)
		assert.Equal(t, i, slot)

		back, err := axis.SlotToTime(slot)
		require.NoError(t, err)
		assert.Equal(t, tm, back)
	}
}

func TestAxis_TimeToSlot_Errors(t *testing.T) {
	axis := Default()

	_, err := axis.TimeToSlot("07:30")
	assert.ErrorIs(t, err, ErrOutOfWindow)

	_, err = axis.TimeToSlot("24:00")
	assert.ErrorIs(t, err, ErrOutOfWindow, "closing edge is not a slot start")

	_, err = axis.TimeToSlot("09:15")
	assert.ErrorIs(t, err, ErrOffGrid)

	_, err = axis.SlotToTime(axis.SlotCount())
	assert.ErrorIs(t, err, ErrOutOfWindow)

	_, err = axis.SlotToTime(-1)
	assert.ErrorIs(t, err, ErrOutOfWindow)
}

func TestAxis_SlotToFraction_Monotonic(t *testing.T) {
	axis := Default()

	prev := -1.0
	for i := 0; i < axis.SlotCount(); i++ {
		f, err := axis.SlotToFraction(i)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		assert.Greater(t, f, prev)
		prev = f
	}

	f, err := axis.SlotToFraction(16)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)
}

func TestAxis_ValidateDuration(t *testing.T) {
	axis := Default()

	assert.NoError(t, axis.ValidateDuration(60))
	assert.NoError(t, axis.ValidateDuration(90))
	assert.ErrorIs(t, axis.ValidateDuration(0), ErrInvalidDuration)
	assert.ErrorIs(t, axis.ValidateDuration(-30), ErrInvalidDuration)
	assert.ErrorIs(t, axis.ValidateDuration(45), ErrInvalidDuration)

	err := axis.ValidateCatalogue([]domain.DurationOption{
		{ID: 1, DurationMinutes: 60, IsActive: true},
		{ID: 2, DurationMinutes: 50, IsActive: false},
	})
	assert.NoError(t, err, "inactive options are ignored")

	err = axis.ValidateCatalogue([]domain.DurationOption{
		{ID: 3, DurationMinutes: 75, IsActive: true},
	})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestAxis_Contains(t *testing.T) {
	axis := Default()

	assert.True(t, axis.Contains("22:00", "24:00"))
	assert.False(t, axis.Contains("23:30", "24:30"))
	assert.False(t, axis.Contains("07:30", "08:30"))
}
