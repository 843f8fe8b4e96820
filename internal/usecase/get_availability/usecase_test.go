package get_availability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/internal/service/mirror"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
	"github.com/m04kA/SMC-SlotEngine/pkg/ptr"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type fakeMirror struct {
	reservations []domain.Reservation
	signal       []domain.HourAvailability
	mapErr       error
	refreshed    bool
}

func (f *fakeMirror) Resource(_ context.Context, id int64) (domain.Resource, error) {
	if id != 7 {
		return domain.Resource{}, fmt.Errorf("%w: id=%d", mirror.ErrResourceNotFound, id)
	}
	return domain.Resource{ID: 7, Name: "Корт 1", IsActive: true}, nil
}

func (f *fakeMirror) Catalogue(context.Context) ([]domain.DurationOption, error) {
	return []domain.DurationOption{
		{ID: 3, DurationMinutes: 120, Price: 2800, IsActive: true},
		{ID: 1, DurationMinutes: 60, Price: 1500, IsActive: true},
		{ID: 2, DurationMinutes: 90, Price: 2200, IsActive: true},
	}, nil
}

func (f *fakeMirror) Map(_ context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error) {
	if f.mapErr != nil {
		return nil, f.mapErr
	}
	f.refreshed = refresh
	return availability.NewBuilder(slotgrid.Default(), availability.AssumeOpen).Build(availability.Input{
		ResourceID:   resourceID,
		Date:         date,
		Now:          time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Signal:       f.signal,
		Reservations: f.reservations,
	}), nil
}

type fakeMetrics struct {
	reasons map[string]int
}

func (f *fakeMetrics) IncFeasibility(reason string) {
	f.reasons[reason]++
}

func findSlot(t *testing.T, slots []Slot, start string) Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime.String() == start {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return Slot{}
}

func TestExecute_DefaultDuration(t *testing.T) {
	m := &fakeMirror{
		reservations: []domain.Reservation{
			{ID: 1, ResourceID: 7, Date: testDate, StartTime: "10:00", EndTime: "11:00", Status: domain.ReservationActive},
		},
	}
	uc := NewUseCase(m, nil, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{ResourceID: 7, Date: testDate})
	require.NoError(t, err)

	assert.Equal(t, "Корт 1", resp.ResourceName)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 30, resp.Granularity)
	assert.Equal(t, "08:00", resp.GridOpen.String())
	assert.Len(t, resp.Slots, 32)
	assert.Len(t, resp.Reservations, 1)
	assert.Nil(t, resp.Options)

	// 09:30 + 60 пересекается с бронированием 10:00-11:00
	s := findSlot(t, resp.Slots, "09:30")
	assert.True(t, s.Bookable)
	assert.False(t, s.Feasible)
	assert.Equal(t, availability.ReasonOverlap, s.Reason)

	s = findSlot(t, resp.Slots, "10:30")
	assert.True(t, s.Reserved)
	assert.False(t, s.Bookable)

	// последний час закрывается ровно на границе окна
	s = findSlot(t, resp.Slots, "23:00")
	assert.True(t, s.Feasible)
	s = findSlot(t, resp.Slots, "23:30")
	assert.Equal(t, availability.ReasonOutsideWindow, s.Reason)
}

func TestExecute_StartTimeOptions(t *testing.T) {
	m := &fakeMirror{
		reservations: []domain.Reservation{
			{ID: 1, ResourceID: 7, Date: testDate, StartTime: "11:30", EndTime: "12:30", Status: domain.ReservationActive},
		},
	}
	metrics := &fakeMetrics{reasons: map[string]int{}}
	uc := NewUseCase(m, metrics, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{
		ResourceID:       7,
		Date:             testDate,
		DurationOptionID: 2,
		StartTime:        ptr.Ptr(types.TimeString("10:00")),
		Refresh:          true,
	})
	require.NoError(t, err)
	assert.True(t, m.refreshed)
	assert.Equal(t, 90, resp.DurationMinutes)

	require.Len(t, resp.Options, 3)
	assert.Equal(t, 60, resp.Options[0].Option.DurationMinutes)
	assert.True(t, resp.Options[0].Feasible)
	assert.True(t, resp.Options[1].Feasible)
	assert.Equal(t, "11:30", resp.Options[1].EndTime.String())
	assert.False(t, resp.Options[2].Feasible)
	assert.Equal(t, availability.ReasonOverlap, resp.Options[2].Reason)

	assert.Equal(t, 2, metrics.reasons[""])
	assert.Equal(t, 1, metrics.reasons["overlap"])
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mapErr  error
		req     *Request
		wantErr error
	}{
		{
			name:    "invalid resource id",
			req:     &Request{ResourceID: 0, Date: testDate},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			req:     &Request{ResourceID: 7},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "invalid start time",
			req:     &Request{ResourceID: 7, Date: testDate, StartTime: ptr.Ptr(types.TimeString("25:00"))},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown resource",
			req:     &Request{ResourceID: 8, Date: testDate},
			wantErr: ErrResourceNotFound,
		},
		{
			name:    "unknown duration option",
			req:     &Request{ResourceID: 7, Date: testDate, DurationOptionID: 99},
			wantErr: ErrDurationOptionNotFound,
		},
		{
			name:    "backend unavailable",
			mapErr:  fmt.Errorf("mirror: get availability: %w", backend.ErrUnavailable),
			req:     &Request{ResourceID: 7, Date: testDate},
			wantErr: ErrUnavailable,
		},
		{
			name:    "invalid backend payload",
			mapErr:  fmt.Errorf("mirror: get reservations: %w", backend.ErrInvalidResponse),
			req:     &Request{ResourceID: 7, Date: testDate},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewUseCase(&fakeMirror{mapErr: tt.mapErr}, nil, logger.NewNop())

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
