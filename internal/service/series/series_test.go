package series

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	seriesRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/series"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
	"github.com/m04kA/SMC-SlotEngine/pkg/logger"
	"github.com/m04kA/SMC-SlotEngine/pkg/ptr"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	series      map[int64]*domain.RecurringSeries
	occurrences []domain.SeriesOccurrence
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{series: map[int64]*domain.RecurringSeries{}, nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, s *domain.RecurringSeries) (*domain.RecurringSeries, error) {
	s.ID = r.nextID
	r.nextID++
	stored := *s
	r.series[s.ID] = &stored
	return s, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.RecurringSeries, error) {
	s, ok := r.series[id]
	if !ok {
		return nil, seriesRepo.ErrSeriesNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeRepo) ListActive(context.Context) ([]*domain.RecurringSeries, error) {
	result := make([]*domain.RecurringSeries, 0)
	for id := int64(1); id < r.nextID; id++ {
		if s, ok := r.series[id]; ok && s.IsActive {
			copied := *s
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRepo) Deactivate(_ context.Context, id int64) error {
	s, ok := r.series[id]
	if !ok {
		return seriesRepo.ErrSeriesNotFound
	}
	s.IsActive = false
	return nil
}

func (r *fakeRepo) UpdateSeriesEnd(_ context.Context, id int64, end time.Time) error {
	s, ok := r.series[id]
	if !ok {
		return seriesRepo.ErrSeriesNotFound
	}
	s.SeriesEnd = &end
	return nil
}

func (r *fakeRepo) MarkGenerated(_ context.Context, id int64, date time.Time) error {
	s, ok := r.series[id]
	if !ok {
		return seriesRepo.ErrSeriesNotFound
	}
	s.LastGeneratedDate = &date
	return nil
}

func (r *fakeRepo) RecordOccurrence(_ context.Context, o domain.SeriesOccurrence) error {
	r.occurrences = append(r.occurrences, o)
	return nil
}

func (r *fakeRepo) ListOccurrences(_ context.Context, seriesID int64) ([]domain.SeriesOccurrence, error) {
	result := make([]domain.SeriesOccurrence, 0)
	for _, o := range r.occurrences {
		if o.SeriesID == seriesID {
			result = append(result, o)
		}
	}
	return result, nil
}

type fakeBackend struct {
	created     []backend.CreateReservationRequest
	errByDate   map[string]error
	batch       *backend.SeriesResult
	batchCalled bool
}

func (b *fakeBackend) CreateReservation(_ context.Context, req backend.CreateReservationRequest) (*domain.Reservation, error) {
	if err := b.errByDate[req.Date.Format(domain.DateFormat)]; err != nil {
		return nil, err
	}
	b.created = append(b.created, req)
	end, _ := req.StartTime.AddMinutes(60)
	return &domain.Reservation{
		ID:         int64(1000 + len(b.created)),
		ResourceID: req.ResourceID,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    end,
		Status:     domain.ReservationActive,
	}, nil
}

func (b *fakeBackend) CreateSeries(context.Context, backend.CreateSeriesRequest) (*backend.SeriesResult, error) {
	b.batchCalled = true
	return b.batch, nil
}

type fakeMirror struct {
	now          time.Time
	reservations map[string][]domain.Reservation
	invalidated  []string
}

func (m *fakeMirror) Catalogue(context.Context) ([]domain.DurationOption, error) {
	return []domain.DurationOption{
		{ID: 1, DurationMinutes: 60, Price: 1500, IsActive: true},
		{ID: 2, DurationMinutes: 90, Price: 2200, IsActive: true},
	}, nil
}

func (m *fakeMirror) Map(_ context.Context, resourceID int64, date time.Time, _ bool) (*availability.Map, error) {
	return availability.NewBuilder(slotgrid.Default(), availability.AssumeOpen).Build(availability.Input{
		ResourceID:   resourceID,
		Date:         date,
		Now:          m.now,
		Reservations: m.reservations[date.Format(domain.DateFormat)],
	}), nil
}

func (m *fakeMirror) Invalidate(_ context.Context, _ int64, date time.Time) {
	m.invalidated = append(m.invalidated, date.Format(domain.DateFormat))
}

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type countingMetrics struct {
	outcomes map[string]int
}

func (c *countingMetrics) IncSeriesOccurrence(outcome string) {
	c.outcomes[outcome]++
}

type fixture struct {
	repo    *fakeRepo
	backend *fakeBackend
	mirror  *fakeMirror
	metrics *countingMetrics
	svc     *Service
}

func newFixture(now time.Time, delegate bool) *fixture {
	return newFixtureIn(now, time.UTC, delegate)
}

func newFixtureIn(now time.Time, loc *time.Location, delegate bool) *fixture {
	f := &fixture{
		repo:    newFakeRepo(),
		backend: &fakeBackend{errByDate: map[string]error{}},
		mirror:  &fakeMirror{now: now, reservations: map[string][]domain.Reservation{}},
		metrics: &countingMetrics{outcomes: map[string]int{}},
	}
	f.svc = NewService(
		f.repo,
		f.backend,
		f.mirror,
		passTx{},
		rate.NewLimiter(rate.Inf, 1),
		f.metrics,
		Options{Axis: slotgrid.Default(), Location: loc, DelegateToBackend: delegate},
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})
	return f
}

func mondayRequest() *CreateRequest {
	return &CreateRequest{
		ResourceID:       7,
		DurationOptionID: 1,
		Weekday:          time.Monday,
		StartTime:        "18:00",
		SeriesStart:      day(time.March, 2),
		HorizonWeeks:     8,
		Customer:         domain.Customer{Name: "Клуб", Phone: "+7 900 000-00-00"},
	}
}

func TestExpandDates(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		start   time.Time
		weeks   int
		end     *time.Time
		want    []time.Time
	}{
		{
			name:    "start on weekday, horizon is exclusive",
			weekday: time.Monday,
			start:   day(time.March, 2),
			weeks:   2,
			want:    []time.Time{day(time.March, 2), day(time.March, 9)},
		},
		{
			name:    "start before weekday",
			weekday: time.Friday,
			start:   day(time.March, 2),
			weeks:   2,
			want:    []time.Time{day(time.March, 6), day(time.March, 13)},
		},
		{
			name:    "series end is inclusive",
			weekday: time.Monday,
			start:   day(time.March, 2),
			weeks:   8,
			end:     ptr.Ptr(day(time.March, 16)),
			want:    []time.Time{day(time.March, 2), day(time.March, 9), day(time.March, 16)},
		},
		{
			name:    "series end before first match",
			weekday: time.Sunday,
			start:   day(time.March, 2),
			weeks:   4,
			end:     ptr.Ptr(day(time.March, 7)),
			want:    []time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandDates(tt.weekday, tt.start, tt.weeks, tt.end))
		})
	}
}

func TestExpandDates_Ordered(t *testing.T) {
	dates := ExpandDates(time.Wednesday, day(time.January, 1), 52, nil)
	require.Len(t, dates, 52)
	for i, d := range dates {
		assert.Equal(t, time.Wednesday, d.Weekday())
		if i > 0 {
			assert.Equal(t, 7*24*time.Hour, d.Sub(dates[i-1]))
		}
	}
}

func TestDatesBetween_CalendarDays(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	local := func(m time.Month, d int) time.Time {
		return time.Date(2026, m, d, 0, 0, 0, 0, brt)
	}

	// граница из хранилища (полночь UTC) и граница арендатора (полночь BRT) задают одни и те же дни
	dates := DatesBetween(time.Monday, day(time.March, 2), local(time.March, 16), nil)
	assert.Equal(t, []time.Time{day(time.March, 2), day(time.March, 9)}, dates)

	dates = DatesBetween(time.Monday, local(time.March, 2), local(time.March, 30), ptr.Ptr(day(time.March, 9)))
	assert.Equal(t, []time.Time{local(time.March, 2), local(time.March, 9)}, dates)
}

func TestCreate_SkipsBookedWeek(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
	f.mirror.reservations["2026-03-16"] = []domain.Reservation{{
		ID: 1, ResourceID: 7, Date: day(time.March, 16), StartTime: "18:00", EndTime: "19:00", Status: domain.ReservationActive,
	}}

	result, err := f.svc.Create(context.Background(), mondayRequest())
	require.NoError(t, err)

	assert.Equal(t, 8, result.Requested)
	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Zero(t, result.Failed)
	assert.Len(t, result.Reservations, 7)

	require.Len(t, result.Occurrences, 8)
	assert.Equal(t, domain.OccurrenceSkipped, result.Occurrences[2].Outcome)
	assert.Equal(t, "overlap", result.Occurrences[2].Reason)
	assert.Equal(t, domain.OccurrenceCreated, result.Occurrences[7].Outcome)

	for _, req := range f.backend.created {
		assert.Equal(t, time.Monday, req.Date.Weekday())
		assert.NotEqual(t, "2026-03-16", req.Date.Format(domain.DateFormat))
	}

	stored := f.repo.series[result.Series.ID]
	require.NotNil(t, stored.LastGeneratedDate)
	assert.Equal(t, day(time.April, 26), *stored.LastGeneratedDate)
	assert.Len(t, f.repo.occurrences, 8)
	assert.Equal(t, 7, f.metrics.outcomes["created"])
	assert.Equal(t, 1, f.metrics.outcomes["skipped"])
}

func TestCreate_BackendOutcomes(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
	f.backend.errByDate["2026-03-09"] = fmt.Errorf("%w: taken", backend.ErrConflict)
	f.backend.errByDate["2026-03-23"] = fmt.Errorf("%w: timeout", backend.ErrUnavailable)

	req := mondayRequest()
	req.HorizonWeeks = 4

	result, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 4, result.Requested)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, f.mirror.invalidated, "2026-03-09")
}

func TestCreate_IdempotencyKeyIsStablePerDate(t *testing.T) {
	assert.Equal(t, occurrenceKey(3, day(time.March, 2)), occurrenceKey(3, day(time.March, 2)))
	assert.NotEqual(t, occurrenceKey(3, day(time.March, 2)), occurrenceKey(3, day(time.March, 9)))
	assert.NotEqual(t, occurrenceKey(3, day(time.March, 2)), occurrenceKey(4, day(time.March, 2)))
}

func TestCreate_InvalidRule(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateRequest)
	}{
		{name: "off grid start", modify: func(r *CreateRequest) { r.StartTime = "18:15" }},
		{name: "ends after close", modify: func(r *CreateRequest) { r.StartTime = "23:30" }},
		{name: "unknown option", modify: func(r *CreateRequest) { r.DurationOptionID = 9 }},
		{name: "horizon too long", modify: func(r *CreateRequest) { r.HorizonWeeks = 53 }},
		{name: "end before start", modify: func(r *CreateRequest) { r.SeriesEnd = ptr.Ptr(day(time.February, 1)) }},
		{name: "missing phone", modify: func(r *CreateRequest) { r.Customer.Phone = "" }},
		{name: "bad weekday", modify: func(r *CreateRequest) { r.Weekday = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
			req := mondayRequest()
			tt.modify(req)

			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRule)
			assert.Empty(t, f.repo.series)
		})
	}
}

func TestCreate_DefaultHorizon(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
	req := mondayRequest()
	req.HorizonWeeks = 0

	result, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHorizonWeeks, result.Series.HorizonWeeks)
	assert.Equal(t, domain.DefaultHorizonWeeks, result.Requested)
}

func TestCreate_Delegated(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), true)
	f.backend.batch = &backend.SeriesResult{Created: 7, Skipped: 1}

	result, err := f.svc.Create(context.Background(), mondayRequest())
	require.NoError(t, err)

	assert.True(t, f.backend.batchCalled)
	assert.Empty(t, f.backend.created)
	assert.True(t, result.Delegated)
	assert.Equal(t, 8, result.Requested)
	assert.Equal(t, 7, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, f.mirror.invalidated, 8)
}

func TestDeactivate_StopsExtension(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, false)

	result, err := f.svc.Create(context.Background(), mondayRequest())
	require.NoError(t, err)
	require.NoError(t, f.svc.Deactivate(context.Background(), result.Series.ID))

	f.svc.WithTimeProvider(fixedTime{now: time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)})
	created, err := f.svc.ExtendActive(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	// уже созданные бронирования остаются
	assert.Len(t, f.backend.created, 8)

	assert.ErrorIs(t, f.svc.Deactivate(context.Background(), 99), ErrSeriesNotFound)
}

func TestExtendActive_RollsHorizon(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)

	result, err := f.svc.Create(context.Background(), mondayRequest())
	require.NoError(t, err)
	require.Equal(t, 8, result.Created)

	now := time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC)
	f.svc.WithTimeProvider(fixedTime{now: now})
	f.mirror.now = now

	created, err := f.svc.ExtendActive(context.Background())
	require.NoError(t, err)
	// Понедельники с 27 апреля по 8 июня
	assert.Equal(t, 7, created)

	stored := f.repo.series[result.Series.ID]
	assert.Equal(t, day(time.June, 14), *stored.LastGeneratedDate)

	// Повторный запуск ничего не создает
	created, err = f.svc.ExtendActive(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestExtendActive_NegativeOffsetTimezone(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, brt)
	f := newFixtureIn(now, brt, false)

	// даты из хранилища приходят полуночью UTC
	f.repo.series[1] = &domain.RecurringSeries{
		ID:                1,
		ResourceID:        7,
		DurationOptionID:  1,
		Weekday:           time.Monday,
		StartTime:         "18:00",
		HorizonWeeks:      2,
		SeriesStart:       day(time.March, 2),
		IsActive:          true,
		LastGeneratedDate: ptr.Ptr(day(time.March, 2)),
		Customer:          domain.Customer{Name: "Клуб", Phone: "+7 900 000-00-00"},
	}
	f.repo.nextID = 2

	created, err := f.svc.ExtendActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, f.backend.created, 1)
	assert.Equal(t, "2026-03-09", f.backend.created[0].Date.Format(domain.DateFormat))

	stored := f.repo.series[1]
	assert.Equal(t, "2026-03-15", stored.LastGeneratedDate.Format(domain.DateFormat))
}

func TestTruncate(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)
	req := mondayRequest()
	req.SeriesEnd = ptr.Ptr(day(time.April, 20))

	result, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	id := result.Series.ID

	_, err = f.svc.Truncate(context.Background(), id, day(time.May, 1))
	assert.ErrorIs(t, err, ErrInvalidTruncate)

	_, err = f.svc.Truncate(context.Background(), id, day(time.February, 1))
	assert.ErrorIs(t, err, ErrInvalidTruncate)

	updated, err := f.svc.Truncate(context.Background(), id, day(time.March, 20))
	require.NoError(t, err)
	assert.Equal(t, day(time.March, 20), *updated.SeriesEnd)

	require.NoError(t, f.svc.Deactivate(context.Background(), id))
	_, err = f.svc.Truncate(context.Background(), id, day(time.March, 10))
	assert.ErrorIs(t, err, ErrSeriesInactive)

	_, err = f.svc.Truncate(context.Background(), 404, day(time.March, 10))
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}

func TestGet(t *testing.T) {
	f := newFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), false)

	result, err := f.svc.Create(context.Background(), mondayRequest())
	require.NoError(t, err)

	details, err := f.svc.Get(context.Background(), result.Series.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, details.Series.Weekday)
	assert.Len(t, details.Occurrences, 8)

	_, err = f.svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
}
