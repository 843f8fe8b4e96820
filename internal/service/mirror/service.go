package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/infra/cache"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Service зеркало данных бэкенда для чтения: сигнал доступности и бронирования
// по ресурсу на дату. Снимки заменяются целиком, карты строятся из снимков.
type Service struct {
	backend      BackendClient
	cache        Cache
	builder      *availability.Builder
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает зеркало; metrics может быть nil
func NewService(
	backend BackendClient,
	cache Cache,
	builder *availability.Builder,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		backend:      backend,
		cache:        cache,
		builder:      builder,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Now текущий момент в часовом поясе арендатора
func (s *Service) Now() time.Time {
	return s.timeProvider.Now().In(s.location)
}

// Location часовой пояс арендатора
func (s *Service) Location() *time.Location {
	return s.location
}

// Builder построитель карт
func (s *Service) Builder() *availability.Builder {
	return s.builder
}

// Resources активные ресурсы
func (s *Service) Resources(ctx context.Context) ([]domain.Resource, error) {
	resources, err := s.backend.GetResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("mirror: get resources: %w", err)
	}

	active := make([]domain.Resource, 0, len(resources))
	for _, r := range resources {
		if r.IsActive {
			active = append(active, r)
		}
	}
	return active, nil
}

// Resource активный ресурс по ID
func (s *Service) Resource(ctx context.Context, resourceID int64) (domain.Resource, error) {
	resources, err := s.Resources(ctx)
	if err != nil {
		return domain.Resource{}, err
	}
	for _, r := range resources {
		if r.ID == resourceID {
			return r, nil
		}
	}
	return domain.Resource{}, fmt.Errorf("%w: id=%d", ErrResourceNotFound, resourceID)
}

// Catalogue активные опции длительности по возрастанию; каталог проверяется по сетке
func (s *Service) Catalogue(ctx context.Context) ([]domain.DurationOption, error) {
	options, err := s.backend.GetDurationOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("mirror: get duration options: %w", err)
	}

	sorted := domain.SortDurationOptions(options)
	if len(sorted) == 0 {
		return nil, ErrEmptyCatalogue
	}
	if err := s.builder.Axis().ValidateCatalogue(sorted); err != nil {
		s.logger.Error("Catalogue: rejected: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalogue, err)
	}
	return sorted, nil
}

// Map карта доступности ресурса на дату. refresh=true игнорирует сохраненный снимок.
func (s *Service) Map(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*availability.Map, error) {
	snapshot, err := s.Snapshot(ctx, resourceID, date, refresh)
	if err != nil {
		return nil, err
	}

	return s.builder.Build(availability.Input{
		ResourceID:   resourceID,
		Date:         date,
		Now:          s.Now(),
		Signal:       snapshot.Signal,
		Reservations: snapshot.Reservations,
	}), nil
}

// Snapshot данные бэкенда по ресурсу на дату, из хранилища или свежие
func (s *Service) Snapshot(ctx context.Context, resourceID int64, date time.Time, refresh bool) (*cache.Snapshot, error) {
	key := cache.NewKey(resourceID, date)

	if !refresh {
		snapshot, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			// Хранилище недоступно: читаем напрямую из бэкенда
			s.logger.Warn("Mirror: cache get key=%s failed: %v", key, err)
		}
		if ok {
			s.incLookup(true)
			return snapshot, nil
		}
	}
	s.incLookup(false)

	snapshot, err := s.fetch(ctx, key, resourceID, date)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, snapshot); err != nil {
		s.logger.Warn("Mirror: cache put key=%s failed: %v", key, err)
	}
	return snapshot, nil
}

// Invalidate сбрасывает снимок ресурса на дату после записи
func (s *Service) Invalidate(ctx context.Context, resourceID int64, date time.Time) {
	key := cache.NewKey(resourceID, date)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Error("Mirror: invalidate key=%s failed: %v", key, err)
		return
	}
	s.logger.Debug("Mirror: invalidated key=%s", key)
}

func (s *Service) fetch(ctx context.Context, key cache.Key, resourceID int64, date time.Time) (*cache.Snapshot, error) {
	catalogue, err := s.Catalogue(ctx)
	if err != nil {
		return nil, err
	}
	// Сигнал бэкенда считается для самой короткой длительности
	base := catalogue[0]

	signal, err := s.backend.GetAvailability(ctx, resourceID, base.ID, date)
	if err != nil {
		return nil, fmt.Errorf("mirror: get availability resource=%d date=%s: %w", resourceID, key.Date, err)
	}

	reservations, err := s.backend.GetReservations(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("mirror: get reservations resource=%d date=%s: %w", resourceID, key.Date, err)
	}

	s.logger.Debug("Mirror: fetched key=%s hours=%d reservations=%d", key, len(signal), len(reservations))

	return &cache.Snapshot{
		Key:              key,
		DurationOptionID: base.ID,
		Signal:           signal,
		Reservations:     reservations,
		FetchedAt:        s.timeProvider.Now(),
	}, nil
}

func (s *Service) incLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.IncMirrorLookup(hit)
	}
}
