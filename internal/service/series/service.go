package series

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	seriesRepo "github.com/m04kA/SMC-SlotEngine/internal/infra/storage/series"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
)

// Service генератор повторяющихся серий бронирований
type Service struct {
	repo         Repository
	backend      BackendClient
	mirror       Mirror
	txManager    TransactionManager
	limiter      Limiter
	metrics      Metrics
	opts         Options
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает сервис серий
func NewService(
	repo Repository,
	backendClient BackendClient,
	mirror Mirror,
	txManager TransactionManager,
	limiter Limiter,
	metrics Metrics,
	opts Options,
	logger Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		repo:         repo,
		backend:      backendClient,
		mirror:       mirror,
		txManager:    txManager,
		limiter:      limiter,
		metrics:      metrics,
		opts:         opts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Create сохраняет правило и генерирует бронирования на горизонт.
// Занятые даты пропускаются, остальные продолжают создаваться.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Result, error) {
	if req.HorizonWeeks == 0 {
		req.HorizonWeeks = domain.DefaultHorizonWeeks
	}

	s.logger.Info("CreateSeries: resource=%d, option=%d, weekday=%s, start=%s, from=%s, weeks=%d",
		req.ResourceID, req.DurationOptionID, req.Weekday, req.StartTime,
		req.SeriesStart.Format(domain.DateFormat), req.HorizonWeeks)

	// 1. Проверяем правило по каталогу и сетке
	catalogue, err := s.mirror.Catalogue(ctx)
	if err != nil {
		return nil, s.backendError("CreateSeries", "catalogue", err)
	}

	option, err := validateRule(req, s.opts.Axis, catalogue)
	if err != nil {
		s.logger.Warn("CreateSeries: validation failed: %v", err)
		return nil, err
	}

	seriesStart := s.localDate(req.SeriesStart)
	var seriesEnd *time.Time
	if req.SeriesEnd != nil {
		end := s.localDate(*req.SeriesEnd)
		seriesEnd = &end
	}

	// 2. Сохраняем правило
	created, err := s.repo.Create(ctx, &domain.RecurringSeries{
		ResourceID:       req.ResourceID,
		DurationOptionID: option.ID,
		Weekday:          req.Weekday,
		StartTime:        req.StartTime,
		HorizonWeeks:     req.HorizonWeeks,
		SeriesStart:      seriesStart,
		SeriesEnd:        seriesEnd,
		IsActive:         true,
		Customer:         req.Customer,
	})
	if err != nil {
		s.logger.Error("CreateSeries: failed to save series: %v", err)
		return nil, fmt.Errorf("%w: save series: %v", ErrInternal, err)
	}

	// 3. Разворачиваем даты
	dates := ExpandDates(created.Weekday, created.SeriesStart, created.HorizonWeeks, created.SeriesEnd)
	windowEnd := created.SeriesStart.AddDate(0, 0, created.HorizonWeeks*domain.DaysPerWeek-1)

	// 4. Генерируем бронирования
	var result *Result
	if s.opts.DelegateToBackend {
		result, err = s.delegate(ctx, created, dates)
		if err != nil {
			return nil, err
		}
	} else {
		result = s.generate(ctx, created, option, dates)
	}
	result.Series = created

	s.markGenerated(ctx, created, windowEnd)

	s.logger.Info("CreateSeries: series id=%d: requested=%d, created=%d, skipped=%d, failed=%d",
		created.ID, result.Requested, result.Created, result.Skipped, result.Failed)

	return result, nil
}

// Get серия и журнал ее вхождений
func (s *Service) Get(ctx context.Context, id int64) (*Details, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.repoError("GetSeries", id, err)
	}
	s.localize(found)

	occurrences, err := s.repo.ListOccurrences(ctx, id)
	if err != nil {
		return nil, s.repoError("GetSeries", id, err)
	}

	return &Details{Series: found, Occurrences: occurrences}, nil
}

// Deactivate останавливает будущую генерацию. Созданные бронирования не отменяются.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return s.repoError("DeactivateSeries", id, err)
	}
	s.logger.Info("DeactivateSeries: series id=%d deactivated", id)
	return nil
}

// Truncate переносит окончание серии на более раннюю дату
func (s *Service) Truncate(ctx context.Context, id int64, newEnd time.Time) (*domain.RecurringSeries, error) {
	newEnd = s.localDate(newEnd)

	var updated *domain.RecurringSeries
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		found, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return s.repoError("TruncateSeries", id, err)
		}
		s.localize(found)

		if !found.IsActive {
			return fmt.Errorf("%w: id=%d", ErrSeriesInactive, id)
		}
		if newEnd.Before(found.SeriesStart) {
			return fmt.Errorf("%w: %s is before series start %s",
				ErrInvalidTruncate, newEnd.Format(domain.DateFormat), found.SeriesStart.Format(domain.DateFormat))
		}
		if found.SeriesEnd != nil && !newEnd.Before(*found.SeriesEnd) {
			return fmt.Errorf("%w: %s is not before %s",
				ErrInvalidTruncate, newEnd.Format(domain.DateFormat), found.SeriesEnd.Format(domain.DateFormat))
		}

		if err := s.repo.UpdateSeriesEnd(txCtx, id, newEnd); err != nil {
			return s.repoError("TruncateSeries", id, err)
		}

		found.SeriesEnd = &newEnd
		updated = found
		return nil
	})
	if err != nil {
		s.logger.Warn("TruncateSeries: series id=%d: %v", id, err)
		return nil, err
	}

	s.logger.Info("TruncateSeries: series id=%d now ends %s", id, newEnd.Format(domain.DateFormat))
	return updated, nil
}

// ExtendActive продлевает активные серии до сегодня + горизонт.
// Возвращает число созданных бронирований.
func (s *Service) ExtendActive(ctx context.Context) (int, error) {
	if s.opts.DelegateToBackend {
		return 0, nil
	}

	active, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ExtendSeries: failed to list active series: %v", err)
		return 0, fmt.Errorf("%w: list active series: %v", ErrInternal, err)
	}

	catalogue, err := s.mirror.Catalogue(ctx)
	if err != nil {
		return 0, s.backendError("ExtendSeries", "catalogue", err)
	}

	today := s.localDate(s.timeProvider.Now().In(s.opts.Location))
	total := 0

	for _, sr := range active {
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
		s.localize(sr)

		if sr.SeriesEnd != nil && sr.SeriesEnd.Before(today) {
			continue
		}

		option, ok := domain.FindDurationOption(catalogue, sr.DurationOptionID)
		if !ok {
			s.logger.Warn("ExtendSeries: series id=%d: duration option id=%d is no longer offered",
				sr.ID, sr.DurationOptionID)
			continue
		}

		from := sr.SeriesStart
		if sr.LastGeneratedDate != nil {
			from = sr.LastGeneratedDate.AddDate(0, 0, 1)
		}
		if from.Before(today) {
			from = today
		}
		until := today.AddDate(0, 0, sr.HorizonWeeks*domain.DaysPerWeek)

		dates := DatesBetween(sr.Weekday, from, until, sr.SeriesEnd)
		if len(dates) == 0 {
			continue
		}

		result := s.generate(ctx, sr, option, dates)
		s.markGenerated(ctx, sr, until.AddDate(0, 0, -1))
		total += result.Created

		s.logger.Info("ExtendSeries: series id=%d: created=%d, skipped=%d, failed=%d",
			sr.ID, result.Created, result.Skipped, result.Failed)
	}

	return total, nil
}

// Run периодически продлевает активные серии до отмены ctx
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExtendActive(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("ExtendSeries: %v", err)
			}
		}
	}
}

// generate создает бронирование на каждую выполнимую дату
func (s *Service) generate(ctx context.Context, sr *domain.RecurringSeries, option domain.DurationOption, dates []time.Time) *Result {
	result := &Result{Requested: len(dates)}

	for _, date := range dates {
		occurrence, reservation := s.occurrence(ctx, sr, option, date)

		if err := s.repo.RecordOccurrence(ctx, occurrence); err != nil {
			s.logger.Error("CreateSeries: series id=%d date=%s: failed to record occurrence: %v",
				sr.ID, date.Format(domain.DateFormat), err)
		}
		if s.metrics != nil {
			s.metrics.IncSeriesOccurrence(string(occurrence.Outcome))
		}

		result.add(occurrence, reservation)
	}

	return result
}

func (s *Service) occurrence(ctx context.Context, sr *domain.RecurringSeries, option domain.DurationOption, date time.Time) (domain.SeriesOccurrence, *domain.Reservation) {
	o := domain.SeriesOccurrence{SeriesID: sr.ID, Date: date}
	day := date.Format(domain.DateFormat)

	// 1. Проверяем дату по известным бронированиям
	am, err := s.mirror.Map(ctx, sr.ResourceID, date, false)
	if err != nil {
		s.logger.Warn("CreateSeries: series id=%d date=%s: failed to load availability: %v", sr.ID, day, err)
		o.Outcome, o.Reason = domain.OccurrenceFailed, err.Error()
		return o, nil
	}

	verdict := availability.Check(am, sr.StartTime, option.DurationMinutes)
	if !verdict.Feasible {
		s.logger.Info("CreateSeries: series id=%d date=%s: skipped (%s)", sr.ID, day, verdict.Reason)
		o.Outcome, o.Reason = domain.OccurrenceSkipped, string(verdict.Reason)
		return o, nil
	}

	// 2. Создаем бронирование с соблюдением лимита запросов
	if err := s.limiter.Wait(ctx); err != nil {
		o.Outcome, o.Reason = domain.OccurrenceFailed, err.Error()
		return o, nil
	}

	reservation, err := s.backend.CreateReservation(ctx, backend.CreateReservationRequest{
		ResourceID:       sr.ResourceID,
		DurationOptionID: option.ID,
		Date:             date,
		StartTime:        sr.StartTime,
		Customer:         sr.Customer,
		IdempotencyKey:   occurrenceKey(sr.ID, date),
	})
	switch {
	case err == nil:
		s.mirror.Invalidate(ctx, sr.ResourceID, date)
		o.Outcome, o.ReservationID = domain.OccurrenceCreated, &reservation.ID
		return o, reservation
	case errors.Is(err, backend.ErrConflict):
		s.logger.Info("CreateSeries: series id=%d date=%s: skipped, slot taken", sr.ID, day)
		s.mirror.Invalidate(ctx, sr.ResourceID, date)
		o.Outcome, o.Reason = domain.OccurrenceSkipped, string(availability.ReasonOverlap)
		return o, nil
	default:
		s.logger.Error("CreateSeries: series id=%d date=%s: failed to create reservation: %v", sr.ID, day, err)
		o.Outcome, o.Reason = domain.OccurrenceFailed, failureReason(err)
		return o, nil
	}
}

// delegate передает правило бэкенду для пакетной генерации
func (s *Service) delegate(ctx context.Context, sr *domain.RecurringSeries, dates []time.Time) (*Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	batch, err := s.backend.CreateSeries(ctx, backend.CreateSeriesRequest{
		ResourceID:       sr.ResourceID,
		DurationOptionID: sr.DurationOptionID,
		Weekday:          sr.Weekday,
		StartTime:        sr.StartTime,
		SeriesStart:      sr.SeriesStart,
		SeriesEnd:        sr.SeriesEnd,
		HorizonWeeks:     sr.HorizonWeeks,
		Customer:         sr.Customer,
	})
	if err != nil {
		return nil, s.backendError("CreateSeries", "batch create", err)
	}

	for _, date := range dates {
		s.mirror.Invalidate(ctx, sr.ResourceID, date)
	}

	return &Result{
		Requested:    len(dates),
		Created:      batch.Created,
		Skipped:      batch.Skipped,
		Delegated:    true,
		Reservations: batch.Reservations,
	}, nil
}

func (s *Service) markGenerated(ctx context.Context, sr *domain.RecurringSeries, date time.Time) {
	if sr.SeriesEnd != nil && date.After(*sr.SeriesEnd) {
		date = *sr.SeriesEnd
	}
	if err := s.repo.MarkGenerated(ctx, sr.ID, date); err != nil {
		s.logger.Error("CreateSeries: series id=%d: failed to mark generated: %v", sr.ID, err)
		return
	}
	sr.LastGeneratedDate = &date
}

// localDate календарная дата в часовом поясе арендатора
func (s *Service) localDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.opts.Location)
}

// localize переносит даты серии из хранилища (полночь UTC) в часовой пояс арендатора
func (s *Service) localize(sr *domain.RecurringSeries) {
	sr.SeriesStart = s.localDate(sr.SeriesStart)
	if sr.SeriesEnd != nil {
		end := s.localDate(*sr.SeriesEnd)
		sr.SeriesEnd = &end
	}
	if sr.LastGeneratedDate != nil {
		last := s.localDate(*sr.LastGeneratedDate)
		sr.LastGeneratedDate = &last
	}
}

func (s *Service) repoError(op string, id int64, err error) error {
	if errors.Is(err, seriesRepo.ErrSeriesNotFound) {
		s.logger.Warn("%s: series id=%d not found", op, id)
		return fmt.Errorf("%w: id=%d", ErrSeriesNotFound, id)
	}
	s.logger.Error("%s: series id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func (s *Service) backendError(op, step string, err error) error {
	s.logger.Error("%s: failed to get %s: %v", op, step, err)
	switch {
	case errors.Is(err, backend.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, backend.ErrValidation):
		return fmt.Errorf("%w: %s", ErrInvalidRule, backend.MessageOf(err))
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
	}
}

// occurrenceKey ключ идемпотентности одной даты серии: повторная генерация не создает дубль
func occurrenceKey(seriesID int64, date time.Time) string {
	name := fmt.Sprintf("series:%d:%s", seriesID, date.Format(domain.DateFormat))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func failureReason(err error) string {
	if msg := backend.MessageOf(err); msg != "" {
		return msg
	}
	return err.Error()
}
