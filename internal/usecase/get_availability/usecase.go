package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/internal/service/mirror"
)

// UseCase use case для получения карты доступности ресурса на дату
type UseCase struct {
	mirror  Mirror
	metrics Metrics
	logger  Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(mirror Mirror, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		mirror:  mirror,
		metrics: metrics,
		logger:  logger,
	}
}

// Execute выполняет use case получения карты доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: resource=%d, date=%s, option=%d, refresh=%t",
		req.ResourceID, req.Date.Format(domain.DateFormat), req.DurationOptionID, req.Refresh)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем ресурс
	resource, err := uc.mirror.Resource(ctx, req.ResourceID)
	if err != nil {
		return nil, uc.mapError("resource", err)
	}

	// 3. Получаем каталог и выбираем длительность для отметки слотов
	catalogue, err := uc.mirror.Catalogue(ctx)
	if err != nil {
		return nil, uc.mapError("catalogue", err)
	}

	option, ok := domain.ShortestDurationOption(catalogue)
	if req.DurationOptionID != 0 {
		option, ok = domain.FindDurationOption(catalogue, req.DurationOptionID)
	}
	if !ok {
		uc.logger.Warn("GetAvailability: duration option id=%d not found", req.DurationOptionID)
		return nil, fmt.Errorf("%w: id=%d", ErrDurationOptionNotFound, req.DurationOptionID)
	}

	// 4. Строим карту доступности
	am, err := uc.mirror.Map(ctx, req.ResourceID, req.Date, req.Refresh)
	if err != nil {
		return nil, uc.mapError("availability", err)
	}

	// 5. Отмечаем выполнимость запрошенной длительности для каждого слота
	slots := make([]Slot, 0, len(am.Slots))
	for _, s := range am.Slots {
		verdict := availability.Check(am, s.StartTime, option.DurationMinutes)
		slots = append(slots, Slot{
			StartTime: s.StartTime,
			Fraction:  s.Fraction,
			HourOpen:  s.HourOpen,
			Past:      s.Past,
			Reserved:  s.Reserved,
			Bookable:  s.Bookable,
			Feasible:  verdict.Feasible,
			Reason:    verdict.Reason,
		})
	}

	axis := am.Axis()
	resp := &Response{
		ResourceID:      resource.ID,
		ResourceName:    resource.Name,
		Date:            am.Date,
		Policy:          am.Policy(),
		GridOpen:        axis.Open(),
		GridClose:       axis.Close(),
		Granularity:     axis.Granularity(),
		DurationMinutes: option.DurationMinutes,
		Hours:           am.Hours(),
		Slots:           slots,
		Reservations:    am.Reservations(),
	}

	// 6. Варианты длительности от выбранного начала
	if req.StartTime != nil {
		resp.Options = availability.ResolveDurations(am, *req.StartTime, catalogue)
		for _, choice := range resp.Options {
			uc.incFeasibility(string(choice.Reason))
		}
	}

	uc.logger.Info("GetAvailability: resource=%d, date=%s: %d slots, %d reservations",
		req.ResourceID, req.Date.Format(domain.DateFormat), len(slots), len(resp.Reservations))

	return resp, nil
}

func (uc *UseCase) mapError(step string, err error) error {
	switch {
	case errors.Is(err, mirror.ErrResourceNotFound), errors.Is(err, backend.ErrNotFound):
		uc.logger.Warn("GetAvailability: %s: not found: %v", step, err)
		return fmt.Errorf("%w: %v", ErrResourceNotFound, err)
	case errors.Is(err, backend.ErrUnavailable):
		uc.logger.Error("GetAvailability: %s: backend unavailable: %v", step, err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		uc.logger.Error("GetAvailability: failed to get %s: %v", step, err)
		return fmt.Errorf("%w: failed to get %s: %v", ErrInternal, step, err)
	}
}

func (uc *UseCase) incFeasibility(reason string) {
	if uc.metrics != nil {
		uc.metrics.IncFeasibility(reason)
	}
}
