package series

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
	"github.com/m04kA/SMC-SlotEngine/internal/slotgrid"
)

// validateRule проверяет правило и возвращает выбранную опцию длительности
func validateRule(req *CreateRequest, axis slotgrid.Axis, catalogue []domain.DurationOption) (domain.DurationOption, error) {
	if req.ResourceID <= 0 {
		return domain.DurationOption{}, fmt.Errorf("%w: resourceID must be positive", ErrInvalidRule)
	}

	if req.Weekday < time.Sunday || req.Weekday > time.Saturday {
		return domain.DurationOption{}, fmt.Errorf("%w: weekday must be in 0..6", ErrInvalidRule)
	}

	if req.HorizonWeeks < domain.MinHorizonWeeks || req.HorizonWeeks > domain.MaxHorizonWeeks {
		return domain.DurationOption{}, fmt.Errorf("%w: horizonWeeks must be in %d..%d",
			ErrInvalidRule, domain.MinHorizonWeeks, domain.MaxHorizonWeeks)
	}

	if req.SeriesStart.IsZero() {
		return domain.DurationOption{}, fmt.Errorf("%w: seriesStart is required", ErrInvalidRule)
	}

	if req.SeriesEnd != nil && domain.DateOnly(*req.SeriesEnd).Before(domain.DateOnly(req.SeriesStart)) {
		return domain.DurationOption{}, fmt.Errorf("%w: seriesEnd is before seriesStart", ErrInvalidRule)
	}

	option, ok := domain.FindDurationOption(catalogue, req.DurationOptionID)
	if !ok {
		return domain.DurationOption{}, fmt.Errorf("%w: duration option id=%d not found", ErrInvalidRule, req.DurationOptionID)
	}

	if _, err := axis.TimeToSlot(req.StartTime); err != nil {
		return domain.DurationOption{}, fmt.Errorf("%w: startTime: %v", ErrInvalidRule, err)
	}

	end, err := req.StartTime.AddMinutes(option.DurationMinutes)
	if err != nil || !axis.Contains(req.StartTime, end) {
		return domain.DurationOption{}, fmt.Errorf("%w: %s + %d minutes is outside the booking window",
			ErrInvalidRule, req.StartTime, option.DurationMinutes)
	}

	if err := selection.ValidateCustomer(req.Customer); err != nil {
		return domain.DurationOption{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}

	return option, nil
}
