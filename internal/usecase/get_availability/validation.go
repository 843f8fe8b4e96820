package get_availability

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationOptionID < 0 {
		return fmt.Errorf("%w: durationOptionID must not be negative", ErrInvalidInput)
	}

	if req.StartTime != nil {
		if err := req.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
		}
	}

	return nil
}
