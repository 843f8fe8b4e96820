package submit_booking

import (
	"fmt"
	"strings"
)

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidInput)
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	return nil
}
