package selection

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// ValidateCustomer имя и телефон обязательны, email необязателен
func ValidateCustomer(c domain.Customer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: name must not exceed %d characters", ErrValidation, domain.MaxCustomerNameLength)
	}

	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return fmt.Errorf("%w: phone is required", ErrValidation)
	}
	if len(phone) > domain.MaxCustomerPhoneLength || !isPhone(phone) {
		return fmt.Errorf("%w: phone has invalid format", ErrValidation)
	}

	if email := strings.TrimSpace(c.Email); email != "" {
		at := strings.Index(email, "@")
		if len(email) > domain.MaxCustomerEmailLength || at <= 0 || at == len(email)-1 {
			return fmt.Errorf("%w: email has invalid format", ErrValidation)
		}
	}

	return nil
}

func isPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 5
}
