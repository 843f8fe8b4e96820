package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках, "24:00" - допустимая граница закрытия
	MinutesPerDay = 24 * 60

	timeLayout = "15:04"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате строки времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time string out of day range")
)

// TimeString время суток в формате "HH:MM" по локальным часам арендатора.
// Значение "24:00" обозначает конец дня и используется только как граница интервала.
type TimeString string

// NewTimeString создает TimeString из времени t (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	minutes, err := parseMinutes(s)
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(minutes)
}

// NewTimeStringFromMinutes создает TimeString из количества минут от полуночи (0..1440)
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustTimeString используется в тестах и для констант
func MustTimeString(s string) TimeString {
	t, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes возвращает количество минут от полуночи, -1 для некорректного значения
func (t TimeString) Minutes() int {
	minutes, err := parseMinutes(string(t))
	if err != nil {
		return -1
	}
	return minutes
}

// Hour возвращает час, которому принадлежит время
func (t TimeString) Hour() int {
	minutes := t.Minutes()
	if minutes < 0 {
		return -1
	}
	return minutes / 60
}

// AddMinutes прибавляет минуты, результат должен остаться в пределах суток
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := parseMinutes(string(t))
	if err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(current + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// IsOnGrid проверяет, что время кратно шагу сетки
func (t TimeString) IsOnGrid(granularity int) bool {
	minutes := t.Minutes()
	return minutes >= 0 && granularity > 0 && minutes%granularity == 0
}

// Validate проверяет формат значения
func (t TimeString) Validate() error {
	_, err := parseMinutes(string(t))
	return err
}

// String реализует fmt.Stringer
func (t TimeString) String() string {
	return string(t)
}

// Value реализует driver.Valuer (колонка TIME в PostgreSQL)
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan реализует sql.Scanner
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidTimeString, src)
	}
}

// parseMinutes разбирает "HH:MM" и "HH:MM:SS" без учета секунд
func parseMinutes(s string) (int, error) {
	if len(s) != 5 && len(s) != 8 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if s[2] != ':' || (len(s) == 8 && s[5] != ':') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hours, okH := twoDigits(s[0:2])
	minutes, okM := twoDigits(s[3:5])
	seconds, okS := 0, true
	if len(s) == 8 {
		seconds, okS = twoDigits(s[6:8])
	}
	if !okH || !okM || !okS {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if hours > 24 || (hours == 24 && (minutes != 0 || seconds != 0)) {
		return 0, fmt.Errorf("%w: %q", ErrTimeOutOfRange, s)
	}

	return hours*60 + minutes, nil
}

// twoDigits разбирает поле ровно из двух цифр ASCII, знаки не допускаются
func twoDigits(field string) (int, bool) {
	if len(field) != 2 {
		return 0, false
	}
	hi, lo := field[0], field[1]
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}
	return int(hi-'0')*10 + int(lo-'0'), true
}
