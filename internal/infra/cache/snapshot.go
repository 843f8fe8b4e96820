package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

var (
	// ErrCache ошибка хранилища зеркала
	ErrCache = errors.New("cache: storage error")
	// ErrDecode снимок в хранилище поврежден
	ErrDecode = errors.New("cache: failed to decode snapshot")
)

// Key ключ зеркала: ресурс и календарный день
type Key struct {
	ResourceID int64
	Date       string // YYYY-MM-DD
}

// NewKey строит ключ из даты
func NewKey(resourceID int64, date time.Time) Key {
	return Key{ResourceID: resourceID, Date: date.Format(domain.DateFormat)}
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%s", k.ResourceID, k.Date)
}

// Snapshot данные бэкенда по ресурсу на дату. Заменяется только целиком.
type Snapshot struct {
	Key              Key
	DurationOptionID int64
	Signal           []domain.HourAvailability
	Reservations     []domain.Reservation
	FetchedAt        time.Time
}

// clone глубокая копия, чтобы читатели не видели чужих изменений
func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Signal = append([]domain.HourAvailability(nil), s.Signal...)
	c.Reservations = append([]domain.Reservation(nil), s.Reservations...)
	return &c
}
