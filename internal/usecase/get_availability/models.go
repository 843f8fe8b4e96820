package get_availability

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Request модель запроса карты доступности
type Request struct {
	ResourceID       int64             // ID ресурса
	Date             time.Time         // Дата (без времени, в часовом поясе арендатора)
	DurationOptionID int64             // Длительность для отметки слотов; 0 - самая короткая опция
	StartTime        *types.TimeString // Выбранное начало: если задано, в ответ добавляются варианты длительности
	Refresh          bool              // Игнорировать снимок зеркала и перечитать бэкенд
}

// Response карта доступности ресурса на дату
type Response struct {
	ResourceID      int64
	ResourceName    string
	Date            time.Time
	Policy          availability.UnreportedHourPolicy
	GridOpen        types.TimeString
	GridClose       types.TimeString
	Granularity     int
	DurationMinutes int // Длительность, для которой посчитано поле Slot.Feasible
	Hours           []domain.HourAvailability
	Slots           []Slot
	Reservations    []domain.Reservation
	Options         []availability.DurationChoice // Только при заданном StartTime
}

// Slot состояние слота сетки
type Slot struct {
	StartTime types.TimeString
	Fraction  float64
	HourOpen  bool
	Past      bool
	Reserved  bool
	Bookable  bool                // Можно начать бронирование минимальной гранулярности
	Feasible  bool                // Выполним интервал запрошенной длительности
	Reason    availability.Reason // Причина отказа для запрошенной длительности
}
