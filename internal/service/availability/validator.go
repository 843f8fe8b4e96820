package availability

import (
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// Reason причина отказа; пустая строка для выполнимого интервала
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonInvalidDuration Reason = "invalid_duration"
	ReasonOffGrid         Reason = "off_grid"
	ReasonOutsideWindow   Reason = "outside_window"
	ReasonPast            Reason = "past"
	ReasonOverlap         Reason = "overlap"
	ReasonClosed          Reason = "closed"
)

// Verdict результат проверки интервала. Отказ - обычное значение, а не ошибка.
type Verdict struct {
	Feasible bool
	Reason   Reason
	EndTime  types.TimeString
}

func reject(reason Reason, end types.TimeString) Verdict {
	return Verdict{Reason: reason, EndTime: end}
}

// Check проверяет, можно ли забронировать [start, start+duration) на карте m.
// Порядок проверок: длительность, сетка и окно, прошедшее время, пересечения, часы работы.
func Check(m *Map, start types.TimeString, durationMinutes int) Verdict {
	axis := m.axis

	if err := axis.ValidateDuration(durationMinutes); err != nil {
		return reject(ReasonInvalidDuration, "")
	}

	startMinutes := start.Minutes()
	if startMinutes < 0 {
		return reject(ReasonOffGrid, "")
	}
	if startMinutes < axis.Open().Minutes() || startMinutes >= axis.Close().Minutes() {
		return reject(ReasonOutsideWindow, "")
	}
	if !start.IsOnGrid(axis.Granularity()) || (startMinutes-axis.Open().Minutes())%axis.Granularity() != 0 {
		return reject(ReasonOffGrid, "")
	}

	end, err := start.AddMinutes(durationMinutes)
	if err != nil || end.IsAfter(axis.Close()) {
		return reject(ReasonOutsideWindow, end)
	}

	// Для текущей даты начало не раньше текущего момента, значит и каждая минута интервала
	if m.IsPast(start) {
		return reject(ReasonPast, end)
	}

	if _, found := m.overlapping(start, end); found {
		return reject(ReasonOverlap, end)
	}

	// Часы от часа начала до часа, содержащего последнюю минуту.
	// Конец ровно на границе часа не требует открытого следующего часа.
	firstHour := startMinutes / 60
	lastHour := (end.Minutes()+59)/60 - 1
	for h := firstHour; h <= lastHour; h++ {
		if !m.IsHourAvailable(h) {
			return reject(ReasonClosed, end)
		}
	}

	return Verdict{Feasible: true, EndTime: end}
}

// IsFeasible сокращение для Check(...).Feasible
func IsFeasible(m *Map, start types.TimeString, durationMinutes int) bool {
	return Check(m, start, durationMinutes).Feasible
}
