package series

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// ExpandDates даты серии по возрастанию: дни недели weekday начиная с seriesStart,
// строго раньше seriesStart + horizonWeeks недель и не позже seriesEnd.
func ExpandDates(weekday time.Weekday, seriesStart time.Time, horizonWeeks int, seriesEnd *time.Time) []time.Time {
	start := domain.DateOnly(seriesStart)
	return DatesBetween(weekday, start, start.AddDate(0, 0, horizonWeeks*domain.DaysPerWeek), seriesEnd)
}

// DatesBetween дни недели weekday в полуинтервале [from, until), не позже seriesEnd.
// Границы сравниваются как календарные даты в часовом поясе from.
func DatesBetween(weekday time.Weekday, from, until time.Time, seriesEnd *time.Time) []time.Time {
	from = domain.DateOnly(from)
	until = calendarDay(until, from.Location())

	var last time.Time
	if seriesEnd != nil {
		last = calendarDay(*seriesEnd, from.Location())
	}

	offset := (int(weekday) - int(from.Weekday()) + domain.DaysPerWeek) % domain.DaysPerWeek
	dates := make([]time.Time, 0)
	for d := from.AddDate(0, 0, offset); d.Before(until); d = d.AddDate(0, 0, domain.DaysPerWeek) {
		if seriesEnd != nil && d.After(last) {
			break
		}
		dates = append(dates, d)
	}

	return dates
}

// calendarDay та же календарная дата, что у t, но полночь в loc
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
