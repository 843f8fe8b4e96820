package availability

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// DurationChoice опция каталога с результатом проверки от выбранного начала
type DurationChoice struct {
	Option   domain.DurationOption
	EndTime  types.TimeString
	Price    float64
	Feasible bool
	Reason   Reason
}

// ResolveDurations перечисляет активные опции каталога по возрастанию длительности
// и отмечает выполнимость каждой от start. Опции вне каталога не создаются.
func ResolveDurations(m *Map, start types.TimeString, catalogue []domain.DurationOption) []DurationChoice {
	options := domain.SortDurationOptions(catalogue)

	choices := make([]DurationChoice, 0, len(options))
	for _, opt := range options {
		verdict := Check(m, start, opt.DurationMinutes)
		choices = append(choices, DurationChoice{
			Option:   opt,
			EndTime:  verdict.EndTime,
			Price:    opt.Price,
			Feasible: verdict.Feasible,
			Reason:   verdict.Reason,
		})
	}

	return choices
}

// FeasibleChoices только выполнимые варианты; пустой результат допустим
func FeasibleChoices(choices []DurationChoice) []DurationChoice {
	result := make([]DurationChoice, 0, len(choices))
	for _, c := range choices {
		if c.Feasible {
			result = append(result, c)
		}
	}
	return result
}
