package domain

import "sort"

// Resource бронируемая единица (корт, специалист)
type Resource struct {
	ID       int64
	Name     string
	IsActive bool
}

// DurationOption позиция каталога длительностей с ценой
type DurationOption struct {
	ID              int64
	DurationMinutes int
	Price           float64
	IsActive        bool
}

// SortDurationOptions возвращает активные опции по возрастанию длительности (при равенстве по ID).
// Исходный срез не изменяется.
func SortDurationOptions(options []DurationOption) []DurationOption {
	result := make([]DurationOption, 0, len(options))
	for _, opt := range options {
		if opt.IsActive {
			result = append(result, opt)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].DurationMinutes != result[j].DurationMinutes {
			return result[i].DurationMinutes < result[j].DurationMinutes
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// ShortestDurationOption самая короткая активная опция каталога
func ShortestDurationOption(options []DurationOption) (DurationOption, bool) {
	sorted := SortDurationOptions(options)
	if len(sorted) == 0 {
		return DurationOption{}, false
	}
	return sorted[0], true
}

// FindDurationOption ищет активную опцию по ID
func FindDurationOption(options []DurationOption, id int64) (DurationOption, bool) {
	for _, opt := range options {
		if opt.ID == id && opt.IsActive {
			return opt, true
		}
	}
	return DurationOption{}, false
}
