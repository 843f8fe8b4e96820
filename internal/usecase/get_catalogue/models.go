package get_catalogue

import "github.com/m04kA/SMC-SlotEngine/internal/domain"

// Response активные ресурсы и опции длительности по возрастанию
type Response struct {
	Resources       []domain.Resource
	DurationOptions []domain.DurationOption
}
