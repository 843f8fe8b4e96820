package get_catalogue

import (
	getCatalogue "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_catalogue"
)

// CatalogueResponse HTTP response model
type CatalogueResponse struct {
	Resources       []ResourceResponse       `json:"resources"`
	DurationOptions []DurationOptionResponse `json:"durationOptions"`
}

type ResourceResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type DurationOptionResponse struct {
	ID              int64   `json:"id"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCatalogue.Response) *CatalogueResponse {
	result := &CatalogueResponse{
		Resources:       make([]ResourceResponse, 0, len(resp.Resources)),
		DurationOptions: make([]DurationOptionResponse, 0, len(resp.DurationOptions)),
	}
	for _, r := range resp.Resources {
		result.Resources = append(result.Resources, ResourceResponse{ID: r.ID, Name: r.Name})
	}
	for _, o := range resp.DurationOptions {
		result.DurationOptions = append(result.DurationOptions, DurationOptionResponse{
			ID:              o.ID,
			DurationMinutes: o.DurationMinutes,
			Price:           o.Price,
		})
	}
	return result
}
