package get_catalogue

import (
	"context"

	getCatalogue "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_catalogue"
)

type GetCatalogueUseCase interface {
	Execute(ctx context.Context) (*getCatalogue.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
