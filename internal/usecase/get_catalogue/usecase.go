package get_catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotEngine/internal/integrations/backend"
)

// UseCase use case для получения справочников: ресурсы и каталог длительностей
type UseCase struct {
	mirror Mirror
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(mirror Mirror, logger Logger) *UseCase {
	return &UseCase{mirror: mirror, logger: logger}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	resources, err := uc.mirror.Resources(ctx)
	if err != nil {
		return nil, uc.mapError("resources", err)
	}

	options, err := uc.mirror.Catalogue(ctx)
	if err != nil {
		return nil, uc.mapError("duration options", err)
	}

	uc.logger.Info("GetCatalogue: %d resources, %d duration options", len(resources), len(options))

	return &Response{
		Resources:       resources,
		DurationOptions: options,
	}, nil
}

func (uc *UseCase) mapError(step string, err error) error {
	uc.logger.Error("GetCatalogue: failed to get %s: %v", step, err)
	if errors.Is(err, backend.ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return fmt.Errorf("%w: failed to get %s: %v", ErrInternal, step, err)
}
