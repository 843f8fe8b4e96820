package get_catalogue

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotEngine/internal/api/handlers"
	getCatalogue "github.com/m04kA/SMC-SlotEngine/internal/usecase/get_catalogue"
)

const msgBackendUnavailable = "сервис бронирования временно недоступен"

type Handler struct {
	useCase GetCatalogueUseCase
	logger  Logger
}

func NewHandler(useCase GetCatalogueUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/catalogue
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.useCase.Execute(r.Context())
	if err != nil {
		if errors.Is(err, getCatalogue.ErrUnavailable) {
			h.logger.Warn("GET /catalogue - Backend unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgBackendUnavailable)
			return
		}
		h.logger.Error("GET /catalogue - Failed to get catalogue: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
