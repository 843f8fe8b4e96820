package submit_booking

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
)

// Request модель запроса на отправку черновика
type Request struct {
	SessionID string           // ID сессии выбора
	Customer  *domain.Customer // Данные клиента (опционально, если уже заданы в черновике)
}

// Response результат отправки
type Response struct {
	State       selection.State     // Состояние сессии после ответа бэкенда
	Reservation *domain.Reservation // Созданное бронирование (при успехе)
	Failure     *selection.Failure  // Причина ошибки (при неуспехе)
}
