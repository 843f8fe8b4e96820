package sessions

import (
	"github.com/m04kA/SMC-SlotEngine/internal/service/availability"
	"github.com/m04kA/SMC-SlotEngine/internal/service/selection"
)

// View состояние сессии для внешнего представления
type View struct {
	ID       string
	Snapshot selection.Snapshot
	Options  []availability.DurationChoice // только в состоянии active
}
