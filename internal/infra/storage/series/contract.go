package series

import (
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
)

// DBExecutor переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
