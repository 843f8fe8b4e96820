package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// PathID положительный int64 из параметра маршрута
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return id, nil
}

// ParseDate дата YYYY-MM-DD в часовом поясе арендатора
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, value, loc)
}
