package update_series

// TruncateRequest новая дата окончания серии (только раньше текущей)
type TruncateRequest struct {
	SeriesEnd string `json:"seriesEnd"` // "2026-04-27"
}
