package domain

// Параметры сетки слотов по умолчанию
const (
	DefaultGranularityMinutes = 30
	DefaultGridOpen           = "08:00"
	DefaultGridClose          = "24:00"
)

// Ограничения повторяющихся серий
const (
	DefaultHorizonWeeks = 8
	MinHorizonWeeks     = 1
	MaxHorizonWeeks     = 52
	DaysPerWeek         = 7
)

// Ограничения данных клиента
const (
	MaxCustomerNameLength  = 200
	MaxCustomerPhoneLength = 32
	MaxCustomerEmailLength = 254
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
