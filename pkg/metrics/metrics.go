package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов Prometheus сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках сервисы получают nil.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	FeasibilityChecks *prometheus.CounterVec
	Submissions       *prometheus.CounterVec
	SeriesOccurrences *prometheus.CounterVec
	MirrorLookups     *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики в указанном реестре (для тестов)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),
		FeasibilityChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slot_feasibility_checks_total",
			Help: "Feasibility verdicts by reason (empty reason = feasible)",
		}, []string{"service", "reason"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_submissions_total",
			Help: "Booking submissions by outcome",
		}, []string{"service", "outcome"}),
		SeriesOccurrences: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "series_occurrences_total",
			Help: "Recurring series occurrences by outcome",
		}, []string{"service", "outcome"}),
		MirrorLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mirror_lookups_total",
			Help: "Reservation mirror lookups by result (hit, miss)",
		}, []string{"service", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.FeasibilityChecks,
		m.Submissions,
		m.SeriesOccurrences,
		m.MirrorLookups,
	)

	return m
}

// ObserveHTTPRequest фиксирует HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBConnections выставляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.serviceName, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(m.serviceName, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(m.serviceName, "idle").Set(float64(idle))
}

// IncFeasibility фиксирует результат проверки слота
func (m *Metrics) IncFeasibility(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "feasible"
	}
	m.FeasibilityChecks.WithLabelValues(m.serviceName, reason).Inc()
}

// IncSubmission фиксирует результат отправки бронирования
func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(m.serviceName, outcome).Inc()
}

// IncSeriesOccurrence фиксирует результат генерации вхождения серии
func (m *Metrics) IncSeriesOccurrence(outcome string) {
	if m == nil {
		return
	}
	m.SeriesOccurrences.WithLabelValues(m.serviceName, outcome).Inc()
}

// IncMirrorLookup фиксирует обращение к зеркалу бронирований
func (m *Metrics) IncMirrorLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.MirrorLookups.WithLabelValues(m.serviceName, result).Inc()
}
