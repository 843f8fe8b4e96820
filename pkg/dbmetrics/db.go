package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/metrics"
)

// DefaultPoolStatsInterval период сбора статистики пула соединений
const DefaultPoolStatsInterval = 15 * time.Second

// DB обёртка над *sql.DB, фиксирующая длительность и ошибки запросов.
// metrics может быть nil: тогда обёртка только прокидывает вызовы.
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает соединение без фонового сбора статистики пула
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault оборачивает соединение и запускает сбор статистики пула до закрытия stopCh
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)
	if m != nil {
		go wrapped.collectPoolStats(DefaultPoolStatsInterval, stopCh)
	}
	return wrapped
}

func (d *DB) collectPoolStats(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			stats := d.db.Stats()
			d.metrics.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
		}
	}
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("exec", time.Since(start), err)
	return res, err
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("query", time.Since(start), err)
	return rows, err
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery("query_row", time.Since(start), row.Err())
	return row
}

// BeginTx начинает транзакцию, запросы которой тоже попадают в метрики
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		d.metrics.ObserveDBQuery("begin", 0, err)
		return nil, err
	}
	return &metricsTx{tx: tx, metrics: d.metrics}, nil
}

// Close закрывает соединение
func (d *DB) Close() error {
	return d.db.Close()
}

type metricsTx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *metricsTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.metrics.ObserveDBQuery("tx_exec", time.Since(start), err)
	return res, err
}

func (t *metricsTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.metrics.ObserveDBQuery("tx_query", time.Since(start), err)
	return rows, err
}

func (t *metricsTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.metrics.ObserveDBQuery("tx_query_row", time.Since(start), row.Err())
	return row
}

func (t *metricsTx) Commit() error {
	start := time.Now()
	err := t.tx.Commit()
	t.metrics.ObserveDBQuery("commit", time.Since(start), err)
	return err
}

func (t *metricsTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return err
	}
	t.metrics.ObserveDBQuery("rollback", 0, err)
	return err
}
