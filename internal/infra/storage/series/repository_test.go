package series

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotEngine/pkg/ptr"
)

type execResult struct {
	affected int64
}

func (r execResult) LastInsertId() (int64, error) { return 0, errors.New("not supported") }
func (r execResult) RowsAffected() (int64, error) { return r.affected, nil }

// execRecorder запоминает выполненные запросы; чтение строк не поддерживается
type execRecorder struct {
	dbmetrics.DBExecutor
	queries  []string
	args     [][]interface{}
	affected int64
	err      error
}

func (e *execRecorder) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	e.queries = append(e.queries, query)
	e.args = append(e.args, args)
	if e.err != nil {
		return nil, e.err
	}
	return execResult{affected: e.affected}, nil
}

type txRecorder struct {
	*execRecorder
}

func (txRecorder) Commit() error   { return nil }
func (txRecorder) Rollback() error { return nil }

func TestRecordOccurrence(t *testing.T) {
	db := &execRecorder{affected: 1}
	repo := NewRepository(db)
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	err := repo.RecordOccurrence(context.Background(), domain.SeriesOccurrence{
		SeriesID:      4,
		Date:          date,
		Outcome:       domain.OccurrenceCreated,
		ReservationID: ptr.Ptr(int64(900)),
	})
	require.NoError(t, err)

	require.Len(t, db.queries, 1)
	assert.Equal(t,
		"INSERT INTO series_occurrences (series_id,occurrence_date,outcome,reservation_id,reason) "+
			"VALUES ($1,$2,$3,$4,$5) ON CONFLICT (series_id, occurrence_date) DO NOTHING",
		db.queries[0])
	assert.Equal(t, []interface{}{int64(4), date, "created", ptr.Ptr(int64(900)), ""}, db.args[0])
}

func TestUpdate_NotFound(t *testing.T) {
	db := &execRecorder{affected: 0}
	repo := NewRepository(db)

	err := repo.Deactivate(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSeriesNotFound)
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "UPDATE recurring_series SET is_active = $1, updated_at = NOW() WHERE id = $2")
}

func TestUpdate_ExecError(t *testing.T) {
	db := &execRecorder{err: errors.New("connection reset")}
	repo := NewRepository(db)

	err := repo.UpdateSeriesEnd(context.Background(), 1, time.Now())
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestMarkGenerated_UsesTransactionFromContext(t *testing.T) {
	db := &execRecorder{affected: 1}
	tx := txRecorder{&execRecorder{affected: 1}}
	repo := NewRepository(db)

	ctx := dbmetrics.WithTx(context.Background(), tx)
	require.NoError(t, repo.MarkGenerated(ctx, 1, time.Date(2026, 4, 27, 0, 0, 0, 0, time.UTC)))

	assert.Empty(t, db.queries)
	assert.Len(t, tx.queries, 1)
}
