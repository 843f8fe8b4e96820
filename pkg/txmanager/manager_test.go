package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotEngine/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
	err   error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	b.tx = &fakeTx{}
	return b.tx, nil
}

func TestDo_Commit(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestDo_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)
	boom := errors.New("boom")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, db.tx.committed)
	assert.True(t, db.tx.rolledBack)
}

func TestDo_Nested(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.calls)
}

func TestDoSerializable_Options(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	require.NoError(t, m.DoSerializable(context.Background(), func(ctx context.Context) error { return nil }))
	require.NotNil(t, db.opts)
	assert.Equal(t, sql.LevelSerializable, db.opts.Isolation)
}

func TestDo_BeginFails(t *testing.T) {
	db := &fakeBeginner{err: errors.New("no connection")}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrBeginTx)
}
