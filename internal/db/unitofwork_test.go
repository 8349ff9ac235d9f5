package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUoW(t *testing.T) *SQLiteUnitOfWork {
	t.Helper()
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	u := NewSQLiteUnitOfWork(database)
	u.backoff = 0
	return u
}

// Transient busy errors are retried until the transaction succeeds; the
// caller never sees them.
func TestWithinTxRetriesBusyErrors(t *testing.T) {
	u := newTestUoW(t)

	calls := 0
	err := u.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (SQLITE_BUSY)")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithinTxDoesNotRetryOtherErrors(t *testing.T) {
	u := newTestUoW(t)

	sentinel := errors.New("bad input")
	calls := 0
	err := u.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		calls++
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}

func TestWithinTxExhaustsRetries(t *testing.T) {
	u := newTestUoW(t)

	calls := 0
	err := u.WithinTx(context.Background(), func(ctx context.Context, tx DBTX) error {
		calls++
		return errors.New("table is locked")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
	assert.Equal(t, u.maxAttempts, calls)
}

func TestIsBusy(t *testing.T) {
	assert.True(t, isBusy(errors.New("database is locked")))
	assert.True(t, isBusy(errors.New("SQLITE_BUSY: cannot start a transaction")))
	assert.False(t, isBusy(errors.New("constraint failed")))
	assert.False(t, isBusy(nil))
}
