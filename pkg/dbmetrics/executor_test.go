package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExecutor struct {
	DBExecutor
	name string
}

type stubTx struct {
	stubExecutor
}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var _ DBExecutor = (*sql.DB)(nil)

func TestGetExecutor(t *testing.T) {
	db := stubExecutor{name: "db"}
	tx := &stubTx{stubExecutor{name: "tx"}}

	ctx := context.Background()
	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, db, GetExecutor(ctx, db))

	txCtx := WithTx(ctx, tx)
	assert.True(t, IsInTransaction(txCtx))
	assert.Same(t, tx, GetExecutor(txCtx, db))

	got, ok := GetTx(txCtx)
	assert.True(t, ok)
	assert.Same(t, tx, got)
}
