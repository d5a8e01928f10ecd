package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophcapsule/internal/common"
	"github.com/dmitrijs2005/gophcapsule/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_InTxCommits(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	s := NewPostgresStore(db, repomanager.NewPostgresRepositoryManager())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+accounts`).WithArgs("alice", "5").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).WithArgs("t", "5").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = s.InTx(context.Background(), func(ctx context.Context, r Repositories) error {
		return r.Accounts.Transfer(ctx, "alice", "t", 5)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	assert.NoError(t, s.Close())
}

func TestPostgresStore_InTxRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db, repomanager.NewPostgresRepositoryManager())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE\s+accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = s.InTx(context.Background(), func(ctx context.Context, r Repositories) error {
		return r.Accounts.Transfer(ctx, "alice", "t", 5)
	})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err = NewPostgresStore(db, repomanager.NewPostgresRepositoryManager()).
		InTx(context.Background(), func(context.Context, Repositories) error { return nil })
	assert.EqualError(t, err, "no conn")
}
