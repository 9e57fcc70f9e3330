package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	bodyErr := errors.New("label limit reached")

	tests := []struct {
		name       string
		setup      func(mock sqlmock.Sqlmock)
		body       func(ctx context.Context, tx *sql.Tx) error
		wantErr    error
		wantSame   bool
		wantCalled bool
	}{
		{
			name: "commit",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO labels").WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			body: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "INSERT INTO labels (id) VALUES ($1)", 1)
				return err
			},
			wantCalled: true,
		},
		{
			name: "body error rolls back",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			body:       func(ctx context.Context, tx *sql.Tx) error { return bodyErr },
			wantErr:    bodyErr,
			wantSame:   true,
			wantCalled: true,
		},
		{
			name: "rollback failure keeps body error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errors.New("connection reset"))
			},
			body:       func(ctx context.Context, tx *sql.Tx) error { return bodyErr },
			wantErr:    bodyErr,
			wantCalled: true,
		},
		{
			name: "begin failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errors.New("connection refused"))
			},
			body:    func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErr: ErrTransactionFailed,
		},
		{
			name: "commit failure",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
			},
			body:       func(ctx context.Context, tx *sql.Tx) error { return nil },
			wantErr:    ErrTransactionFailed,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setup(mock)

			called := false
			err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
				called = true
				return tt.body(ctx, tx)
			})

			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case tt.wantSame:
				assert.Same(t, tt.wantErr, err)
			default:
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalled, called)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransactionPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
