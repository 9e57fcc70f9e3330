package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/projpool-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{name: "nil_error"},
		{name: "sql_no_rows", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{
			name:    "unique_violation",
			err:     &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"},
			wantIs:  store.ErrDuplicate,
			wantMsg: "entity already exists",
		},
		{
			name:    "foreign_key_violation",
			err:     &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "projects_user_id_fkey"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "foreign key violation (projects_user_id_fkey)",
		},
		{
			name:    "check_violation",
			err:     &pgconn.PgError{Code: checkViolationCode, ConstraintName: "refined_labels_difficulty_check"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "check constraint violation",
		},
		{
			name:    "not_null_violation",
			err:     &pgconn.PgError{Code: notNullViolationCode, ColumnName: "name"},
			wantIs:  store.ErrInvalidEntity,
			wantMsg: "not null violation (name)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.wantIs)
			if tt.wantMsg != "" {
				assert.Contains(t, result.Error(), tt.wantMsg)
			}
		})
	}

	t.Run("unmapped_errors_pass_through", func(t *testing.T) {
		plain := errors.New("some other error")
		assert.Same(t, plain, MapError(plain))

		unknown := &pgconn.PgError{Code: "99999"}
		assert.Equal(t, error(unknown), MapError(unknown))
	})
}

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("context: %w", &pgconn.PgError{Code: uniqueViolationCode})
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(unique))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	assert.NoError(t, CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrProjectNotFound))
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrProjectNotFound), store.ErrProjectNotFound)
	assert.ErrorIs(t, CheckRowsAffected(sqlmock.NewResult(0, 0), nil), store.ErrNotFound)

	boom := errors.New("boom")
	err := CheckRowsAffected(sqlmock.NewErrorResult(boom), nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to get rows affected")
	assert.Error(t, CheckRowsAffected(nil, nil))
}
