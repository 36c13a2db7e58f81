package verifier

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/logger"
)

func newTestVerifier(t *testing.T, d dialect.Dialect) (*Verifier, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := New(db, d, logger.NewDefault())
	require.NoError(t, err)
	return v, mock
}

func expectCount(mock sqlmock.Sqlmock, d dialect.Dialect, table string, count int64) {
	mock.ExpectQuery(regexp.QuoteMeta(dialect.CountRowsQuery(d, table))).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(count))
}

func TestNew_NilDatabase(t *testing.T) {
	_, err := New(nil, dialect.MySQL, nil)
	assert.Error(t, err)
}

func TestVerifyEmpty_AllClean(t *testing.T) {
	v, mock := newTestVerifier(t, dialect.Postgres)
	expectCount(mock, dialect.Postgres, "orders", 0)
	expectCount(mock, dialect.Postgres, "users", 0)

	report, err := v.VerifyEmpty(context.Background(), []string{"orders", "users"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TablesChecked)
	assert.True(t, report.Clean())
	assert.Empty(t, report.Residuals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyEmpty_ReportsResiduals(t *testing.T) {
	v, mock := newTestVerifier(t, dialect.MySQL)
	expectCount(mock, dialect.MySQL, "orders", 3)
	expectCount(mock, dialect.MySQL, "users", 0)

	report, err := v.VerifyEmpty(context.Background(), []string{"orders", "users"})
	require.NoError(t, err)
	assert.False(t, report.Clean())
	require.Len(t, report.Residuals, 1)
	assert.Equal(t, "orders", report.Residuals[0].Table)
	assert.Equal(t, int64(3), report.Residuals[0].Rows)
}

func TestVerifyEmpty_CountFailureIsFatal(t *testing.T) {
	v, mock := newTestVerifier(t, dialect.MySQL)
	mock.ExpectQuery(regexp.QuoteMeta(dialect.CountRowsQuery(dialect.MySQL, "users"))).
		WillReturnError(errors.New("table is locked"))

	_, err := v.VerifyEmpty(context.Background(), []string{"users"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users")
}

func TestVerifyEmpty_NoTables(t *testing.T) {
	v, _ := newTestVerifier(t, dialect.SQLite)

	report, err := v.VerifyEmpty(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TablesChecked)
	assert.True(t, report.Clean())
}
