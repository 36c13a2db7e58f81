// Package verifier audits the outcome of a clean: every targeted table
// should be row-empty afterwards.
package verifier

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/logger"
	"github.com/dbwipe/dbwipe/internal/sqlutil"
)

// Residual is a table that still holds rows after a clean.
type Residual struct {
	Table string
	Rows  int64
}

// Report summarizes an emptiness audit.
type Report struct {
	TablesChecked int
	Residuals     []Residual
	Duration      time.Duration
}

// Clean reports whether every checked table was empty.
func (r *Report) Clean() bool {
	return len(r.Residuals) == 0
}

// Verifier counts rows across a table set on a single connection.
type Verifier struct {
	db  *sql.DB
	d   dialect.Dialect
	log *logger.Logger
}

// New creates a Verifier bound to one connection and dialect.
func New(db *sql.DB, d dialect.Dialect, log *logger.Logger) (*Verifier, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Verifier{db: db, d: d, log: log.WithDialect(d.String())}, nil
}

// VerifyEmpty counts rows in each table and reports the ones that are not
// empty. A count failure is fatal: an audit that cannot read a table has
// nothing trustworthy to report.
func (v *Verifier) VerifyEmpty(ctx context.Context, tables []string) (*Report, error) {
	start := time.Now()
	report := &Report{}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("verification interrupted: %w", err)
		}

		var raw interface{}
		if err := v.db.QueryRowContext(ctx, dialect.CountRowsQuery(v.d, table)).Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to count rows in table %s: %w", table, err)
		}
		count := sqlutil.ToInt64(raw)

		report.TablesChecked++
		if count > 0 {
			v.log.Warnf("Table %q still holds %d rows after clean", table, count)
			report.Residuals = append(report.Residuals, Residual{Table: table, Rows: count})
		}
	}

	report.Duration = time.Since(start)
	v.log.Infof("Verified %d tables in %s (%d with residual rows)",
		report.TablesChecked, report.Duration, len(report.Residuals))
	return report, nil
}
