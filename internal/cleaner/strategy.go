package cleaner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/sqlutil"
)

// run dispatches the resolved table set to the dialect's strategy. Fast mode
// on a dialect without fast-path support degrades silently to the plain
// strategy. Tables are processed in the order resolveTargets produced;
// ordering carries no transactional meaning since integrity enforcement is
// off for the whole scope.
func (c *Cleaner) run(ctx context.Context, tables []string, opts Options, stats *Stats) error {
	fast := opts.Fast && c.caps.SupportsFastEmptyCheck
	if opts.ResetIDs && !c.caps.SupportsIdentityReset {
		c.log.Debugf("Identity reset not supported, counters left as-is")
	}

	switch {
	case c.caps.SupportsBatchedTruncate:
		return c.cleanBatched(ctx, tables, opts, fast, stats)
	case c.caps.StatementForm == dialect.FormDelete:
		return c.cleanDeleting(ctx, tables, opts, stats)
	case c.caps.FallsBackToDelete:
		return c.cleanTruncateOrDelete(ctx, tables, stats)
	default:
		return c.cleanPerTable(ctx, tables, opts, fast, stats)
	}
}

// cleanPerTable issues one TRUNCATE per table (MySQL family, DB2, Oracle),
// skipping tables the dialect's heuristics prove untouched.
func (c *Cleaner) cleanPerTable(ctx context.Context, tables []string, opts Options, fast bool, stats *Stats) error {
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("clean interrupted: %w", err)
		}

		skip, err := c.shouldSkip(ctx, table, opts, fast)
		if err != nil {
			return err
		}
		if skip {
			c.log.Debugf("Skipping table %q (no rows to clear)", table)
			stats.TablesSkipped++
			continue
		}

		if _, err := c.db.ExecContext(ctx, dialect.TruncateStatement(c.d, table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
		stats.Statements++
		stats.TablesCleaned++
	}
	return nil
}

// shouldSkip decides whether a table needs no statement at all. Fast mode
// skips tables that are empty and, when identities are being reset, whose
// auto-increment counter has never advanced. Plain mode without identity
// reset skips empty tables so their counters survive the clean.
func (c *Cleaner) shouldSkip(ctx context.Context, table string, opts Options, fast bool) (bool, error) {
	if !c.caps.SupportsFastEmptyCheck {
		return false, nil
	}

	if fast {
		hasRows, err := c.tableHasRows(ctx, table)
		if err != nil {
			return false, err
		}
		if hasRows {
			return false, nil
		}
		if opts.ResetIDs {
			advanced, err := c.autoIncrementAdvanced(ctx, table)
			if err != nil {
				return false, err
			}
			return !advanced, nil
		}
		return true, nil
	}

	if !opts.ResetIDs {
		hasRows, err := c.tableHasRows(ctx, table)
		if err != nil {
			return false, err
		}
		return !hasRows, nil
	}

	return false, nil
}

// cleanBatched is the PostgreSQL strategy: every surviving table goes out in
// one TRUNCATE statement, with RESTART IDENTITY and CASCADE gated on server
// version.
func (c *Cleaner) cleanBatched(ctx context.Context, tables []string, opts Options, fast bool, stats *Stats) error {
	targets := tables
	if fast {
		targets = make([]string, 0, len(tables))
		for _, table := range tables {
			used, err := c.postgresTableUsed(ctx, table, opts.ResetIDs)
			if err != nil {
				return err
			}
			if used {
				targets = append(targets, table)
			} else {
				c.log.Debugf("Skipping table %q (never used)", table)
				stats.TablesSkipped++
			}
		}
	}
	if len(targets) == 0 {
		return nil
	}

	version, err := c.postgresVersion(ctx)
	if err != nil {
		return err
	}
	stmt := dialect.BatchTruncateStatement(targets,
		opts.ResetIDs && version >= dialect.MinVersionRestartIdentity,
		version >= dialect.MinVersionCascade)

	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	stats.Statements++
	stats.TablesCleaned += len(targets)
	return nil
}

// cleanDeleting is the SQLite strategy: DELETE FROM each table, then clear
// its sqlite_sequence row when identities are being reset. sqlite_sequence
// only exists once some table has an AUTOINCREMENT column, so its presence
// is probed once per clean.
func (c *Cleaner) cleanDeleting(ctx context.Context, tables []string, opts Options, stats *Stats) error {
	clearSequences := opts.ResetIDs
	if clearSequences {
		exists, err := c.queryBool(ctx, dialect.SequenceTableExistsQuery())
		if err != nil {
			return fmt.Errorf("failed to probe sqlite_sequence: %w", err)
		}
		clearSequences = exists
	}

	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("clean interrupted: %w", err)
		}

		if _, err := c.db.ExecContext(ctx, dialect.DeleteStatement(c.d, table)); err != nil {
			return fmt.Errorf("failed to delete from table %s: %w", table, err)
		}
		stats.Statements++
		stats.TablesCleaned++

		if clearSequences {
			if _, err := c.db.ExecContext(ctx, dialect.SequenceClearStatement(table)); err != nil {
				return fmt.Errorf("failed to reset sequence for table %s: %w", table, err)
			}
			stats.Statements++
		}
	}
	return nil
}

// cleanTruncateOrDelete is the generic strategy for dialects without
// guaranteed TRUNCATE permission: attempt TRUNCATE, and on any statement
// failure silently degrade to DELETE FROM for that table. The fallback is a
// designed degrade, not error recovery; only a failing DELETE surfaces.
func (c *Cleaner) cleanTruncateOrDelete(ctx context.Context, tables []string, stats *Stats) error {
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("clean interrupted: %w", err)
		}

		if _, err := c.db.ExecContext(ctx, dialect.TruncateStatement(c.d, table)); err != nil {
			c.log.Debugf("TRUNCATE rejected for table %q, falling back to DELETE: %v", table, err)
			if _, derr := c.db.ExecContext(ctx, dialect.DeleteStatement(c.d, table)); derr != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, derr)
			}
			stats.Statements++
		}
		stats.Statements++
		stats.TablesCleaned++
	}
	return nil
}

// postgresTableUsed reports whether a table has data worth truncating. With
// identity reset the serial sequence is consulted: a currval above zero
// means the table has been written this session. currval raises when the
// sequence was never read in-session; that error is deliberately treated as
// zero (skip), preserving the behavior this heuristic was lifted from.
// Tables without a conventional id sequence fall back to a row check.
func (c *Cleaner) postgresTableUsed(ctx context.Context, table string, resetIDs bool) (bool, error) {
	if !resetIDs {
		return c.tableHasRows(ctx, table)
	}

	hasSeq, err := c.queryBool(ctx, dialect.SequenceExistsQuery(table))
	if err != nil {
		return false, fmt.Errorf("failed to probe sequence for table %s: %w", table, err)
	}
	if !hasSeq {
		return c.tableHasRows(ctx, table)
	}

	var raw interface{}
	if err := c.db.QueryRowContext(ctx, dialect.CurrentSequenceValueQuery(table)).Scan(&raw); err != nil {
		c.log.Debugf("currval unavailable for table %q, treating as unused: %v", table, err)
		return false, nil
	}
	return sqlutil.ToInt64(raw) > 0, nil
}

// postgresVersion reads server_version_num once and caches it for the
// lifetime of the Cleaner.
func (c *Cleaner) postgresVersion(ctx context.Context) (int, error) {
	if !c.pgVersionLoaded {
		var raw interface{}
		if err := c.db.QueryRowContext(ctx, dialect.ServerVersionQuery()).Scan(&raw); err != nil {
			return 0, fmt.Errorf("failed to read server version: %w", err)
		}
		c.pgVersion = int(sqlutil.ToInt64(raw))
		c.pgVersionLoaded = true
	}
	return c.pgVersion, nil
}

func (c *Cleaner) tableHasRows(ctx context.Context, table string) (bool, error) {
	has, err := c.queryBool(ctx, dialect.HasRowsQuery(c.d, table))
	if err != nil {
		return false, fmt.Errorf("failed to check rows in table %s: %w", table, err)
	}
	return has, nil
}

// autoIncrementAdvanced reports whether MySQL's counter shows the table has
// ever held rows. Heuristic only: an explicit counter reset defeats it.
func (c *Cleaner) autoIncrementAdvanced(ctx context.Context, table string) (bool, error) {
	var raw interface{}
	err := c.db.QueryRowContext(ctx, dialect.AutoIncrementQuery(table)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check auto-increment for table %s: %w", table, err)
	}
	return sqlutil.ToInt64(raw) > 1, nil
}

func (c *Cleaner) queryBool(ctx context.Context, query string) (bool, error) {
	var raw interface{}
	err := c.db.QueryRowContext(ctx, query).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return sqlutil.ToBool(raw), nil
}
