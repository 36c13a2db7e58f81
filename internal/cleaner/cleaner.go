// Package cleaner clears all user data from a database between test runs.
// It preserves schema, never touches views or migration bookkeeping tables,
// and picks the fastest truncation strategy the connected dialect offers.
package cleaner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/inventory"
	"github.com/dbwipe/dbwipe/internal/logger"
	"github.com/dbwipe/dbwipe/internal/sqlutil"
)

// Stats summarizes one Clean invocation.
type Stats struct {
	TablesTargeted int           // Final table set size after filtering
	TablesCleaned  int           // Tables actually cleared
	TablesSkipped  int           // Tables skipped by emptiness heuristics
	Statements     int           // Data-clearing statements executed
	Duration       time.Duration // Wall time for the whole clean
}

// Cleaner orchestrates cleanup over a single connection. It assumes
// sequential use: the dialect's integrity toggle is session-scoped, so
// concurrent callers on the same Cleaner are unsupported.
type Cleaner struct {
	db   *sql.DB
	d    dialect.Dialect
	caps dialect.Capability
	inv  *inventory.Resolver
	log  *logger.Logger

	// bookkeeping tables are excluded from every clean regardless of
	// options.
	bookkeeping []string

	// PostgreSQL server version, read once per Cleaner.
	pgVersion       int
	pgVersionLoaded bool
}

// New creates a Cleaner for an already-resolved dialect.
func New(db *sql.DB, d dialect.Dialect, log *logger.Logger) (*Cleaner, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithDialect(d.String())

	inv, err := inventory.NewResolver(db, d, log)
	if err != nil {
		return nil, err
	}

	return &Cleaner{
		db:          db,
		d:           d,
		caps:        dialect.Capabilities(d),
		inv:         inv,
		log:         log,
		bookkeeping: []string{"schema_migrations"},
	}, nil
}

// NewFromDriver resolves the dialect from a database/sql driver name. An
// unknown driver yields dialect.ErrUnsupportedDialect and no Cleaner.
func NewFromDriver(db *sql.DB, driverName string, log *logger.Logger) (*Cleaner, error) {
	d, err := dialect.Detect(driverName)
	if err != nil {
		return nil, err
	}
	return New(db, d, log)
}

// Dialect returns the dialect this cleaner was bound to.
func (c *Cleaner) Dialect() dialect.Dialect {
	return c.d
}

// Inventory exposes the resolver, mainly for listing and verification.
func (c *Cleaner) Inventory() *inventory.Resolver {
	return c.inv
}

// SetBookkeepingTables replaces the set of migration-history tables that are
// excluded from every clean. Defaults to schema_migrations.
func (c *Cleaner) SetBookkeepingTables(names ...string) {
	c.bookkeeping = append([]string(nil), names...)
}

// InvalidateCache drops the cached table/view inventory. Required after any
// mid-run schema change.
func (c *Cleaner) InvalidateCache() {
	c.inv.Invalidate()
}

// Clean clears the resolved table set under a referential-integrity-disabled
// scope. Enforcement is restored on every exit path, including statement
// failures and context cancellation. Any statement error other than the
// truncate-or-delete fallback aborts the clean and is returned; rows already
// cleared stay cleared (no rollback by this layer).
func (c *Cleaner) Clean(ctx context.Context, opts Options) (stats *Stats, err error) {
	start := time.Now()

	targets, err := c.resolveTargets(ctx, opts)
	if err != nil {
		return nil, err
	}

	stats = &Stats{TablesTargeted: len(targets)}
	if len(targets) == 0 {
		c.log.Debug("No tables to clean")
		stats.Duration = time.Since(start)
		return stats, nil
	}

	restore, err := c.disableIntegrity(ctx, targets)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Restore must run even when the clean failed or the context was
		// canceled mid-sequence.
		if rerr := restore(context.WithoutCancel(ctx)); rerr != nil {
			c.log.Warnf("Failed to restore referential integrity enforcement: %v", rerr)
			if err == nil {
				stats = nil
				err = fmt.Errorf("failed to restore referential integrity enforcement: %w", rerr)
			}
		}
	}()

	if err := c.run(ctx, targets, opts, stats); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	c.log.Infof("Clean complete: %d/%d tables cleared (%d skipped, %d statements) in %s",
		stats.TablesCleaned, stats.TablesTargeted, stats.TablesSkipped, stats.Statements, stats.Duration)
	return stats, nil
}

// resolveTargets computes the final table set for this invocation:
// (only ∩ inventory) − except − views − bookkeeping, in stable catalog
// order. Except wins over Only. Computed fresh on every call.
func (c *Cleaner) resolveTargets(ctx context.Context, opts Options) ([]string, error) {
	for _, name := range opts.Only {
		if !sqlutil.IsValidIdentifier(name) {
			return nil, &sqlutil.InvalidIdentifierError{Name: name}
		}
	}
	for _, name := range opts.Except {
		if !sqlutil.IsValidIdentifier(name) {
			return nil, &sqlutil.InvalidIdentifierError{Name: name}
		}
	}

	all, err := c.inv.Tables(ctx)
	if err != nil {
		return nil, err
	}
	views := c.inv.Views(ctx)

	excluded := make(map[string]struct{}, len(opts.Except)+len(c.bookkeeping))
	for _, t := range opts.Except {
		excluded[t] = struct{}{}
	}
	for _, t := range c.bookkeeping {
		excluded[t] = struct{}{}
	}

	var only map[string]struct{}
	if len(opts.Only) > 0 {
		only = make(map[string]struct{}, len(opts.Only))
		for _, t := range opts.Only {
			only[t] = struct{}{}
		}
	}

	var targets []string
	for _, t := range all {
		if only != nil {
			if _, ok := only[t]; !ok {
				continue
			}
		}
		if _, ok := excluded[t]; ok {
			continue
		}
		if _, ok := views[t]; ok {
			continue
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// disableIntegrity suspends foreign-key enforcement using the dialect's
// mechanism and returns the restore function for the scope exit. The restore
// function re-enables enforcement for exactly what was disabled.
func (c *Cleaner) disableIntegrity(ctx context.Context, tables []string) (func(context.Context) error, error) {
	switch c.caps.IntegrityToggle {
	case dialect.ToggleSessionFlag, dialect.ToggleReplicationRole, dialect.TogglePragma:
		if _, err := c.db.ExecContext(ctx, dialect.DisableIntegrityStatement(c.d)); err != nil {
			return nil, fmt.Errorf("failed to disable referential integrity: %w", err)
		}
		return func(rctx context.Context) error {
			_, err := c.db.ExecContext(rctx, dialect.EnableIntegrityStatement(c.d))
			return err
		}, nil

	case dialect.TogglePerTableConstraint:
		return c.disablePerTable(ctx, tables)

	case dialect.TogglePerConstraint:
		return c.disablePerConstraint(ctx)

	default: // dialect.ToggleNone
		return func(context.Context) error { return nil }, nil
	}
}

func (c *Cleaner) disablePerTable(ctx context.Context, tables []string) (func(context.Context) error, error) {
	restore := func(rctx context.Context) error {
		var firstErr error
		for _, t := range tables {
			if _, err := c.db.ExecContext(rctx, dialect.EnableTableIntegrityStatement(c.d, t)); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("table %s: %w", t, err)
			}
		}
		return firstErr
	}

	for _, t := range tables {
		if _, err := c.db.ExecContext(ctx, dialect.DisableTableIntegrityStatement(c.d, t)); err != nil {
			// Best-effort re-enable of what was already disabled before
			// surfacing the failure.
			if rerr := restore(context.WithoutCancel(ctx)); rerr != nil {
				c.log.Warnf("Failed to re-enable constraints after partial disable: %v", rerr)
			}
			return nil, fmt.Errorf("failed to disable constraints on %s: %w", t, err)
		}
	}
	return restore, nil
}

func (c *Cleaner) disablePerConstraint(ctx context.Context) (func(context.Context) error, error) {
	rows, err := c.db.QueryContext(ctx, dialect.EnabledForeignKeysQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign-key constraints: %w", err)
	}
	defer rows.Close()

	type constraint struct {
		table string
		name  string
	}
	var constraints []constraint
	for rows.Next() {
		var cs constraint
		if err := rows.Scan(&cs.table, &cs.name); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		constraints = append(constraints, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	restore := func(rctx context.Context) error {
		var firstErr error
		for _, cs := range constraints {
			if _, err := c.db.ExecContext(rctx, dialect.EnableConstraintStatement(cs.table, cs.name)); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("constraint %s on %s: %w", cs.name, cs.table, err)
			}
		}
		return firstErr
	}

	for i, cs := range constraints {
		if _, err := c.db.ExecContext(ctx, dialect.DisableConstraintStatement(cs.table, cs.name)); err != nil {
			disabled := constraints[:i]
			for _, d := range disabled {
				if _, rerr := c.db.ExecContext(context.WithoutCancel(ctx), dialect.EnableConstraintStatement(d.table, d.name)); rerr != nil {
					c.log.Warnf("Failed to re-enable constraint %s on %s: %v", d.name, d.table, rerr)
				}
			}
			return nil, fmt.Errorf("failed to disable constraint %s on %s: %w", cs.name, cs.table, err)
		}
	}
	return restore, nil
}
