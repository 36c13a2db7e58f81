// Package inventory resolves the live schema's tables and views, with a
// connection-scoped cache.
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbwipe/dbwipe/internal/dialect"
	"github.com/dbwipe/dbwipe/internal/logger"
)

// Resolver queries the schema catalog for base tables and views and memoizes
// the result for the lifetime of the connection. The schema is assumed not
// to change mid-run; Invalidate is the only reset path. The resolver shares
// the cleaner's single-connection, sequential execution model and performs
// no locking of its own.
type Resolver struct {
	db  *sql.DB
	d   dialect.Dialect
	log *logger.Logger

	// cache is explicit state rather than first-access memoization on the
	// connection, so invalidation stays visible and testable.
	cache struct {
		tables       *orderedmap.OrderedMap[string, struct{}]
		tablesLoaded bool
		views        map[string]struct{}
		viewsLoaded  bool
	}
}

// NewResolver creates an inventory resolver bound to one connection.
func NewResolver(db *sql.DB, d dialect.Dialect, log *logger.Logger) (*Resolver, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Resolver{db: db, d: d, log: log.WithDialect(d.String())}, nil
}

// Tables returns all user base tables in stable catalog order, without
// duplicates. The first successful lookup is cached.
func (r *Resolver) Tables(ctx context.Context) ([]string, error) {
	if !r.cache.tablesLoaded {
		tables, err := r.queryNames(ctx, dialect.TablesQuery(r.d))
		if err != nil {
			return nil, fmt.Errorf("failed to query tables: %w", err)
		}

		om := orderedmap.NewOrderedMap[string, struct{}]()
		for _, name := range tables {
			om.Set(name, struct{}{})
		}
		r.cache.tables = om
		r.cache.tablesLoaded = true
		r.log.Debugf("Cached %d tables from schema catalog", om.Len())
	}

	return r.cache.tables.Keys(), nil
}

// Views returns the names of database views. A failing catalog query is not
// fatal: some dialects lack the expected metadata view, and the worst case
// of missing view detection is a truncate attempt that fails loudly on its
// own. The degraded empty set is cached like a successful one.
func (r *Resolver) Views(ctx context.Context) map[string]struct{} {
	if !r.cache.viewsLoaded {
		views := make(map[string]struct{})
		names, err := r.queryNames(ctx, dialect.ViewsQuery(r.d))
		if err != nil {
			r.log.Warnf("Views lookup failed, proceeding with empty view set: %v", err)
		} else {
			for _, name := range names {
				views[name] = struct{}{}
			}
		}
		r.cache.views = views
		r.cache.viewsLoaded = true
	}

	return r.cache.views
}

// Invalidate drops the cached table and view sets. Callers that alter the
// schema mid-run must invalidate before the next clean.
func (r *Resolver) Invalidate() {
	r.cache.tables = nil
	r.cache.tablesLoaded = false
	r.cache.views = nil
	r.cache.viewsLoaded = false
}

func (r *Resolver) queryNames(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
