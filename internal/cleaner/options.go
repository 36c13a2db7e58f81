package cleaner

// Options configures a single Clean invocation. Options are never persisted
// by the Cleaner; the final table set is recomputed on every call.
type Options struct {
	// Only restricts cleaning to exactly these tables, intersected with the
	// live inventory. Empty means all tables.
	Only []string
	// Except is always excluded. A table named in both Only and Except is
	// excluded: Except wins.
	Except []string
	// Fast enables the dialect's emptiness pre-checks so already-empty
	// tables emit no statements. Silently ignored on dialects without a
	// fast path.
	Fast bool
	// ResetIDs returns auto-increment/identity counters to their initial
	// value where the dialect supports it.
	ResetIDs bool
}

// DefaultOptions returns the canonical options: every table, identity
// counters reset, no fast-path probes.
func DefaultOptions() Options {
	return Options{ResetIDs: true}
}
