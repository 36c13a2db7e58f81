package dialect

import (
	"strings"

	"github.com/dbwipe/dbwipe/internal/sqlutil"
)

// Quote quotes an identifier using the dialect's convention.
func Quote(d Dialect, name string) string {
	switch d {
	case MySQL:
		return sqlutil.QuoteBacktick(name)
	case SQLServer:
		return sqlutil.QuoteBracket(name)
	default:
		return sqlutil.QuoteANSI(name)
	}
}

// TruncateStatement builds the single-table truncate for dialects using
// FormTruncate. DB2 requires the IMMEDIATE suffix to take effect without a
// separate commit.
func TruncateStatement(d Dialect, table string) string {
	if d == DB2 {
		return "TRUNCATE TABLE " + Quote(d, table) + " IMMEDIATE"
	}
	return "TRUNCATE TABLE " + Quote(d, table)
}

// DeleteStatement builds the row-by-row fallback for a table.
func DeleteStatement(d Dialect, table string) string {
	return "DELETE FROM " + Quote(d, table)
}

// BatchTruncateStatement builds PostgreSQL's multi-table TRUNCATE. The
// RESTART IDENTITY and CASCADE clauses are only legal on servers at or above
// the versions in MinVersionRestartIdentity / MinVersionCascade; callers gate
// them and the statement degrades to a bare TRUNCATE on older servers.
// Table order inside the statement follows the argument order.
func BatchTruncateStatement(tables []string, restartIdentity, cascade bool) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = Quote(Postgres, t)
	}

	var b strings.Builder
	b.WriteString("TRUNCATE TABLE ")
	b.WriteString(strings.Join(quoted, ", "))
	if restartIdentity {
		b.WriteString(" RESTART IDENTITY")
	}
	if cascade {
		b.WriteString(" CASCADE")
	}
	return b.String()
}

// PostgreSQL server_version_num thresholds for optional TRUNCATE clauses.
const (
	MinVersionCascade         = 80200 // 8.2
	MinVersionRestartIdentity = 80400 // 8.4
)

// ServerVersionQuery returns the query that yields PostgreSQL's numeric
// server version (e.g. 150003 for 15.3).
func ServerVersionQuery() string {
	return "SHOW server_version_num"
}

// SequenceClearStatement builds SQLite's auto-increment reset: deleting the
// table's row from sqlite_sequence returns its ROWID counter to the start.
func SequenceClearStatement(table string) string {
	return "DELETE FROM sqlite_sequence WHERE name = " + sqlutil.QuoteString(table)
}

// SequenceTableExistsQuery probes whether the database has a sqlite_sequence
// table at all; it only exists once an AUTOINCREMENT column has been created.
func SequenceTableExistsQuery() string {
	return "SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence')"
}
