package dialect

import "github.com/dbwipe/dbwipe/internal/sqlutil"

// DisableIntegrityStatement returns the session-level statement that
// suspends foreign-key enforcement, or "" when the dialect's toggle is not
// session-scoped (per-table and per-constraint mechanisms have their own
// builders below; ToggleNone needs nothing).
func DisableIntegrityStatement(d Dialect) string {
	switch Capabilities(d).IntegrityToggle {
	case ToggleSessionFlag:
		return "SET FOREIGN_KEY_CHECKS = 0"
	case ToggleReplicationRole:
		return "SET session_replication_role = 'replica'"
	case TogglePragma:
		return "PRAGMA foreign_keys = OFF"
	default:
		return ""
	}
}

// EnableIntegrityStatement is the counterpart of DisableIntegrityStatement.
func EnableIntegrityStatement(d Dialect) string {
	switch Capabilities(d).IntegrityToggle {
	case ToggleSessionFlag:
		return "SET FOREIGN_KEY_CHECKS = 1"
	case ToggleReplicationRole:
		return "SET session_replication_role = 'origin'"
	case TogglePragma:
		return "PRAGMA foreign_keys = ON"
	default:
		return ""
	}
}

// DisableTableIntegrityStatement suspends all constraints on one table for
// the TogglePerTableConstraint family.
func DisableTableIntegrityStatement(d Dialect, table string) string {
	return "ALTER TABLE " + Quote(d, table) + " NOCHECK CONSTRAINT ALL"
}

// EnableTableIntegrityStatement re-enables (and revalidates) all constraints
// on one table. Revalidation over freshly emptied tables is cheap.
func EnableTableIntegrityStatement(d Dialect, table string) string {
	return "ALTER TABLE " + Quote(d, table) + " WITH CHECK CHECK CONSTRAINT ALL"
}

// EnabledForeignKeysQuery lists Oracle's currently enabled foreign-key
// constraints as (table, constraint) pairs. The cleaner disables exactly
// this set and re-enables the same pairs afterwards.
func EnabledForeignKeysQuery() string {
	return "SELECT TABLE_NAME, CONSTRAINT_NAME FROM USER_CONSTRAINTS " +
		"WHERE CONSTRAINT_TYPE = 'R' AND STATUS = 'ENABLED'"
}

// DisableConstraintStatement disables one named Oracle constraint.
func DisableConstraintStatement(table, constraint string) string {
	return "ALTER TABLE " + sqlutil.QuoteANSI(table) + " DISABLE CONSTRAINT " + sqlutil.QuoteANSI(constraint)
}

// EnableConstraintStatement re-enables one named Oracle constraint.
func EnableConstraintStatement(table, constraint string) string {
	return "ALTER TABLE " + sqlutil.QuoteANSI(table) + " ENABLE CONSTRAINT " + sqlutil.QuoteANSI(constraint)
}
