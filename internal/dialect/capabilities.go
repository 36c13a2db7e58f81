package dialect

// StatementForm is the basic shape a dialect uses to clear a table.
type StatementForm int

const (
	// FormTruncate clears a table with a single TRUNCATE statement.
	FormTruncate StatementForm = iota
	// FormDelete clears a table with DELETE FROM (SQLite).
	FormDelete
	// FormTruncateCascade is a TRUNCATE that may carry CASCADE and
	// RESTART IDENTITY clauses (PostgreSQL).
	FormTruncateCascade
)

// IntegrityToggle identifies the mechanism a dialect uses to suspend
// foreign-key enforcement for the duration of a clean.
type IntegrityToggle int

const (
	// ToggleSessionFlag is a session variable (SET FOREIGN_KEY_CHECKS).
	ToggleSessionFlag IntegrityToggle = iota
	// ToggleReplicationRole uses session_replication_role (PostgreSQL).
	ToggleReplicationRole
	// TogglePragma is PRAGMA foreign_keys (SQLite).
	TogglePragma
	// TogglePerTableConstraint disables constraints table by table
	// (SQL Server NOCHECK CONSTRAINT ALL and bridged drivers).
	TogglePerTableConstraint
	// TogglePerConstraint disables each foreign-key constraint by name
	// (Oracle ALTER TABLE ... DISABLE CONSTRAINT).
	TogglePerConstraint
	// ToggleNone means the dialect needs no toggle (DB2 TRUNCATE IMMEDIATE
	// ignores referential ordering).
	ToggleNone
)

// Capability describes what a dialect can do when clearing tables. The
// strategy engine consults this record instead of branching on dialect
// identity wherever possible.
type Capability struct {
	StatementForm           StatementForm
	SupportsBatchedTruncate bool
	SupportsIdentityReset   bool
	SupportsFastEmptyCheck  bool
	// FallsBackToDelete marks the truncate-or-delete family: a failed
	// TRUNCATE is silently retried as DELETE FROM.
	FallsBackToDelete bool
	IntegrityToggle   IntegrityToggle
}

var capabilities = map[Dialect]Capability{
	MySQL: {
		StatementForm:          FormTruncate,
		SupportsIdentityReset:  true,
		SupportsFastEmptyCheck: true,
		IntegrityToggle:        ToggleSessionFlag,
	},
	Postgres: {
		StatementForm:           FormTruncateCascade,
		SupportsBatchedTruncate: true,
		SupportsIdentityReset:   true,
		SupportsFastEmptyCheck:  true,
		IntegrityToggle:         ToggleReplicationRole,
	},
	SQLite: {
		StatementForm:         FormDelete,
		SupportsIdentityReset: true,
		IntegrityToggle:       TogglePragma,
	},
	DB2: {
		StatementForm:   FormTruncate,
		IntegrityToggle: ToggleNone,
	},
	Oracle: {
		StatementForm:   FormTruncate,
		IntegrityToggle: TogglePerConstraint,
	},
	SQLServer: {
		StatementForm:     FormTruncate,
		FallsBackToDelete: true,
		IntegrityToggle:   TogglePerTableConstraint,
	},
	Generic: {
		StatementForm:     FormTruncate,
		FallsBackToDelete: true,
		IntegrityToggle:   TogglePerTableConstraint,
	},
}

// Capabilities returns the capability record for a dialect.
func Capabilities(d Dialect) Capability {
	return capabilities[d]
}
