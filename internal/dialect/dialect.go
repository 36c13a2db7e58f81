// Package dialect maps database drivers to their truncation capabilities
// and provides the per-dialect SQL shapes used by the cleaner.
package dialect

import (
	"errors"
	"fmt"
)

// Dialect identifies a database engine's SQL variant. It is resolved once
// from the live connection's driver name and never changes afterwards.
type Dialect int

const (
	// MySQL covers MySQL, MariaDB and Percona.
	MySQL Dialect = iota
	// Postgres is PostgreSQL (any server version; clause support is
	// version-gated at statement build time).
	Postgres
	// SQLite has no TRUNCATE; rows are cleared with DELETE.
	SQLite
	// DB2 uses TRUNCATE ... IMMEDIATE.
	DB2
	// Oracle uses plain single-table TRUNCATE.
	Oracle
	// SQLServer is treated as truncate-or-delete since TRUNCATE permission
	// is frequently missing on test logins.
	SQLServer
	// Generic is the fallback family for bridged drivers (ODBC and the
	// like): attempt TRUNCATE, silently degrade to DELETE per table.
	Generic
)

// ErrUnsupportedDialect is returned when a driver name cannot be mapped to
// a known dialect. No cleaning is attempted in that case.
var ErrUnsupportedDialect = errors.New("unsupported dialect")

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	case DB2:
		return "db2"
	case Oracle:
		return "oracle"
	case SQLServer:
		return "sqlserver"
	case Generic:
		return "generic"
	default:
		return fmt.Sprintf("dialect(%d)", int(d))
	}
}

// Detect resolves a database/sql driver name to a Dialect. It accepts the
// registration names of all drivers shipped by the CLI plus the common
// aliases seen in the wild.
func Detect(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql", "mariadb":
		return MySQL, nil
	case "postgres", "pgx", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "go_ibm_db", "db2":
		return DB2, nil
	case "oracle", "godror", "oci8":
		return Oracle, nil
	case "sqlserver", "mssql", "azuresql":
		return SQLServer, nil
	case "odbc", "generic":
		return Generic, nil
	default:
		return 0, fmt.Errorf("%w: driver %q", ErrUnsupportedDialect, driverName)
	}
}

// All lists every supported dialect, in declaration order.
func All() []Dialect {
	return []Dialect{MySQL, Postgres, SQLite, DB2, Oracle, SQLServer, Generic}
}
