package dialect

// TablesQuery returns the catalog query listing the current schema's base
// tables. Every query is self-contained (no bind parameters): each dialect
// has an expression for "the schema I am connected to", which keeps the
// inventory resolver free of per-dialect argument plumbing. Results are
// ordered by name so the truncation order is stable across runs.
func TablesQuery(d Dialect) string {
	switch d {
	case MySQL:
		return "SELECT TABLE_NAME FROM information_schema.TABLES " +
			"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
	case Postgres:
		return "SELECT table_name FROM information_schema.tables " +
			"WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"
	case SQLite:
		return "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	case DB2:
		return "SELECT TABNAME FROM SYSCAT.TABLES " +
			"WHERE TYPE = 'T' AND TABSCHEMA = CURRENT SCHEMA ORDER BY TABNAME"
	case Oracle:
		return "SELECT TABLE_NAME FROM USER_TABLES ORDER BY TABLE_NAME"
	case SQLServer:
		return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES " +
			"WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
	default:
		return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES " +
			"WHERE TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
	}
}

// ViewsQuery returns the catalog query listing the current schema's views.
// A failing views query is recoverable: the caller degrades to an empty set.
func ViewsQuery(d Dialect) string {
	switch d {
	case MySQL:
		return "SELECT TABLE_NAME FROM information_schema.TABLES " +
			"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'VIEW'"
	case Postgres:
		return "SELECT table_name FROM information_schema.views WHERE table_schema = current_schema()"
	case SQLite:
		return "SELECT name FROM sqlite_master WHERE type = 'view'"
	case DB2:
		return "SELECT TABNAME FROM SYSCAT.TABLES WHERE TYPE = 'V' AND TABSCHEMA = CURRENT SCHEMA"
	case Oracle:
		return "SELECT VIEW_NAME FROM USER_VIEWS"
	case SQLServer:
		return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS WHERE TABLE_SCHEMA = SCHEMA_NAME()"
	default:
		return "SELECT TABLE_NAME FROM INFORMATION_SCHEMA.VIEWS"
	}
}
