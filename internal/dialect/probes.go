package dialect

import "github.com/dbwipe/dbwipe/internal/sqlutil"

// HasRowsQuery builds the fast-path emptiness probe: a scalar that is truthy
// when the table has at least one row. Only FormTruncate dialects with
// SupportsFastEmptyCheck actually use it, but a shape exists for every
// dialect so the verifier can share it.
func HasRowsQuery(d Dialect, table string) string {
	q := Quote(d, table)
	switch d {
	case SQLServer:
		return "SELECT CASE WHEN EXISTS (SELECT TOP 1 1 FROM " + q + ") THEN 1 ELSE 0 END"
	case Oracle, DB2:
		return "SELECT COUNT(*) FROM (SELECT 1 FROM " + q + " FETCH FIRST 1 ROWS ONLY)"
	default:
		return "SELECT EXISTS (SELECT 1 FROM " + q + " LIMIT 1)"
	}
}

// CountRowsQuery builds the exact row count used by post-clean verification.
func CountRowsQuery(d Dialect, table string) string {
	return "SELECT COUNT(*) FROM " + Quote(d, table)
}

// AutoIncrementQuery builds MySQL's counter probe. A value above 1 means
// rows have been inserted at some point even if the table is empty now.
// This is a heuristic, not a guarantee: an explicit ALTER TABLE ...
// AUTO_INCREMENT reset makes it report "never used".
func AutoIncrementQuery(table string) string {
	return "SELECT AUTO_INCREMENT FROM information_schema.TABLES " +
		"WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = " + sqlutil.QuoteString(table)
}

// SequenceExistsQuery probes pg_class for the serial sequence conventionally
// attached to a table's id column.
func SequenceExistsQuery(table string) string {
	return "SELECT EXISTS (SELECT 1 FROM pg_class WHERE relkind = 'S' AND relname = " +
		sqlutil.QuoteString(table+"_id_seq") + ")"
}

// CurrentSequenceValueQuery builds the currval probe for a table's serial
// sequence. currval raises if the sequence has not been read in this
// session; callers treat that error as zero and skip the table, matching
// the long-standing behavior of truncation-style cleaners.
func CurrentSequenceValueQuery(table string) string {
	return "SELECT currval(" + sqlutil.QuoteString(table+"_id_seq") + ")"
}
