// Package sqlutil provides identifier quoting and scalar coercion helpers.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteBacktick quotes an identifier MySQL-style, doubling embedded
// backticks. Example: "my_table" -> "`my_table`".
func QuoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteANSI quotes an identifier with double quotes (PostgreSQL, SQLite,
// Oracle, DB2 and the ANSI fallback), doubling embedded quotes.
func QuoteANSI(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteBracket quotes an identifier T-SQL-style with square brackets,
// doubling embedded closing brackets.
func QuoteBracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteString quotes a value as a SQL string literal, doubling embedded
// single quotes. Used for catalog probes that take a table name as data
// (sqlite_sequence, information_schema lookups).
func QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// validIdentifierRegex restricts identifiers to alphanumerics and
// underscore. Names come out of the schema catalog, so this is a
// defense-in-depth check rather than the primary injection barrier.
var validIdentifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_$]+$`)

// IsValidIdentifier reports whether name is a plain SQL identifier.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// InvalidIdentifierError is returned when an identifier contains characters
// outside the allowed set.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters, underscores or $)"
}
