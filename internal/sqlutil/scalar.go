package sqlutil

import "strconv"

// ToInt64 coerces a scanned scalar to int64. Drivers disagree on how they
// hand back catalog numbers: go-sql-driver returns []byte for
// information_schema columns, lib/pq returns int64, sqlmock may inject raw
// Go ints in tests. NULL and unparseable values coerce to 0.
func ToInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int16:
		return int64(n)
	case int8:
		return int64(n)
	case uint64:
		return int64(n)
	case uint:
		return int64(n)
	case uint32:
		return int64(n)
	case uint16:
		return int64(n)
	case uint8:
		return int64(n)
	case float64:
		return int64(n)
	case float32:
		return int64(n)
	case []byte:
		return parseInt64(string(n))
	case string:
		return parseInt64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToBool coerces a scanned scalar to bool. EXISTS probes come back as bool
// from lib/pq but as 1/0 integers (or []byte digits) from other drivers.
func ToBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	default:
		return ToInt64(v) != 0
	}
}

func parseInt64(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
