package database

import (
	"fmt"
	"time"
)

// NullString is the cell text for SQL NULL.
const NullString = "NULL"

// FormatValue renders a scanned value as result cell text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return NullString
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}
