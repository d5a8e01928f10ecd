package dbx

import (
	"fmt"
	"strconv"
)

// database/sql refuses uint64 values with the high bit set, so amounts
// travel as decimal strings into NUMERIC(20,0) columns.

// Amount formats v as a NUMERIC query argument.
func Amount(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// ParseAmount parses a NUMERIC column scanned as text.
func ParseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}
