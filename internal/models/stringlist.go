package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringList is a []string persisted as a comma-separated varchar. The
// in-memory value is always the decoded slice; encoding happens only at
// the store boundary via Value/Scan.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	if s == "" {
		*l = nil
		return nil
	}

	parts := strings.Split(s, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*l = out
	return nil
}
