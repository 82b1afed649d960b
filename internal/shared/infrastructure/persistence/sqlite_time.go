package persistence

import (
	"database/sql"
	"fmt"
	"time"
)

// sqliteTimeLayout is fixed width so TEXT columns sort chronologically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteTime renders t for a TEXT timestamp column.
func SQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// SQLiteNullTime renders an optional timestamp.
func SQLiteNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: SQLiteTime(*t), Valid: true}
}

// ParseSQLiteTime reads a TEXT timestamp written by SQLiteTime. RFC 3339
// values written by hand are accepted too.
func ParseSQLiteTime(s string) (time.Time, error) {
	if t, err := time.Parse(sqliteTimeLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// ParseSQLiteNullTime reads an optional TEXT timestamp.
func ParseSQLiteNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := ParseSQLiteTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
