package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout keeps the local offset so times read back in the same zone.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string, column string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// nullableIndex maps a slot index to SQL, storing NULL for "none".
func nullableIndex(i int) interface{} {
	if i < 0 {
		return nil
	}
	return i
}

func indexFromNull(v sql.NullInt64, none int) int {
	if !v.Valid {
		return none
	}
	return int(v.Int64)
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
