package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// SQLiteCheckpointRepo implements CheckpointRepo using SQLite.
type SQLiteCheckpointRepo struct {
	db db.DBTX
}

// NewSQLiteCheckpointRepo creates a new SQLiteCheckpointRepo.
func NewSQLiteCheckpointRepo(conn db.DBTX) *SQLiteCheckpointRepo {
	return &SQLiteCheckpointRepo{db: conn}
}

// Save replaces the stored session.
func (r *SQLiteCheckpointRepo) Save(ctx context.Context, c *domain.Checkpoint) error {
	query := `INSERT INTO active_session (slot, category, started_at, subcat_index, note, seen_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			category = excluded.category,
			started_at = excluded.started_at,
			subcat_index = excluded.subcat_index,
			note = excluded.note,
			seen_at = excluded.seen_at`
	_, err := r.db.ExecContext(ctx, query,
		c.Session.Category,
		formatTime(c.Session.StartedAt),
		nullableIndex(c.Session.SubcatIndex),
		c.Session.Note,
		formatTime(c.SeenAt),
	)
	if err != nil {
		return fmt.Errorf("saving active session: %w", err)
	}
	return nil
}

func (r *SQLiteCheckpointRepo) Get(ctx context.Context) (*domain.Checkpoint, error) {
	query := `SELECT category, started_at, subcat_index, note, seen_at FROM active_session WHERE slot = 1`
	var c domain.Checkpoint
	var startedAt, seenAt string
	var subcat sql.NullInt64
	err := r.db.QueryRowContext(ctx, query).Scan(&c.Session.Category, &startedAt, &subcat, &c.Session.Note, &seenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("active session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning active session: %w", err)
	}
	if c.Session.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if c.SeenAt, err = parseTime(seenAt, "seen_at"); err != nil {
		return nil, err
	}
	c.Session.SubcatIndex = indexFromNull(subcat, domain.NoSubcategory)
	return &c, nil
}

// Touch moves seen_at forward. It is a no-op without a stored session.
func (r *SQLiteCheckpointRepo) Touch(ctx context.Context, seenAt time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE active_session SET seen_at = ? WHERE slot = 1`, formatTime(seenAt)); err != nil {
		return fmt.Errorf("touching active session: %w", err)
	}
	return nil
}

func (r *SQLiteCheckpointRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session`); err != nil {
		return fmt.Errorf("clearing active session: %w", err)
	}
	return nil
}
