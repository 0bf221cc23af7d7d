package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
)

// SQLitePendingEntryRepo implements PendingEntryRepo using SQLite.
type SQLitePendingEntryRepo struct {
	db db.DBTX
}

// NewSQLitePendingEntryRepo creates a new SQLitePendingEntryRepo.
func NewSQLitePendingEntryRepo(conn db.DBTX) *SQLitePendingEntryRepo {
	return &SQLitePendingEntryRepo{db: conn}
}

func (r *SQLitePendingEntryRepo) Enqueue(ctx context.Context, p *domain.PendingEntry) error {
	query := `INSERT INTO pending_entries (id, category, started_at, ended_at, note, attempts, last_error, queued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Entry.Category,
		formatTime(p.Entry.Start),
		formatTime(p.Entry.End),
		p.Entry.Note,
		p.Attempts,
		p.LastError,
		formatTime(p.QueuedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting pending entry: %w", err)
	}
	if seq, err := res.LastInsertId(); err == nil {
		p.Seq = seq
	}
	return nil
}

// List returns queued entries oldest first.
func (r *SQLitePendingEntryRepo) List(ctx context.Context) ([]*domain.PendingEntry, error) {
	query := `SELECT seq, id, category, started_at, ended_at, note, attempts, last_error, queued_at
		FROM pending_entries ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing pending entries: %w", err)
	}
	defer rows.Close()

	var out []*domain.PendingEntry
	for rows.Next() {
		var p domain.PendingEntry
		var startedAt, endedAt, queuedAt string
		if err := rows.Scan(&p.Seq, &p.ID, &p.Entry.Category, &startedAt, &endedAt,
			&p.Entry.Note, &p.Attempts, &p.LastError, &queuedAt); err != nil {
			return nil, fmt.Errorf("scanning pending entry: %w", err)
		}
		if p.Entry.Start, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if p.Entry.End, err = parseTime(endedAt, "ended_at"); err != nil {
			return nil, err
		}
		if p.QueuedAt, err = parseTime(queuedAt, "queued_at"); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pending entries: %w", err)
	}
	return out, nil
}

func (r *SQLitePendingEntryRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting pending entries: %w", err)
	}
	return n, nil
}

func (r *SQLitePendingEntryRepo) RecordFailure(ctx context.Context, id string, cause string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pending_entries SET attempts = attempts + 1, last_error = ? WHERE id = ?`, cause, id)
	if err != nil {
		return fmt.Errorf("recording pending entry failure: %w", err)
	}
	return requireAffected(res, "pending entry")
}

func (r *SQLitePendingEntryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pending entry: %w", err)
	}
	return requireAffected(res, "pending entry")
}
