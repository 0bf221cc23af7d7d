package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/punchclock/internal/domain"
)

// PendingEntryRepo is the outbox of entries waiting to reach their week file.
type PendingEntryRepo interface {
	Enqueue(ctx context.Context, p *domain.PendingEntry) error
	List(ctx context.Context) ([]*domain.PendingEntry, error)
	Count(ctx context.Context) (int, error)
	RecordFailure(ctx context.Context, id string, cause string) error
	Delete(ctx context.Context, id string) error
}

// CheckpointRepo stores the single open session.
type CheckpointRepo interface {
	Save(ctx context.Context, c *domain.Checkpoint) error
	Get(ctx context.Context) (*domain.Checkpoint, error)
	Touch(ctx context.Context, seenAt time.Time) error
	Clear(ctx context.Context) error
}
