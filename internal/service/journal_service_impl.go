package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/google/uuid"
)

// ErrEntriesQueued means the week log could not be written but the entries
// are safe in the outbox and will be retried.
var ErrEntriesQueued = errors.New("week log not writable; entries queued for retry")

// RetryPolicy bounds how hard a single append is retried before queueing.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

type journalService struct {
	writer   EntryWriter
	pending  repository.PendingEntryRepo
	uow      db.UnitOfWork
	policy   RetryPolicy
	now      func() time.Time
	observer UseCaseObserver
}

func NewJournalService(
	writer EntryWriter,
	pending repository.PendingEntryRepo,
	uow db.UnitOfWork,
	policy RetryPolicy,
	observers ...UseCaseObserver,
) JournalService {
	return &journalService{
		writer:   writer,
		pending:  pending,
		uow:      uow,
		policy:   policy,
		now:      time.Now,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Commit appends entries in order. Older queued entries are drained first
// so week files stay in finalization order; if the drain or any append
// fails, the remaining entries are queued behind them in one transaction.
func (j *journalService) Commit(ctx context.Context, entries []domain.LogEntry) (err error) {
	if len(entries) == 0 {
		return nil
	}
	startedAt := time.Now()
	fields := map[string]any{"entries": len(entries)}
	defer func() { observe(ctx, j.observer, "journal-commit", startedAt, fields, err) }()

	if _, drainErr := j.drain(ctx); drainErr != nil {
		fields["queued"] = len(entries)
		return j.queue(ctx, entries, drainErr)
	}

	for i, e := range entries {
		if appendErr := j.appendWithRetry(ctx, e); appendErr != nil {
			fields["written"] = i
			fields["queued"] = len(entries) - i
			return j.queue(ctx, entries[i:], appendErr)
		}
	}
	fields["written"] = len(entries)
	return nil
}

func (j *journalService) Pending(ctx context.Context) ([]*domain.PendingEntry, error) {
	return j.pending.List(ctx)
}

func (j *journalService) Count(ctx context.Context) (int, error) {
	return j.pending.Count(ctx)
}

// Flush retries queued entries and reports how many reached the log.
func (j *journalService) Flush(ctx context.Context) (flushed int, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() {
		fields["flushed"] = flushed
		observe(ctx, j.observer, "journal-flush", startedAt, fields, err)
	}()
	return j.drain(ctx)
}

// drain appends queued entries oldest first, stopping at the first failure.
// An entry that was appended but could not be dequeued is still the newest
// record of its file, since nothing is appended while it is queued; it is
// dequeued without writing it again.
func (j *journalService) drain(ctx context.Context) (int, error) {
	queued, err := j.pending.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading queued entries: %w", err)
	}
	for i, p := range queued {
		if written, err := j.writer.EndsWith(p.Entry); err == nil && written {
			if err := j.pending.Delete(ctx, p.ID); err != nil {
				return i, fmt.Errorf("dequeuing written entry %s: %w", p.ID, err)
			}
			continue
		}
		if err := j.appendWithRetry(ctx, p.Entry); err != nil {
			if recErr := j.pending.RecordFailure(ctx, p.ID, err.Error()); recErr != nil {
				return i, fmt.Errorf("appending queued entry: %v (recording failure: %w)", err, recErr)
			}
			return i, fmt.Errorf("appending queued entry: %w", err)
		}
		if err := j.pending.Delete(ctx, p.ID); err != nil {
			return i + 1, fmt.Errorf("dequeuing written entry %s: %w", p.ID, err)
		}
	}
	return len(queued), nil
}

func (j *journalService) queue(ctx context.Context, entries []domain.LogEntry, cause error) error {
	queuedAt := j.now()
	err := j.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPending := repository.NewSQLitePendingEntryRepo(tx)
		for _, e := range entries {
			p := &domain.PendingEntry{
				ID:        uuid.New().String(),
				Entry:     e,
				LastError: cause.Error(),
				QueuedAt:  queuedAt,
			}
			if err := txPending.Enqueue(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing week log: %v; queueing entries: %w", cause, err)
	}
	return fmt.Errorf("%w: %v", ErrEntriesQueued, cause)
}

// appendWithRetry tries once plus policy.Retries more times with doubling
// delays.
func (j *journalService) appendWithRetry(ctx context.Context, e domain.LogEntry) error {
	delay := j.policy.Delay
	var lastErr error
	for attempt := 0; attempt <= j.policy.Retries; attempt++ {
		if lastErr = j.writer.Append(e); lastErr == nil {
			return nil
		}
		if attempt == j.policy.Retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return lastErr
}
