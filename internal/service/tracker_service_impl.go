package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/google/uuid"
)

// TrackerDeps are the collaborators of the session tracker.
type TrackerDeps struct {
	Categories  CategoryLookup
	Slots       SlotStore
	Journal     JournalService
	Checkpoints repository.CheckpointRepo
	UoW         db.UnitOfWork
	Now         func() time.Time
}

type trackerService struct {
	mu       sync.Mutex
	deps     TrackerDeps
	cur      *domain.Session
	pending  int
	observer UseCaseObserver
}

func NewTrackerService(deps TrackerDeps, observers ...UseCaseObserver) TrackerService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &trackerService{
		deps:     deps,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Handle applies one event. When the event finalizes entries the
// checkpoint is moved to the next session first, so a later recovery can
// never finalize the same session again; if that fails nothing is written
// and the current session is kept. The entries are then committed through
// the journal; when it neither writes nor queues them the checkpoint is
// restored, the current session is kept and the error returned.
func (t *trackerService) Handle(ctx context.Context, ev domain.Event) (out app.Outcome, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startedAt := time.Now()
	fields := map[string]any{"event": ev.Name()}
	defer func() { observe(ctx, t.observer, "handle-event", startedAt, fields, err) }()

	now := t.deps.Now()
	tr, err := domain.Apply(t.cur, ev, t.env(now))
	if err != nil {
		return app.Outcome{View: t.viewAt(now)}, err
	}
	if tr.Ignored != "" {
		fields["ignored"] = string(tr.Ignored)
		return app.Outcome{View: t.viewAt(now), Ignored: tr.Ignored}, nil
	}

	var errs []error
	if len(tr.Entries) > 0 {
		fields["entries"] = len(tr.Entries)
		if cpErr := t.checkpoint(ctx, tr.Next, now); cpErr != nil {
			return app.Outcome{View: t.viewAt(now)}, cpErr
		}
		if commitErr := t.deps.Journal.Commit(ctx, tr.Entries); commitErr != nil {
			if !errors.Is(commitErr, ErrEntriesQueued) {
				err := fmt.Errorf("committing entries: %w", commitErr)
				if cpErr := t.checkpoint(ctx, t.cur, now); cpErr != nil {
					err = errors.Join(err, fmt.Errorf("restoring checkpoint: %w", cpErr))
				}
				return app.Outcome{View: t.viewAt(now)}, err
			}
			errs = append(errs, commitErr)
		}
	}

	t.cur = tr.Next
	if tr.SlotWrite != nil {
		w := tr.SlotWrite
		if saveErr := t.deps.Slots.SetSlot(w.Category, w.Index, w.Text); saveErr != nil {
			errs = append(errs, fmt.Errorf("saving subcategory: %w", saveErr))
		}
	}
	if len(tr.Entries) == 0 {
		if cpErr := t.checkpoint(ctx, t.cur, now); cpErr != nil {
			errs = append(errs, cpErr)
		}
	}
	t.refreshPending(ctx)

	if t.cur != nil {
		fields["category"] = t.cur.Category
	}
	return app.Outcome{View: t.viewAt(now), Written: tr.Entries}, errors.Join(errs...)
}

func (t *trackerService) View() app.TrackerView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewAt(t.deps.Now())
}

// Heartbeat marks the open session as still running.
func (t *trackerService) Heartbeat(ctx context.Context) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startedAt := time.Now()
	defer func() { observe(ctx, t.observer, "heartbeat", startedAt, nil, err) }()

	t.refreshPending(ctx)
	if t.cur == nil {
		return nil
	}
	if err := t.deps.Checkpoints.Touch(ctx, t.deps.Now()); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// Recover finalizes a session left behind by a run that never shut down.
// The session ends at its last heartbeat. Its entries are queued and the
// checkpoint cleared in one transaction, then the queue is drained; a
// failed drain leaves them queued and reports ErrEntriesQueued.
func (t *trackerService) Recover(ctx context.Context) (res app.RecoveryResult, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { observe(ctx, t.observer, "recover", startedAt, fields, err) }()

	cp, err := t.deps.Checkpoints.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return app.RecoveryResult{}, nil
		}
		return app.RecoveryResult{}, fmt.Errorf("loading checkpoint: %w", err)
	}

	entries := cp.Session.Finalize(cp.SeenAt)
	queuedAt := t.deps.Now()
	err = t.deps.UoW.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPending := repository.NewSQLitePendingEntryRepo(tx)
		for _, e := range entries {
			p := &domain.PendingEntry{
				ID:        uuid.New().String(),
				Entry:     e,
				LastError: "recovered from unclean shutdown",
				QueuedAt:  queuedAt,
			}
			if err := txPending.Enqueue(ctx, p); err != nil {
				return err
			}
		}
		return repository.NewSQLiteCheckpointRepo(tx).Clear(ctx)
	})
	if err != nil {
		return app.RecoveryResult{}, fmt.Errorf("recovering session: %w", err)
	}

	res = app.RecoveryResult{
		Recovered: true,
		Session:   cp.Session,
		EndedAt:   cp.SeenAt,
		Entries:   entries,
	}
	fields["category"] = cp.Session.Category
	fields["entries"] = len(entries)

	_, flushErr := t.deps.Journal.Flush(ctx)
	t.refreshPending(ctx)
	if flushErr != nil {
		return res, fmt.Errorf("%w: %v", ErrEntriesQueued, flushErr)
	}
	return res, nil
}

func (t *trackerService) env(now time.Time) domain.Env {
	return domain.Env{
		Now:      now,
		Category: t.deps.Categories.Lookup,
		Slot:     t.deps.Slots.Slot,
	}
}

// checkpoint stores s as the open session, or clears the checkpoint when s
// is nil.
func (t *trackerService) checkpoint(ctx context.Context, s *domain.Session, now time.Time) error {
	if s == nil {
		if err := t.deps.Checkpoints.Clear(ctx); err != nil {
			return fmt.Errorf("clearing checkpoint: %w", err)
		}
		return nil
	}
	if err := t.deps.Checkpoints.Save(ctx, &domain.Checkpoint{Session: *s, SeenAt: now}); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

// refreshPending caches the outbox size for View, which has no context.
func (t *trackerService) refreshPending(ctx context.Context) {
	if n, err := t.deps.Journal.Count(ctx); err == nil {
		t.pending = n
	}
}

func (t *trackerService) viewAt(now time.Time) app.TrackerView {
	v := app.TrackerView{
		SubcatIndex: domain.NoSubcategory,
		Categories:  t.deps.Categories.List(),
		Pending:     t.pending,
	}
	if t.cur == nil {
		return v
	}
	s := *t.cur
	cat, _ := t.deps.Categories.Lookup(s.Category)
	v.Active = true
	v.Category = cat
	v.StartedAt = s.StartedAt
	if now.After(s.StartedAt) {
		v.Elapsed = now.Sub(s.StartedAt)
	}
	v.SubcatIndex = s.SubcatIndex
	v.Note = s.Note
	v.AwaitingNote = s.HasSubcategory() && s.Note == ""

	labels := t.deps.Slots.Slots(s.Category)
	v.Slots = make([]app.SlotView, 0, domain.SlotCount)
	for i, label := range labels {
		v.Slots = append(v.Slots, app.SlotView{
			Digit:    domain.DigitForSlot(i),
			Label:    label,
			Selected: i == s.SubcatIndex,
		})
	}
	return v
}
