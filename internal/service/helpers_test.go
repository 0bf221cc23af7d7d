package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/category"
	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/subcat"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/alexanderramin/punchclock/internal/weeklog"
	"github.com/stretchr/testify/require"
)

// flakyWriter fails the next `failures` appends, or every append while
// failures is negative.
type flakyWriter struct {
	next     EntryWriter
	failures int
	err      error
	calls    int
}

func (w *flakyWriter) Append(e domain.LogEntry) error {
	w.calls++
	if w.failures != 0 {
		if w.failures > 0 {
			w.failures--
		}
		return w.err
	}
	return w.next.Append(e)
}

func (w *flakyWriter) EndsWith(e domain.LogEntry) (bool, error) {
	return w.next.EndsWith(e)
}

// faultyCheckpoints fails Save or Clear while the matching flag is set.
type faultyCheckpoints struct {
	repository.CheckpointRepo
	failSave  bool
	failClear bool
}

func (c *faultyCheckpoints) Save(ctx context.Context, cp *domain.Checkpoint) error {
	if c.failSave {
		return errors.New("checkpoint save failed")
	}
	return c.CheckpointRepo.Save(ctx, cp)
}

func (c *faultyCheckpoints) Clear(ctx context.Context) error {
	if c.failClear {
		return errors.New("checkpoint clear failed")
	}
	return c.CheckpointRepo.Clear(ctx)
}

type trackerFixture struct {
	dir         string
	db          *sql.DB
	clock       *testutil.Clock
	registry    *category.Registry
	store       *subcat.Store
	log         *weeklog.Writer
	writer      *flakyWriter
	pending     *repository.SQLitePendingEntryRepo
	checkpoints *repository.SQLiteCheckpointRepo
	faults      *faultyCheckpoints
	journal     JournalService
	tracker     TrackerService
}

type fixtureOption func(*trackerFixtureConfig)

type trackerFixtureConfig struct {
	subcats    string
	journalUoW func(*sql.DB) db.UnitOfWork
}

func withSubcats(content string) fixtureOption {
	return func(c *trackerFixtureConfig) { c.subcats = content }
}

func withJournalUoW(fn func(*sql.DB) db.UnitOfWork) fixtureOption {
	return func(c *trackerFixtureConfig) { c.journalUoW = fn }
}

func newTrackerFixture(t *testing.T, opts ...fixtureOption) *trackerFixture {
	t.Helper()
	cfg := trackerFixtureConfig{
		journalUoW: func(d *sql.DB) db.UnitOfWork { return db.NewSQLiteUnitOfWork(d) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	dir := testutil.DataDir(t, testutil.Legend, cfg.subcats)
	registry, err := category.Load(filepath.Join(dir, "legend"))
	require.NoError(t, err)
	store, err := subcat.Load(filepath.Join(dir, "subcategories"))
	require.NoError(t, err)

	f := &trackerFixture{
		dir:      dir,
		db:       testutil.NewTestDB(t),
		clock:    testutil.NewClock(testutil.Day(0, 9, 0)),
		registry: registry,
		store:    store,
		log:      weeklog.NewWriter(dir, weeklog.NamingLegacy),
	}
	f.writer = &flakyWriter{next: f.log}
	f.pending = repository.NewSQLitePendingEntryRepo(f.db)
	f.checkpoints = repository.NewSQLiteCheckpointRepo(f.db)
	f.journal = NewJournalService(f.writer, f.pending, cfg.journalUoW(f.db), RetryPolicy{Retries: 1, Delay: time.Millisecond})
	f.faults = &faultyCheckpoints{CheckpointRepo: f.checkpoints}
	f.tracker = f.newTracker(f.faults)
	return f
}

func (f *trackerFixture) newTracker(checkpoints repository.CheckpointRepo) TrackerService {
	return NewTrackerService(TrackerDeps{
		Categories:  f.registry,
		Slots:       f.store,
		Journal:     f.journal,
		Checkpoints: checkpoints,
		UoW:         db.NewSQLiteUnitOfWork(f.db),
		Now:         f.clock.Now,
	})
}

// restart replaces the tracker with a fresh one over the same state, as
// the next run of the program would see it.
func (f *trackerFixture) restart() {
	f.faults = &faultyCheckpoints{CheckpointRepo: f.checkpoints}
	f.tracker = f.newTracker(f.faults)
}

// at moves the clock and delivers ev.
func (f *trackerFixture) at(t *testing.T, when time.Time, ev domain.Event) error {
	t.Helper()
	f.clock.Set(when)
	_, err := f.tracker.Handle(context.Background(), ev)
	return err
}

// weekLines returns the non-empty lines of the week file holding date.
func (f *trackerFixture) weekLines(t *testing.T, date time.Time) []string {
	t.Helper()
	data, err := os.ReadFile(f.log.Path(date))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
