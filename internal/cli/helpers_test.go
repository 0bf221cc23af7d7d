package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/category"
	"github.com/alexanderramin/punchclock/internal/config"
	"github.com/alexanderramin/punchclock/internal/db"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/alexanderramin/punchclock/internal/subcat"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/alexanderramin/punchclock/internal/weeklog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app         *App
	dir         string
	clock       *testutil.Clock
	log         *weeklog.Writer
	pending     *repository.SQLitePendingEntryRepo
	checkpoints *repository.SQLiteCheckpointRepo
}

// newTestEnv wires the real services over a temp data dir and an
// in-memory state database.
func newTestEnv(t *testing.T, subcats string) *testEnv {
	t.Helper()
	dir := testutil.DataDir(t, testutil.Legend, subcats)
	registry, err := category.Load(filepath.Join(dir, "legend"))
	require.NoError(t, err)
	store, err := subcat.Load(filepath.Join(dir, "subcategories"))
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	uow := db.NewSQLiteUnitOfWork(database)
	pending := repository.NewSQLitePendingEntryRepo(database)
	checkpoints := repository.NewSQLiteCheckpointRepo(database)
	log := weeklog.NewWriter(dir, weeklog.NamingLegacy)
	clock := testutil.NewClock(testutil.Day(0, 9, 0))

	journal := service.NewJournalService(log, pending, uow, service.RetryPolicy{Retries: 0, Delay: time.Millisecond})
	app := &App{
		Tracker: service.NewTrackerService(service.TrackerDeps{
			Categories:  registry,
			Slots:       store,
			Journal:     journal,
			Checkpoints: checkpoints,
			UoW:         uow,
			Now:         clock.Now,
		}),
		Journal:  journal,
		Reports:  service.NewReportService(log, registry),
		Subcats:  service.NewSubcategoryService(registry, store),
		Config:   config.Config{DataDir: dir, LogDir: dir},
		Now:      clock.Now,
		Interval: time.Minute,
	}
	return &testEnv{app: app, dir: dir, clock: clock, log: log, pending: pending, checkpoints: checkpoints}
}

// run executes the command tree with args and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(e.app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func (e *testEnv) weekLines(t *testing.T, date time.Time) []string {
	t.Helper()
	data, err := os.ReadFile(e.log.Path(date))
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func (e *testEnv) writeWeek(t *testing.T, date time.Time, content string) string {
	t.Helper()
	path := e.log.Path(date)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
