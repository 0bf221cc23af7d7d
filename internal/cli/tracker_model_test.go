package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/teatest"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with tracker-specific inspection.
type TestDriver struct {
	*teatest.Driver
}

func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()
	d := teatest.New(t, newTrackerModel(context.Background(), app), teatest.WithSize(100, 40))
	d.DrainInit()
	return &TestDriver{Driver: d}
}

func (d *TestDriver) model() trackerModel {
	return d.Model.(trackerModel)
}

func (d *TestDriver) Status() string {
	return stripANSI(d.model().status)
}

func (d *TestDriver) Editing() bool {
	return d.model().editing
}

func TestTrackerTUI_WorkBreakScenario(t *testing.T) {
	env := newTestEnv(t, "")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	assert.Contains(t, stripANSI(d.View()), "Work")

	env.clock.Set(testutil.Day(0, 10, 30))
	d.PressKey('b')
	assert.Contains(t, d.Status(), "logged a 09:00-10:30")

	env.clock.Set(testutil.Day(0, 10, 45))
	d.PressKey('a')
	env.clock.Set(testutil.Day(0, 11, 0))
	d.PressEsc()

	assert.True(t, d.Quitting)
	assert.Len(t, d.model().written, 3)
	assert.Equal(t, []string{
		"a 2025/03/10 09:00-10:30",
		"b 2025/03/10 10:30-10:45",
		"a 2025/03/10 10:45-11:00",
	}, env.weekLines(t, testutil.Day(0, 0, 0)))
}

func TestTrackerTUI_UnknownKeyShowsReason(t *testing.T) {
	env := newTestEnv(t, "")
	d := NewTestDriver(t, env.app)

	d.PressKey('z')
	assert.Contains(t, d.Status(), "unknown category")
	assert.Contains(t, stripANSI(d.View()), "Idle")
}

func TestTrackerTUI_DigitFillsNoteFromSlot(t *testing.T) {
	env := newTestEnv(t, "a:reading,coding\n")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	d.PressKey('2')
	assert.False(t, d.Editing())
	view := stripANSI(d.View())
	assert.Contains(t, view, "note: coding")
	assert.Contains(t, view, "▶2  coding")
}

func TestTrackerTUI_EmptySlotPromptsForNote(t *testing.T) {
	env := newTestEnv(t, "a:reading\n")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	d.PressKey('3')
	require.True(t, d.Editing(), "an empty slot opens the note editor")

	d.Type("Code Review")
	d.PressEnter()
	assert.False(t, d.Editing())
	assert.Contains(t, stripANSI(d.View()), "note: code review")

	data, err := os.ReadFile(env.dir + "/subcategories")
	require.NoError(t, err)
	assert.Equal(t, "a:reading,,code review\n", string(data))
}

func TestTrackerTUI_EditCancelKeepsNote(t *testing.T) {
	env := newTestEnv(t, "a:reading\n")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	d.PressKey('1')
	d.PressEnter()
	require.True(t, d.Editing())
	d.PressBackspace()
	d.Type("x")
	d.PressEsc()

	assert.False(t, d.Editing())
	assert.False(t, d.Quitting, "esc while editing only cancels the edit")
	assert.Contains(t, stripANSI(d.View()), "note: reading")
}

func TestTrackerTUI_EnterWithoutSubcategory(t *testing.T) {
	env := newTestEnv(t, "")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	d.PressEnter()
	assert.False(t, d.Editing())
	assert.Contains(t, d.Status(), "pick a subcategory")
}

func TestTrackerTUI_CommaInNoteRejected(t *testing.T) {
	env := newTestEnv(t, "a:reading\n")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	d.PressKey('1')
	d.PressEnter()
	d.Type(",x")
	d.PressEnter()

	assert.Contains(t, d.Status(), "cannot contain commas")
	assert.Contains(t, stripANSI(d.View()), "note: reading")
}

func TestTrackerTUI_CtrlCWhileEditingShutsDown(t *testing.T) {
	env := newTestEnv(t, "")
	d := NewTestDriver(t, env.app)

	d.PressKey('b')
	d.PressKey('1')
	require.True(t, d.Editing())
	env.clock.Set(testutil.Day(0, 9, 20))
	d.PressCtrlC()

	assert.True(t, d.Quitting)
	assert.Equal(t, []string{"b 2025/03/10 09:00-09:20"}, env.weekLines(t, testutil.Day(0, 0, 0)))
}

func TestTrackerTUI_TicksRefreshAndHeartbeat(t *testing.T) {
	env := newTestEnv(t, "")
	d := NewTestDriver(t, env.app)

	d.PressKey('a')
	env.clock.Set(testutil.Day(0, 9, 42))
	d.Send(clockTickMsg(time.Now()))
	assert.Contains(t, stripANSI(d.View()), "0:42:00")

	d.Send(heartbeatMsg(time.Now()))
	seenAt, err := lastHeartbeat(env)
	require.NoError(t, err)
	assert.True(t, seenAt.Equal(testutil.Day(0, 9, 42)))
}

func TestFinishSession_ClosesOpenInterval(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	m := newTrackerModel(ctx, env.app)
	updated, _ := m.Update(keyRune('a'))

	env.clock.Set(testutil.Day(0, 9, 30))
	written, err := finishSession(env.app, updated)
	require.NoError(t, err)
	assert.Len(t, written, 1)
	assert.False(t, env.app.Tracker.View().Active)
	assert.Equal(t, []string{"a 2025/03/10 09:00-09:30"}, env.weekLines(t, testutil.Day(0, 0, 0)))
}

func lastHeartbeat(env *testEnv) (time.Time, error) {
	cp, err := env.checkpoints.Get(context.Background())
	if err != nil {
		return time.Time{}, err
	}
	return cp.SeenAt, nil
}
