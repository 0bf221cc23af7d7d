package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type clockTickMsg time.Time

type heartbeatMsg time.Time

type trackerKeyMap struct {
	Quit   key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Save   key.Binding
}

func defaultTrackerKeys() trackerKeyMap {
	return trackerKeyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "stop & quit")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit note")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save note")),
	}
}

// trackerModel is the bubbletea model of the live tracker. Every key press
// becomes a typed event handed to the TrackerService; the model renders
// only the TrackerView it gets back.
type trackerModel struct {
	ctx     context.Context
	app     *App
	keys    trackerKeyMap
	view    app.TrackerView
	input   textinput.Model
	editing bool
	status  string
	written []domain.LogEntry
	width   int
	done    bool
}

func newTrackerModel(ctx context.Context, a *App) trackerModel {
	ti := textinput.New()
	ti.Prompt = "note ❯ "
	ti.CharLimit = domain.MaxNoteLength
	return trackerModel{
		ctx:   ctx,
		app:   a,
		keys:  defaultTrackerKeys(),
		view:  a.Tracker.View(),
		input: ti,
	}
}

func (m trackerModel) Init() tea.Cmd {
	return tea.Batch(clockTick(), heartbeatTick(m.app.Interval))
}

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func heartbeatTick(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return heartbeatMsg(t) })
}

func (m trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case clockTickMsg:
		m.view = m.app.Tracker.View()
		return m, clockTick()

	case heartbeatMsg:
		if err := m.app.Tracker.Heartbeat(m.ctx); err != nil {
			m.status = formatter.Error(err)
		}
		return m, heartbeatTick(m.app.Interval)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateTracking(msg)
	}

	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m trackerModel) updateTracking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.shutdown()
	case key.Matches(msg, m.keys.Edit):
		if !m.view.HasSubcategory() {
			m.status = formatter.Dim("pick a subcategory digit before editing the note")
			return m, nil
		}
		return m.startEditing()
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return m, nil
	}
	r := msg.Runes[0]
	if r >= '0' && r <= '9' {
		m.handle(domain.SubcategorySelected{Digit: int(r - '0')})
		if m.view.AwaitingNote {
			return m.startEditing()
		}
		return m, nil
	}
	m.handle(domain.CategorySelected{Key: string(r)})
	return m, nil
}

func (m trackerModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.stopEditing()
		return m.shutdown()
	case key.Matches(msg, m.keys.Cancel):
		m.stopEditing()
		m.status = formatter.Dim("note unchanged")
		return m, nil
	case key.Matches(msg, m.keys.Save):
		text := m.input.Value()
		m.stopEditing()
		m.handle(domain.NoteEdited{Text: text})
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m trackerModel) startEditing() (tea.Model, tea.Cmd) {
	m.editing = true
	m.input.SetValue(m.view.Note)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *trackerModel) stopEditing() {
	m.editing = false
	m.input.Blur()
	m.input.Reset()
}

func (m trackerModel) shutdown() (tea.Model, tea.Cmd) {
	m.handle(domain.Shutdown{})
	m.done = true
	return m, tea.Quit
}

// handle sends ev to the tracker and turns the outcome into a status line.
func (m *trackerModel) handle(ev domain.Event) {
	out, err := m.app.Tracker.Handle(m.ctx, ev)
	m.view = out.View
	m.written = append(m.written, out.Written...)
	m.status = describeOutcome(out, err)
}

func describeOutcome(out app.Outcome, err error) string {
	switch {
	case errors.Is(err, service.ErrEntriesQueued):
		return formatter.Warn(err.Error())
	case errors.Is(err, domain.ErrInvalidNote):
		return formatter.StyleRed.Render("notes cannot contain commas or line breaks")
	case err != nil:
		return formatter.Error(err)
	case out.Ignored != "":
		return formatter.Dim(string(out.Ignored))
	case len(out.Written) > 0:
		parts := make([]string, 0, len(out.Written))
		for _, e := range out.Written {
			parts = append(parts, fmt.Sprintf("%s %s-%s", e.Category, formatter.ClockTime(e.Start), formatter.ClockTime(e.End)))
		}
		return formatter.StyleGreen.Render("logged " + strings.Join(parts, ", "))
	}
	return ""
}

func (m trackerModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.StylePurple.Render("punchclock") + "  " + formatter.FormatLegend(m.view.Categories))
	b.WriteString("\n\n")

	body := formatter.FormatTrackerStatus(m.view)
	if m.view.Active {
		body += "\n\n" + formatter.FormatSlots(m.view.Slots)
	}
	b.WriteString(formatter.RenderBox("", strings.TrimRight(body, "\n")))
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.view.Pending > 0 {
		b.WriteString(formatter.Warn(fmt.Sprintf("%d entries queued, run `punchclock pending flush`", m.view.Pending)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m trackerModel) helpLine() string {
	bindings := []key.Binding{m.keys.Edit, m.keys.Quit}
	if m.editing {
		bindings = []key.Binding{m.keys.Save, m.keys.Cancel}
	}
	hints := []string{formatter.Dim("a-z: category"), formatter.Dim("1-0: subcategory")}
	if m.editing {
		hints = nil
	}
	for _, kb := range bindings {
		hints = append(hints, formatter.Dim(kb.Help().Key+": "+kb.Help().Desc))
	}
	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
