package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/alexanderramin/punchclock/internal/weeklog"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Start the live tracker",
		Long: `Start the live tracker.

Press a category key from the legend to start timing it; pressing another
key closes the current interval and opens the next. Digits 1-9 and 0 pick a
subcategory slot, Enter edits the note of the selected slot, Esc or Ctrl+C
closes the open interval and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracker(cmd, app)
		},
	}
}

func runTracker(cmd *cobra.Command, a *App) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := recoverSession(ctx, a, cmd.ErrOrStderr()); err != nil {
		return err
	}

	p := tea.NewProgram(newTrackerModel(ctx, a),
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, runErr := p.Run()

	// A signal ends the program before the model sees a key, so the open
	// interval is closed here.
	written, shutdownErr := finishSession(a, final)
	printWritten(cmd.OutOrStdout(), written)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return errors.Join(fmt.Errorf("running tracker: %w", runErr), shutdownErr)
	}
	return shutdownErr
}

func recoverSession(ctx context.Context, a *App, out io.Writer) error {
	res, err := a.Tracker.Recover(ctx)
	if err != nil && !errors.Is(err, service.ErrEntriesQueued) {
		return fmt.Errorf("recovering previous session: %w", err)
	}
	if res.Recovered {
		fmt.Fprintln(out, formatter.Warn(fmt.Sprintf(
			"previous run did not exit cleanly; closed %s interval at %s",
			res.Session.Category, formatter.ClockTime(res.EndedAt))))
		printWritten(out, res.Entries)
	}
	if err != nil {
		fmt.Fprintln(out, formatter.Warn(err.Error()))
	}
	return nil
}

func finishSession(a *App, final tea.Model) ([]domain.LogEntry, error) {
	var written []domain.LogEntry
	if m, ok := final.(trackerModel); ok {
		written = m.written
	}
	if !a.Tracker.View().Active {
		return written, nil
	}
	out, err := a.Tracker.Handle(context.Background(), domain.Shutdown{})
	written = append(written, out.Written...)
	return written, err
}

func printWritten(out io.Writer, entries []domain.LogEntry) {
	for _, e := range entries {
		fmt.Fprintln(out, formatter.Dim("  "+weeklog.FormatRecord(e)))
	}
}
