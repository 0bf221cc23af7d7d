package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/bytedance/sonic"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// followDebounce coalesces the burst of events a single append produces.
const followDebounce = 100 * time.Millisecond

func newReportCmd(a *App) *cobra.Command {
	var day int
	var week string
	var asJSON, follow bool

	cmd := &cobra.Command{
		Use:   "report [FILE]",
		Short: "Summarize hours per category for a week",
		Long: `Summarize hours per category for a week.

Without FILE the current week's file is used; --week picks the week
containing the given date instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := app.ReportRequest{Day: day}
			if len(args) == 1 {
				req.File = args[0]
			}
			if week != "" {
				t, err := time.ParseInLocation("2006-01-02", week, time.Local)
				if err != nil {
					return fmt.Errorf("--week must be YYYY-MM-DD: %w", err)
				}
				req.Week = &t
			}
			now := a.now()
			req.Now = &now

			render := func(w io.Writer) error {
				return renderReport(cmd.Context(), a, req, asJSON, w)
			}
			if !follow {
				return render(cmd.OutOrStdout())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			path, err := a.Reports.WeekFile(ctx, req)
			if err != nil {
				return err
			}
			return followReport(ctx, cmd.OutOrStdout(), path, render)
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "only count records dated on this day of the month")
	cmd.Flags().StringVar(&week, "week", "", "report the week containing this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "re-render whenever the week file changes")

	return cmd
}

func renderReport(ctx context.Context, a *App, req app.ReportRequest, asJSON bool, w io.Writer) error {
	rep, err := a.Reports.Report(ctx, req)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && req.File == "" {
			return fmt.Errorf("no entries recorded for that week yet: %w", err)
		}
		return err
	}
	if asJSON {
		data, err := sonic.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err = fmt.Fprint(w, formatter.FormatReport(rep))
	return err
}

// followReport renders once, then again after every change to path until
// ctx is done. The parent directory is watched so the file may be created
// after following starts.
func followReport(ctx context.Context, out io.Writer, path string, render func(io.Writer) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	show := func() {
		if err := render(out); err != nil {
			fmt.Fprintln(out, formatter.Warn(err.Error()))
		}
		fmt.Fprintln(out, formatter.Dim("watching "+path+" (Ctrl+C to stop)"))
	}
	show()

	target := filepath.Clean(path)
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(out, formatter.Warn("watch error: "+err.Error()))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				debounce = time.After(followDebounce)
			}
		case <-debounce:
			debounce = nil
			show()
		}
	}
}
