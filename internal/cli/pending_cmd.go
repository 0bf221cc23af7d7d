package cli

import (
	"fmt"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPendingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Inspect and retry entries that could not be written",
	}
	cmd.AddCommand(
		newPendingListCmd(app),
		newPendingFlushCmd(app),
	)
	return cmd
}

func newPendingListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Journal.Pending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPending(entries, app.now()))
			return nil
		},
	}
}

func newPendingFlushCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Append queued entries to their week files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stop := formatter.StartSpinner(cmd.ErrOrStderr(), app.interactive(), "Writing queued entries...")
			flushed, err := app.Journal.Flush(ctx)
			stop()

			if flushed > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render(fmt.Sprintf("Wrote %d queued entries.", flushed)))
			}
			if err != nil {
				return fmt.Errorf("flush stopped: %w", err)
			}
			remaining, err := app.Journal.Count(ctx)
			if err != nil {
				return err
			}
			if flushed == 0 && remaining == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("No queued entries."))
			}
			return nil
		},
	}
}
