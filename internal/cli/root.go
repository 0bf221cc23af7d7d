package cli

import (
	"io"
	"time"

	"github.com/alexanderramin/punchclock/internal/config"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all services used by CLI commands.
type App struct {
	Tracker  service.TrackerService
	Journal  service.JournalService
	Reports  service.ReportService
	Subcats  service.SubcategoryService
	Config   config.Config
	Now      func() time.Time
	Interval time.Duration

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "punchclock" command. Running it with
// no subcommand on a terminal starts the tracker.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "punchclock",
		Short:         "Track where your time goes, one keypress at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			return runTracker(cmd, app)
		},
	}
	root.PersistentFlags().String("config", "", "config file (default <data_dir>/punchclock.yaml)")

	root.AddCommand(
		newTrackCmd(app),
		newCategoriesCmd(app),
		newSubcatCmd(app),
		newReportCmd(app),
		newPendingCmd(app),
		newConfigCmd(app),
	)
	return root
}

// ConfigPath extracts --config from args before the command tree exists,
// since the services the commands need are built from the config.
func ConfigPath(args []string) string {
	fs := pflag.NewFlagSet("punchclock", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	path := fs.String("config", "", "")
	_ = fs.Parse(args)
	return *path
}
