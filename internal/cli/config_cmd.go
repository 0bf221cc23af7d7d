package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/punchclock/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := app.Config
			rows := [][]string{
				{"data_dir", c.DataDir},
				{"legend_file", c.LegendFile},
				{"subcategories_file", c.SubcategoriesFile},
				{"log_dir", c.LogDir},
				{"state_db", c.StateDB},
				{"log_file", c.LogFile},
				{"log_level", c.LogLevel},
				{"log.include_year", strconv.FormatBool(c.IncludeYear)},
				{"log.write_retries", strconv.Itoa(c.WriteRetries)},
				{"log.retry_delay", c.RetryDelay.String()},
				{"heartbeat_interval", c.HeartbeatInterval.String()},
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"KEY", "VALUE"}, rows))
			return nil
		},
	}
}
