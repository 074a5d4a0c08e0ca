package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"task-manager/internal/config"
)

// StatsCommand prints task counts by status
type StatsCommand struct {
	app    *App
	format string
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App, format string) *StatsCommand {
	return &StatsCommand{app: app, format: format}
}

// Execute prints the current counts
func (c *StatsCommand) Execute(args []string) error {
	format, err := c.app.resolveFormat(c.format)
	if err != nil {
		return err
	}

	stats := c.app.store.Stats()
	if format == config.FormatJSON {
		return writeJSON(c.app.out, stats)
	}

	tw := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%s\n", humanize.Comma(int64(stats.Total)))
	fmt.Fprintf(tw, "Pending:\t%s\n", humanize.Comma(int64(stats.Pending)))
	fmt.Fprintf(tw, "In progress:\t%s\n", humanize.Comma(int64(stats.InProgress)))
	fmt.Fprintf(tw, "Completed:\t%s\n", humanize.Comma(int64(stats.Completed)))
	if stats.Total > 0 {
		done := float64(stats.Completed) / float64(stats.Total) * 100
		fmt.Fprintf(tw, "Done:\t%.0f%%\n", done)
	}
	if savedAt, ok := c.app.store.LastSaved(); ok {
		fmt.Fprintf(tw, "Last saved:\t%s\n", c.app.formatTimestamp(savedAt.UnixMilli()))
	}
	return tw.Flush()
}
