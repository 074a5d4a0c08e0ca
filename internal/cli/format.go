package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// formatTimestamp renders a millisecond timestamp using the display settings,
// with a relative hint such as "3 days from now" when enabled.
func (a *App) formatTimestamp(ms int64) string {
	t := time.UnixMilli(ms)
	formatted := t.Format(a.config.Display.TimeFormat)
	if !a.config.Display.RelativeDates {
		return formatted
	}
	return fmt.Sprintf("%s (%s)", formatted, humanize.RelTime(t, timeNow(), "ago", "from now"))
}

func (a *App) formatDue(task domain.Task) string {
	if task.DueDate == nil {
		return "-"
	}
	return a.formatTimestamp(*task.DueDate)
}

// resolveFormat picks the flag value, falling back to the configured default.
func (a *App) resolveFormat(flagValue string) (string, error) {
	format := flagValue
	if format == "" {
		format = a.config.Commands.ListDefaultFormat
	}
	switch format {
	case config.FormatTable, config.FormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use table or json)", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) writeTaskTable(tasks []domain.Task) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTAGS\tTITLE")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			task.Status,
			task.Priority,
			a.formatDue(task),
			formatTags(task.Tags),
			task.Title,
		)
	}
	return tw.Flush()
}

func (a *App) writeTaskDetail(task domain.Task) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", task.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", task.Title)
	if task.HasDescription() {
		fmt.Fprintf(tw, "Description:\t%s\n", task.Description)
	}
	fmt.Fprintf(tw, "Status:\t%s\n", task.Status)
	fmt.Fprintf(tw, "Priority:\t%s\n", task.Priority)
	fmt.Fprintf(tw, "Tags:\t%s\n", formatTags(task.Tags))
	fmt.Fprintf(tw, "Due:\t%s\n", a.formatDue(task))
	fmt.Fprintf(tw, "Created:\t%s\n", a.formatTimestamp(task.CreatedAt))
	fmt.Fprintf(tw, "Updated:\t%s\n", a.formatTimestamp(task.UpdatedAt))
	return tw.Flush()
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ",")
}
