package cli

import (
	"strings"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// ListOptions holds the filter and output flags of the list command
type ListOptions struct {
	Status   string
	Priority string
	Tags     []string
	Keyword  string
	From     string
	To       string
	Format   string
}

// ListCommand handles the list command
type ListCommand struct {
	app  *App
	opts ListOptions
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App, opts ListOptions) *ListCommand {
	return &ListCommand{app: app, opts: opts}
}

// Execute prints the tasks matching the filters. Extra arguments are joined into the keyword.
func (c *ListCommand) Execute(args []string) error {
	format, err := c.app.resolveFormat(c.opts.Format)
	if err != nil {
		return err
	}

	filters, err := c.buildFilters(args)
	if err != nil {
		return c.app.errorHandler.Handle("list tasks", err)
	}

	tasks := c.app.store.Filter(filters)

	if format == config.FormatJSON {
		return writeJSON(c.app.out, tasks)
	}
	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}
	return c.app.writeTaskTable(tasks)
}

func (c *ListCommand) buildFilters(args []string) (domain.Filters, error) {
	keyword := c.opts.Keyword
	if len(args) > 0 {
		keyword = strings.TrimSpace(keyword + " " + strings.Join(args, " "))
	}

	filters := domain.Filters{
		Status:   domain.Status(strings.TrimSpace(c.opts.Status)),
		Priority: domain.Priority(strings.TrimSpace(c.opts.Priority)),
		Tags:     normalizeTags(c.opts.Tags),
		Keyword:  keyword,
	}

	dateRange, err := c.app.validator.ParseDateRange(c.opts.From, c.opts.To)
	if err != nil {
		return filters, err
	}
	filters.DateRange = dateRange

	return filters, c.app.validator.ValidateFilters(filters)
}
