package cli

import (
	"strings"

	"task-manager/internal/domain"
)

// AddOptions holds the flags of the add command
type AddOptions struct {
	Description string
	Priority    string
	Status      string
	Tags        []string
	Due         string
}

// AddCommand handles the add command
type AddCommand struct {
	app  *App
	opts AddOptions
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App, opts AddOptions) *AddCommand {
	return &AddCommand{app: app, opts: opts}
}

// Execute creates a task titled by the joined arguments
func (c *AddCommand) Execute(args []string) error {
	fields, err := c.buildFields(strings.Join(args, " "))
	if err != nil {
		return c.app.errorHandler.Handle("add task", err)
	}

	task := c.app.store.Create(fields)
	c.app.printf("Created task %s: %s\n", shortID(task.ID), task.Title)
	c.app.reportPersistence()
	return nil
}

func (c *AddCommand) buildFields(title string) (domain.TaskFields, error) {
	v := c.app.validator

	title, err := v.GetValidTitle(title)
	if err != nil {
		return domain.TaskFields{}, err
	}
	fields := domain.NewTaskFields(title)
	fields.Description = strings.TrimSpace(c.opts.Description)
	fields.Tags = normalizeTags(c.opts.Tags)

	if c.opts.Priority != "" {
		if fields.Priority, err = v.ParsePriority(c.opts.Priority); err != nil {
			return domain.TaskFields{}, err
		}
	}
	if c.opts.Status != "" {
		if fields.Status, err = v.ParseStatus(c.opts.Status); err != nil {
			return domain.TaskFields{}, err
		}
	}
	if c.opts.Due != "" {
		if fields.DueDate, err = v.ParseDueDate(c.opts.Due); err != nil {
			return domain.TaskFields{}, err
		}
	}

	return fields, v.ValidateFields(fields)
}

// normalizeTags trims each tag and drops empty ones, keeping order and duplicates.
func normalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
