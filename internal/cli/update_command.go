package cli

import (
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/validation"
)

// UpdateOptions holds the flags of the update command. Nil fields were not given.
type UpdateOptions struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *string
	Tags        *[]string
	Due         *string
	ClearTags   bool
	ClearDue    bool
}

// UpdateCommand handles the update command
type UpdateCommand struct {
	app  *App
	opts UpdateOptions
}

// NewUpdateCommand creates a new update command handler
func NewUpdateCommand(app *App, opts UpdateOptions) *UpdateCommand {
	return &UpdateCommand{app: app, opts: opts}
}

// Execute applies the given flags to the task named by args[0]
func (c *UpdateCommand) Execute(args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("update task", err)
	}

	patch, err := c.buildPatch()
	if err != nil {
		return c.app.errorHandler.Handle("update task", err)
	}

	updated, ok := c.app.store.Update(task.ID, patch)
	if !ok {
		return c.app.errorHandler.Handle("update task", notFound(task.ID))
	}
	c.app.printf("Updated task %s: %s\n", shortID(updated.ID), updated.Title)
	c.app.reportPersistence()
	return nil
}

func (c *UpdateCommand) buildPatch() (domain.TaskPatch, error) {
	v := c.app.validator
	var patch domain.TaskPatch

	if c.opts.Title != nil {
		title := strings.TrimSpace(*c.opts.Title)
		patch.Title = &title
	}
	if c.opts.Description != nil {
		description := strings.TrimSpace(*c.opts.Description)
		patch.Description = &description
	}
	if c.opts.Priority != nil {
		priority, err := v.ParsePriority(*c.opts.Priority)
		if err != nil {
			return patch, err
		}
		patch.Priority = &priority
	}
	if c.opts.Status != nil {
		status, err := v.ParseStatus(*c.opts.Status)
		if err != nil {
			return patch, err
		}
		patch.Status = &status
	}
	if c.opts.ClearTags {
		patch.Tags = &[]string{}
	} else if c.opts.Tags != nil {
		tags := normalizeTags(*c.opts.Tags)
		if len(tags) == 0 {
			validationError := validation.NewValidationError()
			validationError.AddInvalidValueError("tag", "", "no tags given; use --clear-tags to remove all tags")
			return patch, validationError
		}
		patch.Tags = &tags
	}
	if c.opts.Due != nil {
		due, err := v.ParseDueDate(*c.opts.Due)
		if err != nil {
			return patch, err
		}
		patch.DueDate = due
	}
	patch.ClearDueDate = c.opts.ClearDue

	return patch, v.ValidatePatch(patch)
}
