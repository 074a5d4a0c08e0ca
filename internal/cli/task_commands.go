package cli

import (
	"task-manager/internal/config"
	"task-manager/internal/errors"
)

// ToggleCommand advances a task to its next status
type ToggleCommand struct {
	app *App
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{app: app}
}

// Execute toggles the task named by args[0]
func (c *ToggleCommand) Execute(args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("toggle task", err)
	}
	if !c.app.store.ToggleStatus(task.ID) {
		return c.app.errorHandler.Handle("toggle task", notFound(task.ID))
	}

	toggled, _ := c.app.store.GetByID(task.ID)
	c.app.printf("Task %s is now %s\n", shortID(toggled.ID), toggled.Status)
	c.app.reportPersistence()
	return nil
}

// DeleteCommand removes a task
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the task named by args[0]
func (c *DeleteCommand) Execute(args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("delete task", err)
	}
	if !c.app.store.Delete(task.ID) {
		return c.app.errorHandler.Handle("delete task", notFound(task.ID))
	}

	c.app.printf("Deleted task %s: %s\n", shortID(task.ID), task.Title)
	c.app.reportPersistence()
	return nil
}

// ShowCommand prints one task in full
type ShowCommand struct {
	app    *App
	format string
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App, format string) *ShowCommand {
	return &ShowCommand{app: app, format: format}
}

// Execute prints the task named by args[0]
func (c *ShowCommand) Execute(args []string) error {
	task, err := c.app.resolveTask(args[0])
	if err != nil {
		return c.app.errorHandler.Handle("show task", err)
	}

	format, err := c.app.resolveFormat(c.format)
	if err != nil {
		return err
	}
	if format == config.FormatJSON {
		return writeJSON(c.app.out, task)
	}
	return c.app.writeTaskDetail(task)
}

func notFound(id string) error {
	return errors.NewNotFoundError("task", id)
}
