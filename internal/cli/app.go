package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/store"
	"task-manager/internal/validation"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// shortIDLength is how many characters of an ID the table view prints.
const shortIDLength = 8

// App holds what every command handler needs
type App struct {
	store        *store.Store
	config       *config.Config
	validator    *validation.TaskValidator
	errorHandler *ErrorHandler
	out          io.Writer
	errOut       io.Writer
}

// NewApp creates a new CLI application over an existing store
func NewApp(s *store.Store, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		store:        s,
		config:       cfg,
		validator:    validation.NewTaskValidatorWithConfig(cfg),
		errorHandler: NewErrorHandler(),
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
}

// SetOutput redirects normal and warning output.
func (a *App) SetOutput(out, errOut io.Writer) {
	a.out = out
	a.errOut = errOut
}

// Store returns the task store the commands operate on.
func (a *App) Store() *store.Store {
	return a.store
}

// resolveTask finds a task by full ID or by a prefix that matches exactly one task.
func (a *App) resolveTask(idOrPrefix string) (domain.Task, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return domain.Task{}, errors.NewInvalidInputError("id", idOrPrefix, "task id is required")
	}
	if task, ok := a.store.GetByID(idOrPrefix); ok {
		return task, nil
	}

	var matches []domain.Task
	for _, task := range a.store.Tasks() {
		if strings.HasPrefix(task.ID, idOrPrefix) {
			matches = append(matches, task)
		}
	}

	switch len(matches) {
	case 0:
		return domain.Task{}, errors.NewNotFoundError("task", idOrPrefix)
	case 1:
		logging.Debugf("resolved %q to task %s", idOrPrefix, matches[0].ID)
		return matches[0], nil
	default:
		return domain.Task{}, errors.NewInvalidInputError("id", idOrPrefix,
			fmt.Sprintf("prefix matches %d tasks", len(matches)))
	}
}

// reportPersistence warns when the last save failed. The change itself stands.
// Unavailable storage was already reported when the command started.
func (a *App) reportPersistence() {
	err := a.store.LastPersistError()
	if err == nil || errors.IsErrorType(err, errors.ErrorTypeUnavailable) {
		return
	}
	fmt.Fprintf(a.errOut, "warning: %s\n", errors.GetUserMessage(err))
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
