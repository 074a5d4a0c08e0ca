package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-manager/internal/config"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/storage"
	"task-manager/internal/store"
)

// annotationNoStore marks commands that run without opening storage.
const annotationNoStore = "tm/no-store"

// StoreFactory opens the task store for a loaded configuration. The returned
// function releases the underlying storage.
type StoreFactory func(cfg *config.Config, logger *zap.Logger) (*store.Store, func() error, error)

// DefaultStoreFactory opens the storage backend named by the configuration.
func DefaultStoreFactory(cfg *config.Config, logger *zap.Logger) (*store.Store, func() error, error) {
	persister, err := config.CreatePersister(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return store.New(persister, store.WithLogger(logger)), persister.Close, nil
}

// RootOptions injects dependencies into the root command. Zero values select
// the production defaults.
type RootOptions struct {
	Loader       *config.Loader
	StoreFactory StoreFactory
	Logger       *zap.Logger
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	opts       RootOptions
	config     *config.Config
	logger     *zap.Logger
	app        *App
	closeStore func() error
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts RootOptions) *RootCommand {
	if opts.Loader == nil {
		opts.Loader = config.NewLoader()
	}
	if opts.StoreFactory == nil {
		opts.StoreFactory = DefaultStoreFactory
	}
	root := &RootCommand{opts: opts}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A command-line personal task manager",
		Long: `Task Manager (tm) keeps a personal list of tasks with status, priority,
tags and due dates, stored locally.

EXAMPLES:
  tm add "Buy milk" --priority low --tag home     # Create a task
  tm list --status pending --tag home             # Filter tasks
  tm list --from 2025-01-01 --to 2025-01-31       # Tasks due in January
  tm toggle 3f2a                                  # pending -> in-progress -> completed
  tm update 3f2a --due 2025-02-01 --clear-tags    # Edit a task
  tm stats                                        # Counts by status

Task IDs may be shortened to any prefix that matches a single task.

CONFIGURATION:
  Priority order: command-line flags > environment variables > config file > defaults

  TM_CONFIG_FILE                 YAML config file
  TM_STORAGE_BACKEND             sqlite, file, redis or memory (default: sqlite)
  TM_STORAGE_DIR                 Storage directory (default: ~/.tm)
  TM_STORAGE_FILENAME            SQLite filename (default: tm.db)
  TM_STORAGE_KEY                 Key the task list is stored under (default: task-manager-storage)
  TM_REDIS_ADDR                  Redis address (default: localhost:6379)
  TM_STORAGE_READ_TIMEOUT        Read timeout (default: 10s)
  TM_STORAGE_WRITE_TIMEOUT       Write timeout (default: 5s)
  TM_VALIDATION_TITLE_MIN/MAX    Title length limits (default: 1/255)
  TM_VALIDATION_MAX_TAGS         Maximum tags per task (default: 20)
  TM_DISPLAY_TIME_FORMAT         Date format (default: 2006-01-02)
  TM_DISPLAY_RELATIVE_DATES      Show "in 3 days" hints (default: true)
  TM_LIST_DEFAULT_FORMAT         table or json (default: table)
  TM_APP_VERBOSE, TM_DEBUG       Debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and releases storage afterwards
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if err != nil {
		r.logFailure(err)
	}
	r.close()
	return err
}

// logFailure records unexpected failures at debug level; user mistakes are
// already explained by the returned error.
func (r *RootCommand) logFailure(err error) {
	if r.logger == nil || !apperrors.ShouldLogError(err) {
		return
	}
	fields := []zap.Field{zap.String("code", NewErrorHandler().GetErrorCode(err)), zap.Error(err)}
	if appErr, ok := apperrors.AsAppError(err); ok {
		if operation, ok := appErr.GetContext("operation"); ok {
			fields = append(fields, zap.Any("operation", operation))
		}
	}
	r.logger.Debug("command failed", fields...)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Storage configuration
	flags.String("backend", "", "Storage backend: sqlite, file, redis, memory (overrides TM_STORAGE_BACKEND)")
	flags.String("storage-dir", "", "Storage directory (overrides TM_STORAGE_DIR)")
	flags.String("db-filename", "", "SQLite filename (overrides TM_STORAGE_FILENAME)")
	flags.String("storage-key", "", "Storage key (overrides TM_STORAGE_KEY)")
	flags.String("redis-addr", "", "Redis address (overrides TM_REDIS_ADDR)")
	flags.Duration("read-timeout", 0, "Storage read timeout (overrides TM_STORAGE_READ_TIMEOUT)")
	flags.Duration("write-timeout", 0, "Storage write timeout (overrides TM_STORAGE_WRITE_TIMEOUT)")

	// Display configuration
	flags.String("time-format", "", "Date display format (overrides TM_DISPLAY_TIME_FORMAT)")
	flags.Bool("relative-dates", true, "Show relative date hints (overrides TM_DISPLAY_RELATIVE_DATES)")

	// Application configuration
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TM_APP_VERBOSE)")

	// Commands configuration
	flags.String("list-format", "", "Default output format for list, show and stats (overrides TM_LIST_DEFAULT_FORMAT)")
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}

	overrides.Backend = stringFlag("backend")
	overrides.StorageDir = stringFlag("storage-dir")
	overrides.Filename = stringFlag("db-filename")
	overrides.Key = stringFlag("storage-key")
	overrides.RedisAddr = stringFlag("redis-addr")
	overrides.TimeFormat = stringFlag("time-format")
	overrides.ListDefaultFormat = stringFlag("list-format")

	if flags.Changed("read-timeout") {
		timeout, _ := flags.GetDuration("read-timeout")
		overrides.ReadTimeout = &timeout
	}
	if flags.Changed("write-timeout") {
		timeout, _ := flags.GetDuration("write-timeout")
		overrides.WriteTimeout = &timeout
	}
	if flags.Changed("relative-dates") {
		relative, _ := flags.GetBool("relative-dates")
		overrides.RelativeDates = &relative
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}

	return overrides
}

// setup loads configuration, builds the logger and opens the store
func (r *RootCommand) setup(cmd *cobra.Command) error {
	cfg, err := r.opts.Loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return NewErrorHandler().HandleSimple(err)
	}
	r.config = cfg

	r.logger = r.opts.Logger
	if r.logger == nil {
		if r.logger, err = logging.New(logging.Options{Verbose: cfg.Application.Verbose}); err != nil {
			return err
		}
	}
	logging.SetDefault(r.logger)

	if cmd.Annotations[annotationNoStore] == "true" {
		return nil
	}

	logging.Debugln("opening storage backend", cfg.Storage.Backend)
	s, closeStore, err := r.opts.StoreFactory(cfg, r.logger)
	if err != nil {
		s = r.unavailableStore(cmd, cfg, err)
		closeStore = nil
	}
	r.closeStore = closeStore

	r.app = NewApp(s, cfg)
	r.app.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return nil
}

// unavailableStore lets commands run on an empty in-memory collection when
// storage cannot be opened. Every save reports the open failure.
func (r *RootCommand) unavailableStore(cmd *cobra.Command, cfg *config.Config, openErr error) *store.Store {
	unavailable := apperrors.WrapError(openErr, apperrors.ErrorTypeUnavailable, "storage unavailable: "+openErr.Error()).
		WithContext("backend", cfg.Storage.Backend)

	r.logger.Warn("storage unavailable, working in memory",
		zap.String("backend", cfg.Storage.Backend), zap.Error(openErr))
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", apperrors.GetUserMessage(unavailable))

	return store.New(storage.Unavailable(unavailable), store.WithLogger(r.logger))
}

func (r *RootCommand) close() {
	if r.closeStore != nil {
		if err := r.closeStore(); err != nil && r.logger != nil {
			r.logger.Warn("closing storage failed", zap.Error(err))
		}
		r.closeStore = nil
	}
	if r.logger != nil {
		_ = r.logger.Sync()
	}
}
