package cli

import (
	"github.com/spf13/cobra"
)

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newAddCommand(),
		r.newUpdateCommand(),
		r.newToggleCommand(),
		r.newDeleteCommand(),
		r.newShowCommand(),
		r.newListCommand(),
		r.newStatsCommand(),
		r.newConfigCommand(),
	)
}

func (r *RootCommand) newAddCommand() *cobra.Command {
	var opts AddOptions

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Long: `Create a task. Multiple arguments are joined into the title.
New tasks are pending with medium priority unless flags say otherwise.

Examples:
  tm add Buy milk
  tm add "Write report" --priority high --tag work --due 2025-03-01`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewAddCommand(r.app, opts).Execute(args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Description, "desc", "d", "", "Description")
	flags.StringVarP(&opts.Priority, "priority", "p", "", "Priority: low, medium, high")
	flags.StringVarP(&opts.Status, "status", "s", "", "Status: pending, in-progress, completed")
	flags.StringSliceVarP(&opts.Tags, "tag", "t", nil, "Tag (repeatable or comma separated)")
	flags.StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}

func (r *RootCommand) newUpdateCommand() *cobra.Command {
	var (
		title, description, priority, status, due string
		tags                                      []string
		clearTags, clearDue                       bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a task",
		Long: `Change one or more fields of a task. Fields without a flag are left alone.
Pass --desc "" to remove the description.

Examples:
  tm update 3f2a --title "Buy oat milk"
  tm update 3f2a --tag home --tag errand
  tm update 3f2a --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts := UpdateOptions{ClearTags: clearTags, ClearDue: clearDue}
			if flags.Changed("title") {
				opts.Title = &title
			}
			if flags.Changed("desc") {
				opts.Description = &description
			}
			if flags.Changed("priority") {
				opts.Priority = &priority
			}
			if flags.Changed("status") {
				opts.Status = &status
			}
			if flags.Changed("tag") {
				opts.Tags = &tags
			}
			if flags.Changed("due") {
				opts.Due = &due
			}
			return NewUpdateCommand(r.app, opts).Execute(args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "New title")
	flags.StringVarP(&description, "desc", "d", "", "New description")
	flags.StringVarP(&priority, "priority", "p", "", "New priority")
	flags.StringVarP(&status, "status", "s", "", "New status")
	flags.StringSliceVarP(&tags, "tag", "t", nil, "Replace tags")
	flags.BoolVar(&clearTags, "clear-tags", false, "Remove all tags")
	flags.StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	flags.BoolVar(&clearDue, "clear-due", false, "Remove the due date")
	cmd.MarkFlagsMutuallyExclusive("tag", "clear-tags")
	cmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	return cmd
}

func (r *RootCommand) newToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Advance a task: pending -> in-progress -> completed -> pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewToggleCommand(r.app).Execute(args)
		},
	}
}

func (r *RootCommand) newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long:    "Delete a task permanently. This operation cannot be undone.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewDeleteCommand(r.app).Execute(args)
		},
	}
}

func (r *RootCommand) newShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show all fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewShowCommand(r.app, format).Execute(args)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table or json")

	return cmd
}

func (r *RootCommand) newListCommand() *cobra.Command {
	var opts ListOptions

	cmd := &cobra.Command{
		Use:     "list [keyword]",
		Aliases: []string{"ls"},
		Short:   "List tasks, optionally filtered",
		Long: `List tasks in creation order. All given filters must match.

Tag filters match tasks carrying any of the tags; tasks without tags never match.
Date filters apply to due dates; tasks without a due date always pass.

Examples:
  tm list
  tm list --status pending --priority high
  tm list --tag work --tag urgent
  tm list milk                       # keyword in title or description
  tm list --to 2025-01-31 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewListCommand(r.app, opts).Execute(args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Status, "status", "s", "", "Status filter, or all")
	flags.StringVarP(&opts.Priority, "priority", "p", "", "Priority filter, or all")
	flags.StringSliceVarP(&opts.Tags, "tag", "t", nil, "Tag filter (match any)")
	flags.StringVarP(&opts.Keyword, "keyword", "k", "", "Case-insensitive text in title or description")
	flags.StringVar(&opts.From, "from", "", "Earliest due date (YYYY-MM-DD)")
	flags.StringVar(&opts.To, "to", "", "Latest due date (YYYY-MM-DD)")
	flags.StringVarP(&opts.Format, "format", "f", "", "Output format: table or json")

	return cmd
}

func (r *RootCommand) newStatsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count tasks by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewStatsCommand(r.app, format).Execute(args)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table or json")

	return cmd
}

func (r *RootCommand) newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	showCmd := &cobra.Command{
		Use:         "show",
		Short:       "Print the merged configuration as YAML",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := r.config.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(showCmd)
	return configCmd
}
