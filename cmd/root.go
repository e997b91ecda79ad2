// Package cmd assembles the tablero command tree
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/apikey"
	"github.com/thenoetrevino/tablero/internal/cli/auth"
	"github.com/thenoetrevino/tablero/internal/cli/board"
	"github.com/thenoetrevino/tablero/internal/cli/column"
	"github.com/thenoetrevino/tablero/internal/cli/integration"
	"github.com/thenoetrevino/tablero/internal/cli/project"
	"github.com/thenoetrevino/tablero/internal/cli/styles"
	"github.com/thenoetrevino/tablero/internal/cli/task"
	"github.com/thenoetrevino/tablero/internal/cli/team"
	"github.com/thenoetrevino/tablero/internal/cli/use"
	"github.com/thenoetrevino/tablero/internal/cli/worklog"
	"github.com/thenoetrevino/tablero/internal/config"
	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/logging"
)

// Root is the command tree plus whatever its setup opened. Close releases
// it after the command finishes, whether or not it failed.
type Root struct {
	Cmd *cobra.Command

	app  *app.App
	logs io.Closer
}

// NewRoot builds the tablero command tree. The App is created before any
// subcommand runs unless the command context already carries one.
func NewRoot() *Root {
	r := &Root{}

	root := &cobra.Command{
		Use:   "tablero",
		Short: "Tablero - a kanban board client for your terminal",
		Long: `Tablero manages teams, projects, columns and tasks on a tablero server.

Open the board with 'tablero board'. Column reorders and card moves show at
once and are saved in the background.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
	}
	root.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/tablero/config.yaml)")

	root.AddCommand(auth.AuthCmd())
	root.AddCommand(team.TeamCmd())
	root.AddCommand(project.ProjectCmd())
	root.AddCommand(column.ColumnCmd())
	root.AddCommand(task.TaskCmd())
	root.AddCommand(task.CommentCmd())
	root.AddCommand(worklog.WorklogCmd())
	root.AddCommand(apikey.APIKeyCmd())
	root.AddCommand(integration.IntegrationCmd())
	root.AddCommand(use.UseCmd())
	root.AddCommand(board.BoardCmd())
	root.AddCommand(versionCmd())

	r.Cmd = root
	return r
}

func (r *Root) setup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cli.AppFrom(ctx) != nil {
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return r.fail(cmd, &cli.CommandError{
			Exit:       cli.ExitError,
			Code:       "CONFIG_ERROR",
			Message:    err.Error(),
			Suggestion: "Fix the config file or pass another one with --config",
			Err:        err,
		})
	}

	if r.logs, err = logging.Init(); err != nil {
		// Not fatal: commands still work, they just log nowhere.
		logging.Discard()
	}
	styles.Init(cfg.ColorScheme)

	var opts []app.Option
	if socketPath, err := events.DefaultSocketPath(); err == nil {
		if ec := app.ConnectEvents(ctx, socketPath); ec != nil {
			opts = append(opts, app.WithEventPublisher(ec))
		}
	}

	a, err := app.New(ctx, cfg, opts...)
	if err != nil {
		return r.fail(cmd, &cli.CommandError{
			Exit:    cli.ExitError,
			Code:    "INITIALIZATION_ERROR",
			Message: err.Error(),
			Err:     err,
		})
	}
	r.app = a
	cmd.SetContext(cli.WithApp(ctx, a))
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// fail prints errors raised before cli.Run took over
func (r *Root) fail(cmd *cobra.Command, e *cli.CommandError) error {
	cli.NewFormatter(cmd).Error(e)
	return e
}

// Close releases the App and the log file
func (r *Root) Close() {
	if r.app != nil {
		if err := r.app.Close(); err != nil {
			slog.Warn("error closing app", "error", err)
		}
		r.app = nil
	}
	if r.logs != nil {
		_ = r.logs.Close()
		r.logs = nil
	}
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	r := NewRoot()
	defer r.Close()

	r.Cmd.SetArgs(args)
	err := r.Cmd.ExecuteContext(ctx)
	reportUsageError(r.Cmd, err)
	return cli.ExitCode(err)
}

// reportUsageError prints errors cobra raised itself. Command errors were
// already printed by the command.
func reportUsageError(root *cobra.Command, err error) {
	if err == nil {
		return
	}
	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		return
	}
	fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	fmt.Fprintf(root.ErrOrStderr(), "Run '%s --help' for usage.\n", root.CommandPath())
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tablero version",
		Args:  cobra.NoArgs,
		// No App needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tablero %s\n", app.Version)
		},
	}
}
