// Package use holds the commands that set contextual information,
// e.g. tablero use project ...
package use

import (
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/cli"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Set the context other commands default to",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(ProjectCmd())

	return cmd
}
