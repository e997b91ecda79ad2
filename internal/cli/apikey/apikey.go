// Package apikey holds the `tablero apikey` commands
package apikey

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/types"
)

// APIKeyCmd returns the apikey parent command
func APIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys for assistants and scripts",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(ListCmd())
	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(RevokeCmd())

	return cmd
}

// ListCmd returns the apikey list subcommand
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your API keys",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			keys, err := a.APIKeyService.ListKeys(cmd.Context())
			if err != nil {
				return err
			}
			return out.Success(keys, func(w io.Writer) {
				if len(keys) == 0 {
					fmt.Fprintln(w, "No API keys found")
					return
				}
				fmt.Fprintf(w, "Found %d API keys:\n\n", len(keys))
				for _, k := range keys {
					lastUsed := "never used"
					if k.LastUsedAt != nil {
						lastUsed = "last used " + k.LastUsedAt.Format("2006-01-02")
					}
					fmt.Fprintf(w, "  [%s] %s  %s…  (%s)\n", k.ID, k.Name, k.Prefix, lastUsed)
				}
			})
		}),
	}
}

// CreateCmd returns the apikey create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API key",
		Long: `Create an API key. The secret is printed once and cannot be
retrieved later.

Examples:
  TABLERO_KEY=$(tablero apikey create --name=ci --quiet)
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			name, _ := cmd.Flags().GetString("name")
			key, err := a.APIKeyService.CreateKey(cmd.Context(), name)
			if err != nil {
				return err
			}

			// The secret is the useful output for scripts
			if out.Quiet {
				fmt.Fprintln(out.Out, key.Secret)
				return nil
			}
			return out.Success(key, func(w io.Writer) {
				fmt.Fprintf(w, "✓ API key '%s' created (ID: %s)\n\n", key.Name, key.ID)
				fmt.Fprintf(w, "  %s\n\n", key.Secret)
				fmt.Fprintln(w, "Store it now, it will not be shown again.")
			})
		}),
	}

	cmd.Flags().String("name", "", "Key name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	return cmd
}

// RevokeCmd returns the apikey revoke subcommand
func RevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <key-id>",
		Short: "Revoke an API key",
		Args:  cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			id := types.APIKeyID(args[0])
			if err := a.APIKeyService.RevokeKey(cmd.Context(), id); err != nil {
				return err
			}
			out.Message("✓ API key %s revoked", id)
			return nil
		}),
	}
}
