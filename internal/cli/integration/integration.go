// Package integration holds the `tablero integration` commands, which wire
// tablero into AI assistants as an MCP server
package integration

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/integration"
	"github.com/thenoetrevino/tablero/internal/types"
)

// IntegrationCmd returns the integration parent command
func IntegrationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integration",
		Short: "Set up AI assistant integrations",
		Long: `Configure AI coding assistants (claude, opencode) to reach tablero
through its MCP endpoint.`,
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(InstallCmd())
	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(RemoveCmd())

	return cmd
}

type installResult struct {
	Target integration.Target `json:"target"`
	Scope  integration.Scope  `json:"scope"`
	Path   string             `json:"path"`
	URL    string             `json:"url"`
	KeyID  string             `json:"keyId,omitempty"`
}

// InstallCmd returns the integration install subcommand
func InstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <claude|opencode>",
		Short: "Add the tablero MCP server to an assistant's settings",
		Long: `Add the tablero MCP server to an assistant's settings. Unless --key is
given, a new API key is created for the assistant.

Examples:
  # User-wide, with a fresh API key
  tablero integration install claude

  # Only for the repository in the working directory
  tablero integration install opencode --scope=project
`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(runInstall),
	}

	addScopeFlag(cmd)
	cmd.Flags().String("key", "", "Use an existing API key secret")
	cmd.Flags().String("key-name", "", "Name of the created API key (default: <target>-mcp)")
	return cmd
}

func runInstall(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
	target, scope, err := parseArgs(cmd, args[0])
	if err != nil {
		return err
	}
	installer, err := integration.NewInstaller(a.Config.APIURL)
	if err != nil {
		return err
	}
	// Fail on a bad path before a key is issued
	if _, err := installer.Path(target, scope); err != nil {
		return err
	}

	result := &installResult{Target: target, Scope: scope, URL: installer.ServerURL()}
	secret, _ := cmd.Flags().GetString("key")
	if secret == "" {
		name, _ := cmd.Flags().GetString("key-name")
		if name == "" {
			name = string(target) + "-mcp"
		}
		key, err := a.APIKeyService.CreateKey(cmd.Context(), name)
		if err != nil {
			return err
		}
		secret = key.Secret
		result.KeyID = string(key.ID)
	}

	if result.Path, err = installer.Install(target, scope, secret); err != nil {
		if result.KeyID != "" {
			if revokeErr := a.APIKeyService.RevokeKey(cmd.Context(), types.APIKeyID(result.KeyID)); revokeErr != nil {
				slog.Warn("failed to revoke unused api key", "key_id", result.KeyID, "error", revokeErr)
			}
		}
		return err
	}
	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ tablero added to %s (%s settings)\n", target, scope)
		fmt.Fprintf(w, "  File: %s\n", result.Path)
		fmt.Fprintf(w, "  URL:  %s\n", result.URL)
		if result.KeyID != "" {
			fmt.Fprintf(w, "  Key:  %s (revoke with: tablero apikey revoke %s)\n", result.KeyID, result.KeyID)
		}
	})
}

// CheckCmd returns the integration check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [claude|opencode]",
		Short: "Show whether assistants are configured (default: all)",
		Args:  cobra.MaximumNArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			targets := integration.Targets
			var scope integration.Scope
			if len(args) == 1 {
				target, s, err := parseArgs(cmd, args[0])
				if err != nil {
					return err
				}
				targets, scope = []integration.Target{target}, s
			} else {
				s, err := parseScope(cmd)
				if err != nil {
					return err
				}
				scope = s
			}

			installer, err := integration.NewInstaller(a.Config.APIURL)
			if err != nil {
				return err
			}
			var statuses []*integration.Status
			for _, target := range targets {
				status, err := installer.Check(target, scope)
				if err != nil {
					return fmt.Errorf("%s: %w", target, err)
				}
				statuses = append(statuses, status)
			}

			return out.Success(statuses, func(w io.Writer) {
				for _, s := range statuses {
					switch {
					case !s.Installed:
						fmt.Fprintf(w, "✗ %s: not installed (%s)\n", s.Target, s.Path)
					case !s.Current:
						fmt.Fprintf(w, "! %s: points at %s, expected %s\n", s.Target, s.URL, installer.ServerURL())
					default:
						fmt.Fprintf(w, "✓ %s: installed (%s)\n", s.Target, s.Path)
					}
				}
			})
		}),
	}
	addScopeFlag(cmd)
	return cmd
}

// RemoveCmd returns the integration remove subcommand
func RemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <claude|opencode>",
		Short: "Remove the tablero MCP server from an assistant's settings",
		Long: `Remove the tablero MCP server from an assistant's settings. The API
key it used stays valid; revoke it with 'tablero apikey revoke'.`,
		Args: cobra.ExactArgs(1),
		RunE: cli.Run(func(cmd *cobra.Command, args []string, a *app.App, out *cli.OutputFormatter) error {
			target, scope, err := parseArgs(cmd, args[0])
			if err != nil {
				return err
			}
			installer, err := integration.NewInstaller(a.Config.APIURL)
			if err != nil {
				return err
			}
			removed, err := installer.Remove(target, scope)
			if err != nil {
				return err
			}
			if !removed {
				out.Message("tablero was not configured for %s (%s settings)", target, scope)
				return nil
			}
			out.Message("✓ tablero removed from %s (%s settings)", target, scope)
			return nil
		}),
	}
	addScopeFlag(cmd)
	return cmd
}

func addScopeFlag(cmd *cobra.Command) {
	cmd.Flags().String("scope", "user", "Settings to edit: user or project")
}

func parseScope(cmd *cobra.Command) (integration.Scope, error) {
	s, _ := cmd.Flags().GetString("scope")
	return integration.ParseScope(s)
}

func parseArgs(cmd *cobra.Command, targetArg string) (integration.Target, integration.Scope, error) {
	target, err := integration.ParseTarget(targetArg)
	if err != nil {
		return "", "", err
	}
	scope, err := parseScope(cmd)
	if err != nil {
		return "", "", err
	}
	return target, scope, nil
}
