// Package auth holds the `tablero auth` commands
package auth

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/session"
)

// PasswordEnv is read when --password-stdin is not given
const PasswordEnv = "TABLERO_PASSWORD"

// AuthCmd returns the auth parent command
func AuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, sign in and manage your session",
	}
	cli.AddOutputFlags(cmd)

	cmd.AddCommand(SignUpCmd())
	cmd.AddCommand(SignInCmd())
	cmd.AddCommand(SignOutCmd())
	cmd.AddCommand(RefreshCmd())
	cmd.AddCommand(WhoAmICmd())

	return cmd
}

type signedIn struct {
	User      *models.User `json:"user,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}

// SignUpCmd returns the auth signup subcommand
func SignUpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Long: `Create an account and sign in. The password is read from stdin with
--password-stdin, or from $TABLERO_PASSWORD.

Examples:
  echo "$PASSWORD" | tablero auth signup --email=ana@example.com --name=Ana --password-stdin
`,
		Args: cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			tokens, err := a.Identity.SignUp(cmd.Context(), strings.TrimSpace(email), password, name)
			if err != nil {
				return err
			}
			return finishSignIn(cmd, a, out, tokens, "Account created")
		}),
	}

	addCredentialFlags(cmd)
	cmd.Flags().String("name", "", "Display name")
	return cmd
}

// SignInCmd returns the auth signin subcommand
func SignInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "signin",
		Aliases: []string{"login"},
		Short:   "Sign in with email and password",
		Args:    cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			email, _ := cmd.Flags().GetString("email")
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			tokens, err := a.Identity.SignIn(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			return finishSignIn(cmd, a, out, tokens, "Signed in")
		}),
	}
	addCredentialFlags(cmd)
	return cmd
}

// SignOutCmd returns the auth signout subcommand
func SignOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "signout",
		Aliases: []string{"logout"},
		Short:   "Sign out and forget the stored session",
		Args:    cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			// The local session is dropped even when the provider is unreachable
			if err := a.Identity.SignOut(ctx, a.Session.RefreshToken(ctx)); err != nil {
				slog.Warn("failed to revoke refresh token", "error", err)
			}
			if err := a.Session.Invalidate(ctx); err != nil {
				return err
			}
			out.Message("✓ Signed out")
			return nil
		}),
	}
}

// RefreshCmd returns the auth refresh subcommand
func RefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new session",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			tokens, err := a.Identity.Refresh(ctx, a.Session.RefreshToken(ctx))
			if err != nil {
				return err
			}
			return finishSignIn(cmd, a, out, tokens, "Session refreshed")
		}),
	}
}

// WhoAmICmd returns the auth whoami subcommand
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: cli.Run(func(cmd *cobra.Command, _ []string, a *app.App, out *cli.OutputFormatter) error {
			ctx := cmd.Context()
			token, err := a.Session.Token(ctx)
			if err != nil {
				return err
			}
			user, err := a.API.Me(ctx)
			if err != nil {
				return err
			}

			result := &signedIn{User: user}
			if id, err := session.Claims(token); err == nil && !id.ExpiresAt.IsZero() {
				result.ExpiresAt = &id.ExpiresAt
			}
			return out.Success(result, func(w io.Writer) {
				printUser(w, result)
			})
		}),
	}
}

func finishSignIn(cmd *cobra.Command, a *app.App, out *cli.OutputFormatter, tokens session.Tokens, verb string) error {
	ctx := cmd.Context()
	if err := a.Session.Save(ctx, tokens); err != nil {
		return err
	}

	result := &signedIn{}
	if !tokens.ExpiresAt.IsZero() {
		result.ExpiresAt = &tokens.ExpiresAt
	}
	if user, err := a.API.Me(ctx); err == nil {
		result.User = user
	} else if id, claimsErr := session.Claims(tokens.AccessToken); claimsErr == nil {
		slog.Debug("backend profile unavailable, using token claims", "error", err)
		result.User = &models.User{Email: id.Email, DisplayName: id.Name}
	}

	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s\n", verb)
		printUser(w, result)
	})
}

func printUser(w io.Writer, s *signedIn) {
	if s.User != nil {
		name := s.User.DisplayName
		if name == "" {
			name = s.User.Email
		}
		fmt.Fprintf(w, "  User:    %s <%s>\n", name, s.User.Email)
		if s.User.ID != "" {
			fmt.Fprintf(w, "  ID:      %s\n", s.User.ID)
		}
	}
	if s.ExpiresAt != nil {
		fmt.Fprintf(w, "  Expires: %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Account email (required)")
	if err := cmd.MarkFlagRequired("email"); err != nil {
		log.Printf("Error marking flag as required: %v", err)
	}
	cmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
}

func readPassword(cmd *cobra.Command) (string, error) {
	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		if password := strings.TrimRight(line, "\r\n"); password != "" {
			return password, nil
		}
	} else if password := os.Getenv(PasswordEnv); password != "" {
		return password, nil
	}
	return "", cli.Usagef("Pipe it in with --password-stdin or set "+PasswordEnv, "password required")
}
