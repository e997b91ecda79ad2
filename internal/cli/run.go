package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablero/internal/app"
	"github.com/thenoetrevino/tablero/internal/types"
)

// RunFunc is a command body with the container and formatter resolved
type RunFunc func(cmd *cobra.Command, args []string, a *app.App, out *OutputFormatter) error

// Run adapts fn to cobra's RunE. Errors are classified, printed once
// through the formatter and returned as *CommandError for the exit code.
func Run(fn RunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		out := NewFormatter(cmd)

		a := AppFrom(cmd.Context())
		if a == nil {
			e := &CommandError{Exit: ExitError, Code: "INITIALIZATION_ERROR", Message: "application not initialized"}
			out.Error(e)
			return e
		}

		if err := fn(cmd, args, a, out); err != nil {
			e := Classify(err)
			out.Error(e)
			return e
		}
		return nil
	}
}

// AddOutputFlags adds --json and --quiet to cmd and its subcommands
func AddOutputFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().Bool("quiet", false, "Minimal output (IDs only)")
}

// AddProjectFlag adds --project, which overrides the current project
func AddProjectFlag(cmd *cobra.Command) {
	cmd.Flags().String("project", "", "Project ID (default: current project)")
}

// ResolveProject returns --project if given, else the current project
func ResolveProject(ctx context.Context, cmd *cobra.Command, a *app.App) (types.ProjectID, error) {
	if id, _ := cmd.Flags().GetString("project"); id != "" {
		return types.ProjectID(id), nil
	}
	return a.CurrentProject(ctx)
}

// ParseDate parses a YYYY-MM-DD flag value in local time. Empty is zero.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return time.Time{}, Usagef("Use the YYYY-MM-DD format, e.g. 2026-03-01", "invalid date %q", value)
	}
	return t, nil
}

// OptionalString returns a pointer to the flag value when the flag was set
func OptionalString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// OptionalFloat returns a pointer to the flag value when the flag was set
func OptionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

// OptionalBool returns a pointer to the flag value when the flag was set
func OptionalBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// FormatHours prints hours without trailing zeros
func FormatHours(h float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".") + "h"
}
