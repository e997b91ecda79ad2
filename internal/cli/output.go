package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	Out    io.Writer
	ErrOut io.Writer
}

// NewFormatter reads --json and --quiet and writes to the command's streams
func NewFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	return &OutputFormatter{
		JSON:   jsonOutput,
		Quiet:  quietMode,
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}
}

type idGetter interface{ GetID() string }

// Success outputs a result. Quiet mode prints the ID of data (one per line
// for slices), JSON mode wraps it in {"success":true,"data":...}, and
// otherwise human is called.
func (f *OutputFormatter) Success(data any, human func(w io.Writer)) error {
	if f.Quiet {
		if printIDs(f.out(), data) {
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if human != nil {
		human(f.out())
		return nil
	}
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}

// Message prints a confirmation that has no data worth returning
func (f *OutputFormatter) Message(format string, args ...any) {
	if f.Quiet {
		return
	}
	if f.JSON {
		_ = json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"message": fmt.Sprintf(format, args...),
		})
		return
	}
	fmt.Fprintf(f.out(), format+"\n", args...)
}

// Error outputs error information
func (f *OutputFormatter) Error(e *CommandError) {
	if f.JSON {
		errData := map[string]any{
			"code":    e.Code,
			"message": e.Message,
		}
		if e.Suggestion != "" {
			errData["suggestion"] = e.Suggestion
		}
		_ = json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
		return
	}

	fmt.Fprintf(f.errOut(), "❌ Error: %s\n", e.Message)
	if e.Suggestion != "" {
		fmt.Fprintf(f.errOut(), "💡 Suggestion: %s\n", e.Suggestion)
	}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.ErrOut == nil {
		return os.Stderr
	}
	return f.ErrOut
}

func printIDs(w io.Writer, data any) bool {
	if g, ok := data.(idGetter); ok {
		fmt.Fprintln(w, g.GetID())
		return true
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return false
	}
	ids := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		g, ok := v.Index(i).Interface().(idGetter)
		if !ok {
			return false
		}
		ids = append(ids, g.GetID())
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return true
}
