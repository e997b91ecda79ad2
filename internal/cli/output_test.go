package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type withID struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (w *withID) GetID() string { return w.ID }

type withoutID struct {
	Name string `json:"name"`
}

func newTestFormatter(jsonMode, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonMode, Quiet: quiet, Out: &out, ErrOut: &errOut}, &out, &errOut
}

func TestOutputFormatter_Success(t *testing.T) {
	human := func(w io.Writer) { fmt.Fprintln(w, "human output") }

	tests := []struct {
		name  string
		json  bool
		quiet bool
		data  any
		want  string
	}{
		{"human", false, false, &withID{ID: "t-1"}, "human output\n"},
		{"quiet single", false, true, &withID{ID: "t-1"}, "t-1\n"},
		{"quiet slice", false, true, []*withID{{ID: "t-1"}, {ID: "t-2"}}, "t-1\nt-2\n"},
		{"quiet empty slice", false, true, []*withID{}, ""},
		{"quiet without ids falls back to human", false, true, &withoutID{Name: "x"}, "human output\n"},
		{"quiet mixed slice falls back to human", false, true, []any{&withID{ID: "t-1"}, "x"}, "human output\n"},
		{"quiet wins over json", true, true, &withID{ID: "t-1"}, "t-1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, out, _ := newTestFormatter(tt.json, tt.quiet)
			require.NoError(t, f.Success(tt.data, human))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	f, out, _ := newTestFormatter(true, false)
	require.NoError(t, f.Success(&withID{ID: "t-1", Name: "Docs"}, nil))

	var result map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.Equal(t, "t-1", data["id"])
	assert.Equal(t, "Docs", data["name"])
}

func TestOutputFormatter_Message(t *testing.T) {
	f, out, _ := newTestFormatter(false, false)
	f.Message("deleted %s", "t-1")
	assert.Equal(t, "deleted t-1\n", out.String())

	f, out, _ = newTestFormatter(false, true)
	f.Message("deleted %s", "t-1")
	assert.Empty(t, out.String())

	f, out, _ = newTestFormatter(true, false)
	f.Message("deleted %s", "t-1")
	assert.JSONEq(t, `{"success":true,"message":"deleted t-1"}`, out.String())
}

func TestOutputFormatter_Error(t *testing.T) {
	e := &CommandError{Exit: ExitNotFound, Code: "NOT_FOUND", Message: "task not found", Suggestion: "List tasks first"}

	t.Run("human goes to stderr", func(t *testing.T) {
		f, out, errOut := newTestFormatter(false, false)
		f.Error(e)
		assert.Empty(t, out.String())
		assert.Contains(t, errOut.String(), "❌ Error: task not found")
		assert.Contains(t, errOut.String(), "💡 Suggestion: List tasks first")
	})

	t.Run("json goes to stdout", func(t *testing.T) {
		f, out, errOut := newTestFormatter(true, false)
		f.Error(e)
		assert.Empty(t, errOut.String())
		assert.JSONEq(t,
			`{"success":false,"error":{"code":"NOT_FOUND","message":"task not found","suggestion":"List tasks first"}}`,
			out.String())
	})

	t.Run("json without suggestion", func(t *testing.T) {
		f, out, _ := newTestFormatter(true, false)
		f.Error(&CommandError{Code: "ERROR", Message: "boom"})
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERROR","message":"boom"}}`, out.String())
	})
}
