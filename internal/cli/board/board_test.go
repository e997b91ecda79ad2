package board

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thenoetrevino/tablero/internal/cli"
	"github.com/thenoetrevino/tablero/internal/cli/clitest"
)

func TestBoardCmd(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		useCurr   bool
		wantCode  int
		wantError string
	}{
		{name: "no current project", wantCode: cli.ExitUsage, wantError: "tablero use project"},
		{name: "unknown project", args: []string{"--project", "p-missing"}, wantCode: cli.ExitNotFound},
		{name: "flag project", args: []string{"--project", "@project", "--inline"}, wantCode: cli.ExitSuccess},
		{name: "current project", args: []string{"--inline"}, useCurr: true, wantCode: cli.ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := clitest.Setup(t)
			team := env.Backend.AddTeam("Core")
			project := env.Backend.AddProject(team.ID, "Web", "WEB")
			env.Backend.AddColumn(project.ID, "Todo", "todo")
			if tt.useCurr {
				env.UseProject(t, string(project.ID))
			}

			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				args[i] = strings.ReplaceAll(a, "@project", string(project.ID))
			}

			cmd := BoardCmd()
			cmd.SetIn(strings.NewReader("q"))
			_, stderr, code := env.Run(cmd, args...)
			assert.Equal(t, tt.wantCode, code, stderr)
			if tt.wantError != "" {
				assert.Contains(t, stderr, tt.wantError)
			}
		})
	}
}
