package launcher

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/cli/clitest"
)

func TestLaunch_QuitsOnKey(t *testing.T) {
	env := clitest.Setup(t)
	team := env.Backend.AddTeam("Core")
	project := env.Backend.AddProject(team.ID, "Web", "WEB")
	env.Backend.AddColumn(project.ID, "Todo", "todo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Launch(ctx, env.App, project.ID, project.Name,
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(io.Discard),
	)
	require.NoError(t, err)
}
