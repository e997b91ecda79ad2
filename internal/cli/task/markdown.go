package task

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// renderers caches glamour renderers by wrap width
var renderers sync.Map

func renderer(width int) (*glamour.TermRenderer, error) {
	if cached, ok := renderers.Load(width); ok {
		return cached.(*glamour.TermRenderer), nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers.Store(width, r)
	return r, nil
}

// renderMarkdown renders a task description, falling back to the raw text
func renderMarkdown(text string, width int) string {
	r, err := renderer(width)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
