package board

import (
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ResolutionKind says how a card's effective column was found
type ResolutionKind int

const (
	// Unresolved means the board has no columns at all
	Unresolved ResolutionKind = iota
	// Direct means the card's column id names a column on the board
	Direct
	// LegacyMapped means the card's legacy status matched a column slug
	LegacyMapped
	// Fallback means nothing matched and the first column was used
	Fallback
)

func (k ResolutionKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case LegacyMapped:
		return "legacy"
	case Fallback:
		return "fallback"
	}
	return "unresolved"
}

// Resolution is the column a card is rendered under
type Resolution struct {
	Kind     ResolutionKind
	ColumnID types.ColumnID
}

// Resolve finds the column a task belongs to: its explicit column id when
// that column exists, else the column whose slug matches the lowercased
// legacy status, else the first column in the current order.
func Resolve(task *models.Task, columns []*models.Column) Resolution {
	if len(columns) == 0 {
		return Resolution{Kind: Unresolved}
	}

	if !task.StatusID.IsZero() {
		for _, col := range columns {
			if col.ID == task.StatusID {
				return Resolution{Kind: Direct, ColumnID: col.ID}
			}
		}
	}

	if slug := task.Status.Slug(); slug != "" {
		for _, col := range columns {
			if col.Slug == slug {
				return Resolution{Kind: LegacyMapped, ColumnID: col.ID}
			}
		}
	}

	return Resolution{Kind: Fallback, ColumnID: columns[0].ID}
}

// Grouping buckets cards by effective column
type Grouping struct {
	Cards map[types.ColumnID][]*models.Task
	// Orphans counts cards that could not be placed because the board has
	// no columns. They remain in the flat collection.
	Orphans int
	// Fallbacks lists cards shown under the first column because nothing
	// else matched
	Fallbacks []types.TaskID
}

// In returns the cards under a column in flat-collection order
func (g Grouping) In(id types.ColumnID) []*models.Task {
	return g.Cards[id]
}

// Group places every task under exactly one column, preserving the incoming
// task order within each column.
func Group(tasks []*models.Task, columns []*models.Column) Grouping {
	g := Grouping{Cards: make(map[types.ColumnID][]*models.Task, len(columns))}
	if len(columns) == 0 {
		g.Orphans = len(tasks)
		return g
	}

	for _, task := range tasks {
		res := Resolve(task, columns)
		if res.Kind == Fallback {
			g.Fallbacks = append(g.Fallbacks, task.ID)
		}
		g.Cards[res.ColumnID] = append(g.Cards[res.ColumnID], task)
	}
	return g
}
