package board

import (
	"context"

	"github.com/thenoetrevino/tablero/internal/types"
)

// DragKind is what a gesture is carrying
type DragKind int

const (
	DragIdle DragKind = iota
	DragColumn
	DragCard
)

func (k DragKind) String() string {
	switch k {
	case DragColumn:
		return "column"
	case DragCard:
		return "card"
	}
	return "idle"
}

// Target is where a gesture would drop. Column drags use Index, card drags
// use ColumnID.
type Target struct {
	Index    int
	ColumnID types.ColumnID
}

// NoTarget drops nothing
var NoTarget = Target{Index: -1}

// Valid reports whether the target names a drop position
func (t Target) Valid() bool {
	return t.Index >= 0 || !t.ColumnID.IsZero()
}

// ReorderFunc handles a dropped column
type ReorderFunc func(from, to int) error

// MoveFunc handles a dropped card
type MoveFunc func(taskID types.TaskID, columnID types.ColumnID) error

// Drag is the single active drag gesture. It is driven from one goroutine
// (the UI loop) and is not safe for concurrent use.
type Drag struct {
	OnReorderColumns ReorderFunc
	OnMoveCard       MoveFunc

	kind   DragKind
	from   int
	taskID types.TaskID
	target Target
}

// NewDrag creates an idle gesture dispatching to the given callbacks
func NewDrag(onReorder ReorderFunc, onMove MoveFunc) *Drag {
	return &Drag{OnReorderColumns: onReorder, OnMoveCard: onMove, target: NoTarget}
}

// Drag returns a gesture wired to this coordinator. Drops persist with ctx.
func (c *Coordinator) Drag(ctx context.Context) *Drag {
	return NewDrag(
		func(from, to int) error {
			_, err := c.ReorderColumns(ctx, from, to)
			return err
		},
		func(taskID types.TaskID, columnID types.ColumnID) error {
			_, err := c.MoveCard(ctx, taskID, columnID)
			return err
		},
	)
}

// BeginColumn picks up the column at index
func (d *Drag) BeginColumn(index int) error {
	if d.kind != DragIdle {
		return ErrDragActive
	}
	d.kind = DragColumn
	d.from = index
	d.target = Target{Index: index}
	return nil
}

// BeginCard picks up a card from the column at index
func (d *Drag) BeginCard(taskID types.TaskID, index int, columnID types.ColumnID) error {
	if d.kind != DragIdle {
		return ErrDragActive
	}
	d.kind = DragCard
	d.from = index
	d.taskID = taskID
	d.target = Target{Index: index, ColumnID: columnID}
	return nil
}

// Over moves the prospective drop target. Ignored while idle.
func (d *Drag) Over(t Target) {
	if d.kind == DragIdle {
		return
	}
	d.target = t
}

// Active reports whether a gesture is in progress
func (d *Drag) Active() bool { return d.kind != DragIdle }

// Kind returns what is being dragged
func (d *Drag) Kind() DragKind { return d.kind }

// Source returns the index the gesture started from
func (d *Drag) Source() int { return d.from }

// Card returns the dragged card, empty for column drags
func (d *Drag) Card() types.TaskID { return d.taskID }

// Target returns the current drop target
func (d *Drag) Target() Target { return d.target }

// Drop ends the gesture and dispatches it. Dropping on NoTarget just ends
// the gesture.
func (d *Drag) Drop() error {
	if d.kind == DragIdle {
		return ErrNoDrag
	}
	kind, from, taskID, target := d.kind, d.from, d.taskID, d.target
	d.reset()

	if !target.Valid() {
		return nil
	}
	switch kind {
	case DragColumn:
		if target.Index < 0 || d.OnReorderColumns == nil {
			return nil
		}
		return d.OnReorderColumns(from, target.Index)
	case DragCard:
		if target.ColumnID.IsZero() || d.OnMoveCard == nil {
			return nil
		}
		return d.OnMoveCard(taskID, target.ColumnID)
	}
	return nil
}

// Cancel ends the gesture without dispatching
func (d *Drag) Cancel() {
	d.reset()
}

func (d *Drag) reset() {
	d.kind = DragIdle
	d.from = 0
	d.taskID = ""
	d.target = NoTarget
}
