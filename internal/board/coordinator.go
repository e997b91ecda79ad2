// Package board keeps the in-memory kanban board and applies column reorders
// and card moves optimistically, persisting them in the background and
// rolling back when the backend rejects them.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Backend is the subset of the REST client the board needs.
// *api.Client implements it.
type Backend interface {
	ListStatuses(ctx context.Context, projectID types.ProjectID) ([]*models.Column, error)
	ListTasks(ctx context.Context, projectID types.ProjectID) ([]*models.Task, error)
	ReorderStatuses(ctx context.Context, projectID types.ProjectID, ids []types.ColumnID) error
	UpdateTaskStatus(ctx context.Context, taskID types.TaskID, columnID types.ColumnID) error
}

const (
	defaultPersistTimeout = 30 * time.Second
	defaultResyncTimeout  = 10 * time.Second
	maxResyncAttempts    = 3
)

// Coordinator owns the board's local order. All state is guarded by mu;
// optimistic changes are applied under the lock before the persistence
// goroutine starts.
type Coordinator struct {
	backend        Backend
	projectID      types.ProjectID
	notifier       Notifier
	metrics        *Metrics
	onChange       func()
	publisher      events.EventPublisher
	persistTimeout time.Duration
	resyncTimeout  time.Duration

	mu      sync.Mutex
	columns []*models.Column
	tasks   []*models.Task

	// seq increases on every mutation and refresh. orderSeq and cardSeq hold
	// the seq of the latest write to the column order and to each card.
	seq      uint64
	orderSeq uint64
	cardSeq  map[types.TaskID]uint64
	// baseSeq is seq at the last wholesale replace
	baseSeq uint64

	inflight  int
	dirty     bool
	resyncing bool
	pending   sync.WaitGroup
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithNotifier sets where persistence failures are reported
func WithNotifier(n Notifier) Option {
	return func(c *Coordinator) {
		c.notifier = n
	}
}

// WithMetrics records mutation metrics
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithOnChange registers a callback run (outside the lock) whenever board
// state changes in the background: reverts and resyncs.
func WithOnChange(fn func()) Option {
	return func(c *Coordinator) {
		c.onChange = fn
	}
}

// WithPublisher announces every persisted mutation to other open boards
func WithPublisher(p events.EventPublisher) Option {
	return func(c *Coordinator) {
		c.publisher = p
	}
}

// WithPersistTimeout bounds each backend save. Saves do not follow the
// caller's cancellation, so this is what stops a hung one.
func WithPersistTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.persistTimeout = d
	}
}

// WithResyncTimeout bounds each background refetch
func WithResyncTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		c.resyncTimeout = d
	}
}

// NewCoordinator creates an empty board for a project. Call Refresh or
// Replace to populate it.
func NewCoordinator(backend Backend, projectID types.ProjectID, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:        backend,
		projectID:      projectID,
		persistTimeout: defaultPersistTimeout,
		resyncTimeout:  defaultResyncTimeout,
		cardSeq:        make(map[types.TaskID]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectID returns the project this board shows
func (c *Coordinator) ProjectID() types.ProjectID {
	return c.projectID
}

// ============================================================================
// READS
// ============================================================================

// Snapshot is a consistent copy of the board
type Snapshot struct {
	Columns []models.Column
	Cards   map[types.ColumnID][]models.Task
	Orphans int
	// InFlight is the number of mutations awaiting the backend
	InFlight int
}

// Snapshot copies the current board. Cards are grouped by effective column.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := Group(c.tasks, c.columns)
	snap := Snapshot{
		Columns:  make([]models.Column, len(c.columns)),
		Cards:    make(map[types.ColumnID][]models.Task, len(g.Cards)),
		Orphans:  g.Orphans,
		InFlight: c.inflight,
	}
	for i, col := range c.columns {
		snap.Columns[i] = *col
	}
	for id, tasks := range g.Cards {
		cards := make([]models.Task, len(tasks))
		for i, t := range tasks {
			cards[i] = *t
		}
		snap.Cards[id] = cards
	}
	return snap
}

// ColumnIDs returns the current column order
func (c *Coordinator) ColumnIDs() []types.ColumnID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return columnIDs(c.columns)
}

// EffectiveColumn resolves the column a card is shown under
func (c *Coordinator) EffectiveColumn(taskID types.TaskID) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, task := c.findTask(taskID)
	if task == nil {
		return Resolution{}, false
	}
	return Resolve(task, c.columns), true
}

func columnIDs(columns []*models.Column) []types.ColumnID {
	ids := make([]types.ColumnID, len(columns))
	for i, col := range columns {
		ids[i] = col.ID
	}
	return ids
}

func (c *Coordinator) findTask(id types.TaskID) (int, *models.Task) {
	for i, t := range c.tasks {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

// ============================================================================
// REFRESH
// ============================================================================

// Replace overwrites the board with server state. Nothing is merged, and
// mutations still in flight can no longer roll back over it.
func (c *Coordinator) Replace(columns []*models.Column, tasks []*models.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceLocked(columns, tasks)
}

func (c *Coordinator) replaceLocked(columns []*models.Column, tasks []*models.Task) {
	c.columns = append([]*models.Column(nil), columns...)
	c.tasks = append([]*models.Task(nil), tasks...)
	c.seq++
	c.orderSeq = c.seq
	c.baseSeq = c.seq
	c.cardSeq = make(map[types.TaskID]uint64)
	c.dirty = false

	if g := Group(c.tasks, c.columns); len(g.Fallbacks) > 0 {
		slog.Debug("cards with no matching column shown under the first column",
			"project_id", c.projectID,
			"count", len(g.Fallbacks),
			"task_ids", g.Fallbacks)
	}
}

// Refresh refetches columns and cards and replaces the board
func (c *Coordinator) Refresh(ctx context.Context) error {
	columns, tasks, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	c.Replace(columns, tasks)
	return nil
}

func (c *Coordinator) fetch(ctx context.Context) ([]*models.Column, []*models.Task, error) {
	columns, err := c.backend.ListStatuses(ctx, c.projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load columns: %w", err)
	}
	tasks, err := c.backend.ListTasks(ctx, c.projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cards: %w", err)
	}
	return columns, tasks, nil
}

// Settle blocks until no mutation or background resync is running
func (c *Coordinator) Settle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
// MUTATIONS
// ============================================================================

// ReorderColumns moves the column at from to index to. The new order is
// visible immediately; the returned Op settles once the backend answers.
// from == to returns a nil Op and no error.
func (c *Coordinator) ReorderColumns(ctx context.Context, from, to int) (*Op, error) {
	c.mu.Lock()
	prev := c.columns
	next, err := Move(prev, from, to)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if from == to {
		c.mu.Unlock()
		return nil, nil
	}

	for i, col := range next {
		cp := *col
		cp.Position = i
		next[i] = &cp
	}
	c.columns = next
	c.seq++
	seq := c.seq
	c.orderSeq = seq
	ids := columnIDs(next)
	op := c.startLocked(KindReorderColumns, seq)
	c.mu.Unlock()

	slog.Debug("optimistic column reorder", "project_id", c.projectID, "from", from, "to", to, "seq", seq)

	revert := func() bool {
		if c.orderSeq != seq {
			return false
		}
		c.columns = prev
		return true
	}
	go c.persist(ctx, op, ActionReorderColumns, func(ctx context.Context) error {
		return c.backend.ReorderStatuses(ctx, c.projectID, ids)
	}, revert)
	return op, nil
}

// MoveCard assigns a card to another column. Moving a card to the column it
// is already shown under returns a nil Op and no error.
func (c *Coordinator) MoveCard(ctx context.Context, taskID types.TaskID, columnID types.ColumnID) (*Op, error) {
	c.mu.Lock()
	idx, task := c.findTask(taskID)
	if task == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, taskID)
	}
	var target *models.Column
	for _, col := range c.columns {
		if col.ID == columnID {
			target = col
			break
		}
	}
	if target == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	if !target.ProjectID.IsZero() && !task.ProjectID.IsZero() && target.ProjectID != task.ProjectID {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: column %s is in %s, card %s is in %s",
			ErrCrossProject, columnID, target.ProjectID, taskID, task.ProjectID)
	}
	if Resolve(task, c.columns).ColumnID == columnID {
		c.mu.Unlock()
		return nil, nil
	}

	prevStatus := task.StatusID
	moved := *task
	moved.StatusID = columnID
	c.tasks[idx] = &moved
	c.seq++
	seq := c.seq
	c.cardSeq[taskID] = seq
	op := c.startLocked(KindMoveCard, seq)
	c.mu.Unlock()

	slog.Debug("optimistic card move", "task_id", taskID, "from", prevStatus, "to", columnID, "seq", seq)

	revert := func() bool {
		if c.cardSeq[taskID] != seq {
			return false
		}
		i, cur := c.findTask(taskID)
		if cur == nil {
			return false
		}
		restored := *cur
		restored.StatusID = prevStatus
		c.tasks[i] = &restored
		return true
	}
	go c.persist(ctx, op, ActionMoveCard, func(ctx context.Context) error {
		return c.backend.UpdateTaskStatus(ctx, taskID, columnID)
	}, revert)
	return op, nil
}

// startLocked registers an in-flight mutation. Caller holds mu.
func (c *Coordinator) startLocked(kind string, seq uint64) *Op {
	c.inflight++
	c.pending.Add(1)
	c.metrics.mutation(kind)
	return newOp(kind, seq)
}

// persist runs the backend call and settles op. revert runs under mu and
// reports whether it rolled anything back; it refuses when a newer write
// touched the same entity. The call keeps ctx's values but not its
// cancellation, so quitting the board does not abort a save.
func (c *Coordinator) persist(parent context.Context, op *Op, action string, call func(context.Context) error, revert func() bool) {
	defer c.pending.Done()

	ctx := context.WithoutCancel(parent)
	callCtx, cancel := context.WithTimeout(ctx, c.persistTimeout)
	start := time.Now()
	err := call(callCtx)
	elapsed := time.Since(start)
	cancel()

	outcome := Persisted
	c.mu.Lock()
	c.inflight--
	if err != nil {
		if revert() {
			outcome = Reverted
		} else {
			outcome = Superseded
			// A failure older than the last full replace is already
			// reflected in server state; anything newer needs a refetch.
			if op.seq > c.baseSeq {
				c.dirty = true
			}
		}
	}
	startResync := c.inflight == 0 && c.dirty && !c.resyncing
	if startResync {
		c.dirty = false
		c.resyncing = true
		c.pending.Add(1)
	}
	c.mu.Unlock()

	c.metrics.settled(op.kind, outcome, elapsed)
	if err != nil {
		slog.Warn("board mutation failed",
			"action", action,
			"project_id", c.projectID,
			"outcome", outcome.String(),
			"error", err)
		c.notify(Notice{Action: action, Err: err, ProjectID: c.projectID})
	}
	if outcome == Reverted {
		c.changed()
	}
	if outcome == Persisted {
		events.ProjectChanged(ctx, c.publisher, c.projectID)
	}
	op.finish(outcome, err)

	if startResync {
		c.resync(ctx)
	}
}

// resync refetches the board after a superseded failure. The refetch is
// only applied when no mutation started meanwhile; otherwise it retries, or
// leaves the board dirty for the last in-flight mutation to pick up.
func (c *Coordinator) resync(parent context.Context) {
	defer c.pending.Done()

	for attempt := 1; attempt <= maxResyncAttempts; attempt++ {
		c.mu.Lock()
		startSeq := c.seq
		c.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.resyncTimeout)
		columns, tasks, err := c.fetch(ctx)
		cancel()

		c.mu.Lock()
		if err != nil {
			c.resyncing = false
			c.dirty = true
			c.mu.Unlock()
			slog.Error("board resync failed", "project_id", c.projectID, "error", err)
			c.notify(Notice{Action: ActionRefresh, Err: err, ProjectID: c.projectID})
			return
		}
		if c.seq == startSeq {
			c.replaceLocked(columns, tasks)
			c.resyncing = false
			c.mu.Unlock()
			c.metrics.resync()
			slog.Debug("board resynced", "project_id", c.projectID, "attempt", attempt)
			c.changed()
			return
		}
		if c.inflight > 0 {
			// The last mutation to settle will start the next resync.
			c.resyncing = false
			c.dirty = true
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.resyncing = false
	c.dirty = true
	c.mu.Unlock()
	slog.Warn("board resync gave up after concurrent changes", "project_id", c.projectID)
}

func (c *Coordinator) notify(n Notice) {
	if c.notifier != nil {
		c.notifier.Notify(n)
	}
}

func (c *Coordinator) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
