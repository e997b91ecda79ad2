package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/tablero/internal/events"
	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/testutil"
	"github.com/thenoetrevino/tablero/internal/types"
)

var errBackend = errors.New("backend unavailable")

// pendingCall is a mutation the fake backend is holding until the test
// answers it.
type pendingCall struct {
	kind    string
	taskID  types.TaskID
	column  types.ColumnID
	ids     []types.ColumnID
	release chan error
}

type fakeBackend struct {
	mu        sync.Mutex
	columns   []*models.Column
	tasks     []*models.Task
	hold      bool
	calls     chan *pendingCall
	fail      error
	listCalls int
}

func newFakeBackend(columns []*models.Column, tasks []*models.Task) *fakeBackend {
	return &fakeBackend{columns: columns, tasks: tasks, calls: make(chan *pendingCall, 16)}
}

func (f *fakeBackend) ListStatuses(_ context.Context, _ types.ProjectID) ([]*models.Column, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	out := make([]*models.Column, len(f.columns))
	for i, c := range f.columns {
		cp := *c
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeBackend) ListTasks(_ context.Context, _ types.ProjectID) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Task, len(f.tasks))
	for i, task := range f.tasks {
		cp := *task
		out[i] = &cp
	}
	return out, nil
}

func (f *fakeBackend) ReorderStatuses(ctx context.Context, _ types.ProjectID, ids []types.ColumnID) error {
	if err := f.wait(ctx, &pendingCall{kind: KindReorderColumns, ids: ids}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	byID := make(map[types.ColumnID]*models.Column)
	for _, c := range f.columns {
		byID[c.ID] = c
	}
	f.columns = f.columns[:0:0]
	for i, id := range ids {
		c := *byID[id]
		c.Position = i
		f.columns = append(f.columns, &c)
	}
	return nil
}

func (f *fakeBackend) UpdateTaskStatus(ctx context.Context, taskID types.TaskID, columnID types.ColumnID) error {
	if err := f.wait(ctx, &pendingCall{kind: KindMoveCard, taskID: taskID, column: columnID}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, task := range f.tasks {
		if task.ID == taskID {
			task.StatusID = columnID
		}
	}
	return nil
}

// wait answers like an HTTP call would: a held call gives up when ctx does
func (f *fakeBackend) wait(ctx context.Context, call *pendingCall) error {
	f.mu.Lock()
	hold, fail := f.hold, f.fail
	f.mu.Unlock()

	if !hold {
		return fail
	}
	call.release = make(chan error, 1)
	f.calls <- call
	select {
	case err := <-call.release:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeBackend) next(t *testing.T) *pendingCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for backend call")
		return nil
	}
}

func (f *fakeBackend) lists() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) all() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notice(nil), l.notices...)
}

type fixture struct {
	backend *fakeBackend
	coord   *Coordinator
	notices *noticeLog
	reg     *prometheus.Registry
}

func newFixture(t *testing.T, slugs []string, tasks []*models.Task) *fixture {
	t.Helper()
	backend := newFakeBackend(testColumns(slugs...), tasks)
	notices := &noticeLog{}
	reg := prometheus.NewRegistry()
	coord := NewCoordinator(backend, "p1", WithNotifier(notices), WithMetrics(NewMetrics(reg)))
	require.NoError(t, coord.Refresh(context.Background()))
	return &fixture{backend: backend, coord: coord, notices: notices, reg: reg}
}

func (fx *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, fx.coord.Settle(ctx))
}

func (fx *fixture) counter(t *testing.T, name, kind string) float64 {
	t.Helper()
	families, err := fx.reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, m := range fam.GetMetric() {
			if kind == "" {
				return m.GetCounter().GetValue()
			}
			for _, l := range m.GetLabel() {
				if l.GetName() == "kind" && l.GetValue() == kind {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func slugs(cols []models.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Slug
	}
	return out
}

func waitOp(t *testing.T, op *Op) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := op.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

// ============================================================================
// REORDER
// ============================================================================

func TestReorderColumns_AppliesImmediatelyAndPersists(t *testing.T) {
	fx := newFixture(t, []string{"a", "b", "c", "d"}, nil)
	fx.backend.hold = true

	op, err := fx.coord.ReorderColumns(context.Background(), 0, 2)
	require.NoError(t, err)
	require.NotNil(t, op)

	snap := fx.coord.Snapshot()
	assert.Equal(t, []string{"b", "c", "a", "d"}, slugs(snap.Columns))
	for i, c := range snap.Columns {
		assert.Equal(t, i, c.Position)
	}
	assert.Equal(t, 1, snap.InFlight)

	call := fx.backend.next(t)
	assert.Equal(t, types.ColumnIDs("col-b", "col-c", "col-a", "col-d"), call.ids)
	call.release <- nil

	require.NoError(t, waitOp(t, op))
	assert.Equal(t, Persisted, op.Outcome())
	assert.Equal(t, []string{"b", "c", "a", "d"}, slugs(fx.coord.Snapshot().Columns))
	assert.Empty(t, fx.notices.all())
	assert.Equal(t, 1.0, fx.counter(t, "tablero_board_mutations_total", KindReorderColumns))
}

func TestReorderColumns_FailureRestoresExactOrder(t *testing.T) {
	fx := newFixture(t, []string{"a", "b", "c", "d"}, nil)
	before := fx.coord.Snapshot().Columns
	fx.backend.fail = errBackend

	op, err := fx.coord.ReorderColumns(context.Background(), 3, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, waitOp(t, op), errBackend)
	assert.Equal(t, Reverted, op.Outcome())
	assert.Equal(t, before, fx.coord.Snapshot().Columns)

	notices := fx.notices.all()
	require.Len(t, notices, 1)
	assert.Equal(t, ActionReorderColumns, notices[0].Action)
	assert.ErrorIs(t, notices[0].Err, errBackend)
	assert.Equal(t, types.ProjectID("p1"), notices[0].ProjectID)
	assert.Contains(t, notices[0].Message(), "reorder columns")
	assert.Equal(t, 1.0, fx.counter(t, "tablero_board_reverts_total", KindReorderColumns))
}

func TestReorderColumns_Validation(t *testing.T) {
	fx := newFixture(t, []string{"a", "b", "c"}, nil)

	for _, idx := range [][2]int{{-1, 0}, {0, 3}, {5, 1}} {
		op, err := fx.coord.ReorderColumns(context.Background(), idx[0], idx[1])
		assert.ErrorIs(t, err, ErrInvalidIndex)
		assert.Nil(t, op)
	}

	op, err := fx.coord.ReorderColumns(context.Background(), 1, 1)
	assert.NoError(t, err)
	assert.Nil(t, op)

	assert.Equal(t, []string{"a", "b", "c"}, slugs(fx.coord.Snapshot().Columns))
	assert.Empty(t, fx.notices.all())
	assert.Zero(t, fx.counter(t, "tablero_board_mutations_total", KindReorderColumns))
}

func TestReorderColumns_EmptyBoard(t *testing.T) {
	fx := newFixture(t, nil, nil)
	_, err := fx.coord.ReorderColumns(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

// ============================================================================
// MOVE CARD
// ============================================================================

func TestMoveCard_Success(t *testing.T) {
	tasks := []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-todo", Title: "Ship"}}
	fx := newFixture(t, []string{"todo", "done"}, tasks)

	op, err := fx.coord.MoveCard(context.Background(), "t1", "col-done")
	require.NoError(t, err)

	res, ok := fx.coord.EffectiveColumn("t1")
	require.True(t, ok)
	assert.Equal(t, types.ColumnID("col-done"), res.ColumnID)

	require.NoError(t, waitOp(t, op))
	res, _ = fx.coord.EffectiveColumn("t1")
	assert.Equal(t, types.ColumnID("col-done"), res.ColumnID)
	assert.Equal(t, "Ship", fx.coord.Snapshot().Cards["col-done"][0].Title)
}

func TestMoveCard_FailureRestoresColumn(t *testing.T) {
	tasks := []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-todo"}}
	fx := newFixture(t, []string{"todo", "done"}, tasks)
	fx.backend.fail = errBackend

	op, err := fx.coord.MoveCard(context.Background(), "t1", "col-done")
	require.NoError(t, err)

	assert.ErrorIs(t, waitOp(t, op), errBackend)
	assert.Equal(t, Reverted, op.Outcome())

	res, _ := fx.coord.EffectiveColumn("t1")
	assert.Equal(t, types.ColumnID("col-todo"), res.ColumnID)

	notices := fx.notices.all()
	require.Len(t, notices, 1)
	assert.Equal(t, ActionMoveCard, notices[0].Action)
}

func TestMoveCard_LegacyCardRevertsToEmptyColumnID(t *testing.T) {
	tasks := []*models.Task{{ID: "t1", ProjectID: "p1", Status: models.LegacyInReview}}
	fx := newFixture(t, []string{"todo", "in_progress", "done"}, tasks)
	fx.backend.fail = errBackend

	res, _ := fx.coord.EffectiveColumn("t1")
	assert.Equal(t, Fallback, res.Kind)
	assert.Equal(t, types.ColumnID("col-todo"), res.ColumnID)

	op, err := fx.coord.MoveCard(context.Background(), "t1", "col-done")
	require.NoError(t, err)
	_ = waitOp(t, op)

	card := fx.coord.Snapshot().Cards["col-todo"]
	require.Len(t, card, 1)
	assert.True(t, card[0].StatusID.IsZero())
	assert.Equal(t, models.LegacyInReview, card[0].Status)
}

func TestMoveCard_Validation(t *testing.T) {
	tasks := []*models.Task{
		{ID: "t1", ProjectID: "p1", StatusID: "col-todo"},
		{ID: "t2", ProjectID: "p1", Status: models.LegacyDone},
	}
	fx := newFixture(t, []string{"todo", "done"}, tasks)
	other := &models.Column{ID: "col-foreign", ProjectID: "p2", Slug: "foreign"}
	fx.coord.Replace(append(testColumns("todo", "done"), other), tasks)

	tests := []struct {
		name   string
		task   types.TaskID
		column types.ColumnID
		err    error
	}{
		{"unknown card", "nope", "col-done", ErrCardNotFound},
		{"unknown column", "t1", "col-nope", ErrColumnNotFound},
		{"column of another project", "t1", "col-foreign", ErrCrossProject},
		{"already there", "t1", "col-todo", nil},
		{"already there via legacy status", "t2", "col-done", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := fx.coord.MoveCard(context.Background(), tt.task, tt.column)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Nil(t, op)
		})
	}
	assert.Empty(t, fx.notices.all())
	assert.Zero(t, fx.coord.Snapshot().InFlight)
}

// ============================================================================
// RECONCILIATION
// ============================================================================

func TestMoveCard_SupersededFailureKeepsNewerStateAndResyncs(t *testing.T) {
	tasks := []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-todo"}}
	fx := newFixture(t, []string{"todo", "doing", "done"}, tasks)
	fx.backend.hold = true
	listsBefore := fx.backend.lists()

	first, err := fx.coord.MoveCard(context.Background(), "t1", "col-done")
	require.NoError(t, err)
	firstCall := fx.backend.next(t)

	second, err := fx.coord.MoveCard(context.Background(), "t1", "col-doing")
	require.NoError(t, err)
	secondCall := fx.backend.next(t)

	secondCall.release <- nil
	require.NoError(t, waitOp(t, second))

	firstCall.release <- errBackend
	assert.ErrorIs(t, waitOp(t, first), errBackend)
	assert.Equal(t, Superseded, first.Outcome())

	res, _ := fx.coord.EffectiveColumn("t1")
	assert.Equal(t, types.ColumnID("col-doing"), res.ColumnID, "stale failure must not clobber newer move")

	fx.settle(t)
	assert.Equal(t, listsBefore+1, fx.backend.lists())
	res, _ = fx.coord.EffectiveColumn("t1")
	assert.Equal(t, types.ColumnID("col-doing"), res.ColumnID)
	assert.Equal(t, 1.0, fx.counter(t, "tablero_board_resyncs_total", ""))
	assert.Len(t, fx.notices.all(), 1)
}

func TestReorderColumns_BothFailResyncsToServerOrder(t *testing.T) {
	fx := newFixture(t, []string{"a", "b", "c"}, nil)
	fx.backend.hold = true

	first, err := fx.coord.ReorderColumns(context.Background(), 0, 2) // b c a
	require.NoError(t, err)
	firstCall := fx.backend.next(t)

	second, err := fx.coord.ReorderColumns(context.Background(), 0, 1) // c b a
	require.NoError(t, err)
	secondCall := fx.backend.next(t)
	assert.Equal(t, []string{"c", "b", "a"}, slugs(fx.coord.Snapshot().Columns))

	firstCall.release <- errBackend
	_ = waitOp(t, first)
	assert.Equal(t, Superseded, first.Outcome())
	assert.Equal(t, []string{"c", "b", "a"}, slugs(fx.coord.Snapshot().Columns))

	secondCall.release <- errBackend
	_ = waitOp(t, second)
	assert.Equal(t, Reverted, second.Outcome())

	// The revert lands on the first move's optimistic order, which the
	// backend never accepted; the resync corrects it.
	fx.settle(t)
	assert.Equal(t, []string{"a", "b", "c"}, slugs(fx.coord.Snapshot().Columns))
	assert.Len(t, fx.notices.all(), 2)
}

func TestReplace_LateFailureDoesNotRevertOrResync(t *testing.T) {
	tasks := []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-todo"}}
	fx := newFixture(t, []string{"todo", "done"}, tasks)
	fx.backend.hold = true

	op, err := fx.coord.MoveCard(context.Background(), "t1", "col-done")
	require.NoError(t, err)
	call := fx.backend.next(t)

	refreshed := []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-todo", Title: "from server"}}
	fx.coord.Replace(testColumns("todo", "done"), refreshed)
	listsBefore := fx.backend.lists()

	call.release <- errBackend
	_ = waitOp(t, op)
	assert.Equal(t, Superseded, op.Outcome())

	fx.settle(t)
	assert.Equal(t, listsBefore, fx.backend.lists())
	cards := fx.coord.Snapshot().Cards["col-todo"]
	require.Len(t, cards, 1)
	assert.Equal(t, "from server", cards[0].Title)
}

func TestCoordinator_OnChangeFiresOnRevert(t *testing.T) {
	backend := newFakeBackend(testColumns("a", "b"), nil)
	backend.fail = errBackend
	changed := make(chan struct{}, 4)
	coord := NewCoordinator(backend, "p1", WithOnChange(func() { changed <- struct{}{} }))
	require.NoError(t, coord.Refresh(context.Background()))

	op, err := coord.ReorderColumns(context.Background(), 0, 1)
	require.NoError(t, err)
	_ = waitOp(t, op)

	select {
	case <-changed:
	case <-time.After(time.Second):
		t.Fatal("expected change callback after revert")
	}
}

func TestCoordinator_ConcurrentMutationsNeverDropColumns(t *testing.T) {
	fx := newFixture(t, []string{"a", "b", "c", "d", "e"}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = fx.coord.ReorderColumns(context.Background(), i%5, (i+2)%5)
		}(i)
	}
	wg.Wait()
	fx.settle(t)

	got := slugs(fx.coord.Snapshot().Columns)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, got)
}

func columnIDsOf(cols []models.Column) []types.ColumnID {
	out := make([]types.ColumnID, len(cols))
	for i, c := range cols {
		out[i] = c.ID
	}
	return out
}

// ============================================================================
// CANCELLATION AND ANNOUNCEMENTS
// ============================================================================

func TestMutations_OutliveCallerCancel(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ctx context.Context, c *Coordinator) (*Op, error)
	}{
		{"reorder columns", func(ctx context.Context, c *Coordinator) (*Op, error) {
			return c.ReorderColumns(ctx, 0, 2)
		}},
		{"move card", func(ctx context.Context, c *Coordinator) (*Op, error) {
			return c.MoveCard(ctx, "t1", "col-c")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, []string{"a", "b", "c"}, []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-a"}})
			fx.backend.hold = true

			ctx, cancel := context.WithCancel(context.Background())
			op, err := tt.mutate(ctx, fx.coord)
			require.NoError(t, err)

			call := fx.backend.next(t)
			cancel()
			time.Sleep(20 * time.Millisecond)
			call.release <- nil

			require.NoError(t, waitOp(t, op))
			assert.Equal(t, Persisted, op.Outcome())
			assert.Empty(t, fx.notices.all())
		})
	}
}

func TestMutations_PersistTimeoutReverts(t *testing.T) {
	backend := newFakeBackend(testColumns("a", "b", "c"), nil)
	backend.hold = true
	coord := NewCoordinator(backend, "p1", WithPersistTimeout(30*time.Millisecond))
	require.NoError(t, coord.Refresh(context.Background()))

	op, err := coord.ReorderColumns(context.Background(), 0, 2)
	require.NoError(t, err)
	backend.next(t)

	assert.ErrorIs(t, waitOp(t, op), context.DeadlineExceeded)
	assert.Equal(t, Reverted, op.Outcome())
	assert.Equal(t, []string{"a", "b", "c"}, slugs(coord.Snapshot().Columns))
}

func TestMutations_AnnounceOnlyWhenPersisted(t *testing.T) {
	backend := newFakeBackend(testColumns("a", "b", "c"), []*models.Task{{ID: "t1", ProjectID: "p1", StatusID: "col-a"}})
	recorder := testutil.NewEventRecorder()
	coord := NewCoordinator(backend, "p1", WithPublisher(recorder))
	require.NoError(t, coord.Refresh(context.Background()))

	op, err := coord.MoveCard(context.Background(), "t1", "col-b")
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))

	op, err = coord.ReorderColumns(context.Background(), 2, 0)
	require.NoError(t, err)
	require.NoError(t, waitOp(t, op))

	backend.mu.Lock()
	backend.fail = errBackend
	backend.mu.Unlock()
	op, err = coord.MoveCard(context.Background(), "t1", "col-c")
	require.NoError(t, err)
	assert.ErrorIs(t, waitOp(t, op), errBackend)

	assert.Equal(t, []types.ProjectID{"p1", "p1"}, recorder.Projects())
	for _, e := range recorder.Events() {
		assert.Equal(t, events.EventProjectChanged, e.Type)
	}
}
