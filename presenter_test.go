package simplemvp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilislilit/SimpleMVP/logging"
	"github.com/lilislilit/SimpleMVP/types"
)

// counterState is the state fixture shared by the root package tests.
type counterState struct {
	types.BaseState
	Revision int
}

func (s *counterState) Clone() *counterState {
	c := *s
	return &c
}

// recorderHost records host interactions.
type recorderHost struct {
	mu        sync.Mutex
	messages  []string
	actions   []string
	actionErr error
}

func (h *recorderHost) ShowMessage(text string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, text)
}

func (h *recorderHost) StartAction(name string, _ types.Arguments) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, name)

	return h.actionErr
}

func (h *recorderHost) messageList() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.messages...)
}

func (h *recorderHost) actionList() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.actions...)
}

// recorderView records every snapshot it receives.
type recorderView struct {
	mu       sync.Mutex
	states   []*counterState
	finished int
	host     *recorderHost
	args     types.Arguments

	// onState, when set, runs after the snapshot is recorded.
	onState func(s *counterState)
}

func newRecorderView() *recorderView {
	return &recorderView{host: &recorderHost{}}
}

func (v *recorderView) OnStateChanged(s *counterState) {
	v.mu.Lock()
	v.states = append(v.states, s)
	cb := v.onState
	v.mu.Unlock()

	if cb != nil {
		cb(s)
	}
}

func (v *recorderView) Arguments() types.Arguments {
	return v.args
}

func (v *recorderView) Host() types.Host {
	return v.host
}

func (v *recorderView) Finish() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.finished++
}

func (v *recorderView) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return len(v.states)
}

func (v *recorderView) snapshots() []*counterState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]*counterState(nil), v.states...)
}

func (v *recorderView) lastRevision() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.states) == 0 {
		return -1
	}

	return v.states[len(v.states)-1].Revision
}

func (v *recorderView) finishedCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.finished
}

// eventLog records hook invocations in order.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (e *eventLog) add(ev string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *eventLog) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.events...)
}

func (e *eventLog) countOf(ev string) int {
	n := 0
	for _, got := range e.list() {
		if got == ev {
			n++
		}
	}

	return n
}

func recordingHooks(log *eventLog) *types.Hooks[*counterState] {
	return &types.Hooks[*counterState]{
		OnFirstConnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			log.add("first_connected")
			return nil
		},
		OnConnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			log.add("connected")
			return nil
		},
		OnDisconnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			log.add("disconnected")
			return nil
		},
		OnLastDisconnected: func(_ context.Context) error {
			log.add("last_disconnected")
			return nil
		},
	}
}

// quiesce drains the presenter executor and the delivery loop, so every
// posted hook, commit and delivery has completed when it returns.
func quiesce(t *testing.T, p *Presenter[*counterState], delivery *Loop) {
	t.Helper()
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, delivery.Stop(context.Background()))
}

// fakeHandle is a minimal ViewHandle for registry-level tests.
type fakeHandle struct {
	id uint64
}

func (f *fakeHandle) ID() uint64                                  { return f.id }
func (f *fakeHandle) Post(_ *counterState)                        {}
func (f *fakeHandle) SetEnabled(_ bool)                           {}
func (f *fakeHandle) Finish()                                     {}
func (f *fakeHandle) ShowMessage(_ string, _ time.Duration)       {}
func (f *fakeHandle) StartHostAction(_ string, _ types.Arguments) {}
func (f *fakeHandle) View() types.View[*counterState]             { return nil }
func (f *fakeHandle) Arguments() types.Arguments                  { return types.Arguments{} }

func TestNewPresenter_Validation(t *testing.T) {
	delivery := NewLoop(nil)
	defer delivery.Stop(context.Background()) //nolint:errcheck

	t.Run("nil config", func(t *testing.T) {
		_, err := NewPresenter[*counterState](nil, &counterState{}, delivery)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("nil delivery", func(t *testing.T) {
		_, err := NewPresenter(&Config{}, &counterState{}, nil)
		require.ErrorIs(t, err, ErrDispatcherRequired)
	})

	t.Run("invalid thinning factor", func(t *testing.T) {
		_, err := NewPresenter(&Config{ThinningFactor: -1}, &counterState{}, delivery)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg := Config{}
		p, err := NewPresenter(&cfg, &counterState{}, delivery)
		require.NoError(t, err)
		defer p.Close(context.Background()) //nolint:errcheck

		assert.Equal(t, DefaultThinningFactor, cfg.ThinningFactor)
		assert.NotNil(t, p.logger)
		assert.NotNil(t, p.metrics)
		assert.NotNil(t, p.hooks.OnConnected)
		assert.NotNil(t, p.ownedExecutor)
	})

	t.Run("external executor not owned", func(t *testing.T) {
		executor := NewLoop(nil)
		defer executor.Stop(context.Background()) //nolint:errcheck

		p, err := NewPresenter(&Config{}, &counterState{}, delivery,
			WithExecutor[*counterState](executor))
		require.NoError(t, err)
		defer p.Close(context.Background()) //nolint:errcheck

		assert.Nil(t, p.ownedExecutor)
		assert.Same(t, executor, p.executor.(*Loop))
	})
}

func TestPresenter_UniqueIDs(t *testing.T) {
	delivery := NewLoop(nil)
	defer delivery.Stop(context.Background()) //nolint:errcheck

	p1, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)
	defer p1.Close(context.Background()) //nolint:errcheck

	p2, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)
	defer p2.Close(context.Background()) //nolint:errcheck

	assert.NotEqual(t, p1.ID(), p2.ID())
	assert.Greater(t, p2.ID(), p1.ID(), "identifiers increase monotonically")
}

func TestPresenter_ConnectRunsHooksBeforeInitialSnapshot(t *testing.T) {
	delivery := NewLoop(logging.NewTest(t))
	log := &eventLog{}

	p, err := NewPresenter(&Config{}, &counterState{}, delivery,
		WithHooks(recordingHooks(log)), WithLogger[*counterState](logging.NewTest(t)))
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)

	h.SetEnabled(true)
	h.OnResumed()

	require.Eventually(t, func() bool {
		return view.count() >= 1
	}, time.Second, 5*time.Millisecond, "initial snapshot must reach the view")

	events := log.list()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, "first_connected", events[0])
	assert.Equal(t, "connected", events[1])

	// A second view is not a first-connect edge.
	view2 := newRecorderView()
	h2, err := Bind(p, view2)
	require.NoError(t, err)
	h2.SetEnabled(true)
	h2.OnResumed()

	require.Eventually(t, func() bool {
		return view2.count() >= 1
	}, time.Second, 5*time.Millisecond)

	quiesce(t, p, delivery)

	assert.Equal(t, 1, log.countOf("first_connected"))
	assert.Equal(t, 2, log.countOf("connected"))
}

func TestPresenter_InitialSnapshotObservesHookEffects(t *testing.T) {
	delivery := NewLoop(nil)

	hooks := &types.Hooks[*counterState]{
		OnFirstConnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			return errors.New("warm-up failed")
		},
	}

	p, err := NewPresenter(&Config{}, &counterState{Revision: 7}, delivery, WithHooks(hooks))
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)
	h.SetEnabled(true)
	h.OnResumed()

	// The hook error is absorbed and the snapshot still arrives.
	require.Eventually(t, func() bool {
		return view.count() >= 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 7, view.snapshots()[0].Revision)

	quiesce(t, p, delivery)
}

func TestPresenter_HookMutationVisibleInInitialSnapshot(t *testing.T) {
	delivery := NewLoop(nil)

	// The hook mutates state inside the commit section; the initial
	// snapshot posted right after must carry that mutation.
	var p *Presenter[*counterState]

	hooks := &types.Hooks[*counterState]{
		OnFirstConnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			p.state.Revision = 42
			return nil
		},
	}

	p, err := NewPresenter(&Config{}, &counterState{}, delivery, WithHooks(hooks))
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)
	h.SetEnabled(true)
	h.OnResumed()

	require.Eventually(t, func() bool {
		return view.count() >= 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 42, view.snapshots()[0].Revision)

	quiesce(t, p, delivery)
}

func TestPresenter_DisconnectHookOrder(t *testing.T) {
	delivery := NewLoop(nil)
	log := &eventLog{}

	p, err := NewPresenter(&Config{}, &counterState{}, delivery, WithHooks(recordingHooks(log)))
	require.NoError(t, err)

	a := &fakeHandle{id: handleSeq.Add(1)}
	b := &fakeHandle{id: handleSeq.Add(1)}

	p.Connect(a)
	p.Connect(b)
	require.False(t, p.IsDetached())

	p.Disconnect(a)
	require.False(t, p.IsDetached())

	p.Disconnect(b)
	require.True(t, p.IsDetached())

	quiesce(t, p, delivery)

	events := log.list()
	require.Equal(t, []string{
		"first_connected", "connected",
		"connected",
		"disconnected",
		"disconnected", "last_disconnected",
	}, events)
}

func TestPresenter_DisconnectIdempotent(t *testing.T) {
	delivery := NewLoop(nil)
	log := &eventLog{}

	p, err := NewPresenter(&Config{}, &counterState{}, delivery, WithHooks(recordingHooks(log)))
	require.NoError(t, err)

	h := &fakeHandle{id: handleSeq.Add(1)}
	p.Connect(h)
	p.Connect(h) // duplicate connect is a no-op

	p.Disconnect(h)
	p.Disconnect(h) // duplicate disconnect is a no-op
	require.True(t, p.IsDetached())

	quiesce(t, p, delivery)

	assert.Equal(t, 1, log.countOf("connected"))
	assert.Equal(t, 1, log.countOf("disconnected"))
	assert.Equal(t, 1, log.countOf("last_disconnected"))
}

func TestPresenter_CommitGating(t *testing.T) {
	delivery := NewLoop(nil)

	p, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)
	h.SetEnabled(true)
	h.OnResumed()

	// Initial connect snapshot.
	require.Eventually(t, func() bool {
		return view.count() == 1
	}, time.Second, 5*time.Millisecond)

	// State is still initial: the first commit broadcasts and clears.
	p.Commit()

	// Unchanged and committed: no broadcast.
	p.Commit()

	// Changed: broadcast.
	p.Update(func(s *counterState) {
		s.Revision = 1
		s.MarkChanged()
	})

	// Update without MarkChanged: mutation kept, nothing broadcast.
	p.Update(func(s *counterState) {
		s.Revision = 99
	})

	quiesce(t, p, delivery)

	got := view.snapshots()
	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Revision)
	assert.Equal(t, 0, got[1].Revision)
	assert.Equal(t, 1, got[2].Revision)
}

func TestPresenter_BroadcastOrdering(t *testing.T) {
	delivery := NewLoop(nil)

	p, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)
	h.SetEnabled(true)
	h.OnResumed()

	const commits = 50
	for i := 1; i <= commits; i++ {
		rev := i
		p.Update(func(s *counterState) {
			s.Revision = rev
			s.MarkChanged()
		})
	}

	quiesce(t, p, delivery)

	got := view.snapshots()
	require.NotEmpty(t, got)
	assert.Equal(t, commits, got[len(got)-1].Revision, "final commit always delivered")

	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Revision, got[i-1].Revision,
			"snapshots must arrive in strictly increasing order")
	}
}

func TestPresenter_IndependentClones(t *testing.T) {
	delivery := NewLoop(nil)

	p, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)

	viewA := newRecorderView()
	hA, err := Bind(p, viewA)
	require.NoError(t, err)
	hA.SetEnabled(true)
	hA.OnResumed()

	viewB := newRecorderView()
	hB, err := Bind(p, viewB)
	require.NoError(t, err)
	hB.SetEnabled(true)
	hB.OnResumed()

	p.Update(func(s *counterState) {
		s.Revision = 5
		s.MarkChanged()
	})

	quiesce(t, p, delivery)

	gotA := viewA.snapshots()
	gotB := viewB.snapshots()
	require.NotEmpty(t, gotA)
	require.NotEmpty(t, gotB)

	lastA := gotA[len(gotA)-1]
	lastB := gotB[len(gotB)-1]
	assert.Equal(t, 5, lastA.Revision)
	assert.Equal(t, 5, lastB.Revision)
	assert.NotSame(t, lastA, lastB, "each handle receives its own clone")
}

func TestPresenter_FinishFanOut(t *testing.T) {
	delivery := NewLoop(nil)

	p, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)

	viewA := newRecorderView()
	_, err = Bind(p, viewA)
	require.NoError(t, err)

	viewB := newRecorderView()
	_, err = Bind(p, viewB)
	require.NoError(t, err)

	p.Finish()

	quiesce(t, p, delivery)

	assert.Equal(t, 1, viewA.finishedCount())
	assert.Equal(t, 1, viewB.finishedCount())
}

func TestPresenter_CloseTwice(t *testing.T) {
	delivery := NewLoop(nil)
	defer delivery.Stop(context.Background()) //nolint:errcheck

	p, err := NewPresenter(&Config{}, &counterState{}, delivery)
	require.NoError(t, err)

	require.NoError(t, p.Close(context.Background()))
	require.ErrorIs(t, p.Close(context.Background()), ErrAlreadyClosed)
}

func TestPresenter_ConcurrentMembershipEdges(t *testing.T) {
	delivery := NewLoop(nil)
	log := &eventLog{}

	p, err := NewPresenter(&Config{}, &counterState{}, delivery, WithHooks(recordingHooks(log)))
	require.NoError(t, err)

	const handles = 32

	all := make([]*fakeHandle, handles)
	for i := range all {
		all[i] = &fakeHandle{id: handleSeq.Add(1)}
	}

	var wg sync.WaitGroup
	for _, h := range all {
		wg.Add(1)
		go func(h *fakeHandle) {
			defer wg.Done()
			p.Connect(h)
		}(h)
	}
	wg.Wait()
	require.False(t, p.IsDetached())

	for _, h := range all {
		wg.Add(1)
		go func(h *fakeHandle) {
			defer wg.Done()
			p.Disconnect(h)
		}(h)
	}
	wg.Wait()
	require.True(t, p.IsDetached())

	quiesce(t, p, delivery)

	assert.Equal(t, 1, log.countOf("first_connected"), "exactly one connect observes the first edge")
	assert.Equal(t, handles, log.countOf("connected"))
	assert.Equal(t, handles, log.countOf("disconnected"))
	assert.Equal(t, 1, log.countOf("last_disconnected"), "exactly one disconnect observes the last edge")
}

func TestPresenter_HookPanicAbsorbed(t *testing.T) {
	delivery := NewLoop(nil)

	hooks := &types.Hooks[*counterState]{
		OnConnected: func(_ context.Context, _ types.ViewHandle[*counterState]) error {
			panic("hook blew up")
		},
	}

	p, err := NewPresenter(&Config{}, &counterState{Revision: 3}, delivery,
		WithHooks(hooks), WithLogger[*counterState](logging.NewTest(t)))
	require.NoError(t, err)

	view := newRecorderView()
	h, err := Bind(p, view)
	require.NoError(t, err)
	h.SetEnabled(true)
	h.OnResumed()

	// The panic is contained and the initial snapshot still arrives.
	require.Eventually(t, func() bool {
		return view.count() >= 1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 3, view.snapshots()[0].Revision)

	quiesce(t, p, delivery)
}
