package floor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/hapticfloor/pkg/errors"
	"github.com/matzehuels/hapticfloor/pkg/observability"
)

// State is the reload state of a [Floor].
type State int

const (
	// StateEmpty means no layout is loaded, either initially or after a
	// rejected reload.
	StateEmpty State = iota
	// StateLoading is held for the duration of a reload. Readers block on the
	// floor lock while it is set, so it is only observed by the reloading call.
	StateLoading
	// StateLoaded means the last reload succeeded.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot is a consistent view of a floor at one point in time.
type Snapshot struct {
	Nodes    NodeSet
	State    State
	Revision string // empty unless State is StateLoaded
}

// Option configures a [Floor].
type Option func(*Floor)

// WithResizeFunc registers fn to be called whenever a reload changes the
// number of active nodes. Hosts use it to resize their value bank. fn runs
// after the floor lock is released and may call back into the floor.
func WithResizeFunc(fn func(activeCount int)) Option {
	return func(f *Floor) { f.onResize = fn }
}

// Floor owns the node set of a running host and serializes reloads against
// ticks and renders. The zero value is not usable; use [New].
type Floor struct {
	mu       sync.RWMutex
	nodes    NodeSet
	state    State
	revision string

	onResize func(int)
}

// New creates an empty floor.
func New(opts ...Option) *Floor {
	f := &Floor{state: StateEmpty}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reload replaces the floor's nodes with the layout in text.
//
// The current set is cleared before parsing starts and is only repopulated if
// the whole document validates, so any failure leaves the floor empty,
// including when a valid layout was loaded before. The error describes the
// rejection for diagnostics; callers that only care about the resulting set
// may ignore it.
//
// A ctx that is already cancelled does not count as a reload attempt: Reload
// returns ctx.Err() without clearing the floor, so the previous layout, state
// and revision stay in place and no hooks or resize callback fire.
func (f *Floor) Reload(ctx context.Context, text string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	f.mu.Lock()
	prevActive := f.nodes.ActiveCount()

	f.nodes = NodeSet{}
	f.state = StateLoading
	f.revision = ""

	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "reload panicked: %v", r)
		}
		if err != nil {
			f.nodes = NodeSet{}
			f.state = StateEmpty
			f.revision = ""
		}
		active, passive, revision := f.nodes.ActiveCount(), f.nodes.PassiveCount(), f.revision
		f.mu.Unlock()

		observability.Floor().OnReload(ctx, revision, active, passive, time.Since(start), err)
		if f.onResize != nil && active != prevActive {
			f.onResize(active)
		}
	}()

	nodes, err := Load(text)
	if err != nil {
		return err
	}
	f.nodes = nodes
	f.state = StateLoaded
	f.revision = uuid.NewString()
	return nil
}

// Snapshot returns the current nodes together with state and revision.
func (f *Floor) Snapshot() Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return Snapshot{Nodes: f.nodes, State: f.state, Revision: f.revision}
}

// Nodes returns the current node set.
func (f *Floor) Nodes() NodeSet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nodes
}

// ActiveCount returns the number of active nodes, which is the length of
// every tick's output and the bank width hosts should aim for.
func (f *Floor) ActiveCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.nodes.ActiveCount()
}

// State returns the current reload state.
func (f *Floor) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Edges returns the neighbor pairs of the current node set.
func (f *Floor) Edges() []Edge {
	return f.Nodes().Edges()
}

// Tick routes bank onto the current active nodes, see [Route].
func (f *Floor) Tick(ctx context.Context, bank []float64) []float64 {
	_, out := f.TickSnapshot(ctx, bank)
	return out
}

// TickSnapshot is [Floor.Tick] that also returns the snapshot the bank was
// routed onto, so callers can pair each value with its node even if a reload
// lands right after.
func (f *Floor) TickSnapshot(ctx context.Context, bank []float64) (Snapshot, []float64) {
	snap := f.Snapshot()
	n := snap.Nodes.ActiveCount()
	observability.Floor().OnTick(ctx, n, len(bank))
	return snap, Route(n, bank)
}
