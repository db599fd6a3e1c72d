// Package identity resolves who the current actor is: a signed-in customer,
// an anonymous guest, or not yet known. The merge engine keys off its
// transitions, so notifications are edge-triggered: subscribers hear about a
// change exactly once, never again while the state holds.
package identity

import "sync"

// State of the identity signal. Unresolved means the session source has not
// answered yet and is distinct from Anonymous; nothing identity-driven may
// run speculatively while Unresolved.
type State int

const (
	Unresolved State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unresolved"
	}
}

// Signal is the current identity. UserID is set only when Authenticated.
type Signal struct {
	State  State
	UserID string
}

// Transition describes one edge observed by subscribers.
type Transition struct {
	From Signal
	To   Signal
}

// Resolver holds the identity signal for one session and fans out
// transitions to subscribers. Subscribers run synchronously, in subscription
// order, on the goroutine that triggered the transition.
type Resolver struct {
	mu      sync.Mutex
	current Signal
	subs    map[int]func(Transition)
	nextSub int
}

func NewResolver() *Resolver {
	return &Resolver{subs: make(map[int]func(Transition))}
}

// Current returns the signal as last resolved.
func (r *Resolver) Current() Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn for future transitions and returns an unsubscribe
// func. No transition is replayed on subscription.
func (r *Resolver) Subscribe(fn func(Transition)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Resolve records the identity reported by the session source. An empty
// userID resolves to Anonymous. Resolving to the value already held is a
// no-op: no subscriber fires and ok is false, which is what keeps the merge
// from re-running on every observation while authenticated.
func (r *Resolver) Resolve(userID string) (Transition, bool) {
	next := Signal{State: Anonymous}
	if userID != "" {
		next = Signal{State: Authenticated, UserID: userID}
	}
	return r.transition(next)
}

// SignOut drops back to Anonymous. Remote state stays authoritative for the
// departed user; no reverse merge happens on this edge.
func (r *Resolver) SignOut() (Transition, bool) {
	return r.transition(Signal{State: Anonymous})
}

func (r *Resolver) transition(next Signal) (Transition, bool) {
	r.mu.Lock()
	prev := r.current
	if prev == next {
		r.mu.Unlock()
		return Transition{}, false
	}
	r.current = next
	fns := make([]func(Transition), 0, len(r.subs))
	for id := 0; id < r.nextSub; id++ {
		if fn, ok := r.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	t := Transition{From: prev, To: next}
	for _, fn := range fns {
		fn(t)
	}
	return t, true
}
