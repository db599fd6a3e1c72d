package httpserver

import (
	"container/list"
	"context"
	"log"
	"sync"

	"seesaw/internal/service/identity"
	"seesaw/internal/service/merge"
)

// maxTrackedDevices bounds the resolver registry. Devices past the cap are
// evicted least-recently-seen; an evicted device that comes back starts a
// fresh resolver, which at worst re-runs the merge sweep, and the sweep is
// idempotent.
const maxTrackedDevices = 8192

type trackedDevice struct {
	deviceID string
	resolver *identity.Resolver
}

// sessionTracker keeps one identity resolver per device so identity edges
// fire once per transition, not once per request. The merge engine runs as a
// side effect of the anonymous-to-authenticated edge.
type sessionTracker struct {
	mu      sync.Mutex
	engine  *merge.Engine
	logger  *log.Logger
	cap     int
	order   *list.List
	devices map[string]*list.Element
}

func newSessionTracker(engine *merge.Engine, logger *log.Logger) *sessionTracker {
	return &sessionTracker{
		engine:  engine,
		logger:  logger,
		cap:     maxTrackedDevices,
		order:   list.New(),
		devices: make(map[string]*list.Element),
	}
}

// observe reports the identity seen on a request. When that changes the
// device's resolved state, the resulting transition is handed to the merge
// engine. A failed merge is logged and left for the next edge; the guest
// data stays local until a sweep succeeds.
func (t *sessionTracker) observe(ctx context.Context, deviceID, userID string) {
	if deviceID == "" {
		return
	}
	r := t.resolverFor(deviceID)
	if tr, ok := r.Resolve(userID); ok {
		if _, err := t.engine.HandleTransition(ctx, deviceID, tr); err != nil {
			t.logger.Printf("session: merge for device %s failed: %v", deviceID, err)
		}
	}
}

func (t *sessionTracker) resolverFor(deviceID string) *identity.Resolver {
	t.mu.Lock()
	defer t.mu.Unlock()
	if el, ok := t.devices[deviceID]; ok {
		t.order.MoveToFront(el)
		return el.Value.(*trackedDevice).resolver
	}
	el := t.order.PushFront(&trackedDevice{deviceID: deviceID, resolver: identity.NewResolver()})
	t.devices[deviceID] = el
	for t.order.Len() > t.cap {
		oldest := t.order.Back()
		t.order.Remove(oldest)
		delete(t.devices, oldest.Value.(*trackedDevice).deviceID)
	}
	return el.Value.(*trackedDevice).resolver
}
