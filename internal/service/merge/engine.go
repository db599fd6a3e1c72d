// Package merge reconciles a device's guest cart and wishlist into the
// signed-in user's server-side state. It is the only code that moves data
// between the local and remote stores.
package merge

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"seesaw/internal/domain"
	"seesaw/internal/service/identity"
)

type cartRemote interface {
	Load(ctx context.Context, userID string) ([]domain.CartLine, error)
	UpsertLine(ctx context.Context, userID string, line domain.CartLine) error
}

type wishlistRemote interface {
	Load(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) error
}

type localStore interface {
	LoadCart(deviceID string) []domain.CartLine
	ClearCart(deviceID string)
	LoadWishlist(deviceID string) []string
	ClearWishlist(deviceID string)
}

// Snapshot is the published cart and wishlist after a transition settles.
type Snapshot struct {
	Cart     []domain.CartLine
	Wishlist []string
}

// Engine runs the sign-in merge. A mutex serializes the whole transition:
// two rapid sign-in/sign-out edges cannot interleave their upsert and clear
// steps.
type Engine struct {
	mu       sync.Mutex
	local    localStore
	cart     cartRemote
	wishlist wishlistRemote
	logger   *log.Logger

	// Publish, when set, receives the snapshot each time the engine settles
	// state: once with remote-as-loaded before the merge writes land, and
	// once with the final re-loaded state.
	Publish func(Snapshot)
}

func NewEngine(local localStore, cart cartRemote, wishlist wishlistRemote, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{local: local, cart: cart, wishlist: wishlist, logger: logger}
}

// HandleTransition applies the identity edge for the device and returns the
// snapshot that becomes the active state.
//
// Into Anonymous (first resolution or sign-out): the local store is the
// source of truth; no reverse merge ever runs on sign-out.
// Into Authenticated: the merge sweep runs, also on the direct
// Unresolved->Authenticated path. That is safe because cart upserts are
// keyed per variant and wishlist adds are idempotent, and a device with no
// local data sweeps nothing.
func (e *Engine) HandleTransition(ctx context.Context, deviceID string, tr identity.Transition) (Snapshot, error) {
	switch tr.To.State {
	case identity.Anonymous:
		return Snapshot{
			Cart:     e.local.LoadCart(deviceID),
			Wishlist: e.local.LoadWishlist(deviceID),
		}, nil
	case identity.Authenticated:
		return e.MergeOnSignIn(ctx, deviceID, tr.To.UserID)
	default:
		return Snapshot{}, nil
	}
}

// MergeOnSignIn merges the device's local collections into the user's remote
// ones and clears local. Quantity conflicts on a cart variant resolve to the
// local quantity: the local line is written verbatim over the remote row.
// Local is cleared only after every write lands, so a failed merge leaves
// the guest data in place for the next attempt.
func (e *Engine) MergeOnSignIn(ctx context.Context, deviceID, userID string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	remoteCart, err := e.cart.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load remote cart: %w", err)
	}
	remoteWishlist, err := e.wishlist.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load remote wishlist: %w", err)
	}
	e.publish(Snapshot{Cart: remoteCart, Wishlist: remoteWishlist})

	localCart := e.local.LoadCart(deviceID)
	for _, line := range localCart {
		if err := e.cart.UpsertLine(ctx, userID, line); err != nil {
			return Snapshot{}, fmt.Errorf("merge cart line %s: %w", line.ProductID, err)
		}
	}
	localWishlist := e.local.LoadWishlist(deviceID)
	for _, productID := range localWishlist {
		if err := e.wishlist.Add(ctx, userID, productID); err != nil {
			return Snapshot{}, fmt.Errorf("merge wishlist entry %s: %w", productID, err)
		}
	}

	e.local.ClearCart(deviceID)
	e.local.ClearWishlist(deviceID)
	if len(localCart) > 0 || len(localWishlist) > 0 {
		e.logger.Printf("merge: device %s merged %d cart lines, %d wishlist entries into user %s",
			deviceID, len(localCart), len(localWishlist), userID)
	}

	// Re-load so the published state reflects exactly what the store holds,
	// including anything written while the upserts were in flight.
	finalCart, err := e.cart.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reload remote cart: %w", err)
	}
	finalWishlist, err := e.wishlist.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reload remote wishlist: %w", err)
	}

	snap := Snapshot{Cart: finalCart, Wishlist: finalWishlist}
	e.publish(snap)
	return snap, nil
}

func (e *Engine) publish(s Snapshot) {
	if e.Publish != nil {
		e.Publish(s)
	}
}
