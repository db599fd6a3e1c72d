package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"seesaw/internal/domain"
	"seesaw/internal/reducer"
)

// Actor identifies who a cart operation belongs to. DeviceID is always set;
// UserID only for signed-in shoppers. Guest operations hit the local store,
// authenticated ones the remote store.
type Actor struct {
	UserID   string
	DeviceID string
}

func (a Actor) authenticated() bool { return a.UserID != "" }

type remoteStore interface {
	Load(ctx context.Context, userID string) ([]domain.CartLine, error)
	UpsertLine(ctx context.Context, userID string, line domain.CartLine) error
	RemoveLine(ctx context.Context, userID string, key domain.VariantKey) error
	UpdateQuantity(ctx context.Context, userID string, key domain.VariantKey, quantity int) error
	Clear(ctx context.Context, userID string) error
}

type localStore interface {
	LoadCart(deviceID string) []domain.CartLine
	SaveCart(deviceID string, lines []domain.CartLine)
	ClearCart(deviceID string)
}

// Service applies cart actions through the pure reducer and persists the
// outcome to whichever store owns the actor's cart.
type Service struct {
	remote remoteStore
	local  localStore
	logger *log.Logger
}

func New(remote remoteStore, local localStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{remote: remote, local: local, logger: logger}
}

// Get returns the actor's cart lines from the owning store.
func (s *Service) Get(ctx context.Context, actor Actor) ([]domain.CartLine, error) {
	if actor.authenticated() {
		return s.remote.Load(ctx, actor.UserID)
	}
	return s.local.LoadCart(actor.DeviceID), nil
}

// Add puts the line in the cart. Adding a variant already present adds the
// quantities; the resulting line is then written to the remote store as a
// plain replace, so the additive step happens exactly once, in the reducer.
func (s *Service) Add(ctx context.Context, actor Actor, line domain.CartLine) ([]domain.CartLine, error) {
	if strings.TrimSpace(line.ProductID) == "" {
		return nil, errors.New("productId required")
	}
	if line.Quantity < 1 {
		return nil, errors.New("quantity must be positive")
	}

	lines, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	state := reducer.ReduceCart(reducer.CartState{Lines: lines}, reducer.CartAction{
		Type: reducer.CartAddItem,
		Line: line,
	})

	if actor.authenticated() {
		merged, _ := state.Find(line.Key())
		if err := s.remote.UpsertLine(ctx, actor.UserID, merged); err != nil {
			s.logger.Printf("cart: add user=%s product=%s failed: %v", actor.UserID, line.ProductID, err)
			return nil, err
		}
	} else {
		s.local.SaveCart(actor.DeviceID, state.Lines)
	}
	return state.Lines, nil
}

// UpdateQuantity sets the variant's quantity, floored at 1. A key not in the
// cart is a no-op, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, actor Actor, key domain.VariantKey, quantity int) ([]domain.CartLine, error) {
	lines, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	before := reducer.CartState{Lines: lines}
	if _, ok := before.Find(key); !ok {
		return lines, nil
	}
	state := reducer.ReduceCart(before, reducer.CartAction{
		Type:     reducer.CartUpdateQuantity,
		Key:      key,
		Quantity: quantity,
	})

	if actor.authenticated() {
		updated, _ := state.Find(key)
		if err := s.remote.UpdateQuantity(ctx, actor.UserID, key, updated.Quantity); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("cart: update quantity user=%s product=%s failed: %v", actor.UserID, key.ProductID, err)
			return nil, err
		}
	} else {
		s.local.SaveCart(actor.DeviceID, state.Lines)
	}
	return state.Lines, nil
}

// Remove deletes the variant's line. A key not in the cart is a no-op.
func (s *Service) Remove(ctx context.Context, actor Actor, key domain.VariantKey) ([]domain.CartLine, error) {
	lines, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	before := reducer.CartState{Lines: lines}
	if _, ok := before.Find(key); !ok {
		return lines, nil
	}
	state := reducer.ReduceCart(before, reducer.CartAction{
		Type: reducer.CartRemoveItem,
		Key:  key,
	})

	if actor.authenticated() {
		if err := s.remote.RemoveLine(ctx, actor.UserID, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("cart: remove user=%s product=%s failed: %v", actor.UserID, key.ProductID, err)
			return nil, err
		}
	} else {
		s.local.SaveCart(actor.DeviceID, state.Lines)
	}
	return state.Lines, nil
}

// Clear empties the actor's cart.
func (s *Service) Clear(ctx context.Context, actor Actor) error {
	if actor.authenticated() {
		if err := s.remote.Clear(ctx, actor.UserID); err != nil {
			s.logger.Printf("cart: clear user=%s failed: %v", actor.UserID, err)
			return err
		}
		return nil
	}
	s.local.ClearCart(actor.DeviceID)
	return nil
}
