package wishlist

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"seesaw/internal/domain"
	"seesaw/internal/reducer"
)

// Actor mirrors cart.Actor: DeviceID always set, UserID for signed-in
// shoppers.
type Actor struct {
	UserID   string
	DeviceID string
}

func (a Actor) authenticated() bool { return a.UserID != "" }

type remoteStore interface {
	Load(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
}

type localStore interface {
	LoadWishlist(deviceID string) []string
	SaveWishlist(deviceID string, ids []string)
}

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

func (s *Service) Get(ctx context.Context, actor Actor) ([]string, error) {
	if actor.authenticated() {
		return s.remote.Load(ctx, actor.UserID)
	}
	return s.local.LoadWishlist(actor.DeviceID), nil
}

// Toggle adds the product id if absent, removes it if present, and returns
// the resulting set plus whether the id ended up wishlisted.
func (s *Service) Toggle(ctx context.Context, actor Actor, productID string) ([]string, bool, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, false, errors.New("productId required")
	}
	ids, err := s.Get(ctx, actor)
	if err != nil {
		return nil, false, err
	}
	state := reducer.ReduceWishlist(reducer.WishlistState{IDs: ids}, reducer.WishlistAction{
		Type:      reducer.WishlistToggle,
		ProductID: productID,
	})
	added := state.Contains(productID)

	if actor.authenticated() {
		if added {
			err = s.remote.Add(ctx, actor.UserID, productID)
		} else {
			err = s.remote.Remove(ctx, actor.UserID, productID)
			if errors.Is(err, domain.ErrNotFound) {
				err = nil
			}
		}
		if err != nil {
			s.logger.Printf("wishlist: toggle user=%s product=%s failed: %v", actor.UserID, productID, err)
			return nil, false, err
		}
	} else {
		s.local.SaveWishlist(actor.DeviceID, state.IDs)
	}
	return state.IDs, added, nil
}
