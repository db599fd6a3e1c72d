package wishlist

import "context"

// Repository is the server-side wishlist store, a set of product ids per
// user. Add is an idempotent no-op on duplicates.
type Repository interface {
	Load(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
