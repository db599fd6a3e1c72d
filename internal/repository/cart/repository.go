package cart

import (
	"context"

	"seesaw/internal/domain"
)

// Repository is the server-side cart store, one row per variant per user.
type Repository interface {
	Load(ctx context.Context, userID string) ([]domain.CartLine, error)
	// UpsertLine inserts the line or, when the variant already exists for the
	// user, replaces the stored quantity with the incoming one.
	UpsertLine(ctx context.Context, userID string, line domain.CartLine) error
	RemoveLine(ctx context.Context, userID string, key domain.VariantKey) error
	UpdateQuantity(ctx context.Context, userID string, key domain.VariantKey, quantity int) error
	Clear(ctx context.Context, userID string) error
}
