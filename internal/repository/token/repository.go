package token

import (
	"context"
	"time"
)

// Token is an opaque bearer token row. Exactly one of CustomerID or DeviceID
// is set: customer tokens authenticate shoppers, device tokens identify a
// guest browser session.
type Token struct {
	Token      string
	CustomerID *string
	DeviceID   *string
	Kind       string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
}
