package coupon

import (
	"context"

	"seesaw/internal/domain"
)

type Repository interface {
	// GetByCode matches case-insensitively; codes are stored uppercase.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	// Redeem increments the coupon's used count at most once per order
	// number, so redelivered payment webhooks cannot double-count.
	Redeem(ctx context.Context, couponID, orderNumber string) error
	Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error)
}
