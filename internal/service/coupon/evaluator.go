package coupon

import (
	"time"

	"seesaw/internal/domain"
)

// Evaluate runs the validation gates in order, first failure wins, and
// returns the discount in cents. Percentage discounts round half-up; fixed
// discounts are capped at the subtotal so the merchandise total can never go
// negative.
func Evaluate(c *domain.Coupon, subtotalCents int64, now time.Time) (int64, error) {
	if c == nil {
		return 0, domain.ErrCouponInvalidCode
	}
	if !c.IsActive {
		return 0, domain.ErrCouponInactive
	}
	if c.StartsAt != nil && c.StartsAt.After(now) {
		return 0, domain.ErrCouponNotYetValid
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
		return 0, domain.ErrCouponExpired
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return 0, domain.ErrCouponUsageLimitReached
	}
	if c.MinOrderCents != nil && subtotalCents < *c.MinOrderCents {
		return 0, domain.ErrCouponBelowMinimum
	}

	switch c.DiscountType {
	case domain.DiscountPercentage:
		return (subtotalCents*c.DiscountValue + 50) / 100, nil
	case domain.DiscountFixed:
		if c.DiscountValue > subtotalCents {
			return subtotalCents, nil
		}
		return c.DiscountValue, nil
	default:
		return 0, domain.ErrCouponInvalidCode
	}
}
