package domain

import "time"

// Discount types supported by coupons.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a discount code record. Codes are stored uppercase and matched
// case-insensitively. MinOrderCents, MaxUses, StartsAt and ExpiresAt are
// optional gates; nil means not enforced.
type Coupon struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discountType"`
	DiscountValue int64      `json:"discountValue"`
	MinOrderCents *int64     `json:"minOrderCents,omitempty"`
	MaxUses       *int       `json:"maxUses,omitempty"`
	UsedCount     int        `json:"usedCount"`
	StartsAt      *time.Time `json:"startsAt,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CouponError is a typed coupon validation failure. Values are stable and
// safe to surface to shoppers.
type CouponError string

func (e CouponError) Error() string { return string(e) }

// Coupon validation failures, in the order they are checked.
const (
	ErrCouponInvalidCode       = CouponError("invalid coupon code")
	ErrCouponInactive          = CouponError("coupon is not active")
	ErrCouponNotYetValid       = CouponError("coupon is not valid yet")
	ErrCouponExpired           = CouponError("coupon has expired")
	ErrCouponUsageLimitReached = CouponError("coupon usage limit reached")
	ErrCouponBelowMinimum      = CouponError("order subtotal below coupon minimum")
)
