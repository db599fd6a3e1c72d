package coupon

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"seesaw/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const couponColumns = `id::text, code, discount_type, discount_value, min_order_cents, max_uses, used_count, starts_at, expires_at, is_active, created_at`

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	q := `
SELECT ` + couponColumns + `
FROM coupons
WHERE upper(code) = upper($1)
`
	var c domain.Coupon
	err := r.pool.QueryRow(ctx, q, strings.TrimSpace(code)).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderCents,
		&c.MaxUses,
		&c.UsedCount,
		&c.StartsAt,
		&c.ExpiresAt,
		&c.IsActive,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("coupon repo: get code=%s error=%v", code, err)
		return nil, err
	}
	return &c, nil
}

// Redeem records the redemption and bumps used_count in one transaction. The
// insert into coupon_redemptions is the idempotency guard: a repeated order
// number hits ON CONFLICT DO NOTHING and the count is left alone.
func (r *postgresRepo) Redeem(ctx context.Context, couponID, orderNumber string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
INSERT INTO coupon_redemptions (coupon_id, order_number)
VALUES ($1, $2)
ON CONFLICT (coupon_id, order_number) DO NOTHING
`, couponID, orderNumber)
	if err != nil {
		r.logger.Printf("coupon repo: redeem coupon_id=%s order=%s error=%v", couponID, orderNumber, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return tx.Commit(ctx)
	}

	if _, err := tx.Exec(ctx, `
UPDATE coupons
SET used_count = used_count + 1
WHERE id = $1
`, couponID); err != nil {
		r.logger.Printf("coupon repo: increment coupon_id=%s error=%v", couponID, err)
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Coupon) (*domain.Coupon, error) {
	q := `
INSERT INTO coupons (code, discount_type, discount_value, min_order_cents, max_uses, starts_at, expires_at, is_active)
VALUES (upper($1), $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (upper(code))
DO UPDATE SET discount_type = EXCLUDED.discount_type,
              discount_value = EXCLUDED.discount_value,
              min_order_cents = EXCLUDED.min_order_cents,
              max_uses = EXCLUDED.max_uses,
              starts_at = EXCLUDED.starts_at,
              expires_at = EXCLUDED.expires_at,
              is_active = EXCLUDED.is_active
RETURNING ` + couponColumns + `
`
	var out domain.Coupon
	err := r.pool.QueryRow(ctx, q,
		strings.TrimSpace(c.Code),
		c.DiscountType,
		c.DiscountValue,
		c.MinOrderCents,
		c.MaxUses,
		c.StartsAt,
		c.ExpiresAt,
		c.IsActive,
	).Scan(
		&out.ID,
		&out.Code,
		&out.DiscountType,
		&out.DiscountValue,
		&out.MinOrderCents,
		&out.MaxUses,
		&out.UsedCount,
		&out.StartsAt,
		&out.ExpiresAt,
		&out.IsActive,
		&out.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("coupon repo: upsert code=%s error=%v", c.Code, err)
		return nil, err
	}
	return &out, nil
}
