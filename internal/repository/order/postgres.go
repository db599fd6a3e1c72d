package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const orderColumns = `order_number, user_id::text, email, status, subtotal_cents, shipping_cents, discount_cents, total_cents, shipping_address, items, coupon_code, payment_ref, created_at`

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	q := `
INSERT INTO orders (order_number, user_id, email, status, subtotal_cents, shipping_cents, discount_cents, total_cents, shipping_address, items, coupon_code, payment_ref)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + orderColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		o.OrderNumber,
		o.UserID,
		o.Email,
		o.Status,
		o.SubtotalCents,
		o.ShippingCents,
		o.DiscountCents,
		o.TotalCents,
		o.ShippingAddr,
		o.Items,
		o.CouponCode,
		o.PaymentRef,
	)
	out, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: create order=%s error=%v", o.OrderNumber, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE order_number = $1
`
	out, err := scanOrder(r.pool.QueryRow(ctx, q, orderNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get order=%s error=%v", orderNumber, err)
		return nil, err
	}
	return out, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderNumber, status string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE order_number = $1`, orderNumber, status)
	if err != nil {
		r.logger.Printf("order repo: update status order=%s error=%v", orderNumber, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(
		&o.OrderNumber,
		&o.UserID,
		&o.Email,
		&o.Status,
		&o.SubtotalCents,
		&o.ShippingCents,
		&o.DiscountCents,
		&o.TotalCents,
		&o.ShippingAddr,
		&o.Items,
		&o.CouponCode,
		&o.PaymentRef,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &o, nil
}
