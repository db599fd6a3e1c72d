package cart

import (
	"context"
	"io"
	"log"

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

func (r *postgresRepo) Load(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT product_id, name, price_cents, size, color, quantity, COALESCE(image_url, ''), updated_at
FROM carts
WHERE user_id = $1
ORDER BY updated_at ASC, product_id ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("cart repo: load user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.PriceCents, &l.Size, &l.Color, &l.Quantity, &l.ImageURL, &l.UpdatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cart repo: load rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) UpsertLine(ctx context.Context, userID string, line domain.CartLine) error {
	const q = `
INSERT INTO carts (user_id, product_id, name, price_cents, size, color, quantity, image_url, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (user_id, product_id, size, color)
DO UPDATE SET name = EXCLUDED.name,
              price_cents = EXCLUDED.price_cents,
              quantity = EXCLUDED.quantity,
              image_url = EXCLUDED.image_url,
              updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, userID, line.ProductID, line.Name, line.PriceCents, line.Size, line.Color, line.Quantity, line.ImageURL)
	if err != nil {
		r.logger.Printf("cart repo: upsert user_id=%s product_id=%s error=%v", userID, line.ProductID, err)
	}
	return err
}

func (r *postgresRepo) RemoveLine(ctx context.Context, userID string, key domain.VariantKey) error {
	const q = `
DELETE FROM carts
WHERE user_id = $1 AND product_id = $2 AND size = $3 AND color = $4
`
	cmd, err := r.pool.Exec(ctx, q, userID, key.ProductID, key.Size, key.Color)
	if err != nil {
		r.logger.Printf("cart repo: remove user_id=%s product_id=%s error=%v", userID, key.ProductID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, userID string, key domain.VariantKey, quantity int) error {
	const q = `
UPDATE carts
SET quantity = $5, updated_at = now()
WHERE user_id = $1 AND product_id = $2 AND size = $3 AND color = $4
`
	cmd, err := r.pool.Exec(ctx, q, userID, key.ProductID, key.Size, key.Color, quantity)
	if err != nil {
		r.logger.Printf("cart repo: update quantity user_id=%s product_id=%s error=%v", userID, key.ProductID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Printf("cart repo: clear user_id=%s error=%v", userID, err)
	}
	return err
}
