package product

import (
	"context"
	"errors"
	"io"
	"log"

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

const productColumns = `id::text, slug, name, COALESCE(description, ''), price_cents, currency, sizes, colors, COALESCE(image_url, ''), created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceCents, &p.Currency, &p.Sizes, &p.Colors, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	// id is uuid-typed; comparing as text keeps a non-uuid argument a plain
	// miss instead of a cast error.
	return r.get(ctx, `WHERE id::text = $1`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.get(ctx, `WHERE slug = $1`, slug)
}

func (r *postgresRepo) get(ctx context.Context, where, arg string) (*domain.Product, error) {
	q := `
SELECT ` + productColumns + `
FROM products
` + where
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, arg).Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.PriceCents, &p.Currency, &p.Sizes, &p.Colors, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get %s error=%v", arg, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	q := `
INSERT INTO products (slug, name, description, price_cents, currency, sizes, colors, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (slug)
DO UPDATE SET name = EXCLUDED.name,
              description = EXCLUDED.description,
              price_cents = EXCLUDED.price_cents,
              currency = EXCLUDED.currency,
              sizes = EXCLUDED.sizes,
              colors = EXCLUDED.colors,
              image_url = EXCLUDED.image_url
RETURNING ` + productColumns + `
`
	var out domain.Product
	err := r.pool.QueryRow(ctx, q, p.Slug, p.Name, p.Description, p.PriceCents, p.Currency, p.Sizes, p.Colors, p.ImageURL).Scan(
		&out.ID, &out.Slug, &out.Name, &out.Description, &out.PriceCents, &out.Currency, &out.Sizes, &out.Colors, &out.ImageURL, &out.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: upsert slug=%s error=%v", p.Slug, err)
		return nil, err
	}
	return &out, nil
}
