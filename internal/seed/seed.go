package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"seesaw/internal/domain"
	couponrepo "seesaw/internal/repository/coupon"
	productrepo "seesaw/internal/repository/product"
)

type productSeed struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	PriceCents  int64    `yaml:"priceCents"`
	Currency    string   `yaml:"currency"`
	Sizes       []string `yaml:"sizes"`
	Colors      []string `yaml:"colors"`
	ImageURL    string   `yaml:"imageUrl"`
}

type couponSeed struct {
	Code          string `yaml:"code"`
	DiscountType  string `yaml:"discountType"`
	DiscountValue int64  `yaml:"discountValue"`
	MinOrderCents *int64 `yaml:"minOrderCents"`
	MaxUses       *int   `yaml:"maxUses"`
	ExpiresDays   *int   `yaml:"expiresDays"`
}

type fixture struct {
	Products []productSeed `yaml:"products"`
	Coupons  []couponSeed  `yaml:"coupons"`
}

// Apply inserts catalog and coupon seed data for manual testing. It is
// idempotent via the repositories' upserts. When fixturePath is empty a
// small built-in fixture is used.
func Apply(ctx context.Context, products productrepo.Repository, coupons couponrepo.Repository, fixturePath string) error {
	fx := defaultFixture()
	if fixturePath != "" {
		loaded, err := loadFixture(fixturePath)
		if err != nil {
			return fmt.Errorf("load fixture %s: %w", fixturePath, err)
		}
		fx = loaded
	}

	for _, p := range fx.Products {
		if _, err := products.Upsert(ctx, domain.Product{
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			PriceCents:  p.PriceCents,
			Currency:    p.Currency,
			Sizes:       p.Sizes,
			Colors:      p.Colors,
			ImageURL:    p.ImageURL,
		}); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Slug, err)
		}
	}

	for _, c := range fx.Coupons {
		coupon := domain.Coupon{
			Code:          c.Code,
			DiscountType:  c.DiscountType,
			DiscountValue: c.DiscountValue,
			MinOrderCents: c.MinOrderCents,
			MaxUses:       c.MaxUses,
			IsActive:      true,
		}
		if c.ExpiresDays != nil {
			exp := time.Now().AddDate(0, 0, *c.ExpiresDays)
			coupon.ExpiresAt = &exp
		}
		if _, err := coupons.Upsert(ctx, coupon); err != nil {
			return fmt.Errorf("upsert coupon %s: %w", c.Code, err)
		}
	}

	return nil
}

func loadFixture(path string) (fixture, error) {
	var fx fixture
	raw, err := os.ReadFile(path)
	if err != nil {
		return fx, err
	}
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fx, err
	}
	return fx, nil
}

func defaultFixture() fixture {
	minOrder := int64(10000)
	maxUses := 100
	return fixture{
		Products: []productSeed{
			{
				Slug:        "linen-shirt",
				Name:        "Linen Shirt",
				Description: "Relaxed-fit shirt in washed linen",
				PriceCents:  4900,
				Currency:    "USD",
				Sizes:       []string{"S", "M", "L", "XL"},
				Colors:      []string{"white", "sand", "navy"},
			},
			{
				Slug:        "wool-coat",
				Name:        "Wool Coat",
				Description: "Double-breasted coat in virgin wool",
				PriceCents:  24900,
				Currency:    "USD",
				Sizes:       []string{"S", "M", "L"},
				Colors:      []string{"camel", "black"},
			},
			{
				Slug:        "canvas-tote",
				Name:        "Canvas Tote",
				Description: "Heavyweight cotton canvas tote bag",
				PriceCents:  3500,
				Currency:    "USD",
				Colors:      []string{"natural"},
			},
		},
		Coupons: []couponSeed{
			{Code: "WELCOME10", DiscountType: domain.DiscountPercentage, DiscountValue: 10},
			{Code: "SAVE20", DiscountType: domain.DiscountPercentage, DiscountValue: 20, MinOrderCents: &minOrder, MaxUses: &maxUses},
			{Code: "FLAT15", DiscountType: domain.DiscountFixed, DiscountValue: 1500, MinOrderCents: &minOrder},
		},
	}
}
