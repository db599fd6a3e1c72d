package coupon

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"seesaw/internal/domain"
)

type repository interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Redeem(ctx context.Context, couponID, orderNumber string) error
}

// Service resolves coupon codes and applies the evaluator.
type Service struct {
	repo   repository
	now    func() time.Time
	logger *log.Logger
}

func New(repo repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, now: time.Now, logger: logger}
}

// Validate looks the code up case-insensitively and evaluates it against the
// subtotal. A missing code and a lookup failure both surface as an invalid
// code; any other failure is the typed gate that rejected it.
func (s *Service) Validate(ctx context.Context, code string, subtotalCents int64) (*domain.Coupon, int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, 0, domain.ErrCouponInvalidCode
	}
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("coupon: lookup code=%s failed: %v", code, err)
		}
		return nil, 0, domain.ErrCouponInvalidCode
	}
	discount, err := Evaluate(c, subtotalCents, s.now())
	if err != nil {
		return nil, 0, err
	}
	return c, discount, nil
}

// Redeem counts one use of the coupon for the order. Safe to call again for
// the same order number; the repository deduplicates.
func (s *Service) Redeem(ctx context.Context, code, orderNumber string) error {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	return s.repo.Redeem(ctx, c.ID, orderNumber)
}
