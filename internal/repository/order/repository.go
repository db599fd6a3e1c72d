package order

import (
	"context"

	"seesaw/internal/domain"
)

type Repository interface {
	// Create inserts the order, returning domain.ErrAlreadyExists when an
	// order with the same order number was written before.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderNumber, status string) error
}
