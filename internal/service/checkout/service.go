package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"seesaw/internal/domain"
	"seesaw/internal/payment"
	"seesaw/internal/reducer"
	cartsvc "seesaw/internal/service/cart"
)

var (
	// ErrNotPaid means the gateway session exists but has not completed.
	ErrNotPaid = errors.New("payment not completed")
	// ErrSessionMismatch means the session does not belong to the order
	// number the caller presented.
	ErrSessionMismatch = errors.New("session does not match order")
)

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type couponService interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (*domain.Coupon, int64, error)
	Redeem(ctx context.Context, code, orderNumber string) error
}

type cartCleaner interface {
	Clear(ctx context.Context, actor cartsvc.Actor) error
}

// Service drives checkout: session creation against the gateway before
// payment, and the idempotent order write after it.
type Service struct {
	gateway    payment.Gateway
	orders     orderRepo
	coupons    couponService
	carts      cartCleaner
	currency   string
	shipping   int64
	successURL string
	cancelURL  string
	logger     *log.Logger
}

func New(gateway payment.Gateway, orders orderRepo, coupons couponService, carts cartCleaner, currency string, shippingCents int64, successURL, cancelURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		gateway:    gateway,
		orders:     orders,
		coupons:    coupons,
		carts:      carts,
		currency:   currency,
		shipping:   shippingCents,
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
	}
}

// StartInput begins a checkout for the actor's current cart contents.
type StartInput struct {
	Actor      cartsvc.Actor
	Email      string
	Lines      []domain.CartLine
	Address    domain.ShippingAddress
	CouponCode string
}

// StartResult points the shopper at the hosted payment page.
type StartResult struct {
	OrderNumber string `json:"orderNumber"`
	SessionID   string `json:"sessionId"`
	PaymentURL  string `json:"paymentUrl"`
}

// orderPayload rides in the session metadata so the confirmation path can
// rebuild the order without trusting the client again.
type orderPayload struct {
	UserID        *string                `json:"userId,omitempty"`
	DeviceID      *string                `json:"deviceId,omitempty"`
	Email         string                 `json:"email"`
	Items         []domain.OrderItem     `json:"items"`
	Address       domain.ShippingAddress `json:"address"`
	CouponCode    *string                `json:"couponCode,omitempty"`
	SubtotalCents int64                  `json:"subtotalCents"`
	ShippingCents int64                  `json:"shippingCents"`
	DiscountCents int64                  `json:"discountCents"`
	TotalCents    int64                  `json:"totalCents"`
}

// Start validates the cart and coupon, creates the gateway session and
// returns where to send the shopper.
func (s *Service) Start(ctx context.Context, in StartInput) (*StartResult, error) {
	if len(in.Lines) == 0 {
		return nil, errors.New("cart is empty")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}

	subtotal := reducer.CartState{Lines: in.Lines}.SubtotalCents()
	var discount int64
	var couponCode *string
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		c, d, err := s.coupons.Validate(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
		discount = d
		couponCode = &c.Code
	}
	total := subtotal + s.shipping - discount
	if total < s.shipping {
		total = s.shipping
	}

	orderNumber, err := newOrderNumber()
	if err != nil {
		return nil, err
	}

	var userID, deviceID *string
	if in.Actor.UserID != "" {
		id := in.Actor.UserID
		userID = &id
	}
	if in.Actor.DeviceID != "" {
		id := in.Actor.DeviceID
		deviceID = &id
	}
	items := make([]domain.OrderItem, 0, len(in.Lines))
	lineItems := make([]payment.LineItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		items = append(items, domain.OrderItem{
			ProductID:  l.ProductID,
			Name:       l.Name,
			PriceCents: l.PriceCents,
			Size:       l.Size,
			Color:      l.Color,
			Quantity:   l.Quantity,
			ImageURL:   l.ImageURL,
		})
		lineItems = append(lineItems, payment.LineItem{
			Name:        l.Name,
			AmountCents: l.PriceCents,
			Quantity:    l.Quantity,
			Currency:    s.currency,
		})
	}

	payload, err := json.Marshal(orderPayload{
		UserID:        userID,
		DeviceID:      deviceID,
		Email:         email,
		Items:         items,
		Address:       in.Address,
		CouponCode:    couponCode,
		SubtotalCents: subtotal,
		ShippingCents: s.shipping,
		DiscountCents: discount,
		TotalCents:    total,
	})
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateSession(ctx, payment.SessionInput{
		OrderNumber: orderNumber,
		Email:       email,
		LineItems:   lineItems,
		SuccessURL:  s.successURL + "?orderNumber=" + orderNumber,
		CancelURL:   s.cancelURL,
		Metadata:    map[string]string{"order": string(payload)},
	})
	if err != nil {
		s.logger.Printf("checkout: create session order=%s failed: %v", orderNumber, err)
		return nil, err
	}

	return &StartResult{
		OrderNumber: orderNumber,
		SessionID:   session.ID,
		PaymentURL:  session.URL,
	}, nil
}

// Confirm verifies the session with the gateway and writes the order. It is
// idempotent per order number: the first call inserts, every later call for
// the same number (redirect retry, webhook redelivery) returns the stored
// order. Coupon redemption shares the same dedup key.
func (s *Service) Confirm(ctx context.Context, orderNumber, sessionID string) (*domain.Order, error) {
	if existing, err := s.orders.GetByNumber(ctx, orderNumber); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	status, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !status.Paid {
		return nil, ErrNotPaid
	}
	if status.OrderNumber != orderNumber {
		return nil, ErrSessionMismatch
	}

	var payload orderPayload
	if err := json.Unmarshal([]byte(status.Metadata["order"]), &payload); err != nil {
		return nil, fmt.Errorf("decode order payload: %w", err)
	}

	ref := sessionID
	order := domain.Order{
		OrderNumber:   orderNumber,
		UserID:        payload.UserID,
		Email:         payload.Email,
		Status:        domain.OrderPaid,
		SubtotalCents: payload.SubtotalCents,
		ShippingCents: payload.ShippingCents,
		DiscountCents: payload.DiscountCents,
		TotalCents:    payload.TotalCents,
		ShippingAddr:  payload.Address,
		Items:         payload.Items,
		CouponCode:    payload.CouponCode,
		PaymentRef:    &ref,
	}
	created, err := s.orders.Create(ctx, order)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return s.orders.GetByNumber(ctx, orderNumber)
		}
		return nil, err
	}

	if payload.CouponCode != nil {
		if err := s.coupons.Redeem(ctx, *payload.CouponCode, orderNumber); err != nil {
			// The order stands either way; a missed increment is recoverable
			// from the redemptions table.
			s.logger.Printf("checkout: redeem coupon %s for order %s failed: %v", *payload.CouponCode, orderNumber, err)
		}
	}
	var actor cartsvc.Actor
	if payload.UserID != nil {
		actor.UserID = *payload.UserID
	}
	if payload.DeviceID != nil {
		actor.DeviceID = *payload.DeviceID
	}
	if actor.UserID != "" || actor.DeviceID != "" {
		if err := s.carts.Clear(ctx, actor); err != nil {
			s.logger.Printf("checkout: clear cart for order %s failed: %v", orderNumber, err)
		}
	}

	return created, nil
}
