package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	cartsvc "seesaw/internal/service/cart"
	checkoutsvc "seesaw/internal/service/checkout"
)

func (h *handlers) startCheckout(c *gin.Context, actor cartsvc.Actor) {
	var in struct {
		Email      string                 `json:"email"`
		Address    domain.ShippingAddress `json:"address"`
		CouponCode string                 `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	lines, err := h.deps.CartSvc.Get(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.deps.CheckoutSvc.Start(c.Request.Context(), checkoutsvc.StartInput{
		Actor:      actor,
		Email:      in.Email,
		Lines:      lines,
		Address:    in.Address,
		CouponCode: in.CouponCode,
	})
	if err != nil {
		var couponErr domain.CouponError
		if errors.As(err, &couponErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": couponErr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *handlers) confirmCheckout(c *gin.Context, actor cartsvc.Actor) {
	var in struct {
		OrderNumber string `json:"orderNumber"`
		SessionID   string `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.OrderNumber == "" || in.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderNumber and sessionId required"})
		return
	}

	order, err := h.deps.CheckoutSvc.Confirm(c.Request.Context(), in.OrderNumber, in.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, checkoutsvc.ErrNotPaid):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment not completed"})
		case errors.Is(err, checkoutsvc.ErrSessionMismatch):
			c.JSON(http.StatusConflict, gin.H{"error": "session does not match order"})
		default:
			h.respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// paymentWebhook is the gateway's push channel for completed sessions. It
// runs the same confirmation path as the client-side confirm call; whichever
// arrives first writes the order and the other is a no-op.
func (h *handlers) paymentWebhook(c *gin.Context) {
	var event struct {
		Type        string `json:"type"`
		SessionID   string `json:"sessionId"`
		OrderNumber string `json:"orderNumber"`
	}
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if event.Type == "checkout.session.completed" && event.SessionID != "" && event.OrderNumber != "" {
		if _, err := h.deps.CheckoutSvc.Confirm(c.Request.Context(), event.OrderNumber, event.SessionID); err != nil {
			h.logger.Printf("webhook: confirm %s failed: %v", event.OrderNumber, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
