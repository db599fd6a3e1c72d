package httpserver

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	cartsvc "seesaw/internal/service/cart"
	guestsvc "seesaw/internal/service/guest"
)

type handlers struct {
	deps     Deps
	sessions *sessionTracker
	logger   *log.Logger
}

// withActor resolves who is making the request before the handler runs. A
// Bearer token names a customer, an X-Device-Token names a guest device, and
// both may be present on the same request. Every observation is fed to the
// session tracker so the sign-in merge fires on the first authenticated
// request a device makes.
func (h *handlers) withActor(fn func(*gin.Context, cartsvc.Actor)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var actor cartsvc.Actor

		if token := bearerToken(c); token != "" {
			customer, err := h.deps.CustomerSvc.Authenticate(c.Request.Context(), token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			actor.UserID = customer.ID
			c.Set("customer", customer)
		}

		if deviceToken := c.GetHeader("X-Device-Token"); deviceToken != "" {
			deviceID, err := h.deps.GuestSvc.Lookup(c.Request.Context(), deviceToken)
			if err != nil {
				if !errors.Is(err, guestsvc.ErrInvalidToken) {
					h.logger.Printf("http: device lookup failed: %v", err)
				}
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid device token"})
				return
			}
			actor.DeviceID = deviceID
		}

		if actor.UserID == "" && actor.DeviceID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
			return
		}

		h.sessions.observe(c.Request.Context(), actor.DeviceID, actor.UserID)
		fn(c, actor)
	}
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// respondError maps service errors to HTTP statuses. Coupon failures carry
// their own stable messages; everything else collapses to a generic 500 so
// internals stay out of responses.
func (h *handlers) respondError(c *gin.Context, err error) {
	var couponErr domain.CouponError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.As(err, &couponErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": couponErr.Error()})
	default:
		h.logger.Printf("http: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
