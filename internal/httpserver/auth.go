package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	cartsvc "seesaw/internal/service/cart"
	customersvc "seesaw/internal/service/customer"
)

// createGuestSession issues a device token for a browser that has none yet.
// The token names the device's local cart and wishlist slots until sign-in.
func (h *handlers) createGuestSession(c *gin.Context) {
	token, deviceID, err := h.deps.GuestSvc.Issue(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"deviceToken": token, "deviceId": deviceID})
}

func (h *handlers) signup(c *gin.Context, actor cartsvc.Actor) {
	var in customersvc.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	customer, token, err := h.deps.CustomerSvc.Signup(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The device just became authenticated; sweep its guest data upstream.
	h.sessions.observe(c.Request.Context(), actor.DeviceID, customer.ID)

	c.JSON(http.StatusCreated, gin.H{"customer": customer, "accessToken": token})
}

func (h *handlers) login(c *gin.Context, actor cartsvc.Actor) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	customer, token, err := h.deps.CustomerSvc.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if errors.Is(err, customersvc.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.respondError(c, err)
		return
	}

	h.sessions.observe(c.Request.Context(), actor.DeviceID, customer.ID)

	c.JSON(http.StatusOK, gin.H{"customer": customer, "accessToken": token})
}

func (h *handlers) logout(c *gin.Context, actor cartsvc.Actor) {
	if token := bearerToken(c); token != "" {
		if err := h.deps.CustomerSvc.Logout(c.Request.Context(), token); err != nil {
			h.respondError(c, err)
			return
		}
	}

	// Back to anonymous. Nothing is merged on this edge; the account's
	// remote cart stays put and the device starts over empty.
	h.sessions.observe(c.Request.Context(), actor.DeviceID, "")

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *handlers) me(c *gin.Context, actor cartsvc.Actor) {
	v, ok := c.Get("customer")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": v})
}
