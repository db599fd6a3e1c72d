package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
)

// validateCoupon checks a code against a subtotal without redeeming it. A
// rejected coupon is a normal answer, not a server error, so every coupon
// failure comes back 400 with its stable message.
func (h *handlers) validateCoupon(c *gin.Context) {
	var in struct {
		Code     string `json:"code"`
		Subtotal int64  `json:"subtotal"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	coupon, discount, err := h.deps.CouponSvc.Validate(c.Request.Context(), in.Code, in.Subtotal)
	if err != nil {
		var couponErr domain.CouponError
		if errors.As(err, &couponErr) {
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": couponErr.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":          true,
		"coupon":         coupon,
		"discountAmount": discount,
	})
}
