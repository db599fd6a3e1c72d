package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "seesaw/internal/service/cart"
	wishlistsvc "seesaw/internal/service/wishlist"
)

func (h *handlers) getWishlist(c *gin.Context, actor cartsvc.Actor) {
	ids, err := h.deps.WishlistSvc.Get(c.Request.Context(), wishlistActor(actor))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"productIds": ids})
}

func (h *handlers) toggleWishlist(c *gin.Context, actor cartsvc.Actor) {
	var in struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ids, added, err := h.deps.WishlistSvc.Toggle(c.Request.Context(), wishlistActor(actor), in.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"productIds": ids, "added": added})
}

func wishlistActor(a cartsvc.Actor) wishlistsvc.Actor {
	return wishlistsvc.Actor{UserID: a.UserID, DeviceID: a.DeviceID}
}
