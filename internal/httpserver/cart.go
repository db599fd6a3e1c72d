package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	"seesaw/internal/reducer"
	cartsvc "seesaw/internal/service/cart"
)

// cartView is the cart as the storefront renders it, with the derived
// totals the client would otherwise recompute.
type cartView struct {
	Lines         []domain.CartLine `json:"lines"`
	TotalItems    int               `json:"totalItems"`
	SubtotalCents int64             `json:"subtotalCents"`
}

func newCartView(lines []domain.CartLine) cartView {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	state := reducer.CartState{Lines: lines}
	return cartView{
		Lines:         lines,
		TotalItems:    state.TotalItems(),
		SubtotalCents: state.SubtotalCents(),
	}
}

func (h *handlers) getCart(c *gin.Context, actor cartsvc.Actor) {
	lines, err := h.deps.CartSvc.Get(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(lines))
}

func (h *handlers) addCartItem(c *gin.Context, actor cartsvc.Actor) {
	var line domain.CartLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	lines, err := h.deps.CartSvc.Add(c.Request.Context(), actor, line)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(lines))
}

type cartLineRef struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (r cartLineRef) key() domain.VariantKey {
	return domain.VariantKey{ProductID: r.ProductID, Size: r.Size, Color: r.Color}
}

func (h *handlers) updateCartItem(c *gin.Context, actor cartsvc.Actor) {
	var ref cartLineRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	lines, err := h.deps.CartSvc.UpdateQuantity(c.Request.Context(), actor, ref.key(), ref.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(lines))
}

func (h *handlers) removeCartItem(c *gin.Context, actor cartsvc.Actor) {
	var ref cartLineRef
	if err := c.ShouldBindJSON(&ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	lines, err := h.deps.CartSvc.Remove(c.Request.Context(), actor, ref.key())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(lines))
}

func (h *handlers) clearCart(c *gin.Context, actor cartsvc.Actor) {
	if err := h.deps.CartSvc.Clear(c.Request.Context(), actor); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCartView(nil))
}
