package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	cartsvc "seesaw/internal/service/cart"
)

func (h *handlers) listOrders(c *gin.Context, actor cartsvc.Actor) {
	if actor.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to view orders"})
		return
	}
	orders, err := h.deps.OrderRepo.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// getOrder fetches one order by number. Orders tied to an account are only
// visible to that account; guest orders are reachable by anyone holding the
// order number.
func (h *handlers) getOrder(c *gin.Context, actor cartsvc.Actor) {
	order, err := h.deps.OrderRepo.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if order.UserID != nil && *order.UserID != actor.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
