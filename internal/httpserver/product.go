package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seesaw/internal/domain"
	cartsvc "seesaw/internal/service/cart"
)

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.ProductRepo.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// getProduct accepts either a product id or a slug, matching how storefront
// links are built. Viewing a product pushes it onto the device's
// recently-viewed list.
func (h *handlers) getProduct(c *gin.Context, actor cartsvc.Actor) {
	idOrSlug := c.Param("id")
	product, err := h.deps.ProductRepo.GetByID(c.Request.Context(), idOrSlug)
	if errors.Is(err, domain.ErrNotFound) {
		product, err = h.deps.ProductRepo.GetBySlug(c.Request.Context(), idOrSlug)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	if actor.DeviceID != "" {
		h.deps.LocalStore.TouchRecentlyViewed(actor.DeviceID, product.ID)
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// recentlyViewed resolves the device's recently-viewed ids to products,
// preserving most-recent-first order. Ids whose product has since vanished
// are skipped.
func (h *handlers) recentlyViewed(c *gin.Context, actor cartsvc.Actor) {
	products := []domain.Product{}
	if actor.DeviceID != "" {
		for _, id := range h.deps.LocalStore.RecentlyViewed(actor.DeviceID) {
			p, err := h.deps.ProductRepo.GetByID(c.Request.Context(), id)
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				h.respondError(c, err)
				return
			}
			products = append(products, *p)
		}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
