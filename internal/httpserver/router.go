package httpserver

import (
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	orderrepo "seesaw/internal/repository/order"
	productrepo "seesaw/internal/repository/product"
	cartsvc "seesaw/internal/service/cart"
	checkoutsvc "seesaw/internal/service/checkout"
	couponsvc "seesaw/internal/service/coupon"
	customersvc "seesaw/internal/service/customer"
	guestsvc "seesaw/internal/service/guest"
	"seesaw/internal/service/merge"
	wishlistsvc "seesaw/internal/service/wishlist"
	"seesaw/internal/store/local"
)

// Deps collects everything the handlers need.
type Deps struct {
	CustomerSvc *customersvc.Service
	GuestSvc    *guestsvc.Service
	CartSvc     *cartsvc.Service
	WishlistSvc *wishlistsvc.Service
	CouponSvc   *couponsvc.Service
	CheckoutSvc *checkoutsvc.Service
	MergeEngine *merge.Engine
	LocalStore  *local.Store
	ProductRepo productrepo.Repository
	OrderRepo   orderrepo.Repository
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = strings.Split(allowedOrigins, ",")
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Device-Token")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	sessions := newSessionTracker(deps.MergeEngine, logger)
	h := &handlers{deps: deps, sessions: sessions, logger: logger}

	router.POST("/session/guest", h.createGuestSession)

	router.POST("/auth/signup", h.withActor(h.signup))
	router.POST("/auth/login", h.withActor(h.login))
	router.POST("/auth/logout", h.withActor(h.logout))
	router.GET("/auth/me", h.withActor(h.me))

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.withActor(h.getProduct))

	router.GET("/cart", h.withActor(h.getCart))
	router.POST("/cart/items", h.withActor(h.addCartItem))
	router.PATCH("/cart/items", h.withActor(h.updateCartItem))
	router.DELETE("/cart/items", h.withActor(h.removeCartItem))
	router.DELETE("/cart", h.withActor(h.clearCart))

	router.GET("/wishlist", h.withActor(h.getWishlist))
	router.POST("/wishlist/toggle", h.withActor(h.toggleWishlist))

	router.GET("/recently-viewed", h.withActor(h.recentlyViewed))

	router.POST("/coupons/validate", h.validateCoupon)

	router.POST("/checkout/session", h.withActor(h.startCheckout))
	router.POST("/checkout/confirm", h.withActor(h.confirmCheckout))
	router.POST("/webhooks/payment", h.paymentWebhook)

	router.GET("/orders", h.withActor(h.listOrders))
	router.GET("/orders/:orderNumber", h.withActor(h.getOrder))

	return router, nil
}
