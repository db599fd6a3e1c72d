package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"seesaw/internal/config"
	"seesaw/internal/db"
	"seesaw/internal/httpserver"
	"seesaw/internal/payment"
	cartrepo "seesaw/internal/repository/cart"
	couponrepo "seesaw/internal/repository/coupon"
	customerrepo "seesaw/internal/repository/customer"
	orderrepo "seesaw/internal/repository/order"
	productrepo "seesaw/internal/repository/product"
	tokenrepo "seesaw/internal/repository/token"
	wishlistrepo "seesaw/internal/repository/wishlist"
	cartsvc "seesaw/internal/service/cart"
	checkoutsvc "seesaw/internal/service/checkout"
	couponsvc "seesaw/internal/service/coupon"
	customersvc "seesaw/internal/service/customer"
	guestsvc "seesaw/internal/service/guest"
	"seesaw/internal/service/merge"
	wishlistsvc "seesaw/internal/service/wishlist"
	"seesaw/internal/store/local"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool, logger)
	couponRepo := couponrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	productRepo := productrepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	localStore := local.New(local.NewMemorySlots(), logger)
	gateway := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentSecret, cfg.PaymentTimeout)

	cartService := cartsvc.New(cartRepo, localStore, logger)
	wishlistService := wishlistsvc.New(wishlistRepo, localStore, logger)
	couponService := couponsvc.New(couponRepo, logger)
	checkoutService := checkoutsvc.New(gateway, orderRepo, couponService, cartService,
		cfg.Currency, cfg.ShippingCents, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)
	guestService := guestsvc.New(tokenRepo)
	mergeEngine := merge.NewEngine(localStore, cartRepo, wishlistRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CustomerSvc: customerService,
		GuestSvc:    guestService,
		CartSvc:     cartService,
		WishlistSvc: wishlistService,
		CouponSvc:   couponService,
		CheckoutSvc: checkoutService,
		MergeEngine: mergeEngine,
		LocalStore:  localStore,
		ProductRepo: productRepo,
		OrderRepo:   orderRepo,
	}, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
