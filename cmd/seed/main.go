package main

import (
	"context"
	"log"
	"os"

	"seesaw/internal/config"
	"seesaw/internal/db"
	couponrepo "seesaw/internal/repository/coupon"
	productrepo "seesaw/internal/repository/product"
	"seesaw/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	products := productrepo.NewPostgres(pool, logger)
	coupons := couponrepo.NewPostgres(pool, logger)

	if err := seed.Apply(ctx, products, coupons, cfg.SeedFile); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
