// Entry point for the auction API server.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/pacomprar/auction-api/internal/config"
	"github.com/pacomprar/auction-api/internal/database"
	"github.com/pacomprar/auction-api/internal/handler"
	"github.com/pacomprar/auction-api/internal/middleware"
	"github.com/pacomprar/auction-api/internal/queue"
	"github.com/pacomprar/auction-api/internal/repository"
	"github.com/pacomprar/auction-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	auctions := repository.NewAuctionRepo(db)
	bids := repository.NewBidRepo(db)
	ratings := repository.NewRatingRepo(db)
	comments := repository.NewCommentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	userH := handler.NewUserHandler(cfg, users, auctions, bids, ratings, comments)
	categoryH := handler.NewCategoryHandler(categories)
	auctionH := handler.NewAuctionHandler(auctions, bids, categories)
	bidH := handler.NewBidHandler(auctions, bids, true)
	ratingH := handler.NewRatingHandler(auctions, ratings)
	commentH := handler.NewCommentHandler(auctions, comments)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, categoryH, auctionH, bidH, commentH)
	router.RegisterProtected(e, cfg.JWTSecret, userH, categoryH, auctionH, bidH, ratingH, commentH)

	// background consumer writing accepted bids to logs/bids.log
	go func() {
		if err := queue.StartBidConsumer(); err != nil {
			log.Printf("bid consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
