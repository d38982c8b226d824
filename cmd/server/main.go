package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviehub/movie-catalog/internal/config"
	"github.com/moviehub/movie-catalog/internal/database"
	"github.com/moviehub/movie-catalog/internal/handler"
	"github.com/moviehub/movie-catalog/internal/middleware"
	"github.com/moviehub/movie-catalog/internal/queue"
	"github.com/moviehub/movie-catalog/internal/repository"
	"github.com/moviehub/movie-catalog/internal/router"
	queue_publisher "github.com/moviehub/movie-catalog/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	repo := repository.NewMovieRepo(db, queue_publisher.New(cfg.RabbitURL))
	h := handler.NewMovieHandler(repo, cache)

	e := echo.New()
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(middleware.Identity(cfg.JWTSecret))
	router.RegisterRoutes(e, h, cache.Middleware())

	// The service consumes its own update notifications the same way any
	// external subscriber would.
	go queue.StartMovieUpdateConsumer(cfg.RabbitURL)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
