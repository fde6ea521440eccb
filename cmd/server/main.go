package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/DBetancourtA/recetas-api/internal/config"
	"github.com/DBetancourtA/recetas-api/internal/database"
	"github.com/DBetancourtA/recetas-api/internal/handler"
	"github.com/DBetancourtA/recetas-api/internal/middleware"
	"github.com/DBetancourtA/recetas-api/internal/queue"
	"github.com/DBetancourtA/recetas-api/internal/repository"
	"github.com/DBetancourtA/recetas-api/internal/router"
)

func main() {
	// Load .env if present; in production variables come from the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	if err := database.MigrateUp(db); err != nil {
		log.Fatalf("database migrate failed: %v", err)
	}

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	recipes := repository.NewRecipeRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	recipeHandler := handler.NewRecipeHandler(recipes)

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS()) // the web client is served from a different origin

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret, limiter)
	router.RegisterRecipes(e, recipeHandler, cfg.JWTSecret, cache)

	// Background consumer logging recipe.created events; runs its own
	// reconnect loop for the life of the process.
	go func() {
		if err := queue.StartRecipeConsumer(); err != nil {
			log.Printf("recipe consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
