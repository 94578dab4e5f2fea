package main // Entry point package

import (
	"log"      // Logging library
	"net/http" // Shared HTTP client for the outbound transports
	"time"     // Transport timeouts

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/reelworks/production-runner/internal/config"     // Internal config loader
	"github.com/reelworks/production-runner/internal/database"   // MySQL pool
	"github.com/reelworks/production-runner/internal/delivery"   // Call sheet delivery orchestrator
	"github.com/reelworks/production-runner/internal/handler"    // HTTP handlers
	"github.com/reelworks/production-runner/internal/middleware" // Response cache + rate limit
	"github.com/reelworks/production-runner/internal/queue"      // Background event consumer
	"github.com/reelworks/production-runner/internal/repository" // Data access layer
	"github.com/reelworks/production-runner/internal/router"     // Route registration
	"github.com/reelworks/production-runner/internal/transport"  // SMS/email/weather/geocode clients
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Redis is optional: a nil client disables the response cache and rate
	// limiter without affecting the rest of the service.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories share the single pooled DB handle.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	productions := repository.NewProductionRepo(db)
	scenes := repository.NewSceneRepo(db)
	cast := repository.NewCastRepo(db)
	contacts := repository.NewContactRepo(db)
	budget := repository.NewBudgetRepo(db)
	callSheets := repository.NewCallSheetRepo(db)
	deliveries := repository.NewDeliveryRepo(db)

	// One HTTP client for every outbound transport.
	httpClient := &http.Client{Timeout: 15 * time.Second}
	sms := transport.NewSMSClient(cfg.SMSBaseURL, cfg.SMSAccountSID, cfg.SMSAuthToken, cfg.SMSFrom, httpClient)
	email := transport.NewEmailClient(cfg.EmailBaseURL, cfg.EmailAPIKey, cfg.EmailFrom, httpClient)
	weather := transport.NewWeatherClient(cfg.WeatherBaseURL, cfg.WeatherAPIKey, httpClient)
	geocoder := transport.NewGeocodeClient(cfg.GeocodeBaseURL, httpClient)

	orch := delivery.New(sms, email)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	ownerHandler := handler.NewOwnerHandler(productions, scenes, cast, contacts, budget, callSheets, deliveries, weather, geocoder, orch)

	e := echo.New() // Create Echo instance

	// Token-bucket rate limit applies to everything; the response cache is
	// attached to the report routes only in RegisterOwner.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	var reportCache echo.MiddlewareFunc
	if rdb != nil {
		reportCache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterOwner(e, ownerHandler, cfg.JWTSecret, reportCache)

	// The delivery audit consumer reconnects forever in its own goroutine.
	go func() {
		if err := queue.StartCallSheetConsumer(); err != nil {
			log.Printf("callsheet consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
