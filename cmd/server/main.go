package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightchat/internal/aggregator"
	"github.com/dharmasatrya/flightchat/internal/booking"
	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/handler"
	"github.com/dharmasatrya/flightchat/internal/intent"
	"github.com/dharmasatrya/flightchat/internal/provider"
	"github.com/dharmasatrya/flightchat/internal/ratelimit"
	"github.com/dharmasatrya/flightchat/internal/session"
)

type Config struct {
	Port            string
	FlightsAPIKey   string
	OpenAIKey       string
	OpenAIModel     string
	MaxDestinations int
	CacheEnabled    bool
	RedisHost       string
	RedisPort       string
	RedisTTL        time.Duration
}

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	flightProvider, err := provider.NewSerpAPIProvider(provider.SerpAPIConfig{
		APIKey: cfg.FlightsAPIKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize flight provider: %v", err)
	}

	extractor, err := intent.NewOpenAIExtractor(intent.OpenAIConfig{
		APIKey: cfg.OpenAIKey,
		Model:  cfg.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize intent extractor: %v", err)
	}

	rateLimiter := ratelimit.NewKeyedLimiterWithDefaults()

	agg := aggregator.NewAggregator(flightProvider, aggregator.Config{
		MaxDestinations: cfg.MaxDestinations,
		RateLimiter:     rateLimiter,
	})

	resolver := booking.NewResolver(flightProvider)

	var flightCache cache.Cache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		flightCache = redisCache
		log.Printf("Redis cache enabled (host: %s:%s, TTL: %v)", cfg.RedisHost, cfg.RedisPort, cfg.RedisTTL)
	} else {
		flightCache = cache.NewNoOpCache()
		log.Println("Cache disabled")
	}

	sessions := session.NewStore()

	chatHandler := handler.NewChatHandler(extractor, agg, resolver, sessions, flightCache)
	searchHandler := handler.NewSearchHandler(agg, flightCache)
	bookingHandler := handler.NewBookingHandler(resolver)

	api := e.Group("/api/v1")
	api.POST("/chat", chatHandler.Chat)
	api.POST("/chat/:id/outbound", chatHandler.SelectOutbound)
	api.POST("/chat/:id/return", chatHandler.SelectReturn)
	api.POST("/flights/search", searchHandler.Search)
	api.POST("/flights/return", bookingHandler.ReturnFlights)
	api.GET("/booking", bookingHandler.Booking)
	e.GET("/health", handler.HealthHandler)

	log.Printf("Starting flight chat server on port %s", cfg.Port)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func loadConfig() Config {
	return Config{
		Port:            getEnv("PORT", "8080"),
		FlightsAPIKey:   getEnv("SERP_API_KEY", ""),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", ""),
		MaxDestinations: getEnvInt("MAX_DESTINATIONS", aggregator.DefaultMaxDestinations),
		CacheEnabled:    getEnvBool("CACHE_ENABLED", false),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisTTL:        getEnvDuration("REDIS_TTL", 5*time.Minute),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
