package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelrank/backend/internal/cache"
	"github.com/reelrank/backend/internal/catalog"
	"github.com/reelrank/backend/internal/database"
	"github.com/reelrank/backend/internal/handlers"
	"github.com/reelrank/backend/internal/logger"
	"github.com/reelrank/backend/internal/metadata"
	"github.com/reelrank/backend/internal/metrics"
	"github.com/reelrank/backend/internal/middleware"
	"github.com/reelrank/backend/internal/recommend"
)

const langCacheTTL = 24 * time.Hour

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := logger.Initialize(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== Reelrank server starting ===")

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	metrics.Initialize()

	store := catalog.NewStore(database.DB)

	// Language-lookup cache: Redis when configured, bounded in-memory
	// otherwise.
	var langCache cache.LangCache
	if os.Getenv("REDIS_HOST") != "" {
		redisCache, err := cache.NewRedisCache(
			os.Getenv("REDIS_HOST"),
			os.Getenv("REDIS_PORT"),
			os.Getenv("REDIS_PASSWORD"),
			"tmdb:lang:",
			langCacheTTL,
		)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		langCache = redisCache
	} else {
		logger.Log.Info("REDIS_HOST not set - using in-memory language cache")
		langCache = cache.NewMemoryCache(10000, langCacheTTL)
	}
	defer langCache.Close()

	// TMDB metadata provider. Without an API key the client is disabled:
	// no posters, and the foreign-language filter degrades to "any".
	tmdbKey := os.Getenv("TMDB_API_KEY")
	if tmdbKey == "" {
		logger.Log.Warn("TMDB_API_KEY not set - posters and language filtering disabled")
	}
	tmdb := metadata.NewClient(tmdbKey, langCache, logger.Log)

	// Local single-user id, created up front so rating upserts and
	// candidate exclusion always have a user row to hang off.
	localUserID := int64(9999999)
	if raw := os.Getenv("LOCAL_USER_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("Invalid LOCAL_USER_ID %q: %v", raw, err)
		}
		localUserID = parsed
	}
	if err := store.EnsureUser(context.Background(), localUserID); err != nil {
		log.Fatalf("Failed to ensure local user: %v", err)
	}

	ranker := recommend.NewRanker(store, recommend.NewHistoryScorer(store), tmdb, logger.Log)
	h := handlers.NewHandlers(store, ranker, tmdb, localUserID)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/recommendations", h.GetRecommendations)
		api.POST("/ratings", h.SubmitRating)
	}

	// Server configuration
	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Sugar().Infof("🎬 Reelrank backend starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Log.Info("Server exited")
}
