package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"filmhub/database"
	"filmhub/internal/api/handler"
	"filmhub/internal/api/middleware"
	"filmhub/internal/api/repository"
	"filmhub/internal/api/service"
	"filmhub/internal/config"
	"filmhub/internal/geo"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.EnsureAdmin(db, cfg, logger); err != nil {
		logger.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)

	// Collaborators
	regions := geo.NewResolver(cfg.GeoAPIURL, cfg.GeoAPIKey, newRedisClient(cfg, logger), cfg.GeoCacheTTL, logger)

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	movieService := service.NewMovieService(movieRepo, ratingRepo, commentRepo, userRepo)
	ratingService := service.NewRatingService(ratingRepo, movieRepo)
	commentService := service.NewCommentService(commentRepo, voteRepo, ratingRepo, movieRepo, regions)
	libraryService := service.NewLibraryService(libraryRepo, movieRepo)
	profileService := service.NewProfileService(userRepo, ratingRepo, libraryRepo, movieRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	movieHandler := handler.NewMovieHandler(movieService, ratingService)
	ratingHandler := handler.NewRatingHandler(ratingService)
	commentHandler := handler.NewCommentHandler(commentService)
	libraryHandler := handler.NewLibraryHandler(libraryService, profileService)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/static", cfg.StaticDir)

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService, userRepo))
	{
		authHandler.RegisterProtectedRoutes(protected)
		movieHandler.RegisterRoutes(protected)
		ratingHandler.RegisterRoutes(protected)
		commentHandler.RegisterRoutes(protected)
		libraryHandler.RegisterRoutes(protected)

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		movieHandler.RegisterAdminRoutes(admin)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("API server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newRedisClient returns nil when Redis is unconfigured or unreachable; the
// geo resolver treats a nil cache as "no caching" and keeps working.
func newRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, geo caching disabled", "error", err)
		return nil
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, geo caching disabled", "error", err)
		client.Close()
		return nil
	}
	return client
}
