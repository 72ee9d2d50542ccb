package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"filmhub/database"
	"filmhub/internal/api/repository"
	"filmhub/internal/api/service"
	"filmhub/internal/config"
	"filmhub/internal/ingestion/douban"
	"filmhub/internal/media"
)

func main() {
	log.Println("===========================================")
	log.Println("   Douban Top 250 Sync Starting...")
	log.Println("===========================================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[Fatal] Failed to load config: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("[Fatal] Failed to connect to database: %v", err)
	}

	movieRepo := repository.NewMovieRepo(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	movieService := service.NewMovieService(movieRepo, ratingRepo, commentRepo, userRepo)
	posters := media.NewFetcher(cfg.StaticDir, cfg.DefaultPosterPath, logger)

	syncService := douban.NewSyncService(douban.SyncConfig{
		BaseURL: cfg.DoubanBaseURL,
		Limit:   cfg.CrawlLimit,
	}, movieService, posters)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[Shutdown] Received shutdown signal, stopping crawl...")
		cancel()
	}()

	imported, err := syncService.Run(ctx)
	if err != nil {
		log.Fatalf("[Sync] Error: %v", err)
	}

	log.Printf("[Sync] Imported %d movies", imported)
	log.Println("===========================================")
}
