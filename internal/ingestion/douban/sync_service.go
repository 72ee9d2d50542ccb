package douban

import (
	"context"
	"fmt"
	"log"

	"filmhub/internal/api/service"
	"filmhub/internal/media"
)

// SyncService crawls the Top 250 list and replaces the seeded catalog
// category with the result in one shot.
type SyncService struct {
	client       *Client
	movieService service.MovieService
	posters      *media.Fetcher

	limit int
}

// SyncConfig holds configuration for the sync service
type SyncConfig struct {
	BaseURL string
	Limit   int // Max movies to import, capped at 250
}

// NewSyncService creates a new sync service instance
func NewSyncService(config SyncConfig, movieService service.MovieService, posters *media.Fetcher) *SyncService {
	limit := config.Limit
	if limit <= 0 || limit > 250 {
		limit = 250
	}
	return &SyncService{
		client:       NewClient(config.BaseURL),
		movieService: movieService,
		posters:      posters,
		limit:        limit,
	}
}

// Run crawls list pages until the limit is reached, localizes posters, and
// hands the batch to the catalog import. A page that fails to download stops
// the crawl but whatever was already collected is still imported, so a flaky
// crawl degrades to a shorter list rather than an empty one.
func (s *SyncService) Run(ctx context.Context) (int, error) {
	var seeds []service.MovieSeed

crawl:
	for page := 0; page*pageSize < s.limit; page++ {
		body, err := s.client.FetchPage(ctx, page)
		if err != nil {
			log.Printf("[Douban] Page %d failed: %v, importing %d collected so far", page, err, len(seeds))
			break
		}

		items, err := ParseListPage(body)
		if err != nil {
			log.Printf("[Douban] Page %d unparseable: %v", page, err)
			break
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			if len(seeds) >= s.limit {
				break crawl
			}
			seeds = append(seeds, service.MovieSeed{
				Name:                item.Title,
				PosterURL:           s.posters.Fetch(ctx, item.PosterURL, "posters"),
				Intro:               item.Quote,
				InitialRating:       item.Rating,
				InitialCommentCount: item.CommentCount,
			})
			log.Printf("[Douban] Collected: %s (rating %.1f)", item.Title, item.Rating)
		}
	}

	if len(seeds) == 0 {
		return 0, fmt.Errorf("no movies collected, nothing to import")
	}

	imported, err := s.movieService.ImportSeeds(ctx, seeds)
	if err != nil {
		return 0, fmt.Errorf("failed to import seeds: %w", err)
	}
	return imported, nil
}
