// Package geo resolves client IPs to coarse region labels through an
// amap-style IP geolocation API. Lookups are best effort: every failure mode
// collapses to the "unknown" label and nothing here ever returns an error.
package geo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RegionUnknown = "unknown"
	RegionLocal   = "local"

	cacheKeyPrefix = "geo:region:"
)

type Resolver struct {
	apiURL   string
	apiKey   string
	client   *http.Client
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewResolver(apiURL, apiKey string, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		apiURL:   apiURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 5 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

type lookupResponse struct {
	Status   string `json:"status"`
	Province string `json:"province"`
}

// Resolve maps an IP to a region label. Loopback and private addresses short
// circuit to "local"; a missing API key disables remote lookups entirely.
func (r *Resolver) Resolve(ctx context.Context, ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return RegionUnknown
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return RegionLocal
	}
	if r.apiKey == "" {
		return RegionUnknown
	}

	if region := r.cacheGet(ctx, ip); region != "" {
		return region
	}

	region := r.lookup(ctx, ip)
	if region != RegionUnknown {
		r.cacheSet(ctx, ip, region)
	}
	return region
}

func (r *Resolver) lookup(ctx context.Context, ip string) string {
	q := url.Values{}
	q.Set("key", r.apiKey)
	q.Set("ip", ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return RegionUnknown
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("geo lookup failed", "ip", ip, "error", err)
		return RegionUnknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("geo lookup returned non-200", "ip", ip, "status", resp.StatusCode)
		return RegionUnknown
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		r.logger.Warn("geo lookup returned bad payload", "ip", ip, "error", err)
		return RegionUnknown
	}
	if body.Status != "1" || body.Province == "" {
		return RegionUnknown
	}
	return body.Province
}

func (r *Resolver) cacheGet(ctx context.Context, ip string) string {
	if r.cache == nil {
		return ""
	}
	region, err := r.cache.Get(ctx, cacheKeyPrefix+ip).Result()
	if err != nil {
		// Cache miss and cache outage look the same here, both fall through to the API.
		return ""
	}
	return region
}

func (r *Resolver) cacheSet(ctx context.Context, ip, region string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+ip, region, r.cacheTTL).Err(); err != nil {
		r.logger.Warn("geo cache write failed", "ip", ip, "error", err)
	}
}
