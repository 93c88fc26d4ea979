package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/skyline93/heritour/internal/api"
	"github.com/skyline93/heritour/internal/cache"
	"github.com/skyline93/heritour/internal/config"
	"github.com/skyline93/heritour/internal/store"
	"github.com/skyline93/heritour/internal/tour"
)

// noFetcher backs commands that never touch the API.
type noFetcher struct{}

func (noFetcher) TourDetails(context.Context, int) (*tour.Record, error) {
	return nil, errors.New("no API client configured")
}

// GlobalOptions bundles the flags shared by all commands. Empty values fall
// back to the environment configuration (HERITOUR_* variables).
type GlobalOptions struct {
	APIURL   string
	Token    string
	CacheDir string
	StoreDir string
	Expiry   time.Duration
}

var globalOptions GlobalOptions

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOptions.APIURL, "api-url", "", "tour API base URL (default: $HERITOUR_API_BASE_URL)")
	f.StringVar(&globalOptions.Token, "token", "", "API bearer token (default: $HERITOUR_API_TOKEN)")
	f.StringVar(&globalOptions.CacheDir, "cache-dir", "", "asset cache directory (default: $HERITOUR_CACHE_DIR or ~/.heritour/assets)")
	f.StringVar(&globalOptions.StoreDir, "store-dir", "", "metadata store directory (default: $HERITOUR_CACHE_STORE_DIR or ~/.heritour/store)")
	f.DurationVar(&globalOptions.Expiry, "expiry", 0, "cache expiry window (default: $HERITOUR_CACHE_EXPIRY or 24h)")
}

// resolveConfig loads the environment configuration and applies flag
// overrides on top.
func resolveConfig(opts GlobalOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.Token != "" {
		cfg.API.Token = opts.Token
	}
	if opts.CacheDir != "" {
		cfg.Cache.Dir = opts.CacheDir
	}
	if opts.StoreDir != "" {
		cfg.Cache.StoreDir = opts.StoreDir
	}
	if opts.Expiry != 0 {
		cfg.Cache.Expiry = opts.Expiry
	}

	return cfg, nil
}

// openManager builds the cache manager. needAPI selects between a real API
// client and none; commands that only read or clear the cache pass false.
func openManager(opts GlobalOptions, needAPI bool) (*cache.Manager, error) {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}

	var fetcher cache.TourFetcher = noFetcher{}
	if needAPI {
		if cfg.API.BaseURL == "" {
			return nil, errors.New("no API base URL configured, set --api-url or HERITOUR_API_BASE_URL")
		}
		client, err := api.New(api.Config{
			BaseURL: cfg.API.BaseURL,
			Token:   cfg.API.Token,
			Timeout: cfg.API.Timeout,
		})
		if err != nil {
			return nil, err
		}
		fetcher = client
	}

	st, err := store.Open(cfg.Cache.StoreDir)
	if err != nil {
		return nil, err
	}

	return cache.New(fetcher, st, cfg.Cache.Dir, cache.Options{Expiry: cfg.Cache.Expiry})
}
