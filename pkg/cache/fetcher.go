package cache

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/favlist-duration/pkg/client"
)

// PageFetcher is the upstream fetcher being cached.
type PageFetcher interface {
	FetchPage(ctx context.Context, collectionID string, page, pageSize int) (*client.Page, error)
}

// Fetcher serves pages from the cache and falls back to the upstream fetcher.
type Fetcher struct {
	upstream PageFetcher
	cache    *Manager
	logger   zerolog.Logger
}

// NewFetcher wraps upstream with a page cache.
func NewFetcher(upstream PageFetcher, manager *Manager) *Fetcher {
	return &Fetcher{
		upstream: upstream,
		cache:    manager,
		logger:   log.With().Str("component", "page-cache").Logger(),
	}
}

// FetchPage implements the page fetcher contract. Upstream errors are returned unchanged.
func (f *Fetcher) FetchPage(ctx context.Context, collectionID string, page, pageSize int) (*client.Page, error) {
	key := PageKey{CollectionID: collectionID, Page: page, PageSize: pageSize}

	entry, err := f.cache.Get(ctx, key)
	switch {
	case err == nil:
		f.logger.Debug().Str("key", key.String()).Msg("Cache hit")
		return entry.Page(), nil
	case !errors.Is(err, ErrCacheMiss):
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Cache get error")
	}

	p, err := f.upstream.FetchPage(ctx, collectionID, page, pageSize)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, NewPageEntry(p, f.cache.TTL())); err != nil {
		f.logger.Warn().Err(err).Str("key", key.String()).Msg("Failed to cache page")
	} else {
		f.logger.Debug().
			Str("key", key.String()).
			Dur("ttl", f.cache.TTL()).
			Msg("Cached page")
	}

	return p, nil
}
