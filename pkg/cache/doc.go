// Package cache provides a Redis-backed cache for favorites API pages.
//
// The cache sits in front of the page fetcher in long-running service mode, so
// repeated requests for the same collection within a short window do not hit
// the upstream API again. Only successfully decoded pages are stored; error
// responses always pass through. Entries expire after a fixed TTL.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient, time.Minute)
//	fetcher := cache.NewFetcher(apiClient, manager)
//
//	agg := pagination.NewAggregator(fetcher, pagination.DefaultConfig())
//
// A cache read or write failure never fails a fetch: the fetcher logs the
// error and falls back to the upstream request.
//
// # Metrics
//
//   - favlist_cache_hits_total - Cache hits
//   - favlist_cache_misses_total - Cache misses
//   - favlist_cache_size_bytes - Bytes written to the cache
//   - favlist_cache_errors_total{operation} - Cache operation errors
package cache
