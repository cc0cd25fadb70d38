package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Sternrassler/favlist-duration/internal/config"
	"github.com/Sternrassler/favlist-duration/pkg/client"
	"github.com/Sternrassler/favlist-duration/pkg/favid"
	"github.com/Sternrassler/favlist-duration/pkg/logging"
	"github.com/Sternrassler/favlist-duration/pkg/metrics"
	"github.com/Sternrassler/favlist-duration/pkg/pagination"
	"github.com/Sternrassler/favlist-duration/pkg/report"
)

// summaryResponse is the JSON body of a successful run.
type summaryResponse struct {
	CollectionID string `json:"collection_id"`
	Count        int    `json:"count"`
	TotalSeconds int64  `json:"total_seconds"`
	Hours        int64  `json:"hours"`
	Minutes      int64  `json:"minutes"`
	Seconds      int64  `json:"seconds"`
	Pages        int    `json:"pages"`
	Truncated    bool   `json:"truncated"`
	Summary      string `json:"summary"`
}

// errorResponse is the JSON body of a failed run.
type errorResponse struct {
	CollectionID string `json:"collection_id,omitempty"`
	Error        string `json:"error"`
	Kind         string `json:"kind,omitempty"`
}

func newSummaryResponse(collectionID string, result pagination.Result) summaryResponse {
	h, m, s := report.Split(result.TotalSeconds)
	return summaryResponse{
		CollectionID: collectionID,
		Count:        result.Count,
		TotalSeconds: result.TotalSeconds,
		Hours:        h,
		Minutes:      m,
		Seconds:      s,
		Pages:        result.Pages,
		Truncated:    result.Truncated,
		Summary:      report.Summary(result),
	}
}

func newErrorResponse(collectionID string, err error, message string) errorResponse {
	return errorResponse{
		CollectionID: collectionID,
		Error:        message,
		Kind:         string(client.KindOf(err)),
	}
}

// newMux wires the HTTP routes.
func newMux(agg *pagination.Aggregator) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/favlist", favlistHandler(agg))
	mux.HandleFunc("/favlist/", favlistHandler(agg))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// favlistHandler aggregates the collection named by /favlist/{id} or /favlist?url=...
func favlistHandler(agg *pagination.Aggregator) http.HandlerFunc {
	logger := logging.NewLogger("server")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
			return
		}

		target := strings.Trim(strings.TrimPrefix(r.URL.Path, "/favlist"), "/")
		if target == "" {
			target = r.URL.Query().Get("url")
		}

		collectionID, err := favid.Extract(target)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: favid.ErrNoCollectionID.Error()})
			return
		}

		result, err := agg.Aggregate(r.Context(), collectionID)
		if err != nil {
			status := statusForError(err)
			logger.Warn().
				Err(err).
				Str("collection_id", collectionID).
				Int("status", status).
				Msg("Aggregation request failed")
			respondJSON(w, status, newErrorResponse(collectionID, err, report.ErrorMessage(err)))
			return
		}

		respondJSON(w, http.StatusOK, newSummaryResponse(collectionID, result))
	}
}

// statusForError maps fetch error kinds to HTTP status codes.
func statusForError(err error) int {
	switch client.KindOf(err) {
	case client.ErrorKindNetwork, client.ErrorKindMalformed, client.ErrorKindAPI, client.ErrorKindInvalidStructure:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// runServe starts the HTTP server and blocks until ctx is done.
func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewLogger("server")

	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return errors.Wrapf(err, "connect to redis at %s", cfg.Cache.RedisAddr)
		}
		logger.Info().
			Str("redis_addr", cfg.Cache.RedisAddr).
			Dur("ttl", cfg.CacheTTL()).
			Msg("Page cache enabled")
	}

	agg, err := newAggregator(cfg, redisClient)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: newMux(agg),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("user_agent", cfg.API.UserAgent).
			Msg("Starting favlist server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return errors.Wrap(err, "server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to shutdown server")
	}

	logger.Info().Msg("Server stopped")
	return nil
}
