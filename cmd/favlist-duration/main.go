// Package main provides the favlist-duration command: it counts the videos
// of a favorites collection and sums their durations, either once from the
// command line or on demand over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"

	"github.com/Sternrassler/favlist-duration/internal/config"
	"github.com/Sternrassler/favlist-duration/pkg/cache"
	"github.com/Sternrassler/favlist-duration/pkg/client"
	"github.com/Sternrassler/favlist-duration/pkg/favid"
	"github.com/Sternrassler/favlist-duration/pkg/logging"
	"github.com/Sternrassler/favlist-duration/pkg/pagination"
	"github.com/Sternrassler/favlist-duration/pkg/report"
)

// Exit codes of the count command.
const (
	exitOK       = 0
	exitFailed   = 1
	exitBadInput = 2
)

var (
	app        = kingpin.New("favlist-duration", "Count the videos of a favorites collection and sum their durations")
	configPath = app.Flag("config", "Path to config file (defaults only when empty)").Envar("FAVLIST_CONFIG").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	// count command
	countCmd    = app.Command("count", "Aggregate one collection and print the summary")
	countTarget = countCmd.Arg("target", "Collection id or favorites URL").Required().String()
	countJSON   = countCmd.Flag("json", "Print the result as JSON").Bool()

	// serve command
	serveCmd = app.Command("serve", "Serve aggregation results over HTTP")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(exitFailed)
	}
	if *verbose {
		cfg.Log.Level = string(logging.LevelDebug)
	}
	logging.Setup(cfg.LoggingConfig())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case countCmd.FullCommand():
		code := runCount(ctx, cfg, *countTarget, *countJSON, os.Stdout)
		stop()
		os.Exit(code)
	case serveCmd.FullCommand():
		if err := runServe(ctx, cfg); err != nil {
			zlog.Error().Err(err).Msg("Server error")
			os.Exit(exitFailed)
		}
	}
}

// newAggregator builds the fetch pipeline. A non-nil redis client enables the page cache.
func newAggregator(cfg *config.Config, redisClient *redis.Client) (*pagination.Aggregator, error) {
	apiClient, err := client.New(cfg.ClientConfig())
	if err != nil {
		return nil, errors.Wrap(err, "create favorites client")
	}

	var fetcher pagination.PageFetcher = apiClient
	if redisClient != nil {
		fetcher = cache.NewFetcher(apiClient, cache.NewManager(redisClient, cfg.CacheTTL()))
	}

	return pagination.NewAggregator(fetcher, cfg.PaginationConfig()), nil
}

// runCount performs one aggregation run and writes the outcome to w.
func runCount(ctx context.Context, cfg *config.Config, target string, asJSON bool, w io.Writer) int {
	logger := logging.NewLogger("cli")

	collectionID, err := favid.Extract(target)
	if err != nil {
		logger.Debug().Err(err).Str("target", target).Msg("Could not extract collection id")
		writeFailure(w, asJSON, "", err, favid.ErrNoCollectionID.Error())
		return exitBadInput
	}

	agg, err := newAggregator(cfg, nil)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to build aggregator")
		writeFailure(w, asJSON, collectionID, err, err.Error())
		return exitFailed
	}

	result, err := agg.Aggregate(ctx, collectionID)
	if err != nil {
		writeFailure(w, asJSON, collectionID, err, report.ErrorMessage(err))
		return exitFailed
	}

	if asJSON {
		writeJSON(w, newSummaryResponse(collectionID, result))
		return exitOK
	}

	n := report.Success(result)
	fmt.Fprintf(w, "%s\n%s\n", n.Title, n.Text)
	if result.Truncated {
		fmt.Fprintf(w, "(仅统计前 %d 页)\n", result.Pages)
	}
	return exitOK
}

func writeFailure(w io.Writer, asJSON bool, collectionID string, err error, message string) {
	if asJSON {
		writeJSON(w, newErrorResponse(collectionID, err, message))
		return
	}
	fmt.Fprintf(w, "%s\n%s\n", report.TitleFailure, message)
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
