// Package client provides the favorites API HTTP client that fetches one
// page of a media collection per call.
package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public favorites API host.
const DefaultBaseURL = "https://api.bilibili.com"

// ListPath is the favorites resource list endpoint.
const ListPath = "/x/v3/fav/resource/list"

// Prometheus metrics for favorites API requests.
var (
	favlistRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favlist_requests_total",
		Help: "Total favorites API page requests by outcome",
	}, []string{"outcome"})

	favlistRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "favlist_request_duration_seconds",
		Help:    "Favorites API page request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	favlistErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "favlist_errors_total",
		Help: "Total favorites API errors by kind",
	}, []string{"kind"})
)

// Item is one element of a collection.
type Item struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	// Duration in whole seconds. Nil when the API did not report one.
	Duration *int64 `json:"duration"`
}

// HasDuration reports whether the item carries a defined, non-negative duration.
func (i Item) HasDuration() bool {
	return i.Duration != nil && *i.Duration >= 0
}

// Page is the result of one fetch.
type Page struct {
	Items []Item

	// HasMore is the server-reported continuation flag.
	HasMore bool
}

// envelope is the JSON shape returned by the list endpoint.
type envelope struct {
	Code    *int          `json:"code"`
	Message string        `json:"message"`
	Data    *envelopeData `json:"data"`
}

type envelopeData struct {
	Medias  *[]Item `json:"medias"`
	HasMore bool    `json:"has_more"`
}

// Client fetches pages from the favorites API.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the API host, without trailing slash.
	BaseURL string

	// User-Agent header (REQUIRED; the API rejects empty agents)
	UserAgent string

	// Cookie is sent verbatim when non-empty. Its content is opaque to the client.
	Cookie string

	// Timeout for a single HTTP request. Zero disables the client-side timeout.
	Timeout time.Duration
}

// DefaultConfig returns a default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
	}
}

// New creates a new favorites API client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, errors.New("user-agent is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Timeout < 0 {
		return nil, errors.Newf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	logger := log.With().Str("component", "favlist-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logger,
	}, nil
}

// FetchPage performs exactly one request for the given page and returns the
// parsed item list and continuation flag. Failures are returned as
// *NetworkError, *MalformedResponseError, *APIError or *InvalidStructureError.
// The client never retries.
func (c *Client) FetchPage(ctx context.Context, collectionID string, page, pageSize int) (*Page, error) {
	if collectionID == "" {
		return nil, errors.New("collection id is required")
	}
	if page < 1 {
		return nil, errors.Newf("page must be >= 1 (got %d)", page)
	}
	if pageSize < 1 {
		return nil, errors.Newf("page size must be >= 1 (got %d)", pageSize)
	}

	req, err := c.newListRequest(ctx, collectionID, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	c.logger.Debug().
		Str("collection_id", collectionID).
		Int("page", page).
		Int("page_size", pageSize).
		Msg("Fetching favorites page")

	startTime := time.Now()
	defer func() {
		favlistRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(&NetworkError{Err: err}, collectionID, page)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&NetworkError{Err: errors.Wrap(err, "read response body")}, collectionID, page)
	}

	result, err := decodePage(resp.StatusCode, body)
	if err != nil {
		return nil, c.fail(err, collectionID, page)
	}

	favlistRequestsTotal.WithLabelValues("ok").Inc()
	c.logger.Debug().
		Str("collection_id", collectionID).
		Int("page", page).
		Int("items", len(result.Items)).
		Bool("has_more", result.HasMore).
		Msg("Favorites page fetched")

	return result, nil
}

// decodePage classifies a received response body.
func decodePage(statusCode int, body []byte) (*Page, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &MalformedResponseError{StatusCode: statusCode, Err: err}
	}

	if env.Code == nil {
		return nil, &APIError{Message: env.Message}
	}
	if *env.Code != 0 {
		return nil, &APIError{Code: *env.Code, Message: env.Message}
	}

	if env.Data == nil {
		return nil, &InvalidStructureError{Field: "data"}
	}
	if env.Data.Medias == nil {
		return nil, &InvalidStructureError{Field: "data.medias"}
	}

	return &Page{
		Items:   *env.Data.Medias,
		HasMore: env.Data.HasMore,
	}, nil
}

// newListRequest builds the GET request for one page.
func (c *Client) newListRequest(ctx context.Context, collectionID string, page, pageSize int) (*http.Request, error) {
	params := url.Values{}
	params.Set("media_id", collectionID)
	params.Set("pn", strconv.Itoa(page))
	params.Set("ps", strconv.Itoa(pageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+ListPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://www.bilibili.com")
	if c.config.Cookie != "" {
		req.Header.Set("Cookie", c.config.Cookie)
	}

	return req, nil
}

// fail records metrics and logs for a classified fetch error and returns it unchanged.
func (c *Client) fail(err error, collectionID string, page int) error {
	kind := KindOf(err)
	favlistErrorsTotal.WithLabelValues(string(kind)).Inc()
	favlistRequestsTotal.WithLabelValues(string(kind)).Inc()

	c.logger.Warn().
		Err(err).
		Str("collection_id", collectionID).
		Int("page", page).
		Str("error_kind", string(kind)).
		Msg("Favorites page fetch failed")

	return err
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
