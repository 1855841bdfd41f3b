package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/waypoint/core"
	"github.com/poiesic/waypoint/provider"
	"golang.org/x/time/rate"
)

const defaultResultLimit = 15

// HTTPDoer executes HTTP requests. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver measures search request durations.
type RequestObserver interface {
	ObserveRequest(label string, duration time.Duration)
}

// Client implements provider.SearchProvider using a Nominatim endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	maxRetries int
	retryDelay time.Duration
	client     HTTPDoer
	observer   RequestObserver
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ provider.SearchProvider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) error {
		if client == nil {
			return errors.New("nominatim: nil HTTP client")
		}
		c.client = client
		return nil
	}
}

// WithObserver sets a request duration observer.
func WithObserver(observer RequestObserver) Option {
	return func(c *Client) error {
		c.observer = observer
		return nil
	}
}

// WithResultLimit sets the maximum number of rows requested per search.
// Nominatim caps this at 40.
func WithResultLimit(limit int) Option {
	return func(c *Client) error {
		if limit < 1 || limit > 40 {
			return fmt.Errorf("nominatim: result limit %d out of range 1-40", limit)
		}
		c.limit = limit
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "nominatim")
		return nil
	}
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *provider.Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    config.SearchHost,
		userAgent:  config.UserAgent,
		limit:      defaultResultLimit,
		maxRetries: config.MaxRetries,
		retryDelay: config.RetryDelay,
		client:     &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:     slog.Default().With("component", "nominatim"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// NewSearchProvider creates a Nominatim-backed search provider.
//
// Returns provider.SearchProvider interface to enforce abstraction.
func NewSearchProvider(config *provider.Config, opts ...Option) (provider.SearchProvider, error) {
	return newClient(config, opts...)
}

// Search runs a rate-limited, retried Nominatim search.
func (c *Client) Search(ctx context.Context, req provider.SearchRequest) ([]*core.PlaceCandidate, error) {
	reqURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	var rows []place
	err = provider.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		rows, fetchErr = c.fetch(ctx, reqURL)
		return fetchErr
	}, c.maxRetries, c.retryDelay)
	if err != nil {
		c.logger.Error("nominatim search failed", "query", req.Query, "layer", layerFor(req.ResultTypes), "err", err)
		return nil, err
	}

	candidates := make([]*core.PlaceCandidate, 0, len(rows))
	for _, row := range rows {
		candidate, ok := buildCandidate(row)
		if !ok {
			c.logger.Debug("dropping unlocatable row", "place_id", row.PlaceID)
			continue
		}
		candidates = append(candidates, candidate)
	}

	c.logger.Debug("nominatim search completed", "query", req.Query, "rows", len(rows), "candidates", len(candidates))
	return candidates, nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &provider.Permanent{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &provider.Permanent{Err: err}
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if c.observer != nil {
		c.observer.ObserveRequest("nominatim", time.Since(start))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", provider.ErrUpstream, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, &provider.Permanent{Err: fmt.Errorf("%w: status %d", provider.ErrUpstream, resp.StatusCode)}
	}

	var rows []place
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, &provider.Permanent{Err: fmt.Errorf("decode nominatim payload: %w", err)}
	}
	return rows, nil
}

// buildURL constructs the search URL for a request.
func (c *Client) buildURL(req provider.SearchRequest) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("q", req.Query)
	query.Set("format", "jsonv2")
	query.Set("addressdetails", "1")
	query.Set("limit", strconv.Itoa(c.limit))
	if layer := layerFor(req.ResultTypes); layer != "" {
		query.Set("layer", layer)
	}
	if req.Region.LatitudeDelta > 0 && req.Region.LongitudeDelta > 0 {
		sw, ne := req.Region.Bounds()
		// viewbox is <left>,<top>,<right>,<bottom> in lon/lat order
		query.Set("viewbox", strings.Join([]string{
			formatDegrees(sw.Longitude),
			formatDegrees(ne.Latitude),
			formatDegrees(ne.Longitude),
			formatDegrees(sw.Latitude),
		}, ","))
		query.Set("bounded", "1")
	}

	u.RawQuery = query.Encode()
	return u.String(), nil
}

func layerFor(t core.ResultType) string {
	var layers []string
	if t.Has(core.ResultTypePointOfInterest) {
		layers = append(layers, "poi")
	}
	if t.Has(core.ResultTypeAddress) {
		layers = append(layers, "address")
	}
	return strings.Join(layers, ",")
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// buildCandidate maps a result row. Rows without a parseable position are rejected.
func buildCandidate(row place) (*core.PlaceCandidate, bool) {
	lat, err := strconv.ParseFloat(row.Lat, 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(row.Lon, 64)
	if err != nil {
		return nil, false
	}
	coord := core.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return nil, false
	}

	name := row.Name
	if name == "" {
		name = strings.TrimSpace(strings.SplitN(row.DisplayName, ",", 2)[0])
	}

	candidate := &core.PlaceCandidate{
		Name:       name,
		Coordinate: &coord,
		Address: core.Address{
			Street:   buildStreet(row.Address),
			Locality: pickLocality(row.Address),
			Region:   row.Address.State,
		},
	}
	if row.Category != "" {
		candidate.Category = row.Category + "/" + row.Type
	}
	return candidate, true
}

func buildStreet(a address) string {
	if a.Road == "" {
		return ""
	}
	if a.HouseNumber == "" {
		return a.Road
	}
	return a.HouseNumber + " " + a.Road
}

func pickLocality(a address) string {
	for _, v := range []string{a.City, a.Town, a.Village, a.Municipality, a.Hamlet} {
		if v != "" {
			return v
		}
	}
	return ""
}
