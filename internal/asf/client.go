// Package asf implements a client for the Alaska Satellite Facility
// search API and authenticated granule downloads.
package asf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client handles communication with the ASF Search API.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	fetchClient *http.Client
	token       string
	logger      *slog.Logger
}

// NewClient creates a new ASF API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		// Downloads share the transport but skip the search timeout;
		// their deadline comes from the request context.
		fetchClient: &http.Client{Transport: transport},
		logger:      slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// WithToken sets an Earthdata Login bearer token. Search works without
// one; granule downloads require it.
func (c *Client) WithToken(token string) *Client {
	c.token = token
	return c
}

// Search performs a search against the ASF API.
func (c *Client) Search(ctx context.Context, params SearchParams) (*GeoJSONResponse, error) {
	searchURL, err := c.buildSearchURL(params)
	if err != nil {
		return nil, fmt.Errorf("failed to build search URL: %w", err)
	}

	c.logger.DebugContext(ctx, "executing ASF search",
		slog.String("url", searchURL),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "s1scout/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "ASF API request failed",
			slog.String("error", err.Error()),
			slog.String("url", searchURL),
		)
		return nil, fmt.Errorf("ASF API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "ASF API returned non-200 status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return nil, fmt.Errorf("ASF API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result GeoJSONResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.ErrorContext(ctx, "failed to decode ASF response",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to decode ASF response: %w", err)
	}

	c.logger.DebugContext(ctx, "ASF search completed",
		slog.Int("feature_count", len(result.Features)),
	)

	return &result, nil
}

// GetGranule retrieves a single granule by scene name or fileID. ASF may
// return multiple products per scene, so results are filtered by fileID
// when one is provided.
func (c *Client) GetGranule(ctx context.Context, itemID string) (*Feature, error) {
	c.logger.DebugContext(ctx, "fetching granule",
		slog.String("item_id", itemID),
	)

	// granule_list cannot be combined with maxResults or other params
	params := SearchParams{
		GranuleList: []string{itemID},
		Output:      "geojson",
	}

	result, err := c.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search for granule: %w", err)
	}

	if len(result.Features) == 0 {
		c.logger.WarnContext(ctx, "granule not found",
			slog.String("item_id", itemID),
		)
		return nil, fmt.Errorf("granule not found: %s", itemID)
	}

	if len(result.Features) == 1 {
		return &result.Features[0], nil
	}

	for i := range result.Features {
		if result.Features[i].Properties.FileID == itemID {
			return &result.Features[i], nil
		}
	}

	c.logger.DebugContext(ctx, "granule fetched (no exact fileID match, using first result)",
		slog.String("item_id", itemID),
		slog.Int("result_count", len(result.Features)),
	)
	return &result.Features[0], nil
}

// Fetch streams the granule at downloadURL, returning the response body.
// The caller must close the returned ReadCloser. The request carries the
// Earthdata bearer token when one is configured; the client's pooled
// transport is reused but the per-request deadline comes from ctx so the
// downloader controls its own file timeout.
func (c *Client) Fetch(ctx context.Context, downloadURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create download request: %w", err)
	}

	req.Header.Set("User-Agent", "s1scout/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.fetchClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("download request failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, 0, fmt.Errorf("download returned status %d: %s", resp.StatusCode, string(body))
	}

	return resp.Body, resp.ContentLength, nil
}

// buildSearchURL constructs the full search URL with query parameters.
func (c *Client) buildSearchURL(params SearchParams) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	base.Path = "/services/search/param"
	base.RawQuery = params.ToQueryString()

	return base.String(), nil
}
