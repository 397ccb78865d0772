// Package api performs the network requests behind every schedule lookup.
// Each call makes at most one HTTP request: the cache is consulted first,
// written on success, and read again as a fallback when the live request
// fails. Retries, if any, belong to the caller.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/store"
)

// ErrNoCachedFallback marks a failed request for which no cached copy could
// be served either.
var ErrNoCachedFallback = errors.New("no cached fallback available")

// EndpointError wraps a failed request with the endpoint it targeted.
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error { return e.Err }

// Options control a single fetch.
type Options struct {
	// ForceRefresh bypasses the cache-first read; the cache is still written
	// on success.
	ForceRefresh bool
	// NoCacheFallback disables serving a cached copy when the live request
	// fails.
	NoCacheFallback bool
}

// Result is the outcome of one logical fetch. Degraded means the data came
// from the cache because the live request failed.
type Result struct {
	Data     json.RawMessage
	Degraded bool
}

const maxResponseBytes = 4 << 20

type Client struct {
	cfg      *config.Config
	http     *http.Client
	cache    *store.Store
	policies *store.Resolver
}

func NewClient(cfg *config.Config, cache *store.Store, policies *store.Resolver) *Client {
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.APITimeout()},
		cache:    cache,
		policies: policies,
	}
}

// cacheKey builds a deterministic key from the endpoint and its params.
// url.Values.Encode sorts by key, so equivalent requests always collide.
func cacheKey(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	return endpoint + "_" + params.Encode()
}

// Fetch resolves the cache policy for the endpoint, serves a fresh cached
// copy when one exists, and otherwise issues a single timed request. On
// failure a cached copy is served as a degraded result unless the caller
// opted out.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values, opts Options) (Result, error) {
	policy := c.policies.Resolve(endpoint)
	key := cacheKey(endpoint, params)

	if !opts.ForceRefresh {
		if raw, ok := c.cache.Read(policy, key); ok {
			return Result{Data: raw}, nil
		}
	}

	data, err := c.request(ctx, endpoint, params)
	if err != nil {
		if !opts.NoCacheFallback {
			if raw, ok := c.cache.Read(policy, key); ok {
				return Result{Data: raw, Degraded: true}, nil
			}
			err = fmt.Errorf("%w: %w", ErrNoCachedFallback, err)
		}
		return Result{}, &EndpointError{Endpoint: endpoint, Err: err}
	}

	c.cache.Write(policy, key, data)
	return Result{Data: data}, nil
}

func (c *Client) request(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	path, err := c.cfg.EndpointPath(endpoint)
	if err != nil {
		return nil, err
	}

	fullURL := c.cfg.API.BaseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.APITimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("malformed response payload")
	}

	return body, nil
}
