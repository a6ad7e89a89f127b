package brreg

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	internalbackoff "github.com/sondreal/brreg-wrapper/internal/backoff"
	"github.com/sondreal/brreg-wrapper/internal/singleflight"
)

// DefaultBaseURL is the production Enhetsregisteret endpoint.
const DefaultBaseURL = "https://data.brreg.no/enhetsregisteret/api"

const acceptJSON = "application/json"

// Middleware wraps the transport for cross-cutting concerns (auth headers,
// tracing, test stubs). Middlewares run in registration order around the
// underlying HTTP call, inside rate limiting and retry.
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper is the transport interface middlewares compose over.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements RoundTripper.
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Client talks to the Brønnøysund Entity Registry with response caching, rate
// limiting, bounded retries and typed error mapping layered around plain HTTPS
// GETs. A Client is safe for concurrent use; construct one per configuration
// and release it with Close.
type Client struct {
	httpClient    *http.Client
	transport     *http.Transport
	ownsTransport bool

	baseURL   string
	userAgent string
	http2     bool

	timeout           time.Duration
	timeoutSet        bool
	maxRetries        int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64
	backoffStrategy   BackoffStrategy
	backoff           *internalbackoff.Calculator

	rateInterval time.Duration
	rateLimiter  *RateLimiter

	cacheTTL time.Duration
	cache    Cache

	inflight *singleflight.Group

	batchConcurrency int
	middleware       []Middleware
	metrics          *MetricsCollector
	debug            *DebugConfig
	logger           Logger

	closed          atomic.Bool
	validationError error
}

// New constructs a Client from the provided functional options. Configuration
// is immutable afterwards. A best effort validation is performed; call
// IsValid / ValidationError for the result.
func New(options ...Option) *Client {
	c := &Client{
		baseURL:           DefaultBaseURL,
		userAgent:         "brreg-go/" + Version,
		http2:             true,
		timeout:           10 * time.Second,
		maxRetries:        3,
		initialBackoff:    100 * time.Millisecond,
		maxBackoff:        10 * time.Second,
		backoffMultiplier: 2.0,
		jitter:            0.1,
		backoffStrategy:   ExponentialJitter,
		batchConcurrency:  5,
		debug:             DefaultDebugConfig(),
	}

	for _, option := range options {
		option(c)
	}

	c.backoff = c.backoffStrategy.calculator()
	if c.rateLimiter == nil && c.rateInterval > 0 {
		c.rateLimiter = NewRateLimiter(c.rateInterval)
	}
	if c.cache == nil && c.cacheTTL > 0 {
		c.cache = NewInMemoryCache()
	}
	if c.httpClient == nil {
		transport := &http.Transport{
			ForceAttemptHTTP2:   c.http2,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
		c.transport = transport
		c.ownsTransport = true
		c.httpClient = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		}
	} else {
		// Work on a copy so the caller's client is never mutated. An
		// explicit WithTimeout applies to the copy only.
		httpClient := *c.httpClient
		if c.timeoutSet {
			httpClient.Timeout = c.timeout
		}
		c.httpClient = &httpClient
	}

	if err := c.ValidateConfiguration(); err != nil {
		c.validationError = err
	}

	return c
}

// Close releases the underlying transport. It is idempotent; operations
// started after Close return ErrClientClosed and no outgoing call is issued
// once shutdown has begun.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.ownsTransport && c.transport != nil {
		c.transport.CloseIdleConnections()
	}
	return nil
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// ClearCache removes cached entries whose fingerprint contains pattern as a
// substring and returns the number removed. An empty pattern clears all.
// Matching in-flight deduplicated lookups are abandoned too, so the next call
// with an invalidated fingerprint fetches fresh data.
func (c *Client) ClearCache(pattern string) int {
	if c.inflight != nil {
		c.inflight.Forget(pattern)
	}
	if c.cache == nil {
		return 0
	}
	removed := c.cache.Invalidate(pattern)
	if c.metrics != nil {
		c.metrics.RecordCacheSize(c.cache.Stats().Entries)
	}
	return removed
}

// CacheInfo returns a snapshot of cache statistics.
func (c *Client) CacheInfo() CacheStats {
	if c.cache == nil {
		return CacheStats{}
	}
	return c.cache.Stats()
}

// GetServices retrieves the registry's service index from the API root.
func (c *Client) GetServices(ctx context.Context) (map[string]any, error) {
	const op = "tjenester"
	v, err := c.getJSON(ctx, op, op, "/", nil, func(body []byte) (any, error) {
		return decodeServices(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// fingerprint derives the deterministic cache key for an operation with query
// parameters. url.Values.Encode sorts keys, so logically identical requests
// always share a key.
func fingerprint(op string, params url.Values) string {
	if len(params) == 0 {
		return op
	}
	return op + "_" + params.Encode()
}

// fingerprintID derives the cache key for a single-id lookup, e.g.
// "enhet_923609016".
func fingerprintID(op, id string) string {
	return op + "_" + id
}

// getTyped runs the pipeline and narrows the cached any back to its type.
func getTyped[T any](ctx context.Context, c *Client, op, fp, path string, query url.Values, decode func([]byte) (*T, error)) (*T, error) {
	v, err := c.getJSON(ctx, op, fp, path, query, func(body []byte) (any, error) {
		return decode(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

// getJSON is the per-call pipeline: cache lookup, then (on miss) the rate
// limited, retried, error mapped fetch, then typed decode and cache put. A
// cache hit bypasses rate limiting and the network entirely.
func (c *Client) getJSON(ctx context.Context, op, fp, path string, query url.Values, decode func([]byte) (any, error)) (any, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("starting request", "requestID", requestID, "operation", op, "fingerprint", fp)
	}

	cacheable := c.cache != nil && c.cacheTTL > 0
	if cacheable {
		if v, found := c.cache.Get(fp); found {
			if c.metrics != nil {
				c.metrics.RecordCacheHit(op)
			}
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("cache hit", "requestID", requestID, "fingerprint", fp)
			}
			return v, nil
		}
		if c.metrics != nil {
			c.metrics.RecordCacheMiss(op)
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("cache miss", "requestID", requestID, "fingerprint", fp)
		}
	}

	fetch := func() (any, error) {
		body, err := c.fetch(ctx, op, path, query, acceptJSON)
		if err != nil {
			return nil, err
		}
		v, err := decode(body)
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordError(ErrorTypeDecode, op)
			}
			return nil, decodeError(op, err)
		}
		return v, nil
	}

	var v any
	var err error
	if c.inflight != nil {
		var shared bool
		v, err, shared = c.inflight.Do(ctx, fp, fetch)
		if shared && c.metrics != nil {
			c.metrics.RecordDeduplicationHit(op)
		}
	} else {
		v, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.cache.Set(fp, v, c.cacheTTL)
		if c.metrics != nil {
			c.metrics.RecordCacheSize(c.cache.Stats().Entries)
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("response cached", "requestID", requestID, "fingerprint", fp, "ttl", c.cacheTTL)
		}
	}

	return v, nil
}

// fetch performs the network half of the pipeline and returns the raw body of
// a 2xx response. Every attempt, including retries, queues on the shared rate
// limiter so retry storms respect the global spacing.
func (c *Client) fetch(ctx context.Context, op, path string, query url.Values, accept string) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	if c.metrics != nil {
		c.metrics.RecordRequestStart(op)
		defer c.metrics.RecordRequestEnd(op)
	}

	attempt := func(ctx context.Context) ([]byte, error) {
		if c.closed.Load() {
			return nil, ErrClientClosed
		}

		if c.rateLimiter != nil {
			waitStart := time.Now()
			if err := c.rateLimiter.Acquire(ctx); err != nil {
				return nil, err
			}
			wait := time.Since(waitStart)
			if c.metrics != nil {
				c.metrics.RecordRateLimitWait(op, wait)
			}
			if wait > time.Millisecond && c.debug != nil && c.debug.Enabled && c.debug.LogRateLimit && c.logger != nil {
				c.logger.Debug("rate limiter wait", "operation", op, "wait", wait)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, validationError(op, "invalid request", err)
		}
		req.Header.Set("Accept", accept)
		req.Header.Set("User-Agent", c.userAgent)

		start := time.Now()
		resp, err := c.transportDo(req)
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordRequest(op, 0, time.Since(start))
				c.metrics.RecordError(ErrorTypeConnection, op)
			}
			return nil, mapTransportError(op, requestURL, err)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if c.metrics != nil {
			c.metrics.RecordRequest(op, resp.StatusCode, time.Since(start))
		}
		if readErr != nil {
			if c.metrics != nil {
				c.metrics.RecordError(ErrorTypeConnection, op)
			}
			return nil, mapTransportError(op, requestURL, readErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			mapped := mapStatusError(op, requestURL, resp.StatusCode, body, resp.Header)
			if c.metrics != nil {
				c.metrics.RecordError(mapped.Type, op)
			}
			return nil, mapped
		}

		return body, nil
	}

	return c.doWithRetry(ctx, op, attempt)
}

// transportDo runs the middleware chain around the underlying HTTP client.
func (c *Client) transportDo(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripper(RoundTripperFunc(c.httpClient.Do))

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// validOrganisasjonsnummer checks the 9-digit organization number format.
func validOrganisasjonsnummer(orgnr string) bool {
	if len(orgnr) != 9 {
		return false
	}
	for _, r := range orgnr {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// searchQuery validates pagination and merges it into a copy of the caller's
// verbatim query parameters.
func searchQuery(op string, params url.Values, page, size int) (url.Values, error) {
	if page < 0 || size < 0 {
		return nil, validationError(op, "page and size must be non-negative", nil)
	}
	query := url.Values{}
	for key, values := range params {
		query[key] = append([]string(nil), values...)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}
	return query, nil
}
