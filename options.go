package brreg

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sondreal/brreg-wrapper/internal/singleflight"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL overrides the registry endpoint, e.g. for a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient supplies a custom HTTP client. New works on a copy, so the
// supplied client is never mutated; its transport is shared as-is and is not
// closed by Close.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout. With a custom HTTP client the
// timeout applies to the internal copy, overriding the supplied client's own.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
		c.timeoutSet = true
	}
}

// WithHTTP2 toggles HTTP/2 negotiation on the owned transport.
func WithHTTP2(enabled bool) Option {
	return func(c *Client) {
		c.http2 = enabled
	}
}

// WithMaxRetries sets the maximum number of retries after the first attempt.
// Zero disables retrying.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

// WithInitialBackoff sets the base delay before the first retry.
func WithInitialBackoff(initialBackoff time.Duration) Option {
	return func(c *Client) {
		c.initialBackoff = initialBackoff
	}
}

// WithMaxBackoff caps the delay between retries.
func WithMaxBackoff(maxBackoff time.Duration) Option {
	return func(c *Client) {
		c.maxBackoff = maxBackoff
	}
}

// WithBackoffMultiplier sets the exponential growth factor between retries.
func WithBackoffMultiplier(multiplier float64) Option {
	return func(c *Client) {
		c.backoffMultiplier = multiplier
	}
}

// WithJitter sets the jitter fraction applied to computed backoff delays.
func WithJitter(jitter float64) Option {
	return func(c *Client) {
		c.jitter = jitter
	}
}

// WithBackoffStrategy selects the jitter algorithm.
func WithBackoffStrategy(strategy BackoffStrategy) Option {
	return func(c *Client) {
		c.backoffStrategy = strategy
	}
}

// WithRateLimit enforces a minimum interval between outgoing calls. All
// operations on the client share the one limiter.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) {
		c.rateInterval = interval
	}
}

// WithCache enables in-memory response caching with the given TTL.
func WithCache(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithCacheBackend supplies a custom cache implementation. WithCache must
// still set a TTL for entries to be stored.
func WithCacheBackend(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDeduplication coalesces concurrent identical lookups onto a single
// outgoing call.
func WithDeduplication() Option {
	return func(c *Client) {
		c.inflight = singleflight.New()
	}
}

// WithBatchConcurrency bounds the fan-out of batch lookups.
func WithBatchConcurrency(limit int) Option {
	return func(c *Client) {
		c.batchConcurrency = limit
	}
}

// WithMiddleware appends transport middlewares, run in registration order.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsRegistry enables Prometheus metrics on a custom registerer.
func WithMetricsRegistry(registry prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollectorWithRegistry(registry)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug supplies a full debug configuration.
func WithDebug(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithDebugLogging enables debug output for every pipeline stage, attaching a
// SimpleLogger when none is configured.
func WithDebugLogging() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		if c.logger == nil {
			c.logger = NewSimpleLogger()
		}
	}
}

// configSnapshot mirrors the tunable fields for declarative validation.
type configSnapshot struct {
	BaseURL           string        `validate:"required,url"`
	UserAgent         string        `validate:"required"`
	Timeout           time.Duration `validate:"gt=0"`
	MaxRetries        int           `validate:"gte=0"`
	InitialBackoff    time.Duration `validate:"gt=0"`
	MaxBackoff        time.Duration `validate:"gt=0,gtefield=InitialBackoff"`
	BackoffMultiplier float64       `validate:"gte=1"`
	Jitter            float64       `validate:"gte=0,lte=1"`
	BatchConcurrency  int           `validate:"gt=0"`
}

// ValidateConfiguration checks the client's effective configuration and
// returns a Validation error describing every violated constraint.
func (c *Client) ValidateConfiguration() error {
	snapshot := configSnapshot{
		BaseURL:           c.baseURL,
		UserAgent:         c.userAgent,
		Timeout:           c.timeout,
		MaxRetries:        c.maxRetries,
		InitialBackoff:    c.initialBackoff,
		MaxBackoff:        c.maxBackoff,
		BackoffMultiplier: c.backoffMultiplier,
		Jitter:            c.jitter,
		BatchConcurrency:  c.batchConcurrency,
	}

	err := validate.Struct(snapshot)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return validationError("configuration", "configuration could not be validated", err)
	}

	message := "invalid configuration:"
	for _, fieldErr := range fieldErrs {
		message += fmt.Sprintf(" %s violates %q;", fieldErr.Field(), fieldErr.Tag())
	}
	return validationError("configuration", message, err)
}
