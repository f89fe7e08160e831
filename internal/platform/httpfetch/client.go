package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
	"github.com/riskibarqy/sportstream/internal/platform/resilience"
)

// ErrTransient marks failures worth one more attempt: network errors,
// timeouts, 429 and 5xx.
var ErrTransient = crerr.New("transient upstream failure")

const (
	defaultTimeout      = 15 * time.Second
	defaultBackoff      = time.Second
	defaultMaxBodyBytes = 8 << 20
	maxRetriesCap       = 1
)

type Config struct {
	HTTPClient   *http.Client
	Timeout      time.Duration
	MaxRetries   int
	Backoff      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Logger       *logging.Logger
}

// Client performs GET requests with a per-attempt timeout and at most one retry.
type Client struct {
	httpClient   *http.Client
	retry        resilience.RetryPolicy
	maxBodyBytes int64
	userAgent    string
	logger       *logging.Logger
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	if retries > maxRetriesCap {
		retries = maxRetriesCap
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &Client{
		httpClient:   httpClient,
		retry:        resilience.RetryPolicy{MaxRetries: retries, Backoff: backoff},
		maxBodyBytes: maxBody,
		userAgent:    strings.TrimSpace(cfg.UserAgent),
		logger:       logger,
	}
}

// GetJSON fetches rawURL and decodes the body into target.
func (c *Client) GetJSON(ctx context.Context, rawURL string, target any) error {
	raw, err := c.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode payload from %s", redact(rawURL))
	}
	return nil
}

func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func(attempt int) (bool, error) {
		raw, retryable, reqErr := c.do(ctx, rawURL)
		if reqErr != nil {
			if retryable && attempt < c.retry.MaxRetries {
				c.logger.DebugContext(ctx, "retrying upstream request", "url", redact(rawURL), "attempt", attempt+1, "error", reqErr)
			}
			return retryable, reqErr
		}
		body = raw
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("user-agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, crerr.Mark(crerr.Wrapf(err, "send request to %s", redact(rawURL)), ErrTransient)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, true, crerr.Mark(crerr.Wrap(err, "read response body"), ErrTransient)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, false, nil
	}

	statusErr := fmt.Errorf("upstream status=%d body=%s", resp.StatusCode, abbreviate(raw))
	if isRetryableStatus(resp.StatusCode) {
		return nil, true, crerr.Mark(statusErr, ErrTransient)
	}
	return nil, false, statusErr
}

func IsTransient(err error) bool {
	return crerr.Is(err, ErrTransient)
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	default:
		return status >= 500
	}
}

func abbreviate(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}

// redact drops the query string, which may hold API keys.
func redact(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}
