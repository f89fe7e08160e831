package thesportsdb

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
	"github.com/riskibarqy/sportstream/internal/platform/resilience"
	"github.com/riskibarqy/sportstream/internal/usecase"
)

const (
	defaultBaseURL  = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey   = "123"
	defaultTimeout  = 20 * time.Second
	maxBadgeBytes   = 4 << 20
	maxListingBytes = 8 << 20
)

var errTransient = crerr.New("thesportsdb transient failure")

var imageExtensions = map[string]struct{}{".png": {}, ".jpg": {}, ".jpeg": {}, ".svg": {}, ".webp": {}}

// doer is satisfied by *fasthttp.Client.
type doer interface {
	DoTimeout(req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error
}

type ClientConfig struct {
	Doer           doer
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CircuitBreaker resilience.BreakerConfig
	Logger         *logging.Logger
}

// Client reads team listings and badge images from TheSportsDB.
type Client struct {
	doer    doer
	baseURL string
	apiKey  string
	timeout time.Duration
	breaker *resilience.Breaker
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	client := cfg.Doer
	if client == nil {
		client = &fasthttp.Client{
			Name:                "sportstream-logos",
			MaxResponseBodySize: maxListingBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultAPIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		doer:    client,
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		breaker: resilience.NewBreaker(cfg.CircuitBreaker),
		logger:  logger,
	}
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	Name      string `json:"strTeam"`
	League    string `json:"strLeague"`
	TeamBadge string `json:"strTeamBadge"`
	Badge     string `json:"strBadge"`
}

// TeamsByLeague lists every team TheSportsDB knows for league. A league with
// no teams returns an empty slice.
func (c *Client) TeamsByLeague(ctx context.Context, league string) ([]logo.Team, error) {
	league = strings.TrimSpace(league)
	if league == "" {
		return nil, crerr.Wrap(usecase.ErrInvalidInput, "league is required")
	}

	endpoint := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/search_all_teams.php?l=" + url.QueryEscape(league)
	raw, err := c.get(ctx, endpoint, "application/json")
	if err != nil {
		return nil, crerr.Wrapf(err, "list teams league=%q", league)
	}

	var envelope teamsEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, crerr.Wrapf(err, "decode teams league=%q", league)
	}

	out := make([]logo.Team, 0, len(envelope.Teams))
	for _, item := range envelope.Teams {
		badge := strings.TrimSpace(item.TeamBadge)
		if badge == "" {
			badge = strings.TrimSpace(item.Badge)
		}
		name := strings.TrimSpace(item.Name)
		if name == "" || badge == "" {
			continue
		}
		out = append(out, logo.Team{Name: name, League: firstNonEmpty(item.League, league), BadgeURL: badge})
	}
	return out, nil
}

// FetchImage downloads a badge. The extension comes from the URL path and
// falls back to ".png".
func (c *Client) FetchImage(ctx context.Context, rawURL string) ([]byte, string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, "", crerr.Wrapf(usecase.ErrInvalidInput, "badge url %q", rawURL)
	}

	raw, err := c.get(ctx, parsed.String(), "image/*")
	if err != nil {
		return nil, "", crerr.Wrap(err, "download badge")
	}
	if len(raw) > maxBadgeBytes {
		return nil, "", crerr.Newf("badge exceeds %d bytes", maxBadgeBytes)
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if _, ok := imageExtensions[ext]; !ok {
		ext = ".png"
	}
	return raw, ext, nil
}

func (c *Client) get(ctx context.Context, endpoint, accept string) ([]byte, error) {
	var body []byte
	err := c.breaker.Execute(func() error {
		raw, reqErr := c.execute(ctx, endpoint, accept)
		body = raw
		return reqErr
	}, isTransient)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "thesportsdb circuit breaker rejected request", "state", c.breaker.State())
		return nil, crerr.Wrap(usecase.ErrDependencyUnavailable, "thesportsdb is temporarily unavailable")
	}
	return body, err
}

func (c *Client) execute(ctx context.Context, endpoint, accept string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", accept)

	if err := c.doer.DoTimeout(req, resp, timeout); err != nil {
		return nil, crerr.Mark(crerr.Wrapf(err, "send request %s", redact(endpoint)), errTransient)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		err := crerr.Newf("thesportsdb status=%d url=%s", status, redact(endpoint))
		if status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError {
			err = crerr.Mark(err, errTransient)
		}
		return nil, err
	}

	// the response is released on return
	return append([]byte(nil), resp.Body()...), nil
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

// redact hides the api key segment of the path.
func redact(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	segments := strings.Split(parsed.Path, "/")
	for i, segment := range segments {
		if segment == "json" && i+1 < len(segments) {
			segments[i+1] = "REDACTED"
		}
	}
	parsed.Path = strings.Join(segments, "/")
	return parsed.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
