package streamed

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/sport"
	"github.com/riskibarqy/sportstream/internal/platform/httpfetch"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

const (
	Name = match.OriginStreamed

	defaultStreamName = "Stream"
	unknownTitle      = "Unknown"
	fallbackLead      = time.Hour
)

type fetcher interface {
	GetJSON(ctx context.Context, rawURL string, target any) error
}

type Config struct {
	URL        string
	Fetcher    fetcher
	Classifier *sport.Classifier
	// Zone is the calendar used for event ids.
	Zone   *time.Location
	Logger *logging.Logger
}

// Client reads the flat event array published by streamed.
type Client struct {
	url        string
	fetcher    fetcher
	classifier *sport.Classifier
	zone       *time.Location
	logger     *logging.Logger
}

type event struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Category string           `json:"category"`
	Date     httpfetch.Number `json:"date"`
	Viewers  httpfetch.Number `json:"viewers"`
	Sources  []source         `json:"sources"`
}

type source struct {
	Source string `json:"source"`
	ID     string `json:"id"`
	URL    string `json:"url"`
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = sport.NewClassifier()
	}
	zone := cfg.Zone
	if zone == nil {
		zone = time.UTC
	}
	return &Client{
		url:        strings.TrimSpace(cfg.URL),
		fetcher:    cfg.Fetcher,
		classifier: classifier,
		zone:       zone,
		logger:     logger.With("feed", Name),
	}
}

func (c *Client) Name() string {
	return Name
}

// Fetch returns no records and no error when the feed is not configured.
func (c *Client) Fetch(ctx context.Context, now time.Time) ([]match.Match, error) {
	if c.url == "" || c.fetcher == nil {
		c.logger.InfoContext(ctx, "feed disabled", "reason", "url not configured")
		return []match.Match{}, nil
	}

	var events []event
	if err := c.fetcher.GetJSON(ctx, c.url, &events); err != nil {
		return nil, crerr.Wrap(err, "fetch streamed events")
	}

	out := make([]match.Match, 0, len(events))
	for _, ev := range events {
		out = append(out, c.toMatch(ctx, ev, now))
	}
	return out, nil
}

func (c *Client) toMatch(ctx context.Context, ev event, now time.Time) match.Match {
	title := strings.TrimSpace(ev.Title)
	idTitle := title
	if title == "" {
		c.logger.WarnContext(ctx, "event without title", "event_id", ev.ID)
		title = unknownTitle
		idTitle = strings.TrimSpace(unknownTitle + " " + ev.ID)
	}

	start := ev.Date.Value
	if !ev.Date.Valid || start <= 0 {
		start = now.Add(fallbackLead).UnixMilli()
		c.logger.WarnContext(ctx, "malformed event date, assuming one hour from now",
			"event_id", ev.ID,
			"title", title,
			"raw_date", ev.Date.Raw,
		)
	}

	viewers := 0
	if ev.Viewers.Valid && ev.Viewers.Value > 0 {
		viewers = int(ev.Viewers.Value)
	}

	label := c.classifier.Label(sport.Input{Category: ev.Category, Title: title})

	return match.Match{
		ID:        match.ResolveID(idTitle, start, c.zone),
		Title:     title,
		Sport:     label.Sport,
		League:    label.League,
		StartTime: start,
		Viewers:   viewers,
		Streams:   streamsFor(ev.Sources),
		Origin:    []string{Name},
	}
}

func streamsFor(sources []source) []match.Stream {
	out := make([]match.Stream, 0, len(sources))
	for _, src := range sources {
		link := strings.TrimSpace(src.URL)
		if link == "" {
			link = strings.TrimSpace(src.ID)
		}
		if link == "" {
			continue
		}
		name := strings.TrimSpace(src.Source)
		if name == "" {
			name = defaultStreamName
		}
		out = append(out, match.Stream{
			ID:     match.EncodeLocator(link),
			Name:   name,
			Source: match.SourceStreamed,
		})
	}
	return out
}
