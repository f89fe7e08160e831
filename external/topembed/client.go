package topembed

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/sport"
	"github.com/riskibarqy/sportstream/internal/platform/httpfetch"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

const (
	Name = match.OriginTopEmbed

	defaultChannelName = "HD STREAM"
	unknownTitle       = "Unknown"
	fallbackLead       = time.Hour

	// 9999-12-31T23:59:59Z; larger second counts overflow as milliseconds.
	maxUnixSeconds = 253402300799
)

type fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

type Config struct {
	URL        string
	Fetcher    fetcher
	Classifier *sport.Classifier
	Zone       *time.Location
	Logger     *logging.Logger
}

// Client reads the date-keyed listing published by topembed. The body is
// either {"events": {"2026-02-11": [...]}} or the date map itself.
type Client struct {
	url        string
	fetcher    fetcher
	classifier *sport.Classifier
	zone       *time.Location
	logger     *logging.Logger
}

type event struct {
	UnixTimestamp httpfetch.Number `json:"unixTimestamp"`
	Match         string           `json:"match"`
	Sport         string           `json:"sport"`
	Tournament    string           `json:"tournament"`
	Channels      channelList      `json:"channels"`
}

// channelList accepts plain strings and {"channel": "..."} objects. Anything
// that is not a list decodes to no channels.
type channelList []string

func (c *channelList) UnmarshalJSON(b []byte) error {
	*c = nil
	var items []any
	if err := sonic.Unmarshal(b, &items); err != nil {
		return nil
	}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			*c = append(*c, v)
		case map[string]any:
			if link, ok := v["channel"].(string); ok {
				*c = append(*c, link)
			}
		}
	}
	return nil
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

func (c *Client) Fetch(ctx context.Context, now time.Time) ([]match.Match, error) {
	if c.url == "" || c.fetcher == nil {
		c.logger.InfoContext(ctx, "feed disabled", "reason", "url not configured")
		return []match.Match{}, nil
	}

	raw, err := c.fetcher.Get(ctx, c.url)
	if err != nil {
		return nil, crerr.Wrap(err, "fetch topembed events")
	}
	days, err := decodeDays(raw)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	out := make([]match.Match, 0, len(days)*16)
	for _, date := range dates {
		for _, ev := range days[date] {
			out = append(out, c.toMatch(ctx, ev, now))
		}
	}
	return out, nil
}

func decodeDays(raw []byte) (map[string][]event, error) {
	var top map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &top); err != nil {
		return nil, crerr.Wrap(err, "decode topembed payload")
	}
	if nested, ok := top["events"]; ok {
		top = nil
		if err := sonic.Unmarshal(nested, &top); err != nil {
			return nil, crerr.Wrap(err, "decode topembed events")
		}
	}

	days := make(map[string][]event, len(top))
	for date, body := range top {
		var events []event
		// keys that do not hold an event list are metadata
		if err := sonic.Unmarshal(body, &events); err != nil {
			continue
		}
		days[date] = events
	}
	return days, nil
}

func (c *Client) toMatch(ctx context.Context, ev event, now time.Time) match.Match {
	title := strings.TrimSpace(ev.Match)
	idTitle := title
	if title == "" {
		c.logger.WarnContext(ctx, "event without title", "tournament", ev.Tournament)
		title = unknownTitle
		// rows carry no event id; the other fields keep untitled events apart
		idTitle = strings.Join([]string{
			unknownTitle,
			strings.TrimSpace(ev.Sport),
			strings.TrimSpace(ev.Tournament),
			ev.UnixTimestamp.Raw,
		}, " ")
	}

	var start int64
	if v := ev.UnixTimestamp.Value; ev.UnixTimestamp.Valid && v > 0 && v <= maxUnixSeconds {
		start = time.Unix(ev.UnixTimestamp.Value, 0).UnixMilli()
	} else {
		start = now.Add(fallbackLead).UnixMilli()
		c.logger.WarnContext(ctx, "malformed event timestamp, assuming one hour from now",
			"title", title,
			"raw_timestamp", ev.UnixTimestamp.Raw,
		)
	}

	label := c.classifier.Label(sport.Input{
		Category:   ev.Sport,
		Title:      title,
		Tournament: ev.Tournament,
	})

	streams := make([]match.Stream, 0, len(ev.Channels))
	for _, link := range ev.Channels {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		streams = append(streams, match.Stream{
			ID:     match.EncodeLocator(link),
			Name:   channelName(link),
			Source: match.SourceTopEmbed,
		})
	}

	return match.Match{
		ID:        match.ResolveID(idTitle, start, c.zone),
		Title:     title,
		Sport:     label.Sport,
		League:    label.League,
		StartTime: start,
		Streams:   streams,
		Origin:    []string{Name},
	}
}

// channelName turns ".../channel/ESPN-US[USA]" into "ESPN US".
func channelName(link string) string {
	_, rest, ok := strings.Cut(link, "/channel/")
	if !ok || !strings.Contains(rest, "[") {
		return defaultChannelName
	}
	name, _, _ := strings.Cut(rest, "[")
	name = strings.TrimSpace(strings.ReplaceAll(name, "-", " "))
	if name == "" {
		return defaultChannelName
	}
	return strings.ToUpper(name)
}
