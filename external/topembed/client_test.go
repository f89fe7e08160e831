package topembed

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2026, 2, 11, 20, 0, 0, 0, time.UTC)

type fetcherMock struct {
	mock.Mock
}

func (m *fetcherMock) Get(ctx context.Context, rawURL string) ([]byte, error) {
	args := m.Called(ctx, rawURL)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func newClient(t *testing.T, body string, err error) (*Client, *fetcherMock) {
	t.Helper()
	f := &fetcherMock{}
	f.On("Get", mock.Anything, "https://topembed.example/api").Return([]byte(body), err).Once()
	return NewClient(Config{URL: "https://topembed.example/api", Fetcher: f}), f
}

func TestFetchNestedEvents(t *testing.T) {
	t.Parallel()

	ts := fixedNow.Add(-5 * time.Minute).Unix()
	body := `{"events": {
		"2026-02-12": [{"unixTimestamp": ` + strconv.FormatInt(ts+86400, 10) + `, "match": "Arsenal v Chelsea", "sport": "Football", "tournament": "Premier League", "channels": "none"}],
		"2026-02-11": [{"unixTimestamp": ` + strconv.FormatInt(ts, 10) + `, "match": "Eagles vs Chiefs", "sport": "American Football", "tournament": "",
			"channels": ["https://te.example/channel/ESPN-US[USA]", {"channel": "https://te.example/embed/abc"}, {"other": 1}, ""]}]
	}}`

	c, f := newClient(t, body, nil)
	got, err := c.Fetch(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	f.AssertExpectations(t)

	if len(got) != 2 {
		t.Fatalf("unexpected record count got=%d want=2", len(got))
	}
	// dates are visited in order
	first := got[0]
	if first.Title != "Eagles vs Chiefs" || first.Sport != "NFL" || first.League != "NFL" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.StartTime != ts*1000 || first.Viewers != 0 {
		t.Fatalf("unexpected start/viewers: %d/%d", first.StartTime, first.Viewers)
	}
	if len(first.Streams) != 2 {
		t.Fatalf("unexpected streams: %+v", first.Streams)
	}
	if first.Streams[0].Name != "ESPN US" || first.Streams[1].Name != "HD STREAM" {
		t.Fatalf("unexpected channel names: %+v", first.Streams)
	}
	if first.Streams[0].Source != match.SourceTopEmbed {
		t.Fatalf("unexpected source tag %q", first.Streams[0].Source)
	}

	second := got[1]
	if second.Sport != "Soccer" || second.League != "Premier League" {
		t.Fatalf("unexpected second record: %s/%s", second.Sport, second.League)
	}
	if len(second.Streams) != 0 || second.Streams == nil {
		t.Fatalf("non-list channels must decode to an empty list: %#v", second.Streams)
	}
}

func TestFetchFlatDateMapAndBadTimestamp(t *testing.T) {
	t.Parallel()

	body := `{"2026-02-11": [{"unixTimestamp": "n/a", "match": "Fury vs Usyk", "sport": "Boxing"}], "generated": "today"}`
	c, _ := newClient(t, body, nil)
	got, err := c.Fetch(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected record count got=%d want=1", len(got))
	}
	if got[0].StartTime != fixedNow.Add(time.Hour).UnixMilli() {
		t.Fatalf("expected now+1h fallback, got %d", got[0].StartTime)
	}
	if got[0].Sport != "Boxing" {
		t.Fatalf("unexpected sport %q", got[0].Sport)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t, "", errors.New("dial tcp: timeout"))
	if _, err := c.Fetch(context.Background(), fixedNow); err == nil {
		t.Fatalf("expected transport error")
	}

	c, _ = newClient(t, `[1,2,3]`, nil)
	if _, err := c.Fetch(context.Background(), fixedNow); err == nil {
		t.Fatalf("expected decode error for array payload")
	}
}

func TestChannelName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"https://te.example/channel/Sky-Sports-Main-Event[UK]": "SKY SPORTS MAIN EVENT",
		"https://te.example/channel/[UK]":                      "HD STREAM",
		"https://te.example/channel/ESPN":                      "HD STREAM",
		"plain":                                                "HD STREAM",
	}
	for in, want := range cases {
		if got := channelName(in); got != want {
			t.Fatalf("channel name %q got=%q want=%q", in, got, want)
		}
	}
}

func TestFetchEmptyTitleStaysDistinct(t *testing.T) {
	t.Parallel()

	ts := fixedNow.Add(2 * time.Hour).Unix()
	body := `{"2026-02-11": [
		{"unixTimestamp": ` + strconv.FormatInt(ts, 10) + `, "match": "", "sport": "Football", "tournament": "Serie A", "channels": ["https://te.example/channel/A[IT]"]},
		{"unixTimestamp": ` + strconv.FormatInt(ts+1800, 10) + `, "match": " ", "sport": "Tennis", "tournament": "ATP Doha", "channels": ["https://te.example/channel/B[QA]"]}
	]}`
	c, _ := newClient(t, body, nil)
	got, err := c.Fetch(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected record count got=%d want=2", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("untitled events of the same day must keep distinct ids: %s", got[0].ID)
	}
	if got[0].Title != "Unknown" || got[1].Title != "Unknown" {
		t.Fatalf("unexpected fallback titles: %q %q", got[0].Title, got[1].Title)
	}

	again, _ := newClient(t, body, nil)
	rerun, err := again.Fetch(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if rerun[0].ID != got[0].ID || rerun[1].ID != got[1].ID {
		t.Fatalf("untitled ids must be stable across runs")
	}
}

func TestFetchRejectsOverflowingTimestamp(t *testing.T) {
	t.Parallel()

	body := `{"2026-02-11": [
		{"unixTimestamp": 1e30, "match": "Fury vs Usyk", "sport": "Boxing"},
		{"unixTimestamp": 9000000000000, "match": "Canelo vs Crawford", "sport": "Boxing"}
	]}`
	c, _ := newClient(t, body, nil)
	got, err := c.Fetch(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := fixedNow.Add(time.Hour).UnixMilli()
	for _, m := range got {
		if m.StartTime != want {
			t.Fatalf("%s: expected now+1h fallback got=%d want=%d", m.Title, m.StartTime, want)
		}
	}
}
