package match

import (
	"testing"
	"time"
)

func TestResolveIDIsSymmetric(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 11, 19, 30, 0, 0, time.UTC).UnixMilli()
	cases := []struct {
		name string
		a, b string
	}{
		{name: "vs", a: "Lakers vs Warriors", b: "Warriors vs Lakers"},
		{name: "vs dot", a: "Lakers vs. Warriors", b: "Warriors vs Lakers"},
		{name: "dash", a: "Lakers - Warriors", b: "Warriors vs Lakers"},
		{name: "single v", a: "Arsenal v Chelsea", b: "Chelsea vs Arsenal"},
		{name: "case and spacing", a: "  LAKERS   VS  warriors ", b: "Warriors vs Lakers"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ResolveID(tc.a, start, time.UTC)
			want := ResolveID(tc.b, start, time.UTC)
			if got != want {
				t.Fatalf("ids differ for %q and %q: %s != %s", tc.a, tc.b, got, want)
			}
		})
	}
}

func TestResolveIDAbsorbsSameDayJitter(t *testing.T) {
	t.Parallel()

	first := time.Date(2026, 2, 11, 19, 30, 0, 0, time.UTC).UnixMilli()
	second := time.Date(2026, 2, 11, 20, 15, 0, 0, time.UTC).UnixMilli()
	if ResolveID("Chiefs vs Eagles", first, time.UTC) != ResolveID("Eagles vs Chiefs", second, time.UTC) {
		t.Fatalf("expected same id within one day")
	}
}

func TestResolveIDSplitsAcrossMidnight(t *testing.T) {
	t.Parallel()

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	beforeMidnight := time.Date(2026, 2, 11, 23, 0, 0, 0, ny).UnixMilli()
	afterMidnight := time.Date(2026, 2, 12, 1, 0, 0, 0, ny).UnixMilli()
	if ResolveID("A vs B", beforeMidnight, ny) == ResolveID("A vs B", afterMidnight, ny) {
		t.Fatalf("expected distinct ids across the reference midnight")
	}

	// 23:00 and 01:00 New York are the same UTC day, so the reference zone decides.
	if ResolveID("A vs B", beforeMidnight, time.UTC) != ResolveID("A vs B", afterMidnight, time.UTC) {
		t.Fatalf("expected same id in UTC for 04:00Z and 06:00Z")
	}
}

func TestResolveIDSingleParticipant(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 8, 5, 0, 0, 0, time.UTC).UnixMilli()
	got := ResolveID("Australian Grand Prix", start, nil)
	if got != ResolveID("australian grand prix", start, time.UTC) {
		t.Fatalf("expected deterministic id for single participant title")
	}
	if len(got) != 32 {
		t.Fatalf("unexpected id length got=%d want=32", len(got))
	}
}

func TestResolveIDMatchesLegacyIDs(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 2, 8, 23, 30, 0, 0, time.UTC).UnixMilli()
	cases := map[string]string{
		"Eagles vs Chiefs":                 "022dd53615e509fad8c23957afa1f4f3",
		"Chiefs vs Eagles - Super Bowl LX": "881268b585ff1215ba26ffa01bdbdf2d",
	}
	for title, want := range cases {
		if got := ResolveID(title, start, time.UTC); got != want {
			t.Fatalf("id for %q got=%s want=%s", title, got, want)
		}
	}
}

func TestSplitParticipants(t *testing.T) {
	t.Parallel()

	cases := []struct {
		title string
		want  []string
	}{
		{title: "Lakers vs Warriors", want: []string{"Lakers", "Warriors"}},
		{title: "NBA: Lakers VS. Warriors", want: []string{"NBA: Lakers", "Warriors"}},
		{title: "Arsenal v Chelsea", want: []string{"Arsenal", "Chelsea"}},
		{title: "Real Madrid - Barcelona", want: []string{"Real Madrid", "Barcelona"}},
		{title: "Chiefs vs Eagles - Super Bowl LX", want: []string{"Chiefs", "Eagles", "Super Bowl LX"}},
		{title: "Leeds v Hull - Championship", want: []string{"Leeds v Hull", "Championship"}},
		{title: "UFC 300", want: []string{"UFC 300"}},
		{title: "   ", want: nil},
	}

	for _, tc := range cases {
		got := SplitParticipants(tc.title)
		if len(got) != len(tc.want) {
			t.Fatalf("split %q got=%v want=%v", tc.title, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("split %q got=%v want=%v", tc.title, got, tc.want)
			}
		}
	}
}
