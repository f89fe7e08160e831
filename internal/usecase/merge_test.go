package usecase

import (
	"testing"

	"github.com/riskibarqy/sportstream/internal/domain/match"
)

func streams(n int, source string) []match.Stream {
	out := make([]match.Stream, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, match.Stream{ID: match.EncodeLocator("link"), Name: "ch", Source: source})
	}
	return out
}

func TestMergeUnionsStreamsWithoutLoss(t *testing.T) {
	t.Parallel()

	a := []match.Match{{ID: "x", Title: "Chiefs vs Eagles", Sport: "NFL", League: "NFL", Streams: streams(3, "spk"), Origin: []string{"streamed"}}}
	b := []match.Match{{ID: "x", Title: "Eagles vs Chiefs", Sport: "NFL", League: "NFL", Streams: streams(4, "te"), Origin: []string{"topembed"}}}

	got := Merge(a, b)
	if len(got) != 1 {
		t.Fatalf("unexpected record count got=%d want=1", len(got))
	}
	if len(got[0].Streams) != 7 {
		t.Fatalf("expected m+n streams, got %d", len(got[0].Streams))
	}
	if got[0].Title != "Chiefs vs Eagles" {
		t.Fatalf("first list must keep its title, got %q", got[0].Title)
	}
	if len(got[0].Origin) != 2 || got[0].Origin[1] != "topembed" {
		t.Fatalf("unexpected origin: %v", got[0].Origin)
	}
	if len(a[0].Streams) != 3 {
		t.Fatalf("merge must not mutate adapter output")
	}
}

func TestMergeViewerPrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		first  int
		second int
		want   int
	}{
		{name: "zero into populated", first: 5000, second: 0, want: 5000},
		{name: "populated into zero", first: 0, second: 5000, want: 5000},
		{name: "max of two", first: 1200, second: 800, want: 1200},
		{name: "later larger", first: 800, second: 1200, want: 1200},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Merge(
				[]match.Match{{ID: "x", Viewers: tc.first}},
				[]match.Match{{ID: "x", Viewers: tc.second}},
			)
			if got[0].Viewers != tc.want {
				t.Fatalf("unexpected viewers got=%d want=%d", got[0].Viewers, tc.want)
			}
		})
	}
}

func TestMergeAdoptsSpecificLeague(t *testing.T) {
	t.Parallel()

	t.Run("generic base takes tournament", func(t *testing.T) {
		got := Merge(
			[]match.Match{{ID: "x", Sport: "Soccer", League: "Soccer"}},
			[]match.Match{{ID: "x", Sport: "Soccer", League: "Premier League"}},
		)
		if got[0].League != "Premier League" {
			t.Fatalf("unexpected league %q", got[0].League)
		}
	})

	t.Run("specific base is kept", func(t *testing.T) {
		got := Merge(
			[]match.Match{{ID: "x", Sport: "Soccer", League: "FA Cup"}},
			[]match.Match{{ID: "x", Sport: "Soccer", League: "Premier League"}},
		)
		if got[0].League != "FA Cup" {
			t.Fatalf("unexpected league %q", got[0].League)
		}
	})

	t.Run("unclassified base takes sport", func(t *testing.T) {
		got := Merge(
			[]match.Match{{ID: "x", Sport: "Other", League: "Other"}},
			[]match.Match{{ID: "x", Sport: "Darts", League: "PDC World Championship"}},
		)
		if got[0].Sport != "Darts" || got[0].League != "PDC World Championship" {
			t.Fatalf("unexpected label %s/%s", got[0].Sport, got[0].League)
		}
	})
}

func TestMergeKeepsFirstSeenOrder(t *testing.T) {
	t.Parallel()

	got := Merge(
		[]match.Match{{ID: "b"}, {ID: "a"}},
		[]match.Match{{ID: "c"}, {ID: "a"}},
	)
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "a" || got[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].Streams == nil {
		t.Fatalf("merged records must carry an empty stream list")
	}
}
