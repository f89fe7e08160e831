package priority

import (
	"sort"
	"strings"
)

const (
	RegionUS = "US"
	RegionUK = "UK"
)

// Entry is one row of a region's priority table as edited in the admin panel.
type Entry struct {
	Score    int  `json:"score" mapstructure:"score" validate:"gte=0,lte=1000"`
	IsLeague bool `json:"isLeague" mapstructure:"isLeague"`
	HasLink  bool `json:"hasLink" mapstructure:"hasLink"`
	IsHidden bool `json:"isHidden" mapstructure:"isHidden"`
}

// Table weights sports for one audience. HideOthers drops every record that
// no entry matches.
type Table struct {
	HideOthers bool
	Entries    map[string]Entry
}

// Match is the result of looking a record up in a table.
type Match struct {
	Name  string
	Entry Entry
}

// Lookup returns the entry that applies to sport or league. A hidden entry
// beats any visible one; otherwise the highest score wins.
func (t Table) Lookup(sportName, league string) (Match, bool) {
	sportKey := canonical(sportName)
	leagueKey := canonical(league)

	var best Match
	found := false
	for _, name := range t.names() {
		entry := t.Entries[name]
		if !applies(canonical(name), entry, sportKey, leagueKey) {
			continue
		}
		if !found || outranks(entry, best.Entry) {
			best = Match{Name: name, Entry: entry}
			found = true
		}
	}
	return best, found
}

// Weight is the score used for ranking; unmatched records weigh 0.
func (t Table) Weight(sportName, league string) int {
	m, ok := t.Lookup(sportName, league)
	if !ok {
		return 0
	}
	return m.Entry.Score
}

// Visible applies isHidden and _HIDE_OTHERS.
func (t Table) Visible(sportName, league string) bool {
	m, ok := t.Lookup(sportName, league)
	if !ok {
		return !t.HideOthers
	}
	return !m.Entry.IsHidden
}

// Linked returns the entries that get their own category page, highest score first.
func (t Table) Linked() []string {
	out := make([]string, 0, len(t.Entries))
	for _, name := range t.names() {
		entry := t.Entries[name]
		if entry.HasLink && !entry.IsHidden {
			out = append(out, name)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return t.Entries[out[i]].Score > t.Entries[out[j]].Score
	})
	return out
}

// names is sorted so lookups never depend on map iteration order.
func (t Table) names() []string {
	out := make([]string, 0, len(t.Entries))
	for name := range t.Entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func outranks(candidate, current Entry) bool {
	if candidate.IsHidden != current.IsHidden {
		return candidate.IsHidden
	}
	return candidate.Score > current.Score
}

func applies(key string, entry Entry, sportKey, leagueKey string) bool {
	if key == "" {
		return false
	}
	if key == sportKey || key == leagueKey {
		return true
	}
	if key == "ncaa" && strings.HasPrefix(sportKey, "ncaa ") {
		return true
	}
	return entry.IsLeague && leagueKey != "" && containsWord(leagueKey, key)
}

// canonical folds the spellings the feeds and the admin panel disagree on.
func canonical(name string) string {
	name = strings.Join(strings.Fields(strings.ToLower(name)), " ")
	switch {
	case name == "formula 1" || name == "formula one":
		return "f1"
	case strings.HasPrefix(name, "college "):
		return "ncaa " + strings.TrimPrefix(name, "college ")
	}
	return name
}

func containsWord(haystack, needle string) bool {
	idx := strings.Index(haystack, needle)
	for idx >= 0 {
		end := idx + len(needle)
		before := idx == 0 || haystack[idx-1] == ' '
		after := end == len(haystack) || haystack[end] == ' '
		if before && after {
			return true
		}
		next := strings.Index(haystack[idx+1:], needle)
		if next < 0 {
			return false
		}
		idx += next + 1
	}
	return false
}
