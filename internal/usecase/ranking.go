package usecase

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/riskibarqy/sportstream/internal/domain/sport"
)

// RankingConfig holds the temporal thresholds and output bounds.
type RankingConfig struct {
	LiveWindow        time.Duration
	FinalWhistle      time.Duration
	Retention         time.Duration
	PopularViewers    int
	PreRoll           time.Duration
	TrendingHorizon   time.Duration
	TrendingMinWeight int
	UpcomingHorizon   time.Duration
	TierMultiplier    int64
	LowPriorityDamp   int
	TrendingLimit     int
	CategoryLimit     int
	AllMatchesLimit   int
	Hype              bool
}

func DefaultRankingConfig() RankingConfig {
	return RankingConfig{
		LiveWindow:        3*time.Hour + 30*time.Minute,
		FinalWhistle:      150 * time.Minute,
		Retention:         4 * time.Hour,
		PopularViewers:    1000,
		PreRoll:           30 * time.Minute,
		TrendingHorizon:   time.Hour,
		TrendingMinWeight: 70,
		UpcomingHorizon:   24 * time.Hour,
		TierMultiplier:    10000,
		LowPriorityDamp:   10,
		TrendingLimit:     40,
		CategoryLimit:     50,
		AllMatchesLimit:   500,
	}
}

// RankingContext is everything about a run that is not a record.
type RankingContext struct {
	Now      time.Time
	Region   string
	Wildcard string
	Table    priority.Table
	Location *time.Location
	Logos    logo.Lookup
}

var teamPalette = []string{
	"#e63946", "#1d3557", "#2a9d8f", "#f4a261", "#6a4c93",
	"#0077b6", "#d62828", "#588157", "#bc6c25", "#3a0ca3",
}

type Ranker struct {
	cfg RankingConfig
}

func NewRanker(cfg RankingConfig) *Ranker {
	defaults := DefaultRankingConfig()
	if cfg.LiveWindow <= 0 {
		cfg.LiveWindow = defaults.LiveWindow
	}
	if cfg.FinalWhistle <= 0 {
		cfg.FinalWhistle = defaults.FinalWhistle
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaults.Retention
	}
	if cfg.TierMultiplier <= 0 {
		cfg.TierMultiplier = defaults.TierMultiplier
	}
	if cfg.LowPriorityDamp <= 0 {
		cfg.LowPriorityDamp = defaults.LowPriorityDamp
	}
	return &Ranker{cfg: cfg}
}

type rankedRecord struct {
	match.Match
	weight int
}

// Rank derives the display fields of every record and partitions the visible
// ones into the payload buckets. It is a pure function of records and rc.
func (r *Ranker) Rank(records []match.Match, rc RankingContext) match.Payload {
	loc := rc.Location
	if loc == nil {
		loc = time.UTC
	}
	nowMs := rc.Now.UnixMilli()

	kept := make([]rankedRecord, 0, len(records))
	for _, raw := range records {
		rec := raw.Clone().ClearDerived()
		if !rc.Table.Visible(rec.Sport, rec.League) {
			continue
		}
		age := time.Duration(nowMs-rec.StartTime) * time.Millisecond
		if age > r.cfg.Retention && rec.Viewers <= r.cfg.PopularViewers {
			continue
		}
		kept = append(kept, r.derive(rec, age, rc, loc))
	}

	payload := match.Payload{
		Updated:          nowMs,
		Region:           rc.Region,
		WildcardCategory: rc.Wildcard,
		Categories:       map[string][]match.Match{},
	}

	for _, rec := range kept {
		untilStart := time.Duration(rec.StartTime-nowMs) * time.Millisecond
		trending := r.trending(rec, untilStart)
		if trending {
			payload.Trending = append(payload.Trending, rec.Match)
		}
		// The wildcard section is a full schedule, so it also keeps live and
		// far-future records, but they never repeat in the sport buckets.
		if matchesWildcard(rec.Match, rc.Wildcard) {
			payload.WildcardMatches = append(payload.WildcardMatches, rec.Match)
		} else if !trending && untilStart > 0 && untilStart <= r.cfg.UpcomingHorizon {
			payload.Categories[rec.Sport] = append(payload.Categories[rec.Sport], rec.Match)
		}
		payload.AllMatches = append(payload.AllMatches, rec.Match)
	}

	sort.SliceStable(payload.Trending, func(i, j int) bool {
		a, b := payload.Trending[i], payload.Trending[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ID < b.ID
	})
	payload.Trending = limit(payload.Trending, r.cfg.TrendingLimit)

	sortByStart(payload.WildcardMatches)
	sortByStart(payload.AllMatches)
	payload.AllMatches = limit(payload.AllMatches, r.cfg.AllMatchesLimit)

	names := make([]string, 0, len(payload.Categories))
	for name, items := range payload.Categories {
		sortByStart(items)
		payload.Categories[name] = limit(items, r.cfg.CategoryLimit)
		names = append(names, name)
	}
	payload.CategoryOrder = sport.OrderCategories(names)

	return payload.Normalize()
}

func (r *Ranker) derive(rec match.Match, age time.Duration, rc RankingContext, loc *time.Location) rankedRecord {
	weight := rc.Table.Weight(rec.Sport, rec.League)

	rec.IsLive = age >= 0 && age < r.cfg.LiveWindow
	if rec.IsLive {
		if age > r.cfg.FinalWhistle {
			rec.RunningTime = "FT"
		} else {
			rec.RunningTime = fmt.Sprintf("%d'", int(age/time.Minute))
		}
	}
	rec.ShowButton = rec.IsLive || (age < 0 && -age <= r.cfg.PreRoll)

	rec.ViewersEstimated = false
	if r.cfg.Hype && rec.IsLive && rec.Viewers == 0 {
		rec.Viewers = hypeEstimate(rec.ID, weight)
		rec.ViewersEstimated = true
	}

	effective := rec.Viewers
	if weight == 0 {
		effective = rec.Viewers / r.cfg.LowPriorityDamp
	}
	rec.Score = int64(weight)*r.cfg.TierMultiplier + int64(effective)

	start := rec.Start().In(loc)
	rec.DisplayTime = start.Format("15:04")
	rec.DisplayDate = start.Format("Mon, Jan 2")
	rec.TeamsUI = teamsUI(rec.Title, rc.Logos)

	return rankedRecord{Match: rec, weight: weight}
}

func (r *Ranker) trending(rec rankedRecord, untilStart time.Duration) bool {
	if rec.IsLive {
		return true
	}
	return rec.weight >= r.cfg.TrendingMinWeight && untilStart > 0 && untilStart <= r.cfg.TrendingHorizon
}

func matchesWildcard(rec match.Match, wildcard string) bool {
	wildcard = strings.ToLower(strings.TrimSpace(wildcard))
	if wildcard == "" {
		return false
	}
	return strings.ToLower(rec.Sport) == wildcard || strings.Contains(strings.ToLower(rec.League), wildcard)
}

func teamsUI(title string, logos logo.Lookup) []match.TeamUI {
	parts := match.SplitParticipants(logo.CleanTeamName(title))
	out := make([]match.TeamUI, 0, 2)
	for _, part := range parts {
		if len(out) == 2 {
			break
		}
		name := logo.CleanTeamName(part)
		if name == "" {
			continue
		}
		team := match.TeamUI{Name: name, Letter: initial(name), Color: paletteColor(name)}
		if path, ok := logos.Find(name); ok {
			team.Logo = path
		}
		out = append(out, team)
	}
	return out
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}

func paletteColor(name string) string {
	return teamPalette[hash32(strings.ToLower(name))%uint32(len(teamPalette))]
}

// hypeEstimate is stable for a given id so repeated runs stay byte-identical.
func hypeEstimate(id string, weight int) int {
	base := 200 + int(hash32(id)%800)
	return base * (1 + weight/25)
}

func hash32(v string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(v))
	return h.Sum32()
}

func sortByStart(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTime != items[j].StartTime {
			return items[i].StartTime < items[j].StartTime
		}
		return items[i].ID < items[j].ID
	})
}

func limit(items []match.Match, n int) []match.Match {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
