package usecase

import (
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/sport"
)

// Merge folds adapter outputs into one record per id. Lists are processed in
// the order given and the first record seen for an id keeps its title, start
// time and sport. Streams are appended without de-duplication, the higher
// viewer count wins, and a generic league is replaced by a specific one.
func Merge(lists ...[]match.Match) []match.Match {
	total := 0
	for _, list := range lists {
		total += len(list)
	}

	index := make(map[string]int, total)
	out := make([]match.Match, 0, total)
	for _, list := range lists {
		for _, rec := range list {
			if i, ok := index[rec.ID]; ok {
				out[i] = mergeRecord(out[i], rec)
				continue
			}
			index[rec.ID] = len(out)
			base := rec.Clone()
			if base.Streams == nil {
				base.Streams = []match.Stream{}
			}
			out = append(out, base)
		}
	}
	return out
}

func mergeRecord(base, other match.Match) match.Match {
	base.Streams = append(base.Streams, other.Streams...)

	if other.Viewers > base.Viewers {
		base.Viewers = other.Viewers
	}

	if base.Sport == sport.Other && other.Sport != "" && other.Sport != sport.Other {
		if sport.IsGenericLeague(base.Sport, base.League) {
			base.League = other.Sport
		}
		base.Sport = other.Sport
	}

	if sport.IsGenericLeague(base.Sport, base.League) &&
		!sport.IsGenericLeague(base.Sport, other.League) &&
		!sport.IsGenericLeague(other.Sport, other.League) {
		base.League = other.League
	}

	for _, origin := range other.Origin {
		if !base.HasOrigin(origin) {
			base.Origin = append(base.Origin, origin)
		}
	}
	return base
}
