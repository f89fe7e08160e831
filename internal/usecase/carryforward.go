package usecase

import (
	"time"

	"github.com/riskibarqy/sportstream/internal/domain/match"
)

// CarryForward re-inserts records from the previous run that are missing from
// fresh and either were live or started within retention. A record is never
// carried once now is more than retention past its start time.
func CarryForward(fresh, previous []match.Match, now time.Time, retention time.Duration) ([]match.Match, int) {
	seen := make(map[string]struct{}, len(fresh))
	for _, rec := range fresh {
		seen[rec.ID] = struct{}{}
	}

	out := append(make([]match.Match, 0, len(fresh)+len(previous)), fresh...)
	carried := 0
	nowMs := now.UnixMilli()
	for _, prev := range previous {
		if prev.ID == "" {
			continue
		}
		if _, ok := seen[prev.ID]; ok {
			continue
		}
		age := time.Duration(nowMs-prev.StartTime) * time.Millisecond
		if age > retention {
			continue
		}
		if !prev.IsLive && age < 0 {
			continue
		}

		rec := prev.Clone().ClearDerived()
		if !rec.HasOrigin(match.OriginCarried) {
			rec.Origin = append(rec.Origin, match.OriginCarried)
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
		carried++
	}
	return out, carried
}
