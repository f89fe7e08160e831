package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
	basecache "github.com/riskibarqy/sportstream/internal/platform/cache"
)

// TeamSource memoizes league listings so a harvest that names a league twice,
// or overlapping harvests in one process, hit the provider once.
type TeamSource struct {
	next  logo.TeamSource
	cache *basecache.Store[[]logo.Team]
}

func NewTeamSource(next logo.TeamSource, cache *basecache.Store[[]logo.Team]) *TeamSource {
	return &TeamSource{next: next, cache: cache}
}

func (s *TeamSource) TeamsByLeague(ctx context.Context, league string) ([]logo.Team, error) {
	key := "league:" + strings.ToLower(strings.TrimSpace(league))
	items, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) ([]logo.Team, error) {
		teams, err := s.next.TeamsByLeague(ctx, league)
		if err != nil {
			return nil, err
		}
		return append([]logo.Team(nil), teams...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]logo.Team(nil), items...), nil
}
