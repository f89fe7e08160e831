package sport

import (
	"sort"
	"strings"
)

// FeaturedOrder lists the categories the home page shows first.
var FeaturedOrder = []string{NFL, NBA, UFC, MLB, NHL, Soccer, F1, Boxing}

// OrderCategories puts featured sports first in FeaturedOrder, then the rest
// alphabetically. Duplicates are dropped.
func OrderCategories(names []string) []string {
	rank := make(map[string]int, len(FeaturedOrder))
	for i, name := range FeaturedOrder {
		rank[strings.ToLower(name)] = i
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, iFeatured := rank[strings.ToLower(out[i])]
		rj, jFeatured := rank[strings.ToLower(out[j])]
		switch {
		case iFeatured && jFeatured:
			return ri < rj
		case iFeatured != jFeatured:
			return iFeatured
		default:
			return out[i] < out[j]
		}
	})
	return out
}
