package match

// Payload is the document written at the end of every run and read back by the
// next run for carry-forward. Every list is present even when empty.
type Payload struct {
	Updated          int64              `json:"updated"`
	Region           string             `json:"region"`
	WildcardCategory string             `json:"wildcard_category"`
	CategoryOrder    []string           `json:"category_order"`
	Trending         []Match            `json:"trending"`
	WildcardMatches  []Match            `json:"wildcard_matches"`
	Categories       map[string][]Match `json:"categories"`
	AllMatches       []Match            `json:"all_matches"`
}

func EmptyPayload(updated int64) Payload {
	return Payload{Updated: updated}.Normalize()
}

// Normalize fills nil collections with empty ones.
func (p Payload) Normalize() Payload {
	p.CategoryOrder = nonNil(p.CategoryOrder)
	p.Trending = normalizeList(p.Trending)
	p.WildcardMatches = normalizeList(p.WildcardMatches)
	p.AllMatches = normalizeList(p.AllMatches)

	categories := make(map[string][]Match, len(p.Categories))
	for sport, items := range p.Categories {
		categories[sport] = normalizeList(items)
	}
	p.Categories = categories
	return p
}

func normalizeList(items []Match) []Match {
	out := make([]Match, 0, len(items))
	for _, item := range items {
		out = append(out, item.withEmptyLists())
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
