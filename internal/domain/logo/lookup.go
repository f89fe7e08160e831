package logo

import "strings"

// Lookup maps team slugs to public image paths.
type Lookup map[string]string

// Find resolves a team name as it appears in a title.
func (l Lookup) Find(team string) (string, bool) {
	if len(l) == 0 {
		return "", false
	}
	slug := Slugify(CleanTeamName(team))
	if slug == "" {
		return "", false
	}
	if path, ok := l[slug]; ok {
		return path, true
	}
	// the map also carries display-name keys
	path, ok := l[strings.ToLower(DisplayName(slug))]
	return path, ok
}

// DefaultHarvestLeagues are TheSportsDB league names worth mirroring.
var DefaultHarvestLeagues = []string{
	"English Premier League",
	"English League Championship",
	"Scottish Premiership",
	"Spanish La Liga",
	"German Bundesliga",
	"Italian Serie A",
	"French Ligue 1",
	"Dutch Eredivisie",
	"Portuguese Primeira Liga",
	"UEFA Champions League",
	"UEFA Europa League",
	"American Major League Soccer",
	"Saudi Arabian Pro League",
	"Belgian Jupiler League",
	"NBA",
	"NFL",
	"NHL",
	"MLB",
	"Formula 1",
	"UFC",
	"Australian Big Bash League",
	"United Rugby Championship",
}
