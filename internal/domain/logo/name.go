package logo

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
	leaguePrefix = regexp.MustCompile(`^[^:]{1,40}:\s*`)
)

// Slugify turns "Arsenal FC" into "arsenal-fc".
func Slugify(name string) string {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = nonSlugChars.ReplaceAllString(clean, "")
	clean = spaceRuns.ReplaceAllString(clean, "-")
	return strings.Trim(clean, "-")
}

// CleanTeamName strips a leading "League: " label feeds put in front of the
// home side, e.g. "NBA: Lakers" becomes "Lakers".
func CleanTeamName(name string) string {
	name = strings.TrimSpace(name)
	if stripped := strings.TrimSpace(leaguePrefix.ReplaceAllString(name, "")); stripped != "" {
		return stripped
	}
	return name
}

// DisplayName turns a file stem like "manchester-united" back into words.
func DisplayName(stem string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(stem)), " ")
}
