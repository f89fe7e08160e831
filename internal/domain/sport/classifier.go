package sport

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule maps an input to Sport when any of its category keywords is found in
// the raw category, or any text keyword in category, title and tournament.
type Rule struct {
	Sport            string
	CategoryKeywords []string
	TextKeywords     []string
	// Requires, when set, must also match the combined text.
	Requires []string

	category *regexp.Regexp
	text     *regexp.Regexp
	requires *regexp.Regexp
}

var collegiate = []string{"college", "ncaa", "ncaab", "ncaaf", "march madness"}

// DefaultRules is evaluated top to bottom. Collegiate rules come first so a
// college game is never labeled with the pro league of the same sport.
var DefaultRules = []Rule{
	{Sport: NCAABasketball, CategoryKeywords: []string{"basketball"}, Requires: collegiate},
	{Sport: NCAAFootball, CategoryKeywords: []string{"american football", "football"}, Requires: collegiate},
	{Sport: NCAAHockey, CategoryKeywords: []string{"hockey", "ice hockey"}, Requires: collegiate},
	{Sport: NCAABaseball, CategoryKeywords: []string{"baseball"}, Requires: collegiate},

	{Sport: NBA, TextKeywords: []string{"nba"}},
	{Sport: NFL, TextKeywords: []string{"nfl", "super bowl", "american football"}},
	{Sport: NHL, TextKeywords: []string{"nhl", "stanley cup"}},
	{Sport: MLB, TextKeywords: []string{"mlb", "world series"}},

	{Sport: Basketball, CategoryKeywords: []string{"basketball"}},
	{Sport: IceHockey, CategoryKeywords: []string{"hockey", "ice hockey"}},
	{Sport: Baseball, CategoryKeywords: []string{"baseball"}},

	{Sport: AFL, CategoryKeywords: []string{"afl", "aussie rules"}, TextKeywords: []string{"afl", "australian football"}},
	{Sport: Rugby, CategoryKeywords: []string{"rugby"}, TextKeywords: []string{"rugby", "six nations", "super rugby"}},
	{Sport: Soccer, CategoryKeywords: []string{"soccer", "football"}, TextKeywords: []string{
		"soccer", "premier league", "champions league", "europa league", "la liga", "serie a",
		"bundesliga", "ligue 1", "mls", "fa cup", "eredivisie", "efl",
	}},
	{Sport: Boxing, CategoryKeywords: []string{"boxing"}, TextKeywords: []string{"boxing"}},
	{Sport: UFC, CategoryKeywords: []string{"fight", "fighting", "mma", "ufc"}, TextKeywords: []string{"ufc", "mma"}},
	{Sport: F1, CategoryKeywords: []string{"motor sports", "motorsport", "motorsports", "racing", "f1"}, TextKeywords: []string{"f1", "formula 1", "formula one"}},
	{Sport: Tennis, CategoryKeywords: []string{"tennis"}, TextKeywords: []string{"tennis", "atp", "wta", "wimbledon"}},
	{Sport: Cricket, CategoryKeywords: []string{"cricket"}, TextKeywords: []string{"cricket", "ipl", "the ashes", "t20"}},
	{Sport: Golf, CategoryKeywords: []string{"golf"}, TextKeywords: []string{"golf", "pga"}},
	{Sport: Darts, CategoryKeywords: []string{"darts"}, TextKeywords: []string{"darts", "pdc"}},
	{Sport: Snooker, CategoryKeywords: []string{"snooker", "billiards"}, TextKeywords: []string{"snooker"}},
}

var genericLeagues = map[string]struct{}{
	"":          {},
	"-":         {},
	"n/a":       {},
	"other":     {},
	"others":    {},
	"general":   {},
	"unknown":   {},
	"undefined": {},
}

// Classifier evaluates an ordered rule table.
type Classifier struct {
	rules []Rule
}

// NewClassifier compiles rules; with no rules it uses DefaultRules.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	compiled := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		rule.category = keywordPattern(rule.CategoryKeywords)
		rule.text = keywordPattern(rule.TextKeywords)
		rule.requires = keywordPattern(rule.Requires)
		compiled = append(compiled, rule)
	}
	return &Classifier{rules: compiled}
}

var defaultClassifier = NewClassifier()

// Classify labels a raw category plus a title or tournament. The league is
// the sport itself; use Label when a tournament field is available.
func Classify(category, detail string) (string, string) {
	label := defaultClassifier.Label(Input{Category: category, Title: detail})
	return label.Sport, label.League
}

func (c *Classifier) Label(in Input) Label {
	sport := c.Sport(in)
	return Label{Sport: sport, League: ResolveLeague(sport, in.Tournament)}
}

func (c *Classifier) Sport(in Input) string {
	category := normalize(in.Category)
	text := strings.Join([]string{category, normalize(in.Title), normalize(in.Tournament)}, " | ")

	for _, rule := range c.rules {
		if rule.requires != nil && !rule.requires.MatchString(text) {
			continue
		}
		if rule.category != nil && rule.category.MatchString(category) {
			return rule.Sport
		}
		if rule.text != nil && rule.text.MatchString(text) {
			return rule.Sport
		}
	}
	return c.fallback(category)
}

func (c *Classifier) fallback(category string) string {
	if category == "" {
		return Other
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.English).String(category)
}

// ResolveLeague keeps an explicit tournament name unless it is empty, a
// placeholder like "Other", or just repeats the sport.
func ResolveLeague(sport, tournament string) string {
	tournament = strings.Join(strings.Fields(tournament), " ")
	if IsGenericLeague(sport, tournament) {
		return sport
	}
	return tournament
}

func IsGenericLeague(sport, league string) bool {
	league = strings.TrimSpace(league)
	if _, ok := genericLeagues[strings.ToLower(league)]; ok {
		return true
	}
	return strings.EqualFold(league, sport)
}

func normalize(v string) string {
	v = strings.ToLower(v)
	v = strings.NewReplacer("-", " ", "_", " ").Replace(v)
	return strings.Join(strings.Fields(v), " ")
}

func keywordPattern(keywords []string) *regexp.Regexp {
	if len(keywords) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		quoted = append(quoted, regexp.QuoteMeta(normalize(keyword)))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
