package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/riskibarqy/sportstream/internal/domain/priority"
)

func writeSite(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSite_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	site, err := LoadSite(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("load site: %v", err)
	}
	if site.Title() != "StreamEast" {
		t.Fatalf("unexpected title: %q", site.Title())
	}
	if site.Theme.BrandPrimary != "#D00000" {
		t.Fatalf("unexpected default theme: %+v", site.Theme)
	}
	if site.Region("") != priority.RegionUS {
		t.Fatalf("unexpected default region: %q", site.Region(""))
	}
	if site.APIKeys.StreamedURL != "" || site.APIKeys.TopEmbedURL != "" {
		t.Fatalf("feeds must be disabled without config: %+v", site.APIKeys)
	}
}

func TestLoadSite_ParsesPrioritiesWithOriginalCase(t *testing.T) {
	t.Parallel()

	path := writeSite(t, `{
		"site_settings": {"title_part_1": "Match", "title_part_2": "Day", "domain": "matchday.example", "target_country": "UK"},
		"api_keys": {"streamed_url": "https://streamed.example/api/matches/all", "topembed_url": "https://topembed.example/api"},
		"wildcard_category": "Darts",
		"header_menu": [{"title": "NFL", "url": "/nfl/"}],
		"pages": [{"slug": "home", "title": "Home", "content": "<p>Welcome</p>"}],
		"sport_priorities": {
			"UK": {
				"_HIDE_OTHERS": true,
				"Premier League": {"score": 100, "isLeague": true, "hasLink": true, "isHidden": false},
				"Boxing": {"score": 50, "isLeague": false, "hasLink": false, "isHidden": true}
			}
		}
	}`)

	site, err := LoadSite(path)
	if err != nil {
		t.Fatalf("load site: %v", err)
	}
	if site.Region("") != priority.RegionUK || site.Region("us") != priority.RegionUS {
		t.Fatalf("unexpected region resolution")
	}
	table := site.PriorityTable(priority.RegionUK)
	if !table.HideOthers {
		t.Fatalf("expected _HIDE_OTHERS to be honored")
	}
	entry, ok := table.Entries["Premier League"]
	if !ok || entry.Score != 100 || !entry.HasLink {
		t.Fatalf("unexpected Premier League entry: %+v ok=%v", entry, ok)
	}
	if !table.Entries["Boxing"].IsHidden {
		t.Fatalf("expected Boxing hidden")
	}
	if got := site.PriorityTable(priority.RegionUS).Weight("NFL", "NFL"); got != 100 {
		t.Fatalf("expected built-in US table fallback, got weight %d", got)
	}
	if page, ok := site.Page("home"); !ok || page.Content != "<p>Welcome</p>" {
		t.Fatalf("unexpected home page: %+v", page)
	}
	if site.WildcardCategory != "Darts" || len(site.HeaderMenu) != 1 {
		t.Fatalf("unexpected site: %+v", site)
	}
}

func TestLoadSite_Invalid(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"malformed json":      `{"site_settings": `,
		"bad feed url":        `{"api_keys": {"streamed_url": "not a url"}}`,
		"menu without url":    `{"header_menu": [{"title": "NFL"}]}`,
		"priority not object": `{"sport_priorities": {"US": {"NFL": 100}}}`,
		"score out of range":  `{"sport_priorities": {"US": {"NFL": {"score": 5000}}}}`,
	}
	for name, body := range cases {
		path := writeSite(t, body)
		if _, err := LoadSite(path); !errors.Is(err, ErrInvalidSite) {
			t.Fatalf("%s: expected ErrInvalidSite, got %v", name, err)
		}
	}
}

func TestLoadSite_ExampleConfig(t *testing.T) {
	t.Parallel()

	site, err := LoadSite(filepath.Join("..", "..", "data", "config.example.json"))
	if err != nil {
		t.Fatalf("load example config: %v", err)
	}
	if site.Title() != "StreamEast" {
		t.Fatalf("unexpected title: %q", site.Title())
	}

	table := site.PriorityTable(site.Region(""))
	if got := table.Weight("NFL", "NFL"); got != 100 {
		t.Fatalf("unexpected NFL weight got=%d want=100", got)
	}
	linked := table.Linked()
	if len(linked) != 3 || linked[0] != "NFL" {
		t.Fatalf("unexpected linked categories: %v", linked)
	}
	if _, ok := site.Page("dmca"); !ok {
		t.Fatalf("expected dmca page")
	}
	if site.APIKeys.StreamedURL == "" || site.APIKeys.TopEmbedURL == "" {
		t.Fatalf("example config must set both feed urls: %+v", site.APIKeys)
	}
}
