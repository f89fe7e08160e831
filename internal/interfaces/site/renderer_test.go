package site

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

type memoryWriter struct {
	mu    sync.Mutex
	pages map[string]string
	fail  string
}

func (w *memoryWriter) WritePage(_ context.Context, rel string, data []byte) error {
	if rel == w.fail {
		return errors.New("disk full")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pages == nil {
		w.pages = map[string]string{}
	}
	w.pages[rel] = string(data)
	return nil
}

const testTemplate = `<title>{{META_TITLE}}</title><nav>{{HEADER_MENU}}</nav>{{LOGO_HTML}}` +
	`<section style="display:{{DISPLAY_HERO}}">{{HERO_PILLS}}</section><main data-filter="{{PAGE_FILTER}}">{{ARTICLE_CONTENT}}</main>` +
	`<script>const P={{JS_PRIORITIES}};</script>{{GA_CODE}}{{UNKNOWN}}`

func testSite() config.Site {
	return config.Site{
		Settings: config.SiteSettings{TitlePart1: "Stream", TitlePart2: "East", Domain: "example.com", GAID: "G-TEST"},
		HeaderMenu: []config.MenuItem{
			{Title: "NFL & More", URL: "/nfl/"},
		},
		HeroCategories: []config.MenuItem{
			{Title: "NBA", URL: "/nba/"},
		},
		Pages: []config.Page{
			{Slug: "home", Content: "<p>Welcome</p>"},
			{Slug: "dmca", Title: "DMCA", Content: "<p>Notice</p>"},
			{Slug: "nfl", MetaTitle: "NFL Streams Tonight", Content: "<p>NFL guide</p>"},
		},
		SportPriorities: map[string]priority.Table{
			"US": {Entries: map[string]priority.Entry{
				"NFL":       {Score: 100, HasLink: true},
				"NBA":       {Score: 95, HasLink: true},
				"Formula 1": {Score: 45, HasLink: true, IsLeague: true},
				"Tennis":    {Score: 40},
			}},
		},
	}
}

func TestRendererWritesEveryPage(t *testing.T) {
	t.Parallel()

	writer := &memoryWriter{}
	renderer := NewRenderer(testSite(), []byte(testTemplate), writer, Config{Region: "US", Workers: 2, Logger: logging.NewNop()})

	result, err := renderer.Render(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := []string{"dmca/index.html", "formula-1/index.html", "index.html", "nba/index.html", "nfl/index.html", "watch/index.html"}
	if strings.Join(result.Pages, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected pages got=%v want=%v", result.Pages, want)
	}

	home := writer.pages["index.html"]
	if !strings.Contains(home, "<title>StreamEast - #1 Free Live Sports</title>") {
		t.Fatalf("home title missing: %s", home)
	}
	if !strings.Contains(home, `<a href="/nfl/">NFL &amp; More</a>`) || !strings.Contains(home, `class="cat-pill"`) {
		t.Fatalf("menus not rendered: %s", home)
	}
	if !strings.Contains(home, "<p>Welcome</p>") || !strings.Contains(home, `data-filter=""`) {
		t.Fatalf("home content missing: %s", home)
	}
	if !strings.Contains(home, `"NFL":{"score":100,"isLeague":false,"hasLink":true,"isHidden":false}`) {
		t.Fatalf("priorities not embedded: %s", home)
	}
	if !strings.Contains(home, "G-TEST") || !strings.Contains(home, "{{UNKNOWN}}") {
		t.Fatalf("unexpected token handling: %s", home)
	}

	nfl := writer.pages["nfl/index.html"]
	if !strings.Contains(nfl, "<title>NFL Streams Tonight</title>") || !strings.Contains(nfl, `data-filter="NFL"`) || !strings.Contains(nfl, "NFL guide") {
		t.Fatalf("category page not rendered: %s", nfl)
	}

	watch := writer.pages["watch/index.html"]
	if !strings.Contains(watch, `display:none`) || !strings.Contains(watch, `data-filter="watch"`) {
		t.Fatalf("watch page not rendered: %s", watch)
	}
}

func TestRendererFailsOnWriteError(t *testing.T) {
	t.Parallel()

	writer := &memoryWriter{fail: "watch/index.html"}
	renderer := NewRenderer(testSite(), []byte(testTemplate), writer, Config{Region: "US", Logger: logging.NewNop()})

	if _, err := renderer.Render(context.Background()); err == nil || !strings.Contains(err.Error(), "watch/index.html") {
		t.Fatalf("expected write failure, got %v", err)
	}
}

func TestRendererRejectsEmptyTemplate(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer(testSite(), nil, &memoryWriter{}, Config{Logger: logging.NewNop()})
	if _, err := renderer.Render(context.Background()); err == nil {
		t.Fatalf("expected empty template error")
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		tpl  string
		want string
	}{
		{name: "replaces", tpl: "a{{X}}b", want: "a1b"},
		{name: "keeps unknown", tpl: "{{Y}}", want: "{{Y}}"},
		{name: "unterminated", tpl: "x{{X", want: "x{{X"},
		{name: "adjacent", tpl: "{{X}}{{X}}", want: "11"},
		{name: "value is not re-expanded", tpl: "{{Z}}", want: "{{X}}"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			buf := bytebufferpool.Get()
			defer bytebufferpool.Put(buf)
			expand(buf, []byte(tc.tpl), map[string]string{"X": "1", "Z": "{{X}}"})
			if got := buf.String(); got != tc.want {
				t.Fatalf("unexpected output got=%q want=%q", got, tc.want)
			}
		})
	}
}
