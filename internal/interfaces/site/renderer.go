package site

import (
	"bytes"
	"context"
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

const (
	homePage  = "index.html"
	watchPage = "watch/index.html"
	homeSlug  = "home"
)

var (
	tokenOpen  = []byte("{{")
	tokenClose = []byte("}}")
)

// PageWriter persists one rendered page under a site-relative path.
type PageWriter interface {
	WritePage(ctx context.Context, rel string, data []byte) error
}

type Config struct {
	Region  string
	Workers int
	Logger  *logging.Logger
}

// Renderer expands the master template once per page. Unknown tokens are
// left in place.
type Renderer struct {
	site     config.Site
	template []byte
	writer   PageWriter
	region   string
	table    priority.Table
	workers  int
	logger   *logging.Logger
}

type page struct {
	path   string
	tokens map[string]string
}

type Result struct {
	Pages []string
}

func NewRenderer(site config.Site, template []byte, writer PageWriter, cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	region := site.Region(cfg.Region)
	return &Renderer{
		site:     site,
		template: template,
		writer:   writer,
		region:   region,
		table:    site.PriorityTable(region),
		workers:  workers,
		logger:   logger,
	}
}

// Render writes the home page, the watch page, one page per linked category
// and every configured content page. Any failed write fails the render.
func (r *Renderer) Render(ctx context.Context) (Result, error) {
	if len(bytes.TrimSpace(r.template)) == 0 {
		return Result{}, crerr.New("master template is empty")
	}

	base, err := r.baseTokens()
	if err != nil {
		return Result{}, err
	}
	pages := r.pages(base)

	pool, err := ants.NewPool(r.workers)
	if err != nil {
		return Result{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, p := range pages {
		p := p
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			if err := r.renderPage(ctx, p); err != nil {
				fail(err)
			}
		}); err != nil {
			workers.Done()
			fail(crerr.Wrap(err, "submit page to worker pool"))
			break
		}
	}
	workers.Wait()

	if firstErr != nil {
		return Result{}, firstErr
	}

	result := Result{Pages: make([]string, 0, len(pages))}
	for _, p := range pages {
		result.Pages = append(result.Pages, p.path)
	}
	r.logger.InfoContext(ctx, "site rendered", "pages", len(result.Pages), "region", r.region)
	return result, nil
}

func (r *Renderer) renderPage(ctx context.Context, p page) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	expand(buf, r.template, p.tokens)
	// the buffer goes back to the pool, so the writer gets a copy
	out := append([]byte(nil), buf.B...)
	if err := r.writer.WritePage(ctx, p.path, out); err != nil {
		return crerr.Wrapf(err, "write page %s", p.path)
	}
	return nil
}

func (r *Renderer) pages(base map[string]string) []page {
	title := r.site.Title()
	out := make([]page, 0, 8)
	taken := map[string]struct{}{}
	add := func(path string, overrides map[string]string) {
		if _, ok := taken[path]; ok {
			return
		}
		taken[path] = struct{}{}
		out = append(out, page{path: path, tokens: withOverrides(base, overrides)})
	}

	home, _ := r.site.Page(homeSlug)
	add(homePage, map[string]string{"ARTICLE_CONTENT": home.Content})

	add(watchPage, map[string]string{
		"META_TITLE":      "Watch Live - " + title,
		"DISPLAY_HERO":    "none",
		"ARTICLE_CONTENT": "",
		"PAGE_FILTER":     "watch",
	})

	for _, name := range r.table.Linked() {
		slug := logo.Slugify(name)
		if slug == "" || slug == homeSlug {
			continue
		}
		content, _ := r.site.Page(slug)
		overrides := map[string]string{
			"META_TITLE":      firstNonEmpty(content.MetaTitle, name+" Live Streams - "+title),
			"H1_TITLE":        name + " Live Streams",
			"ARTICLE_CONTENT": content.Content,
			"PAGE_FILTER":     name,
		}
		if content.MetaDesc != "" {
			overrides["META_DESC"] = content.MetaDesc
			overrides["HERO_TEXT"] = content.MetaDesc
		}
		add(slug+"/index.html", overrides)
	}

	for _, p := range r.site.Pages {
		if p.Slug == homeSlug {
			continue
		}
		overrides := map[string]string{
			"META_TITLE":      firstNonEmpty(p.MetaTitle, p.Title+" - "+title),
			"H1_TITLE":        firstNonEmpty(p.Title, title),
			"DISPLAY_HERO":    "none",
			"ARTICLE_CONTENT": p.Content,
		}
		if p.MetaDesc != "" {
			overrides["META_DESC"] = p.MetaDesc
		}
		add(p.Slug+"/index.html", overrides)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

func (r *Renderer) baseTokens() (map[string]string, error) {
	s := r.site.Settings
	t := r.site.Theme
	title := r.site.Title()

	priorities, err := r.jsPriorities()
	if err != nil {
		return nil, err
	}

	logoHTML := `<div class="logo-text">` + html.EscapeString(s.TitlePart1) + `<span>` + html.EscapeString(s.TitlePart2) + `</span></div>`
	if s.LogoURL != "" {
		logoHTML = `<img src="` + html.EscapeString(s.LogoURL) + `" class="logo-img"> ` + logoHTML
	}

	displayHero := "none"
	if s.TitlePart1 != "" {
		displayHero = "block"
	}

	return map[string]string{
		"META_TITLE":      title + " - #1 Free Live Sports",
		"META_DESC":       s.CustomMeta,
		"DOMAIN":          s.Domain,
		"FAVICON":         s.Favicon,
		"LOGO_URL":        s.LogoURL,
		"BRAND_PRIMARY":   t.BrandPrimary,
		"BRAND_DARK":      t.BrandDark,
		"ACCENT_GOLD":     t.AccentGold,
		"BG_BODY":         t.BgBody,
		"HERO_GRADIENT":   t.HeroGradient,
		"FONT_FAMILY":     t.FontFamily,
		"LOGO_HTML":       logoHTML,
		"HEADER_MENU":     menuHTML(r.site.HeaderMenu, ""),
		"HERO_PILLS":      menuHTML(r.site.HeroCategories, "cat-pill"),
		"H1_TITLE":        title + " - Live Sports",
		"HERO_TEXT":       s.CustomMeta,
		"DISPLAY_HERO":    displayHero,
		"ARTICLE_CONTENT": "",
		"GA_CODE":         gaSnippet(s.GAID),
		"JS_PRIORITIES":   priorities,
		"PAGE_FILTER":     "",
	}, nil
}

// jsPriorities is the table in the admin panel's shape, keyed by region.
func (r *Renderer) jsPriorities() (string, error) {
	doc := map[string]map[string]any{}
	regions := map[string]priority.Table{r.region: r.table}
	for region, table := range r.site.SportPriorities {
		regions[region] = table
	}
	for region, table := range regions {
		entries := make(map[string]any, len(table.Entries)+1)
		entries["_HIDE_OTHERS"] = table.HideOthers
		for name, entry := range table.Entries {
			entries[name] = entry
		}
		doc[region] = entries
	}

	raw, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return "", crerr.Wrap(err, "encode priorities")
	}
	// keep the JSON inert inside a <script> block
	return strings.ReplaceAll(string(raw), "</", `<\/`), nil
}

func menuHTML(items []config.MenuItem, class string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(item.URL))
		b.WriteString(`"`)
		if class != "" {
			b.WriteString(` class="` + class + `"`)
		}
		b.WriteString(`>`)
		b.WriteString(html.EscapeString(item.Title))
		b.WriteString(`</a>`)
	}
	return b.String()
}

func gaSnippet(id string) string {
	if id == "" {
		return ""
	}
	escaped := html.EscapeString(id)
	return `<script async src="https://www.googletagmanager.com/gtag/js?id=` + escaped + `"></script>` +
		`<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','` + escaped + `');</script>`
}

// expand writes tpl to buf, replacing every {{NAME}} found in tokens.
func expand(buf *bytebufferpool.ByteBuffer, tpl []byte, tokens map[string]string) {
	for len(tpl) > 0 {
		start := bytes.Index(tpl, tokenOpen)
		if start < 0 {
			_, _ = buf.Write(tpl)
			return
		}
		end := bytes.Index(tpl[start+len(tokenOpen):], tokenClose)
		if end < 0 {
			_, _ = buf.Write(tpl)
			return
		}
		end += start + len(tokenOpen)

		_, _ = buf.Write(tpl[:start])
		name := string(tpl[start+len(tokenOpen) : end])
		if value, ok := tokens[name]; ok {
			_, _ = buf.WriteString(value)
		} else {
			_, _ = buf.Write(tpl[start : end+len(tokenClose)])
		}
		tpl = tpl[end+len(tokenClose):]
	}
}

func withOverrides(base, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
