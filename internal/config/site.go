package config

import (
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/spf13/viper"
)

var ErrInvalidSite = crerr.New("invalid site config")

const hideOthersKey = "_HIDE_OTHERS"

// Site is the operator-edited config.json behind the admin panel.
type Site struct {
	Settings         SiteSettings `mapstructure:"site_settings"`
	Theme            Theme        `mapstructure:"theme"`
	HeaderMenu       []MenuItem   `mapstructure:"header_menu" validate:"dive"`
	HeroCategories   []MenuItem   `mapstructure:"hero_categories" validate:"dive"`
	Pages            []Page       `mapstructure:"pages" validate:"dive"`
	APIKeys          APIKeys      `mapstructure:"api_keys"`
	WildcardCategory string       `mapstructure:"wildcard_category"`

	// SportPriorities is keyed by region. Viper folds map keys to lower case,
	// so this block is decoded separately to keep entry names as written.
	SportPriorities map[string]priority.Table `mapstructure:"-"`
}

type SiteSettings struct {
	TitlePart1    string `mapstructure:"title_part_1"`
	TitlePart2    string `mapstructure:"title_part_2"`
	Domain        string `mapstructure:"domain" validate:"omitempty,fqdn"`
	LogoURL       string `mapstructure:"logo_url"`
	Favicon       string `mapstructure:"favicon"`
	CustomMeta    string `mapstructure:"custom_meta"`
	TargetCountry string `mapstructure:"target_country" validate:"omitempty,len=2,alpha"`
	GAID          string `mapstructure:"ga_id" validate:"omitempty,printascii,excludesall= "`
}

type Theme struct {
	BrandPrimary string `mapstructure:"brand_primary"`
	BrandDark    string `mapstructure:"brand_dark"`
	AccentGold   string `mapstructure:"accent_gold"`
	BgBody       string `mapstructure:"bg_body"`
	HeroGradient string `mapstructure:"hero_gradient_start"`
	FontFamily   string `mapstructure:"font_family"`
}

type MenuItem struct {
	Title string `mapstructure:"title" validate:"required"`
	URL   string `mapstructure:"url" validate:"required"`
}

type Page struct {
	Slug      string `mapstructure:"slug" validate:"required,excludesall=/\\ "`
	Title     string `mapstructure:"title"`
	MetaTitle string `mapstructure:"meta_title"`
	MetaDesc  string `mapstructure:"meta_desc"`
	Content   string `mapstructure:"content"`
}

type APIKeys struct {
	StreamedURL string `mapstructure:"streamed_url" validate:"omitempty,url"`
	TopEmbedURL string `mapstructure:"topembed_url" validate:"omitempty,url"`
}

// LoadSite reads the site config. A missing file yields the defaults so a
// fresh checkout still builds an (empty) site.
func LoadSite(path string) (Site, error) {
	v := viper.New()
	v.SetConfigType("json")
	setSiteDefaults(v)

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
			return Site{}, crerr.Wrapf(ErrInvalidSite, "read %s: %v", path, err)
		}
	case os.IsNotExist(err):
		raw = nil
	default:
		return Site{}, crerr.Wrapf(err, "open site config %s", path)
	}

	var site Site
	if err := v.Unmarshal(&site); err != nil {
		return Site{}, crerr.Wrapf(ErrInvalidSite, "decode %s: %v", path, err)
	}

	site.SportPriorities, err = parsePriorities(raw)
	if err != nil {
		return Site{}, crerr.Wrapf(err, "site config %s", path)
	}

	if err := validateSite(site); err != nil {
		return Site{}, crerr.Wrapf(err, "site config %s", path)
	}
	return site, nil
}

func setSiteDefaults(v *viper.Viper) {
	v.SetDefault("site_settings.title_part_1", "Stream")
	v.SetDefault("site_settings.title_part_2", "East")
	v.SetDefault("site_settings.domain", "example.com")
	v.SetDefault("site_settings.target_country", priority.RegionUS)
	v.SetDefault("theme.brand_primary", "#D00000")
	v.SetDefault("theme.brand_dark", "#8a0000")
	v.SetDefault("theme.accent_gold", "#FFD700")
	v.SetDefault("theme.bg_body", "#050505")
	v.SetDefault("theme.hero_gradient_start", "#1a0505")
	v.SetDefault("theme.font_family", "system-ui")
}

// Region prefers override, then target_country, then US.
func (s Site) Region(override string) string {
	for _, candidate := range []string{override, s.Settings.TargetCountry} {
		if c := strings.ToUpper(strings.TrimSpace(candidate)); c != "" {
			return c
		}
	}
	return priority.RegionUS
}

// PriorityTable returns the operator table for region or the built-in default.
func (s Site) PriorityTable(region string) priority.Table {
	if table, ok := s.SportPriorities[strings.ToUpper(region)]; ok && len(table.Entries) > 0 {
		return table
	}
	return priority.Default(region)
}

// Title is the brand name shown in the header, "StreamEast" by default.
func (s Site) Title() string {
	return s.Settings.TitlePart1 + s.Settings.TitlePart2
}

func (s Site) Page(slug string) (Page, bool) {
	for _, page := range s.Pages {
		if page.Slug == slug {
			return page, true
		}
	}
	return Page{}, false
}

func parsePriorities(raw []byte) (map[string]priority.Table, error) {
	out := make(map[string]priority.Table)
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}

	var doc struct {
		SportPriorities map[string]map[string]any `json:"sport_priorities"`
	}
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, crerr.Wrapf(ErrInvalidSite, "decode sport_priorities: %v", err)
	}

	regions := make([]string, 0, len(doc.SportPriorities))
	for region := range doc.SportPriorities {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	for _, region := range regions {
		table := priority.Table{Entries: make(map[string]priority.Entry)}
		for name, value := range doc.SportPriorities[region] {
			if name == hideOthersKey {
				hide, ok := value.(bool)
				if !ok {
					return nil, crerr.Wrapf(ErrInvalidSite, "sport_priorities.%s.%s must be a boolean", region, name)
				}
				table.HideOthers = hide
				continue
			}
			fields, ok := value.(map[string]any)
			if !ok {
				return nil, crerr.Wrapf(ErrInvalidSite, "sport_priorities.%s.%s must be an object", region, name)
			}
			table.Entries[name] = priority.Entry{
				Score:    intField(fields["score"]),
				IsLeague: boolField(fields["isLeague"]),
				HasLink:  boolField(fields["hasLink"]),
				IsHidden: boolField(fields["isHidden"]),
			}
		}
		out[strings.ToUpper(region)] = table
	}
	return out, nil
}

func validateSite(site Site) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(site); err != nil {
		return crerr.Wrapf(ErrInvalidSite, "%v", err)
	}
	for region, table := range site.SportPriorities {
		for name, entry := range table.Entries {
			if err := validate.Struct(entry); err != nil {
				return crerr.Wrapf(ErrInvalidSite, "sport_priorities.%s.%s: %v", region, name, err)
			}
		}
	}
	return nil
}

func intField(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func boolField(v any) bool {
	b, _ := v.(bool)
	return b
}
