package app

import (
	"context"
	"os"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/sportstream/external/streamed"
	"github.com/riskibarqy/sportstream/external/thesportsdb"
	"github.com/riskibarqy/sportstream/external/topembed"
	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/domain/priority"
	"github.com/riskibarqy/sportstream/internal/domain/sport"
	cacherepo "github.com/riskibarqy/sportstream/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/sportstream/internal/infrastructure/repository/file"
	"github.com/riskibarqy/sportstream/internal/interfaces/site"
	"github.com/riskibarqy/sportstream/internal/observability"
	"github.com/riskibarqy/sportstream/internal/platform/cache"
	"github.com/riskibarqy/sportstream/internal/platform/httpfetch"
	"github.com/riskibarqy/sportstream/internal/platform/id"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
	"github.com/riskibarqy/sportstream/internal/platform/resilience"
	"github.com/riskibarqy/sportstream/internal/usecase"
)

const teamListingTTL = 6 * time.Hour

// App wires one sitegen invocation. Every command shares the same config,
// site definition and metrics registry.
type App struct {
	cfg      config.Config
	site     config.Site
	region   string
	location *time.Location
	logger   *logging.Logger
	metrics  *observability.RunMetrics
	payloads *file.PayloadRepository
	logos    *file.LogoRepository
	now      func() time.Time
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	siteCfg, err := config.LoadSite(cfg.SiteConfigPath)
	if err != nil {
		return nil, err
	}

	region := siteCfg.Region(cfg.Region)
	zone := priority.Timezone(region)
	location, err := time.LoadLocation(zone)
	if err != nil {
		logger.Warn("timezone unavailable, falling back to UTC", "zone", zone, "error", err)
		location = time.UTC
	}

	return &App{
		cfg:      cfg,
		site:     siteCfg,
		region:   region,
		location: location,
		logger:   logger.With("region", region),
		metrics:  observability.NewRunMetrics(),
		payloads: file.NewPayloadRepository(cfg.OutputPath, logger),
		logos:    file.NewLogoRepository(cfg.LogoDir, cfg.LogoMapPath),
		now:      time.Now,
	}, nil
}

// Fetch runs the aggregation pipeline and writes the payload.
func (a *App) Fetch(ctx context.Context) (match.Payload, error) {
	lookup, err := a.logos.LoadMap(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "logo map unavailable, rendering badges without logos", "error", err)
		lookup = logo.Lookup{}
	}

	rankingCfg := usecase.DefaultRankingConfig()
	rankingCfg.Hype = a.cfg.HypeEnabled

	service := usecase.NewAggregationService(a.feeds(), a.payloads, usecase.NewRanker(rankingCfg), usecase.AggregationOptions{
		Region:      a.region,
		Wildcard:    a.wildcard(),
		Table:       a.site.PriorityTable(a.region),
		Location:    a.location,
		Logos:       lookup,
		FeedTimeout: a.feedDeadline(),
		Metrics:     a.metrics,
		IDs:         id.NewUUIDGenerator(),
		Logger:      a.logger,
		Now:         a.now,
	})
	return service.Run(ctx)
}

// Render expands the master template into SITE_OUT_DIR.
func (a *App) Render(ctx context.Context) (site.Result, error) {
	template, err := os.ReadFile(a.cfg.TemplatePath)
	if err != nil {
		return site.Result{}, crerr.Wrapf(err, "read template %s", a.cfg.TemplatePath)
	}

	renderer := site.NewRenderer(a.site, template, file.NewSiteWriter(a.cfg.SiteOutDir), site.Config{
		Region:  a.region,
		Workers: a.cfg.RenderWorkers,
		Logger:  a.logger,
	})
	return renderer.Render(ctx)
}

func (a *App) BuildLogoMap(ctx context.Context) (logo.Lookup, error) {
	return a.logoService().BuildMap(ctx)
}

func (a *App) HarvestLogos(ctx context.Context, leagues []string) (usecase.HarvestResult, error) {
	return a.logoService().Harvest(ctx, leagues)
}

// PushMetrics is best effort; failures are logged only.
func (a *App) PushMetrics(ctx context.Context) {
	if strings.TrimSpace(a.cfg.PushgatewayURL) == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := a.metrics.Push(pushCtx, a.cfg.PushgatewayURL, a.cfg.ServiceName); err != nil {
		a.logger.WarnContext(ctx, "push metrics failed", "error", err)
	}
}

func (a *App) feeds() []match.FeedProvider {
	classifier := sport.NewClassifier()
	fetcher := httpfetch.New(httpfetch.Config{
		Timeout:    a.cfg.FeedTimeout,
		MaxRetries: a.cfg.FeedMaxRetries,
		UserAgent:  a.cfg.ServiceName + "/" + a.cfg.ServiceVersion,
		Logger:     a.logger,
	})

	// merge precedence: streamed first, then topembed
	return []match.FeedProvider{
		streamed.NewClient(streamed.Config{
			URL:        firstNonEmpty(a.cfg.StreamedURL, a.site.APIKeys.StreamedURL),
			Fetcher:    fetcher,
			Classifier: classifier,
			Zone:       a.location,
			Logger:     a.logger,
		}),
		topembed.NewClient(topembed.Config{
			URL:        firstNonEmpty(a.cfg.TopEmbedURL, a.site.APIKeys.TopEmbedURL),
			Fetcher:    fetcher,
			Classifier: classifier,
			Zone:       a.location,
			Logger:     a.logger,
		}),
	}
}

func (a *App) logoService() *usecase.LogoService {
	client := thesportsdb.NewClient(thesportsdb.ClientConfig{
		BaseURL: a.cfg.TSDBBaseURL,
		APIKey:  a.cfg.TSDBAPIKey,
		Timeout: a.cfg.TSDBTimeout,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          a.cfg.TSDBCircuitEnabled,
			FailureThreshold: a.cfg.TSDBCircuitFailureCount,
			OpenTimeout:      a.cfg.TSDBCircuitOpenTimeout,
			HalfOpenMaxReq:   1,
		},
		Logger: a.logger,
	})
	source := cacherepo.NewTeamSource(client, cache.NewStore[[]logo.Team](teamListingTTL))

	return usecase.NewLogoService(a.logos, source, client, usecase.LogoServiceConfig{
		PublicPrefix: a.cfg.LogoPublicPrefix,
		Workers:      a.cfg.HarvestWorkers,
		Logger:       a.logger,
	})
}

func (a *App) wildcard() string {
	return firstNonEmpty(a.cfg.WildcardCategory, a.site.WildcardCategory)
}

// feedDeadline bounds one adapter including its retry and backoff.
func (a *App) feedDeadline() time.Duration {
	attempts := time.Duration(a.cfg.FeedMaxRetries + 1)
	return a.cfg.FeedTimeout*attempts + 5*time.Second
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
