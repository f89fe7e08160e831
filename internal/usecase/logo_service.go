package usecase

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

const (
	harvestStatusDownloaded = "downloaded"
	harvestStatusSkipped    = "skipped"
	harvestStatusFailed     = "failed"
)

type LogoServiceConfig struct {
	PublicPrefix string
	Workers      int
	Logger       *logging.Logger
}

// LogoService mirrors team badges locally and maintains the lookup map the
// ranker uses for teams_ui logos.
type LogoService struct {
	repo    logo.Repository
	source  logo.TeamSource
	images  logo.ImageFetcher
	prefix  string
	workers int
	logger  *logging.Logger
}

type HarvestTaskResult struct {
	League     string
	Team       string
	File       string
	Status     string
	Message    string
	DurationMs int64
}

type HarvestResult struct {
	Leagues         []string
	FailedLeagues   []string
	Tasks           []HarvestTaskResult
	DownloadedCount int
	SkippedCount    int
	FailedCount     int
}

func NewLogoService(repo logo.Repository, source logo.TeamSource, images logo.ImageFetcher, cfg LogoServiceConfig) *LogoService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	prefix := strings.TrimRight(strings.TrimSpace(cfg.PublicPrefix), "/")
	if prefix == "" {
		prefix = "/assets/logos"
	}
	return &LogoService{repo: repo, source: source, images: images, prefix: prefix, workers: workers, logger: logger}
}

// BuildMap indexes every stored image under its slug and its display name,
// then writes the map. When two files share a key the first by name wins.
func (s *LogoService) BuildMap(ctx context.Context) (logo.Lookup, error) {
	files, err := s.repo.ListImages(ctx)
	if err != nil {
		return nil, crerr.Wrap(err, "list logo images")
	}

	lookup := make(logo.Lookup, len(files)*2)
	for _, file := range files {
		stem := strings.TrimSuffix(file, path.Ext(file))
		public := s.prefix + "/" + file
		for _, key := range []string{logo.Slugify(stem), strings.ToLower(logo.DisplayName(stem))} {
			if key == "" {
				continue
			}
			if _, exists := lookup[key]; !exists {
				lookup[key] = public
			}
		}
	}

	if err := s.repo.SaveMap(ctx, lookup); err != nil {
		return nil, crerr.Wrap(err, "save logo map")
	}
	s.logger.InfoContext(ctx, "logo map written", "images", len(files), "keys", len(lookup))
	return lookup, nil
}

type harvestTask struct {
	league string
	team   logo.Team
	slug   string
}

// Harvest downloads missing badges for leagues. A league that cannot be
// listed is reported and skipped; it does not fail the harvest.
func (s *LogoService) Harvest(ctx context.Context, leagues []string) (HarvestResult, error) {
	if s.source == nil || s.images == nil {
		return HarvestResult{}, crerr.Wrap(ErrInvalidInput, "team source and image fetcher are required")
	}
	ctx, span := startSpan(ctx, "usecase.LogoService.Harvest", attribute.Int("harvest.leagues", len(leagues)))
	defer span.End()

	result := HarvestResult{Leagues: dedupeLeagues(leagues), Tasks: []HarvestTaskResult{}}

	seen := make(map[string]struct{}, 256)
	tasks := make([]harvestTask, 0, 256)
	for _, league := range result.Leagues {
		teams, err := s.source.TeamsByLeague(ctx, league)
		if err != nil {
			s.logger.WarnContext(ctx, "list league teams failed, skipping league", "league", league, "error", err)
			result.FailedLeagues = append(result.FailedLeagues, league)
			continue
		}
		for _, team := range teams {
			slug := logo.Slugify(logo.CleanTeamName(team.Name))
			if slug == "" {
				continue
			}
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			tasks = append(tasks, harvestTask{league: league, team: team, slug: slug})
		}
	}

	results := make(chan HarvestTaskResult, len(tasks))
	var downloaded, skipped, failed atomic.Int32

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return HarvestResult{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var workers sync.WaitGroup
	var submitErr error
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.harvestOne(ctx, task)
			switch row.Status {
			case harvestStatusDownloaded:
				downloaded.Add(1)
			case harvestStatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			submitErr = crerr.Wrap(err, "submit task to worker pool")
			break
		}
	}

	workers.Wait()
	close(results)
	if submitErr != nil {
		return HarvestResult{}, submitErr
	}

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].League != result.Tasks[j].League {
			return result.Tasks[i].League < result.Tasks[j].League
		}
		return result.Tasks[i].Team < result.Tasks[j].Team
	})

	result.DownloadedCount = int(downloaded.Load())
	result.SkippedCount = int(skipped.Load())
	result.FailedCount = int(failed.Load())

	span.SetAttributes(
		attribute.Int("harvest.downloaded", result.DownloadedCount),
		attribute.Int("harvest.failed", result.FailedCount),
	)
	s.logger.InfoContext(ctx, "logo harvest completed",
		"leagues", len(result.Leagues),
		"failed_leagues", len(result.FailedLeagues),
		"downloaded", result.DownloadedCount,
		"skipped", result.SkippedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *LogoService) harvestOne(ctx context.Context, task harvestTask) HarvestTaskResult {
	start := time.Now()
	row := HarvestTaskResult{League: task.league, Team: task.team.Name}
	defer func() {
		row.DurationMs = time.Since(start).Milliseconds()
	}()

	exists, err := s.repo.HasImage(ctx, task.slug)
	if err != nil {
		row.Status, row.Message = harvestStatusFailed, err.Error()
		return row
	}
	if exists {
		row.Status = harvestStatusSkipped
		return row
	}

	data, ext, err := s.images.FetchImage(ctx, task.team.BadgeURL)
	if err != nil {
		s.logger.DebugContext(ctx, "badge download failed", "team", task.team.Name, "error", err)
		row.Status, row.Message = harvestStatusFailed, err.Error()
		return row
	}

	row.File = task.slug + ext
	if err := s.repo.SaveImage(ctx, row.File, data); err != nil {
		row.Status, row.Message = harvestStatusFailed, err.Error()
		return row
	}
	row.Status = harvestStatusDownloaded
	return row
}

func dedupeLeagues(leagues []string) []string {
	if len(leagues) == 0 {
		leagues = logo.DefaultHarvestLeagues
	}
	seen := make(map[string]struct{}, len(leagues))
	out := make([]string, 0, len(leagues))
	for _, league := range leagues {
		league = strings.TrimSpace(league)
		key := strings.ToLower(league)
		if league == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, league)
	}
	return out
}
