package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

// Config stores runtime configuration for one sitegen run.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level
	LogFile        logging.FileOptions

	SiteConfigPath   string
	OutputPath       string
	TemplatePath     string
	SiteOutDir       string
	LogoDir          string
	LogoMapPath      string
	LogoPublicPrefix string

	StreamedURL      string
	TopEmbedURL      string
	FeedTimeout      time.Duration
	FeedMaxRetries   int
	Region           string
	WildcardCategory string
	HypeEnabled      bool

	RenderWorkers  int
	HarvestWorkers int

	TSDBBaseURL             string
	TSDBAPIKey              string
	TSDBTimeout             time.Duration
	TSDBCircuitEnabled      bool
	TSDBCircuitFailureCount int
	TSDBCircuitOpenTimeout  time.Duration

	PushgatewayURL string
	UptraceEnabled bool
	UptraceDSN     string
}

func Load() (Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logMaxSize, err := getEnvAsInt("LOG_MAX_SIZE_MB", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_MAX_SIZE_MB: %w", err)
	}
	logMaxBackups, err := getEnvAsInt("LOG_MAX_BACKUPS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_MAX_BACKUPS: %w", err)
	}
	logMaxAge, err := getEnvAsInt("LOG_MAX_AGE_DAYS", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_MAX_AGE_DAYS: %w", err)
	}
	if logMaxSize <= 0 || logMaxBackups < 0 || logMaxAge <= 0 {
		return Config{}, fmt.Errorf("LOG_MAX_SIZE_MB and LOG_MAX_AGE_DAYS must be > 0, LOG_MAX_BACKUPS must be >= 0")
	}

	feedTimeout, err := time.ParseDuration(getEnv("FEED_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_TIMEOUT: %w", err)
	}
	if feedTimeout < time.Second || feedTimeout > time.Minute {
		return Config{}, fmt.Errorf("FEED_TIMEOUT must be between 1s and 1m")
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	if feedMaxRetries < 0 || feedMaxRetries > 1 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be 0 or 1")
	}

	hypeEnabled, err := strconv.ParseBool(getEnv("HYPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HYPE_ENABLED: %w", err)
	}

	renderWorkers, err := getEnvAsInt("RENDER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDER_WORKERS: %w", err)
	}
	if renderWorkers < 1 {
		return Config{}, fmt.Errorf("RENDER_WORKERS must be >= 1")
	}
	harvestWorkers, err := getEnvAsInt("HARVEST_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse HARVEST_WORKERS: %w", err)
	}
	if harvestWorkers < 1 {
		return Config{}, fmt.Errorf("HARVEST_WORKERS must be >= 1")
	}

	tsdbTimeout, err := time.ParseDuration(getEnv("TSDB_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TSDB_TIMEOUT: %w", err)
	}
	if tsdbTimeout <= 0 {
		return Config{}, fmt.Errorf("TSDB_TIMEOUT must be > 0")
	}
	tsdbCircuitEnabled, err := strconv.ParseBool(getEnv("TSDB_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TSDB_CIRCUIT_ENABLED: %w", err)
	}
	tsdbCircuitFailureCount, err := getEnvAsInt("TSDB_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse TSDB_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if tsdbCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("TSDB_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	tsdbCircuitOpenTimeout, err := time.ParseDuration(getEnv("TSDB_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TSDB_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if tsdbCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("TSDB_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	region := strings.ToUpper(strings.TrimSpace(getEnv("REGION", "")))
	if region != "" && len(region) != 2 {
		return Config{}, fmt.Errorf("invalid REGION %q: expected a two letter country code", region)
	}

	return Config{
		AppEnv:         appEnv,
		ServiceName:    strings.TrimSpace(getEnv("SERVICE_NAME", "sportstream-sitegen")),
		ServiceVersion: strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile: logging.FileOptions{
			Path:       strings.TrimSpace(getEnv("LOG_FILE", "")),
			MaxSizeMB:  logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAgeDays: logMaxAge,
		},

		SiteConfigPath:   getEnv("SITE_CONFIG_PATH", "data/config.json"),
		OutputPath:       getEnv("OUTPUT_PATH", "data/matches.json"),
		TemplatePath:     getEnv("TEMPLATE_PATH", "assets/master_template.html"),
		SiteOutDir:       getEnv("SITE_OUT_DIR", "."),
		LogoDir:          getEnv("LOGO_DIR", "assets/logos"),
		LogoMapPath:      getEnv("LOGO_MAP_PATH", "assets/data/image_map.json"),
		LogoPublicPrefix: strings.TrimRight(getEnv("LOGO_PUBLIC_PREFIX", "/assets/logos"), "/"),

		StreamedURL:      strings.TrimSpace(getEnv("STREAMED_URL", "")),
		TopEmbedURL:      strings.TrimSpace(getEnv("TOPEMBED_URL", "")),
		FeedTimeout:      feedTimeout,
		FeedMaxRetries:   feedMaxRetries,
		Region:           region,
		WildcardCategory: strings.TrimSpace(getEnv("WILDCARD_CATEGORY", "")),
		HypeEnabled:      hypeEnabled,

		RenderWorkers:  renderWorkers,
		HarvestWorkers: harvestWorkers,

		TSDBBaseURL:             strings.TrimRight(strings.TrimSpace(getEnv("TSDB_BASE_URL", "https://www.thesportsdb.com/api/v1/json")), "/"),
		TSDBAPIKey:              strings.TrimSpace(getEnv("TSDB_API_KEY", "123")),
		TSDBTimeout:             tsdbTimeout,
		TSDBCircuitEnabled:      tsdbCircuitEnabled,
		TSDBCircuitFailureCount: tsdbCircuitFailureCount,
		TSDBCircuitOpenTimeout:  tsdbCircuitOpenTimeout,

		PushgatewayURL: strings.TrimSpace(getEnv("PUSHGATEWAY_URL", "")),
		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,
	}, nil
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is fine.
func loadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return crerr.Wrapf(err, "stat %s", path)
	}
	if err := godotenv.Load(path); err != nil {
		return crerr.Wrapf(err, "load %s", path)
	}
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
