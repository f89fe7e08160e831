package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

// ShutdownFunc flushes exported spans. A sitegen run ends well before the
// batch span processor's interval, so callers must invoke it before exit.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTracing points the global OpenTelemetry tracer provider at Uptrace.
// Metrics stay on the prometheus registry, so the uptrace meter is disabled.
func InitTracing(cfg config.Config, logger *logging.Logger) (ShutdownFunc, error) {
	if logger == nil {
		logger = logging.Default()
	}

	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("tracing disabled", "reason", "UPTRACE_ENABLED=false")
		return noopShutdown, nil
	case dsn == "":
		logger.Info("tracing disabled", "reason", "UPTRACE_DSN empty")
		return noopShutdown, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
		uptrace.WithMetricsEnabled(false),
	)

	logger.Info("tracing enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown, nil
}

func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("sitegen.site_config", cfg.SiteConfigPath)}
	if region := strings.TrimSpace(cfg.Region); region != "" {
		attrs = append(attrs, attribute.String("sitegen.region", region))
	}
	if cfg.HypeEnabled {
		attrs = append(attrs, attribute.Bool("sitegen.hype", true))
	}
	return attrs
}
