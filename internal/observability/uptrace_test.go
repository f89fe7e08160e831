package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sportstream/internal/config"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

func TestInitTracingDisabled(t *testing.T) {
	t.Parallel()

	cases := map[string]config.Config{
		"flag off":  {UptraceEnabled: false, ServiceName: "sportstream-sitegen", AppEnv: config.EnvDev},
		"empty dsn": {UptraceEnabled: true, UptraceDSN: "  ", ServiceName: "sportstream-sitegen", AppEnv: config.EnvDev},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			shutdown, err := InitTracing(cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("init tracing: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}

func TestResourceAttributes(t *testing.T) {
	t.Parallel()

	attrs := resourceAttributes(config.Config{SiteConfigPath: "data/config.json", Region: "UK", HypeEnabled: true})
	want := map[attribute.Key]string{
		"sitegen.site_config": "data/config.json",
		"sitegen.region":      "UK",
		"sitegen.hype":        "true",
	}
	if len(attrs) != len(want) {
		t.Fatalf("unexpected attribute count got=%d want=%d", len(attrs), len(want))
	}
	for _, kv := range attrs {
		if got := kv.Value.Emit(); got != want[kv.Key] {
			t.Fatalf("attribute %s got=%q want=%q", kv.Key, got, want[kv.Key])
		}
	}

	if attrs := resourceAttributes(config.Config{SiteConfigPath: "x.json"}); len(attrs) != 1 {
		t.Fatalf("region and hype must be omitted when unset: %v", attrs)
	}
}
