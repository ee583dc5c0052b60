package initializer

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	infra_eventbus "github.com/amirasaad/goldvault/infra/eventbus"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/eventbus"
)

// initEventBus picks the transport named by EVENT_BUS_KIND. A broker that
// cannot be reached at startup falls back to the in-memory bus so the ledger
// keeps serving; a missing address is a configuration error.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, io.Closer, error) {
	busCfg := cfg.EventBus
	if busCfg == nil {
		busCfg = &config.EventBus{}
	}
	kind := strings.ToLower(strings.TrimSpace(busCfg.Kind))

	switch kind {
	case "", "memory":
		return infra_eventbus.NewWithMemory(logger), nil, nil
	case "redis":
		url := ""
		if cfg.Redis != nil {
			url = cfg.Redis.URL
		}
		if url == "" {
			return nil, nil, fmt.Errorf("redis event bus requires REDIS_URL")
		}
		bus, err := infra_eventbus.NewWithRedis(url, busCfg.Stream, busCfg.Group, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil, nil
		}
		return bus, bus, nil
	case "kafka":
		if strings.TrimSpace(busCfg.Brokers) == "" {
			return nil, nil, fmt.Errorf("kafka event bus requires EVENT_BUS_BROKERS")
		}
		bus, err := infra_eventbus.NewWithKafka(*busCfg, logger)
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil, nil
		}
		return bus, bus, nil
	}
	return nil, nil, fmt.Errorf("unsupported event bus kind %q", busCfg.Kind)
}
