package initializer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	infra_eventbus "github.com/amirasaad/goldvault/infra/eventbus"
	infra_provider "github.com/amirasaad/goldvault/infra/provider"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.App {
	return &config.App{
		Env: "test",
		Log: &config.Log{Format: "json", TimeFormat: time.RFC3339},
		DB:  &config.DB{Url: "sqlite://:memory:"},
		Oracle: &config.Oracle{
			Kind:       "fixed",
			FixedPrice: "20000",
			CacheTTL:   time.Minute,
			CacheKind:  "memory",
		},
		EventBus: &config.EventBus{Kind: "memory"},
	}
}

func TestInitializeDependencies(t *testing.T) {
	var out bytes.Buffer
	deps, err := InitializeDependencies(testConfig(), &out)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, deps.Close()) })

	require.NotNil(t, deps.Uow)
	require.NotNil(t, deps.Metrics)
	require.NotNil(t, deps.Registry)
	assert.IsType(t, &infra_provider.Cached{}, deps.PriceOracle)

	q, err := deps.PriceOracle.CurrentPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "20000.00", q.PricePerGram.String())

	assert.IsType(t, &infra_eventbus.MemoryEventBus{}, deps.EventBus)
	assert.Contains(t, out.String(), "Dependencies initialized")
}

func TestInitializeDependencies_BadDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Url = "mysql://nope"
	_, err := InitializeDependencies(cfg, io.Discard)
	require.Error(t, err)
}

func TestInitOracle(t *testing.T) {
	logger := discardLogger()

	t.Run("fixed without cache", func(t *testing.T) {
		o, closeFn, err := initOracle(&config.Oracle{Kind: "fixed", FixedPrice: "123.456"}, nil, logger)
		require.NoError(t, err)
		require.NoError(t, closeFn())
		assert.IsType(t, &infra_provider.FixedPrice{}, o)
		q, err := o.CurrentPrice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "123.46", q.PricePerGram.String())
	})

	t.Run("sheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "prices.yaml")
		require.NoError(t, os.WriteFile(path, []byte("source: cbsl\nprices:\n  - as_of: 2024-01-01T00:00:00Z\n    price_per_gram: \"21000\"\n"), 0o600))
		o, _, err := initOracle(&config.Oracle{Kind: "sheet", SheetPath: path}, nil, logger)
		require.NoError(t, err)
		assert.Equal(t, "cbsl", o.Name())
	})

	tests := []struct {
		name string
		cfg  config.Oracle
	}{
		{"bad fixed price", config.Oracle{Kind: "fixed", FixedPrice: "-1"}},
		{"http without url", config.Oracle{Kind: "http"}},
		{"missing sheet", config.Oracle{Kind: "sheet", SheetPath: "/does/not/exist.yaml"}},
		{"unknown kind", config.Oracle{Kind: "carrier-pigeon"}},
		{"redis cache without url", config.Oracle{Kind: "fixed", FixedPrice: "1", CacheTTL: time.Second, CacheKind: "redis"}},
		{"unknown cache", config.Oracle{Kind: "fixed", FixedPrice: "1", CacheTTL: time.Second, CacheKind: "disk"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := initOracle(&tt.cfg, nil, logger)
			assert.Error(t, err)
		})
	}
}

func TestInitEventBus(t *testing.T) {
	logger := discardLogger()

	t.Run("defaults to memory", func(t *testing.T) {
		bus, closer, err := initEventBus(&config.App{EventBus: &config.EventBus{}}, logger)
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
	})

	t.Run("redis requires url", func(t *testing.T) {
		_, _, err := initEventBus(&config.App{
			Redis:    &config.Redis{},
			EventBus: &config.EventBus{Kind: "redis", Stream: "s", Group: "g"},
		}, logger)
		assert.Error(t, err)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		bus, _, err := initEventBus(&config.App{
			Redis:    &config.Redis{URL: "redis://127.0.0.1:1"},
			EventBus: &config.EventBus{Kind: "redis", Stream: "s", Group: "g"},
		}, logger)
		require.NoError(t, err)
		assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
	})

	t.Run("kafka requires brokers", func(t *testing.T) {
		_, _, err := initEventBus(&config.App{EventBus: &config.EventBus{Kind: "kafka"}}, logger)
		assert.Error(t, err)
	})

	t.Run("unreachable kafka falls back to memory", func(t *testing.T) {
		bus, _, err := initEventBus(&config.App{EventBus: &config.EventBus{Kind: "kafka", Brokers: "127.0.0.1:1"}}, logger)
		require.NoError(t, err)
		assert.IsType(t, &infra_eventbus.MemoryEventBus{}, bus)
	})

	t.Run("unsupported kind", func(t *testing.T) {
		_, _, err := initEventBus(&config.App{EventBus: &config.EventBus{Kind: "nope"}}, logger)
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger := NewLogger(&config.Log{Format: "json", Level: int(slog.LevelInfo)}, &out)
	logger.Debug("hidden")
	logger.Info("shown", "op", "invest")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"op":"invest"`)
}
