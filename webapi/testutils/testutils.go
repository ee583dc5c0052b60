// Package testutils builds fully wired HTTP apps for handler and end-to-end tests.
package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/infra"
	infra_eventbus "github.com/amirasaad/goldvault/infra/eventbus"
	infra_provider "github.com/amirasaad/goldvault/infra/provider"
	infra_repository "github.com/amirasaad/goldvault/infra/repository"
	"github.com/amirasaad/goldvault/pkg/app"
	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/amirasaad/goldvault/pkg/metrics"
	"github.com/amirasaad/goldvault/pkg/provider"
	"github.com/amirasaad/goldvault/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Response mirrors common.Response with the data left raw for typed decoding.
type Response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// StubOracle quotes Price, or fails with Err when set.
type StubOracle struct {
	Price money.Price
	Err   error
}

// CurrentPrice implements provider.PriceOracle.
func (o *StubOracle) CurrentPrice(context.Context) (*provider.Quote, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	return &provider.Quote{PricePerGram: o.Price, AsOf: time.Now().UTC(), Source: o.Name()}, nil
}

// Name implements provider.PriceOracle.
func (o *StubOracle) Name() string { return "stub" }

// Config returns an application config suitable for tests. Rate limiting is
// disabled.
func Config() *config.App {
	return &config.App{
		Env:  "test",
		Auth: &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		Ledger: &config.Ledger{
			Currency:      "LKR",
			MinInvestment: "100",
			MinSell:       "0.001",
			MaxDeposit:    "1000000",
			MaxRetries:    3,
			PageSize:      2,
		},
		Oracle:    &config.Oracle{HTTPTimeout: time.Second},
		RateLimit: &config.RateLimit{},
	}
}

// Harness is a wired HTTP app plus the pieces tests inspect.
type Harness struct {
	App    *fiber.App
	Core   *app.App
	Bus    *infra_eventbus.MemoryEventBus
	Oracle *StubOracle
}

// NewHarness wires an app on a private in-memory sqlite database.
func NewHarness(tb testing.TB, cfg *config.App) *Harness {
	tb.Helper()
	db, err := infra.OpenSQLite(":memory:", nil)
	require.NoError(tb, err)
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewHarnessWithDB(tb, db, cfg)
}

// NewHarnessWithDB wires an app on db, which must already carry the schema.
func NewHarnessWithDB(tb testing.TB, db *gorm.DB, cfg *config.App) *Harness {
	tb.Helper()
	if cfg == nil {
		cfg = Config()
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infra_eventbus.NewWithMemory(logger)
	oracle := &StubOracle{Price: money.MustPrice("20000")}
	registry := prometheus.NewRegistry()
	deps := config.Deps{
		Uow:         infra_repository.NewUoW(db),
		PriceOracle: oracle,
		EventBus:    bus,
		Logger:      logger,
		Metrics:     metrics.NewLedger(registry),
	}
	core, err := app.New(deps, cfg)
	require.NoError(tb, err)
	return &Harness{
		App:    webapi.SetupApp(core, registry),
		Core:   core,
		Bus:    bus,
		Oracle: oracle,
	}
}

// Token signs a bearer token for userID.
func (h *Harness) Token(tb testing.TB, userID uuid.UUID) string {
	tb.Helper()
	token, err := h.Core.AuthService.GenerateToken(userID)
	require.NoError(tb, err)
	return token
}

// Do performs a request against the app.
func (h *Harness) Do(tb testing.TB, method, path, body, token string) *http.Response {
	tb.Helper()
	return MakeRequestWithApp(tb, h.App, method, path, body, token)
}

// OpenAccount creates an account for a fresh user and returns its ID and the
// user's token.
func (h *Harness) OpenAccount(tb testing.TB) (accountID string, token string) {
	tb.Helper()
	token = h.Token(tb, uuid.New())
	resp := h.Do(tb, http.MethodPost, "/account", "", token)
	require.Equal(tb, http.StatusCreated, resp.StatusCode)
	var acc struct {
		ID string `json:"id"`
	}
	DecodeData(tb, resp, &acc)
	return acc.ID, token
}

// MakeRequestWithApp is a helper for making HTTP requests in tests.
func MakeRequestWithApp(tb testing.TB, app *fiber.App, method, path, body, token string) *http.Response {
	tb.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// DecodeData decodes a success envelope and unmarshals its data into out.
func DecodeData(tb testing.TB, resp *http.Response, out any) Response {
	tb.Helper()
	var env Response
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(tb, json.Unmarshal(env.Data, out))
	}
	return env
}

// Problem is the decoded form of an RFC 9457 error response.
type Problem struct {
	Title  string          `json:"title"`
	Status int             `json:"status"`
	Detail string          `json:"detail"`
	Errors json.RawMessage `json:"errors"`
}

// DecodeProblem decodes a problem details response.
func DecodeProblem(tb testing.TB, resp *http.Response) Problem {
	tb.Helper()
	require.Equal(tb, "application/problem+json", resp.Header.Get("Content-Type"))
	var p Problem
	require.NoError(tb, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

// E2ETestSuite runs the HTTP app against a real Postgres database started
// with Testcontainers and migrated with the production migrations.
type E2ETestSuite struct {
	suite.Suite
	pgContainer *tcpostgres.PostgresContainer
	db          *gorm.DB
	*Harness
}

// SetupSuite starts Postgres and wires the app. The suite is skipped when
// Docker is unavailable.
func (s *E2ETestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping postgres suite in short mode")
	}
	ctx := context.Background()
	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		s.T().Skipf("postgres container unavailable: %v", err)
	}
	s.pgContainer = pg

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = infra.NewDBConnection(config.DB{Url: dsn}, "test")
	s.Require().NoError(err)
	s.Require().NoError(infra.Migrate(s.db, "file://"+migrationsPath()))

	s.Harness = NewHarnessWithDB(s.T(), s.db, Config())
}

// TearDownSuite cleans up the test suite resources.
func (s *E2ETestSuite) TearDownSuite() {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(context.Background())
	}
}

func migrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "../../internal/migrations")
}
