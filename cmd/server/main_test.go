package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Scheme: "http", Host: "127.0.0.1", Port: 0},
		Log:       &config.Log{Format: "text"},
		DB:        &config.DB{Url: "sqlite://:memory:"},
		Auth:      &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "s3cret", Expiry: time.Hour}},
		RateLimit: &config.RateLimit{MaxRequests: 100, Window: time.Minute},
		Ledger: &config.Ledger{
			Currency:      "LKR",
			MinInvestment: "100",
			MinSell:       "0.001",
			MaxDeposit:    "1000000",
			MaxRetries:    3,
			PageSize:      50,
		},
		Oracle:   &config.Oracle{Kind: "fixed", FixedPrice: "20000"},
		EventBus: &config.EventBus{Kind: "memory"},
	}
}

func TestBuild(t *testing.T) {
	app, closeDeps, err := build(testConfig(), io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, closeDeps()) })

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/account", http.StatusBadRequest},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(tt.method, tt.path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, tt.status, resp.StatusCode, "%s %s", tt.method, tt.path)
	}
}

func TestBuildRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Oracle.Kind = "crystal-ball"
	_, _, err := build(cfg, io.Discard)
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, testConfig(), io.Discard) }()

	time.Sleep(200 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
