package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	authsvc "github.com/amirasaad/goldvault/pkg/service/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(cfg *config.Jwt) *fiber.App {
	app := fiber.New()
	app.Use(JwtProtected(cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app
}

func TestJwtProtected(t *testing.T) {
	cfg := &config.Jwt{Secret: "secret", Expiry: time.Hour}
	app := protectedApp(cfg)

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "application/problem+json", resp.Header.Get(fiber.HeaderContentType))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := authsvc.New(cfg, nil).GenerateToken(uuid.New())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := authsvc.New(&config.Jwt{Secret: "other", Expiry: time.Hour}, nil).GenerateToken(uuid.New())
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestJwtError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.New("Missing or malformed JWT"), fiber.StatusBadRequest},
		{errors.New("any other error"), fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		app := fiber.New()
		app.Use(func(c *fiber.Ctx) error { return jwtError(c, tt.err) })
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tt.status, resp.StatusCode)
	}
}
