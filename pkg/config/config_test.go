package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amirasaad/goldvault/pkg/domain/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "LKR", cfg.Ledger.Currency)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, "fixed", cfg.Oracle.Kind)
	assert.Equal(t, "memory", cfg.EventBus.Kind)

	limits, err := cfg.Ledger.Limits()
	require.NoError(t, err)
	assert.True(t, limits.MinInvestment.Equal(money.MustMoney("100")))
	assert.True(t, limits.MinSell.Equal(money.MustGrams("0.001")))
	assert.True(t, limits.MaxDeposit.Equal(money.MustMoney("1000000")))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_JWT_SECRET=file-secret\nLEDGER_MAX_DEPOSIT=500\n"), 0o600))
	t.Chdir(dir)
	// godotenv never overrides existing variables; make sure t.Setenv restores them.
	t.Setenv("AUTH_JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("AUTH_JWT_SECRET"))
	t.Setenv("LEDGER_MAX_DEPOSIT", "")
	require.NoError(t, os.Unsetenv("LEDGER_MAX_DEPOSIT"))

	cfg, err := Load(".env.test")
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.Auth.Jwt.Secret)
	assert.Equal(t, "500", cfg.Ledger.MaxDeposit)
}

func TestLoad_RejectsBadLimits(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("LEDGER_MIN_INVESTMENT", "1.001")

	_, err := Load("does-not-exist.env")
	assert.ErrorIs(t, err, money.ErrTooPrecise)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****5432", maskValue("postgres://x@h:5432"))
}

func TestLoad_EarlierFilesWin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.env"), []byte("LEDGER_CURRENCY=USD\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shared.env"), []byte("LEDGER_CURRENCY=EUR\nAUTH_JWT_SECRET=shared\n"), 0o600))
	t.Chdir(dir)
	for _, key := range []string{"LEDGER_CURRENCY", "AUTH_JWT_SECRET"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load("missing.env", "local.env", "shared.env")
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Ledger.Currency)
	assert.Equal(t, "shared", cfg.Auth.Jwt.Secret)
}

func TestLoad_RejectsUnparsableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_JWT_SECRET='unterminated\n"), 0o600))
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindEnvFile(t *testing.T) {
	_, err := FindEnvFile("definitely-missing.env")
	assert.ErrorIs(t, err, os.ErrNotExist)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("X=1\n"), 0o600))
	module := filepath.Join(root, "module")
	nested := filepath.Join(module, "pkg", "config")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(module, "go.mod"), []byte("module example\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(module, "ledger.env"), []byte("X=2\n"), 0o600))
	t.Chdir(nested)

	found, err := FindEnvFile("ledger.env")
	require.NoError(t, err)
	assert.Equal(t, "ledger.env", filepath.Base(found))
	assert.Equal(t, "module", filepath.Base(filepath.Dir(found)))

	_, err = FindEnvFile(".env")
	assert.ErrorIs(t, err, os.ErrNotExist, "search stops at the module root")

	abs := filepath.Join(module, "ledger.env")
	found, err = FindEnvFile(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, found)
}
