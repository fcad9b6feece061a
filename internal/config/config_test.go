package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PauloAdam/consulta-produto-estoque/internal/products"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("BLING_CLIENT_ID", "id")
	t.Setenv("BLING_CLIENT_SECRET", "secret")
	t.Setenv("BLING_REFRESH_TOKEN", "rt")
}

func TestLoadFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, ":3000", cfg.HTTPServer.Address)
	assert.Equal(t, "https://api.bling.com.br/Api/v3", cfg.Bling.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Bling.Timeout)
	assert.Equal(t, 1, cfg.Bling.GTINLimit)
	assert.False(t, cfg.Lookup.GTINOnly)
	assert.Equal(t, products.FieldsFull, cfg.Lookup.Fields)
	assert.Equal(t, []string{"*"}, cfg.HTTPServer.CORSOrigins)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("BLING_ID_DEPOSITO", "14887164")
	t.Setenv("LOOKUP_GTIN_ONLY", "true")
	t.Setenv("LOOKUP_FIELDS", "compact")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTPServer.Address)
	assert.Equal(t, "14887164", cfg.Bling.DepositID)
	assert.True(t, cfg.Lookup.GTINOnly)
	assert.Equal(t, products.FieldsCompact, cfg.Lookup.Fields)
}

func TestLoadRequiresCredentials(t *testing.T) {
	for _, key := range []string{"BLING_CLIENT_ID", "BLING_CLIENT_SECRET", "BLING_REFRESH_TOKEN"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	_, err := Load("")

	assert.Error(t, err)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LOOKUP_FIELDS", "everything")

	_, err := Load("")

	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: prod
http_server:
  address: "127.0.0.1:9000"
bling:
  client_id: file-id
  client_secret: file-secret
  refresh_token: file-rt
  deposit_id: "77"
  timeout: 10s
lookup:
  gtin_only: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPServer.Address)
	assert.Equal(t, "file-id", cfg.Bling.ClientID)
	assert.Equal(t, "77", cfg.Bling.DepositID)
	assert.Equal(t, 10*time.Second, cfg.Bling.Timeout)
	assert.True(t, cfg.Lookup.GTINOnly)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BLING_ID_DEPOSITO=\"unterminated\n"), 0o644))
	chdir(t, dir)

	_, err := Load("")

	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BLING_ID_DEPOSITO", "")
	require.NoError(t, os.Unsetenv("BLING_ID_DEPOSITO"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BLING_ID_DEPOSITO=321\n"), 0o644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "321", cfg.Bling.DepositID)
}

func TestWriteTimeoutCoversLookupBudget(t *testing.T) {
	cfg := Config{
		HTTPServer: HTTPServer{Timeout: 20 * time.Second},
		Lookup:     Lookup{Timeout: 25 * time.Second},
	}
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout())

	cfg.HTTPServer.Timeout = time.Minute
	assert.Equal(t, time.Minute, cfg.WriteTimeout())
}

func TestLoadDefaultsWriteTimeoutAboveLookup(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 25*time.Second, cfg.Lookup.Timeout)
	assert.Greater(t, cfg.WriteTimeout(), cfg.Lookup.Timeout)
}

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
