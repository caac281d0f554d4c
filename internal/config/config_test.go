package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
debug: true
listenAddr: ":8080"
mysql:
  host: "127.0.0.1"
  user: "union"
  database: "unionhub"
  poolLimit: 4
jwt:
  secret: "file-secret"
  tokenTTL: "2h"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o600))
	return filename
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "127.0.0.1", cfg.MySQL.Host)
	assert.Equal(t, DefaultDBPort, cfg.MySQL.Port)
	assert.Equal(t, 4, cfg.MySQL.PoolLimit)
	assert.Equal(t, 4, cfg.MySQL.MaxIdleConns)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptRounds)
	assert.Equal(t, []string{DefaultClientURL}, cfg.AllowOrigins)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "mysql.internal")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_POOL_LIMIT", "25")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("BCRYPT_ROUNDS", "12")
	t.Setenv("PORT", "9000")
	t.Setenv("CLIENT_URL", "https://admin.example.org")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "mysql.internal", cfg.MySQL.Host)
	assert.Equal(t, 3307, cfg.MySQL.Port)
	assert.Equal(t, 25, cfg.MySQL.PoolLimit)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 12, cfg.BcryptRounds)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, []string{"https://admin.example.org"}, cfg.AllowOrigins)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-only")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, "env-only", cfg.JWT.Secret)
}

func TestSanitizeRequiresSecret(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Sanitize())
}

func TestSanitizeRejectsBcryptRounds(t *testing.T) {
	cfg := Config{BcryptRounds: 40, JWT: JWTConfig{Secret: "x"}}
	assert.Error(t, cfg.Sanitize())
}
