package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
db:
  driver: SQLite
  path: /tmp/substances.db
gemini:
  api_key: "  secret  "
  model: gemini-2.5-flash
  timeout_seconds: 5
server:
  addr: ":9090"
log:
  level: debug
`)

	cfg, err := LoadConfig("", path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/substances.db", cfg.DB.Path)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout())
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, path, cfg.ConfigFile)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "db:\n  name: fromfile\n")
	t.Setenv("ENRICHER_DB_NAME", "fromenv")
	t.Setenv("ENRICHER_DB_PORT", "6543")

	cfg, err := LoadConfig("", path)
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.DB.Name)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "log:\n  level: info\n")
	envFile := writeFile(t, dir, ".env", "ENRICHER_GEMINI_API_KEY=from-dotenv\n")
	t.Cleanup(func() { os.Unsetenv("ENRICHER_GEMINI_API_KEY") })

	cfg, err := LoadConfig(envFile, path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Gemini.APIKey)
}

func TestLoadConfigMissingEnvFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Gemini.Model = "m"

	cfg.DB.Driver = "mysql"
	assert.ErrorContains(t, cfg.Validate(), "unsupported db.driver")

	cfg.DB.Driver = DriverPostgres
	assert.ErrorContains(t, cfg.Validate(), "db.name")

	cfg.DB.Name = "perfumery"
	assert.NoError(t, cfg.Validate())

	cfg.DB.Driver = DriverSQLite
	assert.ErrorContains(t, cfg.Validate(), "db.path")
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DBConfig
		want string
	}{
		{
			name: "full",
			cfg:  DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"},
			want: "postgres://u:p@db:5432/n?sslmode=disable",
		},
		{
			name: "empty password",
			cfg:  DBConfig{Host: "localhost", Port: 5432, User: "postgres", Name: "perfumery", SSLMode: "disable"},
			want: "postgres://postgres@localhost:5432/perfumery?sslmode=disable",
		},
		{
			name: "password needing escapes",
			cfg:  DBConfig{Host: "db", Port: 5432, User: "u", Password: "p w'@/", Name: "n"},
			want: "postgres://u:p%20w'%40%2F@db:5432/n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}
