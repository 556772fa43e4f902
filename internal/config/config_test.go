package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoList/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.RoutePrefix)
	assert.False(t, cfg.Server.CORS)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Repository.Type)
	assert.Equal(t, "todo.db", cfg.Repository.SQLitePath)
	assert.Equal(t, int32(10), cfg.Database.MaxConnections)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, ":3000", cfg.GetServerAddr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/todo")
	t.Setenv("TODO_SERVER_CORS", "true")
	t.Setenv("TODO_SERVER_ROUTE_PREFIX", "api/")
	t.Setenv("TODO_REPOSITORY_TYPE", "inmemory")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "postgres://u:p@db:5432/todo", cfg.Database.URL)
	assert.True(t, cfg.Server.CORS)
	assert.Equal(t, "/api", cfg.Server.RoutePrefix)
	assert.Equal(t, "inmemory", cfg.Repository.Type)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  host: 127.0.0.1
  route_prefix: /api
  rate_limit: 120
  shutdown_timeout: 5s
repository:
  type: sqlite
  sqlite_path: /tmp/tasks.db
logging:
  development: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.GetServerAddr())
	assert.Equal(t, "/api", cfg.Server.RoutePrefix)
	assert.Equal(t, 120, cfg.Server.RateLimit)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.Repository.Type)
	assert.Equal(t, "/tmp/tasks.db", cfg.Repository.SQLitePath)
	assert.True(t, cfg.Logging.Development)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9000\"\n")
	t.Setenv("PORT", "7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
		assert.Error(t, err)
	})

	t.Run("unknown repository", func(t *testing.T) {
		t.Setenv("TODO_REPOSITORY_TYPE", "mongo")
		_, err := config.Load("")
		assert.ErrorContains(t, err, "unknown repository type")
	})
}
