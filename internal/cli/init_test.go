package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
	applog "fintrack/internal/log"
)

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-long-enough-test-secret")
	t.Setenv("DATA_BACKEND", "memory")

	var called bool
	cfg := LoadAndValidateConfig(applog.New(applog.DefaultConfig()), func(c *config.Config) error {
		called = true
		return nil
	})
	assert.True(t, called)
	assert.Equal(t, "memory", cfg.DataBackend)
}

func TestInitBackend(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Output: &buf})
	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: filepath.Join(t.TempDir(), "ledger.db")}

	res := InitBackend(context.Background(), logger, cfg)
	defer res.Cleanup()

	require.NoError(t, res.Ping(context.Background()))
	assert.Contains(t, buf.String(), "component=backend")
}
