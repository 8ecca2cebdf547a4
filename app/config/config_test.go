package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "wellness_log.json"), cfg.Wellness.LogFile)
	assert.Equal(t, "orders", cfg.Coffee.OrdersDir)
	assert.Equal(t, 6, cfg.Agent.MaxIterations)
	assert.Equal(t, 30*time.Second, cfg.Agent.TurnTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Coffee.Menu.Drinks)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
openai:
  base_url: "https://openrouter.ai/api/v1"
  model: "google/gemini-2.5-flash"
agent:
  max_iterations: 3
  turn_timeout: 10s
wellness:
  log_file: "var/log.json"
  lock: true
  moods: ["happy", "tired"]
coffee:
  orders_dir: "var/orders"
  menu:
    sizes: ["small", "medium", "large"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "google/gemini-2.5-flash", cfg.OpenAI.Model)
	assert.Equal(t, 3, cfg.Agent.MaxIterations)
	assert.Equal(t, 10*time.Second, cfg.Agent.TurnTimeout)
	assert.Equal(t, "var/log.json", cfg.Wellness.LogFile)
	assert.True(t, cfg.Wellness.Lock)
	assert.Equal(t, []string{"happy", "tired"}, cfg.Wellness.Moods)
	assert.Equal(t, "var/orders", cfg.Coffee.OrdersDir)
	assert.Equal(t, []string{"small", "medium", "large"}, cfg.Coffee.Menu.Sizes)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("openai:\n  base_url: \"not a url\"\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wellness: [\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}
