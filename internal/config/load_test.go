package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_PORT",
	"SERVER_LOG_LEVEL",
	"UPDATER_WORKER_COUNT",
	"UPDATER_QUEUE_SIZE",
	"UPDATER_MIN_DELAY",
	"UPDATER_MAX_DELAY",
	"UPDATER_DEADLINE",
	"UPDATER_RATE_LIMIT",
	"UPDATER_RATE_BURST",
}

// cleanEnv blanks every TASKTRACKER_ variable, then applies overrides.
// Viper treats empty variables as unset.
func cleanEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(EnvPrefix+"_"+key, "")
	}
	for key, value := range overrides {
		t.Setenv(EnvPrefix+"_"+key, value)
	}
}

// inDir runs the rest of the test with dir as working directory.
func inDir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	cleanEnv(t, nil)
	inDir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ServerConfig{Port: 8080, LogLevel: "info"}, cfg.Server)
	assert.Equal(t, UpdaterConfig{
		WorkerCount: 4,
		QueueSize:   64,
		MinDelay:    time.Second,
		MaxDelay:    3 * time.Second,
		RateBurst:   1,
	}, cfg.Updater)
}

func TestLoad_Env(t *testing.T) {
	cleanEnv(t, map[string]string{
		"SERVER_PORT":          "9090",
		"SERVER_LOG_LEVEL":     "debug",
		"UPDATER_WORKER_COUNT": "16",
		"UPDATER_MIN_DELAY":    "10ms",
		"UPDATER_MAX_DELAY":    "250ms",
		"UPDATER_DEADLINE":     "30s",
		"UPDATER_RATE_LIMIT":   "12.5",
		"UPDATER_RATE_BURST":   "5",
	})
	inDir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 16, cfg.Updater.WorkerCount)
	assert.Equal(t, 64, cfg.Updater.QueueSize, "unset keys keep their defaults")
	assert.Equal(t, 10*time.Millisecond, cfg.Updater.MinDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Updater.MaxDelay)
	assert.Equal(t, 30*time.Second, cfg.Updater.Deadline)
	assert.InDelta(t, 12.5, cfg.Updater.RateLimit, 1e-9)
	assert.Equal(t, 5, cfg.Updater.RateBurst)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: 7070\nupdater:\n  worker_count: 2\n  max_delay: 500ms\n  min_delay: 0s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cleanEnv(t, map[string]string{"UPDATER_WORKER_COUNT": "8"})
	inDir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Updater.WorkerCount, "environment wins over the file")
	assert.Zero(t, cfg.Updater.MinDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Updater.MaxDelay)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0o600))

	cleanEnv(t, nil)
	inDir(t, dir)

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
	assert.Nil(t, cfg)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]struct {
		env     map[string]string
		wantErr string
	}{
		"port out of range":      {map[string]string{"SERVER_PORT": "999999"}, "config validation failed"},
		"unknown log level":      {map[string]string{"SERVER_LOG_LEVEL": "verbose"}, "config validation failed"},
		"no workers":             {map[string]string{"UPDATER_WORKER_COUNT": "0"}, "config validation failed"},
		"no queue":               {map[string]string{"UPDATER_QUEUE_SIZE": "0"}, "config validation failed"},
		"max below min":          {map[string]string{"UPDATER_MIN_DELAY": "2s", "UPDATER_MAX_DELAY": "1s"}, "config validation failed"},
		"negative deadline":      {map[string]string{"UPDATER_DEADLINE": "-1s"}, "config validation failed"},
		"negative rate":          {map[string]string{"UPDATER_RATE_LIMIT": "-3"}, "config validation failed"},
		"unparseable duration":   {map[string]string{"UPDATER_MIN_DELAY": "soon"}, "failed to unmarshal config"},
		"unparseable worker num": {map[string]string{"UPDATER_WORKER_COUNT": "many"}, "failed to unmarshal config"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cleanEnv(t, tc.env)
			inDir(t, t.TempDir())

			cfg, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Nil(t, cfg)
		})
	}
}
