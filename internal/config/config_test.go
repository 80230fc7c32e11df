package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SIM_WORKERS", "")
	t.Setenv("SIM_TIMEOUT_SECONDS", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Pretty)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SIM_WORKERS", "7")
	t.Setenv("SIM_TIMEOUT_SECONDS", "30")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")

	cfg := Load()

	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Pretty)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SIM_WORKERS", "not-a-number")
	t.Setenv("SIM_TIMEOUT_SECONDS", "later")

	cfg := Load()

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, time.Duration(0), cfg.Timeout)
}

func TestLoadNonPositiveWorkersFallsBack(t *testing.T) {
	t.Setenv("SIM_WORKERS", "-3")

	cfg := Load()

	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}
