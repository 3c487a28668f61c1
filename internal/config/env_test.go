package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	type serverSection struct {
		Port int    `env:"TEST_SERVER_PORT"`
		Mode string `env:"TEST_SERVER_MODE"`
	}
	type testConfig struct {
		Server  serverSection
		Debug   bool          `env:"TEST_DEBUG"`
		MinCGPA float64       `env:"TEST_MIN_CGPA"`
		Timeout time.Duration `env:"TEST_TIMEOUT"`
		Keep    string        `env:"TEST_UNSET"`
	}

	t.Setenv("TEST_SERVER_PORT", "9090")
	t.Setenv("TEST_SERVER_MODE", "production")
	t.Setenv("TEST_DEBUG", "true")
	t.Setenv("TEST_MIN_CGPA", "6.5")
	t.Setenv("TEST_TIMEOUT", "45s")

	cfg := testConfig{Keep: "from-file"}
	require.NoError(t, applyEnvOverrides(&cfg))

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Mode)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 6.5, cfg.MinCGPA)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "from-file", cfg.Keep)
}

func TestApplyEnvOverridesRejectsBadValues(t *testing.T) {
	type testConfig struct {
		Port int `env:"TEST_BAD_PORT"`
	}

	t.Setenv("TEST_BAD_PORT", "not-a-number")

	err := applyEnvOverrides(&testConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_BAD_PORT")
}
