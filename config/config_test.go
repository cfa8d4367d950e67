package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.True(t, config.Headless)
	assert.Equal(t, 30*time.Second, config.Timeout)
	assert.False(t, config.Debug)
	assert.Equal(t, "output", config.OutputDir)
	assert.Equal(t, "debug", config.DebugDir)
	assert.Equal(t, "https://score.golfdigest.co.jp/", config.BaseURL)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 1*time.Second, config.RetryWaitMin)
	assert.Equal(t, 5*time.Second, config.RetryWaitMax)
	assert.Equal(t, 1*time.Second, config.RequestInterval)
	assert.Equal(t, 5, config.MaxConsecutiveErrors)

	// Test with environment variables
	os.Setenv("GDO_HEADLESS", "false")
	os.Setenv("GDO_TIMEOUT_MS", "10000")
	os.Setenv("GDO_OUTPUT_DIR", "/tmp/scores")
	os.Setenv("GDO_MAX_RETRIES", "5")
	os.Setenv("GDO_MAX_CONSECUTIVE_ERRORS", "8")

	config = LoadConfig()
	assert.False(t, config.Headless)
	assert.Equal(t, 10*time.Second, config.Timeout)
	assert.Equal(t, "/tmp/scores", config.OutputDir)
	assert.Equal(t, 5, config.MaxRetries)
	assert.Equal(t, 8, config.MaxConsecutiveErrors)

	// Clean up
	os.Unsetenv("GDO_HEADLESS")
	os.Unsetenv("GDO_TIMEOUT_MS")
	os.Unsetenv("GDO_OUTPUT_DIR")
	os.Unsetenv("GDO_MAX_RETRIES")
	os.Unsetenv("GDO_MAX_CONSECUTIVE_ERRORS")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	config.LoginID = ""
	config.Password = ""
	assert.Error(t, config.Validate())

	config.LoginID = "user@example.com"
	assert.Error(t, config.Validate())

	config.Password = "secret"
	assert.NoError(t, config.Validate())

	config.MaxRetries = 0
	assert.Error(t, config.Validate())
}

func TestWithOverrides(t *testing.T) {
	base := LoadConfig()

	overridden := base.With(
		WithOutputDir("elsewhere"),
		WithHeadless(false),
		WithDebug(),
	)

	assert.Equal(t, "elsewhere", overridden.OutputDir)
	assert.False(t, overridden.Headless)
	assert.True(t, overridden.Debug)

	// The base config is not mutated
	assert.Equal(t, "output", base.OutputDir)
	assert.True(t, base.Headless)
	assert.False(t, base.Debug)
}
