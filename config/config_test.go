package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvSourceBucket, "")
	t.Setenv(EnvForceUpdate, "")
	t.Setenv(EnvPort, "")

	cfg := LoadConfig()
	assert.Equal(t, "", cfg.DatabaseURL)
	assert.Equal(t, "", cfg.SourceBucket)
	assert.False(t, cfg.ForceUpdate)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "sqlite:media.db")
	t.Setenv(EnvSourceBucket, "photos-bucket")
	t.Setenv(EnvForceUpdate, "true")
	t.Setenv(EnvPort, "9090")

	cfg := LoadConfig()
	assert.Equal(t, "sqlite:media.db", cfg.DatabaseURL)
	assert.Equal(t, "photos-bucket", cfg.SourceBucket)
	assert.True(t, cfg.ForceUpdate)
	assert.Equal(t, 9090, cfg.Port)
}

func TestLoadConfigInvalidPortFallsBack(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")
	assert.Equal(t, 8080, LoadConfig().Port)

	t.Setenv(EnvPort, "-1")
	assert.Equal(t, 8080, LoadConfig().Port)
}

func TestGetEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "True", "yes"} {
		t.Setenv(EnvForceUpdate, v)
		assert.True(t, getEnvBool(EnvForceUpdate), v)
	}
	for _, v := range []string{"", "0", "false", "no", "y"} {
		t.Setenv(EnvForceUpdate, v)
		assert.False(t, getEnvBool(EnvForceUpdate), v)
	}
}
