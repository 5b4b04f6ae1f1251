package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("RULES_URL", "http://content.example/rules.json")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./minaret.db", cfg.StorePath)
	assert.Equal(t, "main-hall", cfg.ScreenID)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Empty(t, cfg.MQTTBroker)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("REFRESH_INTERVAL", "30m")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ServerAddress)
	assert.Equal(t, 30*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("RULES_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("RULES_URL", "http://content.example/rules.json")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadBadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)
}
