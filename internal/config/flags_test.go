package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-a", "localhost:8080",
		"-ws", "ws://localhost:8080/ws",
		"-d", "vault.db",
		"-config", "cfg.json",
		"-request-timeout", "3s",
		"-renewal-lead", "30s",
		"-kdf-iterations", "20000",
		"-no-auto-connect",
		"submit", "-label", "notes",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.Adapter.WSAddress)
	assert.Equal(t, "vault.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Auth.RenewalLeadTime)
	assert.Equal(t, 20000, cfg.Crypto.KDFIterations)
	assert.True(t, cfg.Events.DisableAutoConnect)
	assert.Equal(t, []string{"submit", "-label", "notes"}, cfg.Args)
}

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Adapter.HTTPAddress)
	assert.Empty(t, cfg.Args)
}

func TestParseFlags_ShortConfigAlias(t *testing.T) {
	cfg, err := ParseFlags([]string{"-c", "short.json"})
	require.NoError(t, err)
	assert.Equal(t, "short.json", cfg.JSONFilePath)
}

func TestParseFlags_RepeatableCalls(t *testing.T) {
	_, err := ParseFlags([]string{"-a", "one:1"})
	require.NoError(t, err)
	cfg, err := ParseFlags([]string{"-a", "two:2"})
	require.NoError(t, err)
	assert.Equal(t, "two:2", cfg.Adapter.HTTPAddress)
}

func TestParseFlags_InvalidDuration(t *testing.T) {
	_, err := ParseFlags([]string{"-request-timeout", "fast"})
	assert.Error(t, err)
}
