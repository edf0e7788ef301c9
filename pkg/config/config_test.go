package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSyncConfigDefaults(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "storage.bunnycdn.com")
	v.Set("access-key", "secret")
	v.Set("lockfile", ".bunnysync.lock")

	cfg, err := ResolveSyncConfig(v, "/var/www", "mysite")
	require.NoError(t, err)
	assert.Equal(t, "storage.bunnycdn.com", cfg.Endpoint)
	assert.Equal(t, "secret", cfg.AccessKey)
	assert.Equal(t, "/var/www", cfg.LocalPath)
	assert.Equal(t, "mysite", cfg.StorageZone)
}

func TestResolveSyncConfigMissingAccessKey(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "storage.bunnycdn.com")
	v.Set("lockfile", ".bunnysync.lock")

	_, err := ResolveSyncConfig(v, "/var/www", "mysite")
	assert.Error(t, err)
}

func TestResolvePurgeConfigRequiresAPIKey(t *testing.T) {
	v := viper.New()
	_, err := ResolvePurgeConfig(v)
	assert.Error(t, err)

	v.Set("api-key", "secret")
	cfg, err := ResolvePurgeConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.APIKey)
}
