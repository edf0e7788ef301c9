// Package config resolves and validates the configuration for each thumper
// subcommand from CLI flags and environment variables, via viper's
// flag+env binding and struct-tag validation.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// SyncConfig is the resolved, validated configuration for one `sync`
// invocation.
type SyncConfig struct {
	Endpoint      string `validate:"required"`
	AccessKey     string `validate:"required"`
	LocalPath     string `validate:"required"`
	StorageZone   string `validate:"required"`
	TargetSubPath string
	DryRun        bool
	Force         bool
	Lockfile      string `validate:"required"`
	Ignore        []string
	Verbose       bool
	Concurrency   int `validate:"min=0"`
}

// PurgeConfig is the resolved configuration shared by purge-url/purge-zone.
type PurgeConfig struct {
	APIKey string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ResolveSyncConfig binds sync flags via v (already populated by cobra's
// pflag set) plus the THUMPER_KEY environment fallback, then validates.
func ResolveSyncConfig(v *viper.Viper, localPath, storageZone string) (*SyncConfig, error) {
	cfg := &SyncConfig{
		Endpoint:      v.GetString("endpoint"),
		AccessKey:     v.GetString("access-key"),
		LocalPath:     localPath,
		StorageZone:   storageZone,
		TargetSubPath: v.GetString("path"),
		DryRun:        v.GetBool("dry-run"),
		Force:         v.GetBool("force"),
		Lockfile:      v.GetString("lockfile"),
		Ignore:        v.GetStringSlice("ignore"),
		Verbose:       v.GetBool("verbose"),
		Concurrency:   v.GetInt("concurrency"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid sync configuration: %w", err)
	}
	return cfg, nil
}

// ResolvePurgeConfig binds the API key from flag or environment fallback.
func ResolvePurgeConfig(v *viper.Viper) (*PurgeConfig, error) {
	cfg := &PurgeConfig{APIKey: v.GetString("api-key")}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid purge configuration: %w", err)
	}
	return cfg, nil
}
