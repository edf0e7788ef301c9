package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumper/internal/app"
	"thumper/pkg/config"
)

func newPurgeURLCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "purge-url <url>",
		Short: "Purge a URL from the CDN cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			bindEnv(v, "api-key", "THUMPER_API_KEY")

			cfg, err := config.ResolvePurgeConfig(v)
			if err != nil {
				return &UsageError{Err: err}
			}

			return app.RunPurgeURL(cmd.Context(), cfg.APIKey, args[0])
		},
	}

	cmd.Flags().String("api-key", "", "API key for the CDN (env THUMPER_API_KEY)")
	return cmd
}

func newPurgeZoneCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "purge-zone <pullzone>",
		Short: "Purge an entire pull zone from the CDN cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pullZoneID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return &UsageError{Err: fmt.Errorf("pullzone must be numeric: %w", err)}
			}

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			bindEnv(v, "api-key", "THUMPER_API_KEY")

			cfg, err := config.ResolvePurgeConfig(v)
			if err != nil {
				return &UsageError{Err: err}
			}

			return app.RunPurgeZone(cmd.Context(), cfg.APIKey, pullZoneID, v.GetString("cache-tag"))
		},
	}

	cmd.Flags().String("api-key", "", "API key for the CDN (env THUMPER_API_KEY)")
	cmd.Flags().String("cache-tag", "", "optional cache tag to target")
	return cmd
}
