package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thumper/internal/app"
	"thumper/pkg/config"
	"thumper/pkg/executor"
	"thumper/pkg/logger"
	"thumper/pkg/zoneclient"
)

func newSyncCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "sync [OPTIONS] <local_path> <storage_zone>",
		Short: "Sync a local folder to a path within a storage zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("bind flags: %w", err)
			}
			bindEnv(v, "access-key", "THUMPER_KEY")

			cfg, err := config.ResolveSyncConfig(v, args[0], args[1])
			if err != nil {
				return &UsageError{Err: err}
			}

			log := logger.New(cmd.ErrOrStderr(), cfg.Verbose)

			client := zoneclient.NewHTTPClient(zoneclient.HTTPConfig{
				Endpoint:  cfg.Endpoint,
				Zone:      cfg.StorageZone,
				AccessKey: cfg.AccessKey,
			})

			result, err := app.RunSync(cmd.Context(), cfg, client, log)
			if err != nil {
				return err
			}

			if result.Errors.Count() > 0 {
				log.Error("sync completed with failures", result.Errors, map[string]any{
					"failed_actions": result.Errors.Count(),
				})
				return result.Errors
			}

			log.Info("sync completed", map[string]any{
				"uploaded": len(result.Plan.Uploads),
				"deleted":  len(result.Plan.Deletes),
				"skipped":  len(result.Plan.Skipped),
			})
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("endpoint", "e", "storage.bunnycdn.com", "which CDN endpoint to use")
	flags.StringP("access-key", "a", "", "password for the storage zone (env THUMPER_KEY)")
	flags.StringP("path", "p", "/", "path inside the storage zone to sync to")
	flags.Bool("dry-run", false, "don't sync, just show what would change")
	flags.BoolP("force", "f", false, "force a sync despite a hanging lock file")
	flags.String("lockfile", ".bunnysync.lock", "filename to use for the lockfile")
	flags.StringSliceP("ignore", "i", nil, "do not delete remote paths under this prefix (repeatable)")
	flags.BoolP("verbose", "v", false, "per-action logging")
	flags.IntP("concurrency", "c", executor.DefaultConcurrency, "number of concurrent API operations")

	return cmd
}

