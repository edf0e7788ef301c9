// Package cli builds thumper's cobra command tree. Argument parsing,
// shell completions, and help rendering are left to cobra's own defaults;
// this package's job is binding flags to pkg/config and pkg/zoneclient and
// calling into internal/app.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the `thumper` command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "thumper",
		Short:         "Sync a local directory to a CDN storage zone",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: fmt.Errorf("%s: %w", cmd.Name(), err)}
	})

	root.AddCommand(newSyncCmd())
	root.AddCommand(newPurgeURLCmd())
	root.AddCommand(newPurgeZoneCmd())
	root.AddCommand(newCompletionsCmd(root))

	// Positional-argument errors are usage errors, like flag errors.
	for _, c := range root.Commands() {
		if validate := c.Args; validate != nil {
			c.Args = func(cmd *cobra.Command, args []string) error {
				if err := validate(cmd, args); err != nil {
					return &UsageError{Err: fmt.Errorf("%s: %w", cmd.Name(), err)}
				}
				return nil
			}
		}
	}
	return root
}

const rootLongDescription = `thumper is a tool for synchronizing files to a CDN storage zone.

thumper can sync to subtrees of the storage zone, the entire storage zone,
or selectively skip parts of the tree. It refuses to sync if it looks like
there's already an active sync job to the storage zone, using a lockfile in
the zone for rudimentary concurrency control.

thumper aims to make the local directory and the path within the storage
zone exactly equal. It syncs HTML last, so other assets like CSS and images
are already in place by the time pages that reference them go live.`

func bindEnv(v *viper.Viper, key, envVar string) {
	_ = v.BindEnv(key, envVar)
}
