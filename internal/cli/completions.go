package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCompletionsCmd(root *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completions [bash|zsh|fish|pwsh|powershell]",
		Short:     "Provide shell completions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "pwsh", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			case "pwsh", "powershell":
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return &UsageError{Err: fmt.Errorf("unsupported shell %q", args[0])}
			}
		},
	}
	return cmd
}
