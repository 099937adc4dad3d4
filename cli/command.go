package cli

import (
	"github.com/spf13/cobra"

	"github.com/shardsim/shardsim/cli/simulate"
)

func NewCommand() *cobra.Command {
	cobra.EnableCommandSorting = false

	cmd := &cobra.Command{
		Use:          "shardsim [command] (flags)",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Short: "simulated cluster state provider",
	}

	cmd.AddCommand(simulate.NewCommand())

	return cmd
}

func init() {
	cobra.EnableCommandSorting = false
}
