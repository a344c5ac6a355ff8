package root

import (
	"github.com/flarebyte/sealcheck/cmd/sealcheck/diagnose"
	"github.com/flarebyte/sealcheck/cmd/sealcheck/stamp"
	"github.com/flarebyte/sealcheck/cmd/sealcheck/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sealcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sealcheck",
		Short: "Stamp a provenance seal into source files and record it in a manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(version.NewCmd())
	cmd.AddCommand(stamp.NewCmd())
	cmd.AddCommand(diagnose.NewCmd())

	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
