package cmd

import (
	"github.com/praekeltfoundation/puppet-gluster/version"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if flagJSONOutput {
			_ = printJSON(cmd.OutOrStdout(), version.Info())
			return
		}
		version.DumpVersionInfo(cmd.OutOrStdout())
	},
}
