package cmd

import (
	"github.com/praekeltfoundation/puppet-gluster/converge/metrics"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const helpApplyCmd = "apply the manifest once and print what changed"

func init() {
	RootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: helpApplyCmd,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dumpConfigToLog()

		cat, err := loadManifest()
		if err != nil {
			return failure("Failed to load manifest", err)
		}
		runner, err := newRunner()
		if err != nil {
			return err
		}

		report := runner.Apply(cmd.Context(), cat)
		metrics.ObservePass(report)
		if err := printReport(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if report.Failed() {
			if verbose {
				log.WithField("pass", report.ID).Error("apply failed")
			}
			return ErrResourcesFailed
		}
		return nil
	},
}
