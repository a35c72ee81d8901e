// Package cmd implements the glusterconverge command line.
package cmd

import (
	"time"

	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/logging"

	"github.com/spf13/cobra"
)

// RootCmd represents main command
var RootCmd = &cobra.Command{
	Use:           "glusterconverge",
	Short:         "Converge gluster peers and volumes to a declared state",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd.Flags()); err != nil {
			return err
		}
		return initLogging()
	},
}

var (
	flagJSONOutput bool
	verbose        bool
)

const (
	defaultLogLevel      = "info"
	defaultLogFile       = "-"
	defaultLogFormat     = "text"
	defaultManifest      = "/etc/glusterconverge/manifest.yaml"
	defaultInterval      = 5 * time.Minute
	defaultClientAddress = "127.0.0.1:24010"
)

func init() {
	pf := RootCmd.PersistentFlags()

	pf.String("config", "", "TOML configuration file")
	pf.BoolVar(&flagJSONOutput, "json", false, "JSON Output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	pf.String("gluster-binary", gluster.DefaultBinary, "gluster CLI to run")
	pf.String("gluster-home", gluster.DefaultHome, "HOME for the gluster CLI")
	pf.StringSlice("local-peer-aliases", nil, "Extra names of this host, never probed as peers")
	pf.String("manifest", defaultManifest, "YAML manifest of desired peers and volumes")

	pf.String(logging.DirFlag, "", logging.DirHelp)
	pf.String(logging.FileFlag, defaultLogFile, logging.FileHelp)
	pf.String(logging.LevelFlag, defaultLogLevel, logging.LevelHelp)
	pf.String(logging.FormatFlag, defaultLogFormat, logging.FormatHelp)
}
