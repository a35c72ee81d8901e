package cmd

import (
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/converge/volume"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

const (
	helpVolumeCmd             = "Gluster Volume Management"
	helpVolumeListCmd         = "list all volumes"
	helpVolumeMissingPeersCmd = "show the brick hosts that hold back each volume of the manifest"
)

func init() {
	volumeCmd.AddCommand(volumeListCmd)
	volumeCmd.AddCommand(volumeMissingPeersCmd)
	RootCmd.AddCommand(volumeCmd)
}

var volumeCmd = &cobra.Command{
	Use:   "volume",
	Short: helpVolumeCmd,
}

var volumeListCmd = &cobra.Command{
	Use:   "list",
	Short: helpVolumeListCmd,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vols, err := newClient().ListVolumes(cmd.Context())
		if err != nil {
			return failure("Failed to get Volumes list", err)
		}
		return printVolumes(cmd.OutOrStdout(), vols)
	},
}

type missingPeers struct {
	Volume  string   `json:"volume"`
	Missing []string `json:"missing"`
}

var volumeMissingPeersCmd = &cobra.Command{
	Use:   "missing-peers",
	Short: helpVolumeMissingPeersCmd,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadManifest()
		if err != nil {
			return failure("Failed to load manifest", err)
		}
		identity, err := detectIdentity()
		if err != nil {
			return failure("Failed to detect local host identity", err)
		}
		p := volume.NewProvider(newClient(), identity)

		result := []missingPeers{}
		for _, spec := range cat.Volumes {
			missing, err := p.MissingPeers(cmd.Context(), spec)
			if err != nil {
				return failure("Failed to get Peers list", err)
			}
			result = append(result, missingPeers{Volume: spec.Name, Missing: missing})
		}

		if flagJSONOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Volume", "Missing Peers"})
		for _, m := range result {
			table.Append([]string{m.Volume, strings.Join(m.Missing, ",")})
		}
		table.Render()
		return nil
	},
}
