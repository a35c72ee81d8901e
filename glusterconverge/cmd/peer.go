package cmd

import (
	"github.com/praekeltfoundation/puppet-gluster/converge/peer"

	"github.com/spf13/cobra"
)

const (
	helpPeerCmd     = "Gluster Peer Management"
	helpPeerListCmd = "list the peers in the pool (excluding this host)"
)

func init() {
	peerCmd.AddCommand(peerListCmd)
	RootCmd.AddCommand(peerCmd)
}

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: helpPeerCmd,
}

var peerListCmd = &cobra.Command{
	Use:   "list",
	Short: helpPeerListCmd,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := detectIdentity()
		if err != nil {
			return failure("Failed to detect local host identity", err)
		}
		peers, err := peer.NewProvider(newClient(), identity).Instances(cmd.Context())
		if err != nil {
			return failure("Failed to get Peers list", err)
		}
		return printPeers(cmd.OutOrStdout(), peers, identity.IsLocal)
	},
}
