package gluster

import (
	"context"

	"github.com/praekeltfoundation/puppet-gluster/pkg/clixml"
)

const peerHostnamePath = "/cliOutput/peerStatus/peer/hostname"

// ParsePeerStatus returns the hostname of every peer in a `peer status`
// document, in the order the cluster reported them.
func ParsePeerStatus(doc *clixml.Document) []string {
	return doc.List(peerHostnamePath)
}

// ListPeers queries the cluster for its current peers. The local node is
// not part of the list.
func (c *Client) ListPeers(ctx context.Context) ([]string, error) {
	doc, err := c.Run(ctx, PeerStatus{})
	if err != nil {
		return nil, err
	}
	return ParsePeerStatus(doc), nil
}
