package api

// PeerState is a peer as reported by `gluster peer status`.
type PeerState struct {
	Hostname string `json:"hostname"`
}

// PeerSpec is the desired state of a single peer.
type PeerSpec struct {
	Peer string `json:"peer"`
	// LocalPeerAliases are addresses that resolve to the current host and
	// must never be probed.
	LocalPeerAliases []string `json:"local-peer-aliases,omitempty"`
	Ensure           Ensure   `json:"ensure"`
}

// Name returns the identity of the resource.
func (s PeerSpec) Name() string {
	return s.Peer
}
