// Package peer converges the membership of a single host in the trusted
// storage pool.
package peer

import (
	"context"
	"errors"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	log "github.com/sirupsen/logrus"
)

// Kind names peer resources in reports.
const Kind = "peer"

// Provider lists and builds peer resources against one cluster.
type Provider struct {
	Client   *gluster.Client
	Identity hostinfo.LocalIdentity
}

// NewProvider returns a Provider. identity is consulted by the ignore gate
// together with each resource's own aliases.
func NewProvider(c *gluster.Client, identity hostinfo.LocalIdentity) *Provider {
	return &Provider{Client: c, Identity: identity}
}

// Instances returns every peer currently in the pool.
func (p *Provider) Instances(ctx context.Context) ([]api.PeerState, error) {
	hosts, err := p.Client.ListPeers(ctx)
	if err != nil {
		return nil, err
	}
	peers := make([]api.PeerState, 0, len(hosts))
	for _, h := range hosts {
		peers = append(peers, api.PeerState{Hostname: h})
	}
	return peers, nil
}

// Match returns the instance whose hostname is exactly key, or nil.
func Match(instances []api.PeerState, key string) *api.PeerState {
	for i := range instances {
		if instances[i].Hostname == key {
			return &instances[i]
		}
	}
	return nil
}

// Resource binds spec to the state fetched for it. A nil current means the
// peer is absent.
func (p *Provider) Resource(spec api.PeerSpec, current *api.PeerState) *Resource {
	return &Resource{provider: p, Spec: spec, current: current}
}

// Resource is one desired peer.
type Resource struct {
	provider *Provider
	Spec     api.PeerSpec
	current  *api.PeerState
}

// Retrieve returns the current ensure value of the peer.
func (r *Resource) Retrieve() api.Ensure {
	if r.current == nil {
		return api.EnsureAbsent
	}
	return api.EnsurePresent
}

// IsLocal checks whether the peer names this host.
func (r *Resource) IsLocal() bool {
	return utils.StringInSlice(r.Spec.Peer, r.Spec.LocalPeerAliases) ||
		r.provider.Identity.IsLocal(r.Spec.Peer)
}

// Sync moves the peer to its desired ensure value.
func (r *Resource) Sync(ctx context.Context) (api.Result, error) {
	desired := r.Spec.Ensure
	if desired == "" {
		desired = api.EnsurePresent
	}
	if r.Retrieve() == desired {
		return api.Result{Outcome: api.OutcomeUnchanged}, nil
	}

	if r.IsLocal() {
		log.WithField("peer", r.Spec.Peer).Infof("Ignoring '%s' (pretending it's %s)", r.Spec.Peer, desired)
		return api.Result{Outcome: api.OutcomeUnchanged, Reason: "local peer"}, nil
	}

	switch desired {
	case api.EnsurePresent:
		if err := r.Create(ctx); err != nil {
			return api.Result{Outcome: api.OutcomeFailed}, err
		}
		if r.Retrieve() != api.EnsurePresent {
			return api.Result{Outcome: api.OutcomeUnchanged, Reason: "peer unreachable"}, nil
		}
	case api.EnsureAbsent:
		if err := r.Destroy(ctx); err != nil {
			return api.Result{Outcome: api.OutcomeFailed}, err
		}
	}
	return api.Result{Outcome: api.OutcomeApplied}, nil
}

// Create probes the peer. An unreachable peer logs a warning and stays
// absent without error.
func (r *Resource) Create(ctx context.Context) error {
	_, err := r.provider.Client.Run(ctx, gluster.PeerProbe{Peer: r.Spec.Peer})
	if err != nil {
		if IsUnreachable(err) {
			log.WithError(err).WithField("peer", r.Spec.Peer).
				Warnf("Peer '%s' is unreachable, not actually creating.", r.Spec.Peer)
			return nil
		}
		return err
	}
	r.current = &api.PeerState{Hostname: r.Spec.Peer}
	return nil
}

// Destroy detaches the peer.
func (r *Resource) Destroy(ctx context.Context) error {
	if _, err := r.provider.Client.Run(ctx, gluster.PeerDetach{Peer: r.Spec.Peer}); err != nil {
		return err
	}
	r.current = nil
	return nil
}

// IsUnreachable reports whether err is a probe failure caused by the peer
// not answering. That is opErrno 107, or "peer probe: failed: " and one of
// the legacy messages at the end of the structured error string or of a
// failed process' output.
func IsUnreachable(err error) bool {
	var cerr *gluster.CmdError
	if errors.As(err, &cerr) {
		return cerr.OpErrno == gluster.ErrnoNotConnected || hasLegacySuffix(cerr.OpErrstr)
	}
	var eerr *utils.ExecuteCommandError
	if errors.As(err, &eerr) {
		return hasLegacySuffix(eerr.Errstr) || hasLegacySuffix(eerr.Output)
	}
	return false
}

// legacyProbePrefix precedes the legacy messages in the CLI output.
const legacyProbePrefix = "peer probe: failed: "

func hasLegacySuffix(msg string) bool {
	msg = strings.TrimSpace(msg)
	for _, m := range gluster.LegacyUnreachableMessages {
		if strings.HasSuffix(msg, legacyProbePrefix+m) {
			return true
		}
	}
	return false
}
