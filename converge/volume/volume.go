// Package volume converges a single gluster volume through
// absent, stopped and present.
package volume

import (
	"context"
	"fmt"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	log "github.com/sirupsen/logrus"
)

// Kind names volume resources in reports.
const Kind = "volume"

// Provider lists and builds volume resources against one cluster.
type Provider struct {
	Client   *gluster.Client
	Identity hostinfo.LocalIdentity
}

// NewProvider returns a Provider. identity is treated as already being part
// of the pool when checking brick hosts.
func NewProvider(c *gluster.Client, identity hostinfo.LocalIdentity) *Provider {
	return &Provider{Client: c, Identity: identity}
}

// Instances returns every volume in the cluster.
func (p *Provider) Instances(ctx context.Context) ([]api.VolumeState, error) {
	return p.Client.ListVolumes(ctx)
}

// Match returns the instance named key, or nil.
func Match(instances []api.VolumeState, key string) *api.VolumeState {
	for i := range instances {
		if instances[i].Name == key {
			return &instances[i]
		}
	}
	return nil
}

// MissingPeers returns the brick hosts of spec that are neither peers, nor
// local aliases of spec, nor addresses of this host. The result is
// deduplicated and keeps the brick order.
func (p *Provider) MissingPeers(ctx context.Context, spec api.VolumeSpec) ([]string, error) {
	peers, err := p.Client.ListPeers(ctx)
	if err != nil {
		return nil, err
	}
	known := append(peers, spec.LocalPeerAliases...)
	known = append(known, p.Identity.Addresses()...)

	missing := []string{}
	for _, h := range gluster.BrickPeers(spec.Bricks) {
		if !utils.StringInSlice(h, known) {
			missing = append(missing, h)
		}
	}
	return missing, nil
}

// Resource binds spec to the state fetched for it. A nil current means the
// volume doesn't exist.
func (p *Provider) Resource(spec api.VolumeSpec, current *api.VolumeState) *Resource {
	return &Resource{provider: p, Spec: spec, current: current}
}

// Resource is one desired volume.
type Resource struct {
	provider *Provider
	Spec     api.VolumeSpec
	current  *api.VolumeState
}

// Current returns the last fetched state, nil if absent.
func (r *Resource) Current() *api.VolumeState {
	return r.current
}

// Retrieve returns the current ensure value of the volume.
func (r *Resource) Retrieve() api.Ensure {
	if r.current == nil {
		return api.EnsureAbsent
	}
	return r.current.Ensure
}

func (r *Resource) desired() api.Ensure {
	if r.Spec.Ensure == "" {
		return api.EnsurePresent
	}
	return r.Spec.Ensure
}

// Sync moves the volume to its desired ensure value.
func (r *Resource) Sync(ctx context.Context) (api.Result, error) {
	desired := r.desired()
	logger := log.WithField("volume", r.Spec.Name)

	if r.Retrieve() == desired {
		return api.Result{Outcome: api.OutcomeUnchanged}, nil
	}
	if r.current != nil && r.current.Status == api.VolUnknown {
		logger.Warnf("Volume '%s' has an unknown status, not changing it", r.Spec.Name)
		return api.Result{Outcome: api.OutcomeUnchanged, Reason: "unknown status"}, nil
	}

	var (
		changed bool
		err     error
	)
	switch desired {
	case api.EnsurePresent, api.EnsureStopped:
		missing, merr := r.provider.MissingPeers(ctx, r.Spec)
		if merr != nil {
			return api.Result{Outcome: api.OutcomeFailed}, merr
		}
		if len(missing) > 0 {
			list := strings.Join(missing, ", ")
			logger.WithField("missing", missing).
				Infof("Ignoring '%s' (pretending it's %s): missing peers %s", r.Spec.Name, desired, list)
			return api.Result{Outcome: api.OutcomeUnchanged, Reason: "missing peers: " + list}, nil
		}
		if desired == api.EnsurePresent {
			changed, err = r.EnsurePresent(ctx)
		} else {
			changed, err = r.EnsureStopped(ctx)
		}
	case api.EnsureAbsent:
		changed, err = r.EnsureAbsent(ctx)
	default:
		err = fmt.Errorf("volume %s: cannot converge to %q", r.Spec.Name, desired)
	}

	if err != nil {
		return api.Result{Outcome: api.OutcomeFailed}, err
	}
	if !changed {
		return api.Result{Outcome: api.OutcomeUnchanged}, nil
	}
	return api.Result{Outcome: api.OutcomeApplied}, nil
}

// EnsurePresent creates the volume if needed and starts it if it is
// stopped. It reports whether any command ran.
func (r *Resource) EnsurePresent(ctx context.Context) (bool, error) {
	changed := false
	if r.current == nil {
		if err := r.Create(ctx); err != nil {
			return changed, err
		}
		changed = true
	}
	if r.current != nil && r.current.Status == api.VolStopped {
		if err := r.Start(ctx); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// EnsureStopped creates the volume if needed, or stops it if it is running.
func (r *Resource) EnsureStopped(ctx context.Context) (bool, error) {
	if r.current == nil {
		return true, r.Create(ctx)
	}
	if r.current.Status == api.VolStarted {
		return true, r.Stop(ctx)
	}
	return false, nil
}

// EnsureAbsent stops the volume if it is running and then deletes it.
func (r *Resource) EnsureAbsent(ctx context.Context) (bool, error) {
	changed := false
	if r.current != nil && r.current.Status == api.VolStarted {
		if err := r.Stop(ctx); err != nil {
			return changed, err
		}
		changed = true
	}
	if r.current != nil && r.current.Status == api.VolStopped {
		if err := r.Delete(ctx); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

// Create runs `volume create` with the spec's bricks in order.
func (r *Resource) Create(ctx context.Context) error {
	return r.apply(ctx, "Creating", gluster.VolumeCreate{
		Volume:  r.Spec.Name,
		Replica: r.Spec.Replica,
		Bricks:  r.Spec.Bricks,
		Force:   r.Spec.Force,
	})
}

// Start runs `volume start`.
func (r *Resource) Start(ctx context.Context) error {
	return r.apply(ctx, "Starting", gluster.VolumeStart{Volume: r.Spec.Name})
}

// Stop runs `volume stop`.
func (r *Resource) Stop(ctx context.Context) error {
	return r.apply(ctx, "Stopping", gluster.VolumeStop{Volume: r.Spec.Name})
}

// Delete runs `volume delete`.
func (r *Resource) Delete(ctx context.Context) error {
	return r.apply(ctx, "Deleting", gluster.VolumeDelete{Volume: r.Spec.Name})
}

// apply runs a mutating command and re-fetches the volume afterwards. The
// log line names the state the volume was in before the command.
func (r *Resource) apply(ctx context.Context, verb string, cmd gluster.Command) error {
	current := r.Retrieve()
	log.WithFields(log.Fields{
		"volume":  r.Spec.Name,
		"ensure":  r.desired(),
		"current": current,
	}).Infof("%s volume %s (%s)", verb, r.Spec.Name, current)

	if _, err := r.provider.Client.Run(ctx, cmd); err != nil {
		return err
	}
	return r.refresh(ctx)
}

func (r *Resource) refresh(ctx context.Context) error {
	vol, err := r.provider.Client.FindVolume(ctx, r.Spec.Name)
	if err != nil {
		return err
	}
	r.current = vol
	return nil
}
