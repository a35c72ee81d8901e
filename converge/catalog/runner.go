package catalog

import (
	"context"
	"time"

	"github.com/praekeltfoundation/puppet-gluster/converge/peer"
	"github.com/praekeltfoundation/puppet-gluster/converge/volume"
	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"

	"github.com/pborman/uuid"
	log "github.com/sirupsen/logrus"
)

// Runner applies catalogs against one cluster. Commands are issued one at a
// time; a Runner must not be shared between concurrent Apply calls.
type Runner struct {
	Peers   *peer.Provider
	Volumes *volume.Provider
	// OnResource, if set, is called once per resource after it was handled.
	OnResource func(api.ResourceReport)
}

// NewRunner returns a Runner whose providers share c and identity.
func NewRunner(c *gluster.Client, identity hostinfo.LocalIdentity) *Runner {
	return &Runner{
		Peers:   peer.NewProvider(c, identity),
		Volumes: volume.NewProvider(c, identity),
	}
}

// Apply converges every peer and then every volume of cat. Failures are
// recorded per resource; volumes whose declared brick peers failed are
// skipped.
func (r *Runner) Apply(ctx context.Context, cat *Catalog) *api.Report {
	report := &api.Report{
		ID:        uuid.NewRandom().String(),
		Started:   time.Now(),
		Resources: []api.ResourceReport{},
	}
	logger := log.WithField("pass", report.ID)
	logger.Debug("starting reconciliation pass")

	failedPeers := map[string]error{}
	r.applyPeers(ctx, cat, report, failedPeers)
	r.applyVolumes(ctx, cat, report, failedPeers)

	report.Finished = time.Now()
	logger.WithFields(log.Fields{
		"applied":   report.Count(api.OutcomeApplied),
		"unchanged": report.Count(api.OutcomeUnchanged),
		"failed":    report.Count(api.OutcomeFailed),
		"skipped":   report.Count(api.OutcomeSkipped),
		"duration":  report.Finished.Sub(report.Started),
	}).Info("reconciliation pass finished")
	return report
}

func (r *Runner) applyPeers(ctx context.Context, cat *Catalog, report *api.Report, failed map[string]error) {
	if len(cat.Peers) == 0 {
		return
	}
	instances, err := r.Peers.Instances(ctx)
	for _, spec := range cat.Peers {
		rr := api.ResourceReport{Kind: peer.Kind, Name: spec.Peer, Desired: spec.Ensure}
		if err != nil {
			failed[spec.Peer] = err
			r.record(report, rr, api.Result{Outcome: api.OutcomeFailed}, err)
			continue
		}
		res := r.Peers.Resource(spec, peer.Match(instances, spec.Peer))
		result, serr := res.Sync(ctx)
		rr.Current = res.Retrieve()
		if serr != nil {
			failed[spec.Peer] = serr
		}
		r.record(report, rr, result, serr)
	}
}

func (r *Runner) applyVolumes(ctx context.Context, cat *Catalog, report *api.Report, failedPeers map[string]error) {
	if len(cat.Volumes) == 0 {
		return
	}
	instances, err := r.Volumes.Instances(ctx)
	for _, spec := range cat.Volumes {
		rr := api.ResourceReport{Kind: volume.Kind, Name: spec.Name, Desired: spec.Ensure}
		if dep := firstFailed(cat.Requires(spec), failedPeers); dep != "" {
			r.record(report, rr, api.Result{
				Outcome: api.OutcomeSkipped,
				Reason:  "required peer " + dep + " failed",
			}, nil)
			continue
		}
		if err != nil {
			r.record(report, rr, api.Result{Outcome: api.OutcomeFailed}, err)
			continue
		}

		res := r.Volumes.Resource(spec, volume.Match(instances, spec.Name))
		result, serr := res.Sync(ctx)
		rr.Current = res.Retrieve()
		r.record(report, rr, result, serr)
	}
}

func firstFailed(required []string, failed map[string]error) string {
	for _, p := range required {
		if _, ok := failed[p]; ok {
			return p
		}
	}
	return ""
}

func (r *Runner) record(report *api.Report, rr api.ResourceReport, result api.Result, err error) {
	rr.Outcome = result.Outcome
	rr.Reason = result.Reason

	logger := log.WithFields(log.Fields{
		rr.Kind:   rr.Name,
		"outcome": rr.Outcome,
	})
	if err != nil {
		rr.Outcome = api.OutcomeFailed
		rr.Error = err.Error()
		logger.WithError(err).Errorf("failed to converge %s %s", rr.Kind, rr.Name)
	} else if rr.Outcome == api.OutcomeApplied {
		logger.Infof("%s %s is now %s", rr.Kind, rr.Name, rr.Current)
	} else {
		logger.Debugf("%s %s %s", rr.Kind, rr.Name, rr.Outcome)
	}

	report.Resources = append(report.Resources, rr)
	if r.OnResource != nil {
		r.OnResource(rr)
	}
}
