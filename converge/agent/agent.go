// Package agent re-applies the catalog periodically under a supervisor.
package agent

import (
	"context"
	"sync"
	"time"

	"github.com/praekeltfoundation/puppet-gluster/converge/catalog"
	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/backoff"

	log "github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Loader returns the catalog for the next pass. It is called once per pass
// so that manifest edits are picked up without a restart.
type Loader func() (*catalog.Catalog, error)

// Agent runs one reconciliation pass every Interval. It implements the
// suture.Service interface.
type Agent struct {
	runner   *catalog.Runner
	load     Loader
	interval time.Duration
	backoff  *backoff.BackOff

	// OnReport, if set, is called after every finished pass.
	OnReport func(*api.Report)

	mu      sync.RWMutex
	last    *api.Report
	lastErr error
	passes  int
}

// New returns an Agent. After a failed pass the next one runs sooner,
// starting at an eighth of interval and doubling up to interval.
func New(runner *catalog.Runner, load Loader, interval time.Duration) *Agent {
	initial := interval / 8
	if initial < time.Second {
		initial = time.Second
	}
	if initial > interval {
		initial = interval
	}
	return &Agent{
		runner:   runner,
		load:     load,
		interval: interval,
		backoff:  backoff.New(initial, interval),
	}
}

func (a *Agent) String() string {
	return "converge-agent"
}

// RunOnce loads the catalog and applies it.
func (a *Agent) RunOnce(ctx context.Context) (*api.Report, error) {
	ctx, span := trace.StartSpan(ctx, "converge.pass")
	defer span.End()

	cat, err := a.load()
	if err != nil {
		log.WithError(err).Error("failed to load manifest")
		span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
		a.store(nil, err)
		return nil, err
	}

	report := a.runner.Apply(ctx, cat)
	span.AddAttributes(
		trace.StringAttribute("report", report.ID),
		trace.Int64Attribute("resources", int64(len(report.Resources))),
	)
	if report.Failed() {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: "resources failed"})
	}
	a.store(report, nil)
	if a.OnReport != nil {
		a.OnReport(report)
	}
	return report, nil
}

func (a *Agent) store(report *api.Report, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if report != nil {
		a.last = report
	}
	a.lastErr = err
	a.passes++
}

// LastReport returns the report of the last pass that applied a catalog
// and the error of the most recent pass, if it could not load one.
func (a *Agent) LastReport() (*api.Report, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.lastErr
}

// Passes returns how many passes have run.
func (a *Agent) Passes() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.passes
}

// next returns the delay before the pass following one that ended with
// report and err.
func (a *Agent) next(report *api.Report, err error) time.Duration {
	if err != nil || (report != nil && report.Failed()) {
		return a.backoff.NextDuration()
	}
	a.backoff.Reset()
	return a.interval
}

// Serve runs passes until ctx is done.
func (a *Agent) Serve(ctx context.Context) error {
	log.WithField("interval", a.interval).Info("Started converge agent")
	for {
		report, err := a.RunOnce(ctx)
		wait := a.next(report, err)
		log.WithField("next", wait).Debug("waiting for next pass")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			log.Info("stopped converge agent")
			return nil
		case <-t.C:
		}
	}
}
