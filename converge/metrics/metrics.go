// Package metrics exposes Prometheus counters for reconciliation passes.
package metrics

import (
	"errors"
	"net/http"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CommandsTotal counts gluster CLI invocations by command and result.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gluster_converge_commands_total",
			Help: "Total number of gluster commands run by command and result",
		},
		[]string{"command", "result"},
	)

	// ResourcesTotal counts handled resources by kind and outcome.
	ResourcesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gluster_converge_resources_total",
			Help: "Total number of resources reconciled by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// PassDuration observes the wall time of each pass.
	PassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gluster_converge_pass_duration_seconds",
			Help:    "Duration of a reconciliation pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// LastPassFailed is 1 if the last pass had a failed resource.
	LastPassFailed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gluster_converge_last_pass_failed",
			Help: "Whether the last reconciliation pass had failures (1 = yes)",
		},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(ResourcesTotal)
	prometheus.MustRegister(PassDuration)
	prometheus.MustRegister(LastPassFailed)
}

// Result labels for CommandsTotal.
const (
	ResultOK        = "ok"
	ResultCmdError  = "cmd_error"
	ResultExecError = "exec_error"
)

// ObserveCommand has the signature of gluster.Observer.
func ObserveCommand(command string, err error) {
	result := ResultOK
	if err != nil {
		var cerr *gluster.CmdError
		if errors.As(err, &cerr) {
			result = ResultCmdError
		} else {
			result = ResultExecError
		}
	}
	CommandsTotal.WithLabelValues(command, result).Inc()
}

// ObserveResource counts one resource report.
func ObserveResource(rr api.ResourceReport) {
	ResourcesTotal.WithLabelValues(rr.Kind, string(rr.Outcome)).Inc()
}

// ObservePass records the duration and result of a finished pass.
func ObservePass(r *api.Report) {
	PassDuration.Observe(r.Finished.Sub(r.Started).Seconds())
	if r.Failed() {
		LastPassFailed.Set(1)
	} else {
		LastPassFailed.Set(0)
	}
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
