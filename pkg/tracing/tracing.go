// Package tracing configures opencensus sampling for glusterconverge and
// exports finished spans to the log.
package tracing

import (
	errs "errors"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"go.opencensus.io/trace"
)

// Commandline options
const (
	SamplerFlag        = "trace-sampler"
	SampleFractionFlag = "trace-sample-fraction"
)

// SamplerType selects which traces are recorded
type SamplerType uint8

const (
	// Never samples no trace
	Never SamplerType = iota
	// Always samples every trace
	Always
	// Probabilistic samples based on the sample fraction
	Probabilistic
)

func (s SamplerType) String() string {
	switch s {
	case Never:
		return "never"
	case Always:
		return "always"
	case Probabilistic:
		return "probabilistic"
	default:
		return "unknown"
	}
}

// DefaultSampleFraction samples every 1 in 10 traces.
var DefaultSampleFraction = 0.1

// ErrInvalidSampler is returned by ParseSampler for unknown sampler names.
var ErrInvalidSampler = errs.New("invalid sampler type")

// ParseSampler converts a sampler name into a SamplerType.
func ParseSampler(s string) (SamplerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return Never, nil
	case "always":
		return Always, nil
	case "probabilistic":
		return Probabilistic, nil
	}
	return Never, ErrInvalidSampler
}

// Config holds the tracing settings.
type Config struct {
	Sampler        string
	SampleFraction float64
}

// InitFlags adds the tracing options to fs.
func InitFlags(fs *flag.FlagSet) {
	fs.String(SamplerFlag, "never", "Trace sampler to employ (never, always or probabilistic).")
	fs.Float64(SampleFractionFlag, DefaultSampleFraction, "Sample fraction to use if the sampler is probabilistic.")
}

// logExporter writes finished spans as debug log entries.
type logExporter struct{}

func (logExporter) ExportSpan(s *trace.SpanData) {
	fields := log.Fields{
		"trace":    s.TraceID.String(),
		"span":     s.SpanID.String(),
		"duration": s.EndTime.Sub(s.StartTime),
	}
	for k, v := range s.Attributes {
		fields[k] = v
	}
	if s.Status.Code != trace.StatusCodeOK {
		fields["status"] = s.Status.Message
	}
	log.WithFields(fields).Debug("span " + s.Name)
}

var once sync.Once

// Init applies the sampler in c and registers the log exporter. An invalid
// sampler disables tracing; an out of range fraction falls back to
// DefaultSampleFraction. It returns the sampler type that was applied.
func Init(c Config) SamplerType {
	sampler, err := ParseSampler(c.Sampler)
	if err != nil {
		log.WithField("sampler", c.Sampler).Warning("tracing: Invalid sampler type option provided. Tracing is disabled.")
	}

	fraction := c.SampleFraction
	switch sampler {
	case Never:
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.NeverSample()})
		return sampler
	case Always:
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	case Probabilistic:
		if fraction <= 0.0 || fraction >= 1.0 {
			log.WithFields(log.Fields{
				"sampleFraction":        fraction,
				"defaultSampleFraction": DefaultSampleFraction,
			}).Warning("tracing: Invalid sample fraction provided. Applying default value.")
			fraction = DefaultSampleFraction
		}
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(fraction)})
	}

	once.Do(func() {
		trace.RegisterExporter(logExporter{})
	})
	log.WithFields(log.Fields{
		"sampler":        sampler,
		"sampleFraction": fraction,
	}).Info("tracing: Registered log exporter for traces")
	return sampler
}
