package catalog

import (
	"context"
	"testing"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster/fake"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = hostinfo.LocalIdentity{Hostname: "gfs1", IPAddressLo: "127.0.0.1"}

func mustParse(t *testing.T, m string) *Catalog {
	c, err := Parse([]byte(m))
	require.NoError(t, err)
	return c
}

func outcomes(r *api.Report) map[string]api.Outcome {
	out := map[string]api.Outcome{}
	for _, rr := range r.Resources {
		out[rr.Kind+"/"+rr.Name] = rr.Outcome
	}
	return out
}

func TestApplyPeersBeforeVolumes(t *testing.T) {
	g := fake.New("gfs1")
	g.AddPeers("gfs3")
	r := NewRunner(g.Client(), identity)

	var seen []string
	r.OnResource = func(rr api.ResourceReport) {
		seen = append(seen, rr.Kind+"/"+rr.Name)
	}

	report := r.Apply(context.Background(), mustParse(t, manifest))
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.Failed())
	assert.False(t, report.Finished.Before(report.Started))

	assert.Equal(t, []string{"peer/gfs2", "peer/gfs3", "volume/vol1", "volume/vol2"}, seen)
	assert.Equal(t, map[string]api.Outcome{
		"peer/gfs2":   api.OutcomeApplied,
		"peer/gfs3":   api.OutcomeApplied,
		"volume/vol1": api.OutcomeApplied,
		"volume/vol2": api.OutcomeApplied,
	}, outcomes(report))

	assert.Equal(t, []string{
		"peer probe", "peer detach",
		"volume create", "volume start",
		"volume create",
	}, g.MutatingCommands())

	// Each kind is listed once up front.
	assert.Equal(t, "peer status", g.CommandNames()[0])
	assert.Equal(t, "volume info", g.CommandNames()[3])

	vol1 := report.Resources[2]
	assert.Equal(t, api.EnsurePresent, vol1.Desired)
	assert.Equal(t, api.EnsurePresent, vol1.Current)
	vol2 := report.Resources[3]
	assert.Equal(t, api.EnsureStopped, vol2.Current)
}

func TestApplyIsIdempotent(t *testing.T) {
	g := fake.New("gfs1")
	r := NewRunner(g.Client(), identity)
	c := mustParse(t, manifest)

	r.Apply(context.Background(), c)
	g.ResetCommands()

	report := r.Apply(context.Background(), c)
	assert.Equal(t, 4, report.Count(api.OutcomeUnchanged))
	assert.Empty(t, g.MutatingCommands())
}

func TestApplyGatedVolumeConvergesLater(t *testing.T) {
	g := fake.New("gfs1")
	g.PeerUnreachable("gfs2", "")
	r := NewRunner(g.Client(), identity)
	c := mustParse(t, manifest)

	report := r.Apply(context.Background(), c)
	assert.Equal(t, api.OutcomeUnchanged, outcomes(report)["peer/gfs2"])
	assert.Equal(t, api.OutcomeUnchanged, outcomes(report)["volume/vol1"])
	assert.Equal(t, "missing peers: gfs2", report.Resources[2].Reason)
	assert.Nil(t, g.Volume("vol1"))

	g.PeerReachable("gfs2")
	report = r.Apply(context.Background(), c)
	assert.Equal(t, api.OutcomeApplied, outcomes(report)["peer/gfs2"])
	assert.Equal(t, api.OutcomeApplied, outcomes(report)["volume/vol1"])
	require.NotNil(t, g.Volume("vol1"))
	assert.True(t, g.Volume("vol1").Started())
}

func TestApplyIsolatesFailures(t *testing.T) {
	g := fake.New("gfs1")
	g.PeerUnreachableLegacy("gfs2", "Connection failed. Please check if gluster daemon is operational.")
	r := NewRunner(g.Client(), identity)

	report := r.Apply(context.Background(), mustParse(t, manifest))
	assert.True(t, report.Failed())

	assert.Equal(t, map[string]api.Outcome{
		"peer/gfs2":   api.OutcomeFailed,
		"peer/gfs3":   api.OutcomeUnchanged,
		"volume/vol1": api.OutcomeSkipped,
		"volume/vol2": api.OutcomeApplied,
	}, outcomes(report))
	assert.NotEmpty(t, report.Resources[0].Error)
	assert.Equal(t, "required peer gfs2 failed", report.Resources[2].Reason)
	assert.Nil(t, g.Volume("vol1"))
	assert.NotNil(t, g.Volume("vol2"))
}

func TestApplyPrefetchFailure(t *testing.T) {
	g := fake.New("gfs1")
	g.SetError(-1, 2, "A bad thing happened.")
	r := NewRunner(g.Client(), identity)

	report := r.Apply(context.Background(), mustParse(t, manifest))
	assert.Equal(t, map[string]api.Outcome{
		"peer/gfs2":   api.OutcomeFailed,
		"peer/gfs3":   api.OutcomeFailed,
		"volume/vol1": api.OutcomeSkipped,
		"volume/vol2": api.OutcomeFailed,
	}, outcomes(report))
	assert.Equal(t, "Execution failed (-1) 2: A bad thing happened.", report.Resources[3].Error)
	assert.Equal(t, []string{"peer status", "volume info"}, g.CommandNames())
}

func TestApplyEmptyCatalog(t *testing.T) {
	g := fake.New("gfs1")
	report := NewRunner(g.Client(), identity).Apply(context.Background(), &Catalog{})
	assert.Empty(t, report.Resources)
	assert.Empty(t, g.Commands())
}
