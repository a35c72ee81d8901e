package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/praekeltfoundation/puppet-gluster/converge/catalog"
	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster/fake"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
peers:
  - peer: gfs2
volumes:
  - name: vol1
    bricks: [gfs1:/b1/vol1, gfs2:/b1/vol1]
    replica: 2
`

func newAgent(t *testing.T, g *fake.Gluster, interval time.Duration) *Agent {
	cat, err := catalog.Parse([]byte(manifest))
	require.NoError(t, err)
	runner := catalog.NewRunner(g.Client(), hostinfo.LocalIdentity{Hostname: "gfs1"})
	return New(runner, func() (*catalog.Catalog, error) { return cat, nil }, interval)
}

func TestRunOnce(t *testing.T) {
	g := fake.New("gfs1")
	a := newAgent(t, g, time.Minute)

	var reported *api.Report
	a.OnReport = func(r *api.Report) { reported = r }

	report, err := a.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(api.OutcomeApplied))
	assert.Equal(t, report, reported)

	last, err := a.LastReport()
	assert.NoError(t, err)
	assert.Equal(t, report, last)
	assert.Equal(t, 1, a.Passes())
}

func TestRunOnceLoadError(t *testing.T) {
	g := fake.New("gfs1")
	a := newAgent(t, g, time.Minute)
	_, err := a.RunOnce(context.Background())
	require.NoError(t, err)

	loadErr := errors.New("manifest.yaml: volume vol1: invalid replica")
	a.load = func() (*catalog.Catalog, error) { return nil, loadErr }
	_, err = a.RunOnce(context.Background())
	assert.Equal(t, loadErr, err)

	// The previous report is kept alongside the new error.
	last, err := a.LastReport()
	assert.Equal(t, loadErr, err)
	assert.NotNil(t, last)
}

func TestNextBacksOffAfterFailure(t *testing.T) {
	a := New(nil, nil, 80*time.Second)
	failed := &api.Report{Resources: []api.ResourceReport{{Outcome: api.OutcomeFailed}}}
	ok := &api.Report{}

	assert.Equal(t, 10*time.Second, a.next(failed, nil))
	assert.Equal(t, 20*time.Second, a.next(nil, errors.New("boom")))
	assert.Equal(t, 40*time.Second, a.next(failed, nil))
	assert.Equal(t, 80*time.Second, a.next(failed, nil))
	assert.Equal(t, 80*time.Second, a.next(failed, nil))

	assert.Equal(t, 80*time.Second, a.next(ok, nil))
	assert.Equal(t, 10*time.Second, a.next(failed, nil))
}

func TestServeStopsOnCancel(t *testing.T) {
	g := fake.New("gfs1")
	a := newAgent(t, g, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Serve(ctx) }()

	require.Eventually(t, func() bool { return a.Passes() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("agent did not stop")
	}
	assert.NotNil(t, g.Volume("vol1"))
}
