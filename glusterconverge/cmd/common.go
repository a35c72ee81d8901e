package cmd

import (
	"errors"
	"fmt"

	"github.com/praekeltfoundation/puppet-gluster/converge/catalog"
	"github.com/praekeltfoundation/puppet-gluster/converge/metrics"
	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/hostinfo"

	config "github.com/spf13/viper"
)

// ErrResourcesFailed is returned by apply when at least one resource failed.
// The report has already been printed.
var ErrResourcesFailed = errors.New("some resources failed to converge")

// Overridden in tests.
var (
	newClient      = defaultClient
	detectIdentity = defaultIdentity
)

func defaultClient() *gluster.Client {
	c := gluster.New(config.GetString("gluster-binary"), config.GetString("gluster-home"))
	c.Observer = metrics.ObserveCommand
	return c
}

func defaultIdentity() (hostinfo.LocalIdentity, error) {
	return hostinfo.Detect(config.GetStringSlice("local-peer-aliases")...)
}

func newRunner() (*catalog.Runner, error) {
	identity, err := detectIdentity()
	if err != nil {
		return nil, failure("Failed to detect local host identity", err)
	}
	runner := catalog.NewRunner(newClient(), identity)
	runner.OnResource = metrics.ObserveResource
	return runner, nil
}

func loadManifest() (*catalog.Catalog, error) {
	return catalog.Load(config.GetString("manifest"))
}

func failure(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
