package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/praekeltfoundation/puppet-gluster/converge/agent"
	"github.com/praekeltfoundation/puppet-gluster/converge/metrics"
	"github.com/praekeltfoundation/puppet-gluster/converge/servers"
	"github.com/praekeltfoundation/puppet-gluster/converge/servers/rest"
	"github.com/praekeltfoundation/puppet-gluster/pkg/tracing"
	"github.com/praekeltfoundation/puppet-gluster/version"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	config "github.com/spf13/viper"
	"golang.org/x/sys/unix"
)

const helpServeCmd = "apply the manifest periodically and serve status over HTTP"

func init() {
	f := serveCmd.Flags()
	f.Duration("interval", defaultInterval, "Time between reconciliation passes")
	f.String("clientaddress", defaultClientAddress, "Address to bind the status server.")
	tracing.InitFlags(f)
	RootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: helpServeCmd,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.WithFields(log.Fields{
			"pid":     os.Getpid(),
			"version": version.Version,
		}).Debug("Starting glusterconverge")
		dumpConfigToLog()

		runner, err := newRunner()
		if err != nil {
			return err
		}

		tracing.Init(tracing.Config{
			Sampler:        config.GetString(tracing.SamplerFlag),
			SampleFraction: config.GetFloat64(tracing.SampleFractionFlag),
		})

		interval := config.GetDuration("interval")
		if interval <= 0 {
			return failure("Invalid interval", fmt.Errorf("%s must be positive", interval))
		}
		a := agent.New(runner, loadManifest, interval)
		a.OnReport = metrics.ObservePass
		restServer := rest.New(config.GetString("clientaddress"), a)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		super := servers.New("glusterconverge", a, restServer)
		done := super.ServeBackground(ctx)

		// Use the main goroutine as signal handling loop
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, unix.SIGTERM, unix.SIGINT, unix.SIGHUP)
		defer signal.Stop(sigCh)
		for {
			select {
			case err := <-done:
				return err
			case s := <-sigCh:
				log.WithField("signal", s).Debug("Signal received")
				switch s {
				case unix.SIGTERM, unix.SIGINT:
					log.Info("Received SIGTERM. Stopping glusterconverge")
					cancel()
					<-done
					log.Info("Stopped glusterconverge")
					return nil
				case unix.SIGHUP:
					// Logrotate case: reopen the log file.
					log.Info("Received SIGHUP, Reloading log file")
					if err := initLogging(); err != nil {
						log.WithError(err).Error("Could not re-initialize logging")
					}
				}
			}
		}
	},
}
