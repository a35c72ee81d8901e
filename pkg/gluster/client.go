// Package gluster runs gluster CLI commands and turns their XML output into
// peer and volume records.
package gluster

import (
	"context"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/clixml"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	log "github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

const (
	// DefaultBinary is the CLI looked up on PATH when none is configured.
	DefaultBinary = "gluster"
	// DefaultHome is where the CLI may write its history file.
	DefaultHome = "/tmp"
)

// Flags passed ahead of every command.
var modeFlags = []string{"--xml", "--mode=script"}

// Executor runs an external command and returns its stdout.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecFunc adapts a function to the Executor interface.
type ExecFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Execute calls f.
func (f ExecFunc) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

// Observer is told about every command that was run and how it ended.
type Observer func(command string, err error)

// Client issues gluster CLI commands one at a time.
type Client struct {
	Binary   string
	Exec     Executor
	Observer Observer
}

// New returns a Client running binary as a child process with HOME set to
// home. Empty arguments select the defaults.
func New(binary, home string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if home == "" {
		home = DefaultHome
	}
	env := []string{"HOME=" + home}
	return &Client{
		Binary: binary,
		Exec: ExecFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return utils.ExecuteCommandOutput(ctx, env, name, args...)
		}),
	}
}

// Run executes cmd and parses its output. A process failure is returned as
// is (an *utils.ExecuteCommandError for the default executor); a non-zero
// opRet is returned as a *CmdError before anything else is read from the
// document.
func (c *Client) Run(ctx context.Context, cmd Command) (*clixml.Document, error) {
	name := Name(cmd)
	doc, err := c.run(ctx, name, cmd)
	if c.Observer != nil {
		c.Observer(name, err)
	}
	return doc, err
}

func (c *Client) run(ctx context.Context, name string, cmd Command) (*clixml.Document, error) {
	args, err := Args(cmd)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.StartSpan(ctx, "gluster."+strings.Replace(name, " ", ".", -1))
	defer span.End()
	span.AddAttributes(trace.StringAttribute("args", strings.Join(args, " ")))

	argv := append(append([]string{}, modeFlags...), args...)
	logger := log.WithField("command", strings.Join(argv, " "))
	logger.Debug("running gluster command")

	out, err := c.Exec.Execute(ctx, c.Binary, argv...)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		logger.WithError(err).Debug("gluster command failed to execute")
		return nil, err
	}

	doc, err := clixml.Parse(out)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeDataLoss, Message: err.Error()})
		return nil, err
	}

	env, err := doc.Envelope()
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeDataLoss, Message: err.Error()})
		return nil, err
	}
	if env.OpRet != 0 {
		cerr := &CmdError{
			Command:  name,
			OpRet:    env.OpRet,
			OpErrno:  env.OpErrno,
			OpErrstr: env.OpErrstr,
		}
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: cerr.Error()})
		logger.WithFields(log.Fields{
			"opRet":    env.OpRet,
			"opErrno":  env.OpErrno,
			"opErrstr": env.OpErrstr,
		}).Debug("gluster command returned an error")
		return nil, cerr
	}

	return doc, nil
}
