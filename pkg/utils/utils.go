package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	gerrors "github.com/praekeltfoundation/puppet-gluster/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// execCommand is overridden in tests.
var execCommand = exec.CommandContext

// BrickHost returns the host part of a host:path brick address. The address
// is split on the first ':' since the path may itself contain colons.
func BrickHost(brick string) (string, error) {
	i := strings.Index(brick, ":")
	if i <= 0 {
		log.WithField("brick", brick).Error(gerrors.ErrInvalidBrickPath.Error())
		return "", gerrors.ErrInvalidBrickPath
	}
	return brick[:i], nil
}

// StringInSlice will return true if the given string is present in the
// list of strings provided. Will return false otherwise.
func StringInSlice(query string, list []string) bool {
	for _, s := range list {
		if s == query {
			return true
		}
	}
	return false
}

// UniqueStrings drops repeated entries, keeping the first occurrence of each.
func UniqueStrings(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ExecuteCommandError represents command execution error
type ExecuteCommandError struct {
	ExitStatus int
	Errstr     string
	// Output is whatever the command wrote to stdout before failing.
	Output string
	Err    error
}

func (e *ExecuteCommandError) Error() string {
	errstr := e.Errstr
	if errstr != "" {
		errstr = "; " + strings.TrimSpace(errstr)
	}
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.ExitStatus) + errstr
	}
	return e.Err.Error() + errstr
}

// Unwrap returns the error reported by os/exec.
func (e *ExecuteCommandError) Unwrap() error {
	return e.Err
}

func execStderrCombined(err error, stdout []byte, stderr *bytes.Buffer) error {
	if err == nil {
		return nil
	}

	execErr := ExecuteCommandError{
		ExitStatus: -1,
		Errstr:     stderr.String(),
		Output:     string(stdout),
		Err:        err,
	}

	var exiterr *exec.ExitError
	if errors.As(err, &exiterr) {
		execErr.ExitStatus = exiterr.ExitCode()
	}

	return &execErr
}

// ExecuteCommandOutput runs the command and returns its stdout. A command
// that can't be started or exits non-zero yields an *ExecuteCommandError
// carrying the exit status and stderr. env is appended to the current
// process environment.
func ExecuteCommandOutput(ctx context.Context, env []string, cmdName string, arg ...string) ([]byte, error) {
	cmd := execCommand(ctx, cmdName, arg...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()

	if err != nil {
		return out, execStderrCombined(err, out, &stderr)
	}

	return out, nil
}
