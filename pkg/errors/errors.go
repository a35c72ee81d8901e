// Package errors holds the sentinel errors shared across the module.
package errors

import (
	"errors"
	"fmt"
)

// Different error macros
var (
	ErrEmptyVolName      = errors.New("volume name is empty")
	ErrEmptyPeerAddress  = errors.New("peer address is empty")
	ErrInvalidBrickPath  = errors.New("invalid brick path, brick path should be in host:<brickpath> format")
	ErrInvalidReplica    = errors.New("must be an integer >= 2")
	ErrInvalidEnsure     = errors.New("invalid value for ensure")
	ErrDuplicateName     = errors.New("resource declared more than once")
	ErrUnknownCommand    = errors.New("unknown gluster command")
	ErrMissingEnvelope   = errors.New("command output has no cliOutput/opRet element")
	ErrIPAddressNotFound = errors.New("failed to get IP address")
	ErrManifestNotFound  = errors.New("no manifest file given")
)

// ValidationError reports a desired-state field that was rejected before
// any command could be run.
type ValidationError struct {
	Resource string
	Field    string
	Value    interface{}
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s %q: %s", e.Resource, e.Field, fmt.Sprint(e.Value), e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
