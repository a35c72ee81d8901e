package api

import (
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"
)

// Ensure is the desired or observed convergence state of a managed resource.
type Ensure string

// Values for Ensure. EnsureUnknown is only ever observed, never desired.
const (
	EnsurePresent Ensure = "present"
	EnsureStopped Ensure = "stopped"
	EnsureAbsent  Ensure = "absent"
	EnsureUnknown Ensure = "unknown"
)

var (
	// PeerEnsureValues are the values accepted for a peer.
	PeerEnsureValues = []Ensure{EnsurePresent, EnsureAbsent}
	// VolumeEnsureValues are the values accepted for a volume.
	VolumeEnsureValues = []Ensure{EnsurePresent, EnsureStopped, EnsureAbsent}
)

// ParseEnsure parses s against the allowed values. An empty string yields
// EnsurePresent, which is the default for both resource kinds.
func ParseEnsure(s string, allowed []Ensure) (Ensure, error) {
	if s == "" {
		return EnsurePresent, nil
	}
	e := Ensure(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if e == a {
			return e, nil
		}
	}
	return "", errors.ErrInvalidEnsure
}

// EnsureFromStatus maps a volume status to the ensure value it satisfies.
// A started volume is present; anything else surfaces the status itself.
func EnsureFromStatus(s VolState) Ensure {
	if s == VolStarted {
		return EnsurePresent
	}
	return Ensure(s.String())
}
