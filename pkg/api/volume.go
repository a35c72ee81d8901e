package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"
)

// VolumeState is a volume as reported by `gluster volume info all`.
type VolumeState struct {
	Name   string   `json:"name"`
	Status VolState `json:"status"`
	Bricks []string `json:"bricks"`
	// Peers holds the unique hosts of Bricks in first occurrence order.
	Peers  []string `json:"peers"`
	Ensure Ensure   `json:"ensure"`
}

// VolumeSpec is the desired state of a single volume.
type VolumeSpec struct {
	Name string `json:"name"`
	// Bricks are passed to `volume create` in exactly this order.
	Bricks []string `json:"bricks"`
	// Replica is 0 when unset.
	Replica          int      `json:"replica,omitempty"`
	Force            bool     `json:"force,omitempty"`
	LocalPeerAliases []string `json:"local-peer-aliases,omitempty"`
	Ensure           Ensure   `json:"ensure"`
}

// ParseReplica accepts an integer or a string holding an integer and
// returns it if it is at least 2. nil and "" mean unset and return 0.
func ParseReplica(v interface{}) (int, error) {
	var n int
	switch r := v.(type) {
	case nil:
		return 0, nil
	case int:
		n = r
	case int64:
		n = int(r)
	case uint64:
		n = int(r)
	case float64:
		if r != float64(int(r)) {
			return 0, errors.ErrInvalidReplica
		}
		n = int(r)
	case string:
		s := strings.TrimSpace(r)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.ErrInvalidReplica
		}
		n = i
	default:
		return 0, errors.ErrInvalidReplica
	}
	if n < 2 {
		return 0, errors.ErrInvalidReplica
	}
	return n, nil
}

// Validate checks the fields that can be checked without talking to the
// cluster.
func (s VolumeSpec) Validate() error {
	if s.Name == "" {
		return &errors.ValidationError{Resource: "volume", Field: "name", Value: s.Name, Err: errors.ErrEmptyVolName}
	}
	if s.Replica != 0 && s.Replica < 2 {
		return &errors.ValidationError{Resource: s.ref(), Field: "replica", Value: s.Replica, Err: errors.ErrInvalidReplica}
	}
	for _, b := range s.Bricks {
		i := strings.Index(b, ":")
		if i <= 0 || i == len(b)-1 {
			return &errors.ValidationError{Resource: s.ref(), Field: "brick", Value: b, Err: errors.ErrInvalidBrickPath}
		}
	}
	return nil
}

func (s VolumeSpec) ref() string {
	return fmt.Sprintf("volume %s", s.Name)
}
