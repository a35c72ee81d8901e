package gluster

import (
	"strconv"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"
)

// Command is one of the gluster CLI operations this module issues. Each
// concrete type carries its own arguments; Args turns it into an argv.
type Command interface {
	isCommand()
}

// PeerStatus is `gluster peer status`.
type PeerStatus struct{}

// PeerProbe is `gluster peer probe <peer>`.
type PeerProbe struct {
	Peer string
}

// PeerDetach is `gluster peer detach <peer>`.
type PeerDetach struct {
	Peer string
}

// VolumeInfo is `gluster volume info <volume>`. An empty Volume queries all
// volumes.
type VolumeInfo struct {
	Volume string
}

// VolumeCreate is `gluster volume create <volume> [replica <n>] <bricks>... [force]`.
type VolumeCreate struct {
	Volume  string
	Replica int
	Bricks  []string
	Force   bool
}

// VolumeStart is `gluster volume start <volume>`.
type VolumeStart struct {
	Volume string
}

// VolumeStop is `gluster volume stop <volume>`.
type VolumeStop struct {
	Volume string
}

// VolumeDelete is `gluster volume delete <volume>`.
type VolumeDelete struct {
	Volume string
}

func (PeerStatus) isCommand()   {}
func (PeerProbe) isCommand()    {}
func (PeerDetach) isCommand()   {}
func (VolumeInfo) isCommand()   {}
func (VolumeCreate) isCommand() {}
func (VolumeStart) isCommand()  {}
func (VolumeStop) isCommand()   {}
func (VolumeDelete) isCommand() {}

// Args returns the noun, verb and arguments of cmd, without the output mode
// flags.
func Args(cmd Command) ([]string, error) {
	switch c := cmd.(type) {
	case PeerStatus:
		return []string{"peer", "status"}, nil
	case PeerProbe:
		return []string{"peer", "probe", c.Peer}, nil
	case PeerDetach:
		return []string{"peer", "detach", c.Peer}, nil
	case VolumeInfo:
		name := c.Volume
		if name == "" {
			name = "all"
		}
		return []string{"volume", "info", name}, nil
	case VolumeCreate:
		args := []string{"volume", "create", c.Volume}
		if c.Replica != 0 {
			args = append(args, "replica", strconv.Itoa(c.Replica))
		}
		args = append(args, c.Bricks...)
		if c.Force {
			args = append(args, "force")
		}
		return args, nil
	case VolumeStart:
		return []string{"volume", "start", c.Volume}, nil
	case VolumeStop:
		return []string{"volume", "stop", c.Volume}, nil
	case VolumeDelete:
		return []string{"volume", "delete", c.Volume}, nil
	}
	return nil, errors.ErrUnknownCommand
}

// Name returns "<noun> <verb>" for cmd, e.g. "volume create".
func Name(cmd Command) string {
	args, err := Args(cmd)
	if err != nil || len(args) < 2 {
		return "unknown"
	}
	return args[0] + " " + args[1]
}
