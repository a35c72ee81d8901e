package gluster

import (
	"testing"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bogusCommand struct{}

func (bogusCommand) isCommand() {}

func TestArgs(t *testing.T) {
	tests := []struct {
		cmd  Command
		args []string
	}{
		{PeerStatus{}, []string{"peer", "status"}},
		{PeerProbe{Peer: "gfs2"}, []string{"peer", "probe", "gfs2"}},
		{PeerDetach{Peer: "gfs2"}, []string{"peer", "detach", "gfs2"}},
		{VolumeInfo{}, []string{"volume", "info", "all"}},
		{VolumeInfo{Volume: "vol1"}, []string{"volume", "info", "vol1"}},
		{VolumeStart{Volume: "vol1"}, []string{"volume", "start", "vol1"}},
		{VolumeStop{Volume: "vol1"}, []string{"volume", "stop", "vol1"}},
		{VolumeDelete{Volume: "vol1"}, []string{"volume", "delete", "vol1"}},
		{
			VolumeCreate{Volume: "vol1", Bricks: []string{"gfs1:/b1/vol1"}},
			[]string{"volume", "create", "vol1", "gfs1:/b1/vol1"},
		},
		{
			VolumeCreate{
				Volume:  "vol1",
				Replica: 2,
				Bricks:  []string{"gfs1:/b1/vol1", "gfs2:/b1/vol1"},
				Force:   true,
			},
			[]string{"volume", "create", "vol1", "replica", "2", "gfs1:/b1/vol1", "gfs2:/b1/vol1", "force"},
		},
	}

	for _, tt := range tests {
		args, err := Args(tt.cmd)
		require.NoError(t, err)
		assert.Equal(t, tt.args, args)
	}
}

func TestArgsUnknown(t *testing.T) {
	_, err := Args(bogusCommand{})
	assert.Equal(t, errors.ErrUnknownCommand, err)
	assert.Equal(t, "unknown", Name(bogusCommand{}))
}

func TestName(t *testing.T) {
	assert.Equal(t, "peer probe", Name(PeerProbe{Peer: "gfs2"}))
	assert.Equal(t, "volume create", Name(VolumeCreate{Volume: "vol1"}))
}

func TestCmdError(t *testing.T) {
	err := &CmdError{Command: "peer probe", OpRet: -1, OpErrno: 107, OpErrstr: "Probe returned with unknown errno 107"}
	assert.Equal(t, "Execution failed (-1) 107: Probe returned with unknown errno 107", err.Error())
}
