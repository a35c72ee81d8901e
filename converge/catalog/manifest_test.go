package catalog

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	gerrors "github.com/praekeltfoundation/puppet-gluster/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `
localPeerAliases: [storage-a]
peers:
  - peer: gfs2
  - peer: gfs3
    ensure: absent
volumes:
  - name: vol1
    replica: 2
    force: true
    bricks:
      - gfs1:/b1/vol1
      - gfs2:/b1/vol1
  - name: vol2
    ensure: stopped
    replica: "3"
    bricks: gfs1:/b1/vol2
    localPeerAliases: [gfs1]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, []api.PeerSpec{
		{Peer: "gfs2", LocalPeerAliases: []string{"storage-a"}, Ensure: api.EnsurePresent},
		{Peer: "gfs3", LocalPeerAliases: []string{"storage-a"}, Ensure: api.EnsureAbsent},
	}, c.Peers)

	require.Len(t, c.Volumes, 2)
	assert.Equal(t, api.VolumeSpec{
		Name:             "vol1",
		Bricks:           []string{"gfs1:/b1/vol1", "gfs2:/b1/vol1"},
		Replica:          2,
		Force:            true,
		LocalPeerAliases: []string{"storage-a"},
		Ensure:           api.EnsurePresent,
	}, c.Volumes[0])
	assert.Equal(t, []string{"gfs1:/b1/vol2"}, c.Volumes[1].Bricks)
	assert.Equal(t, 3, c.Volumes[1].Replica)
	assert.Equal(t, []string{"gfs1", "storage-a"}, c.Volumes[1].LocalPeerAliases)
	assert.Equal(t, api.EnsureStopped, c.Volumes[1].Ensure)
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, c.Peers)
	assert.Empty(t, c.Volumes)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		field    string
		err      error
	}{
		{"replica word", "volumes: [{name: vol1, replica: seventeen, bricks: [gfs1:/b1]}]", "replica", gerrors.ErrInvalidReplica},
		{"replica one", "volumes: [{name: vol1, replica: 1, bricks: [gfs1:/b1]}]", "replica", gerrors.ErrInvalidReplica},
		{"replica fraction", "volumes: [{name: vol1, replica: 2.5, bricks: [gfs1:/b1]}]", "replica", gerrors.ErrInvalidReplica},
		{"volume ensure", "volumes: [{name: vol1, ensure: running, bricks: [gfs1:/b1]}]", "ensure", gerrors.ErrInvalidEnsure},
		{"peer ensure", "peers: [{peer: gfs2, ensure: stopped}]", "ensure", gerrors.ErrInvalidEnsure},
		{"empty peer", "peers: [{peer: ''}]", "peer", gerrors.ErrEmptyPeerAddress},
		{"empty volume", "volumes: [{bricks: [gfs1:/b1]}]", "name", gerrors.ErrEmptyVolName},
		{"bad brick", "volumes: [{name: vol1, bricks: [/b1/vol1]}]", "brick", gerrors.ErrInvalidBrickPath},
		{"duplicate peer", "peers: [{peer: gfs2}, {peer: gfs2}]", "peer", gerrors.ErrDuplicateName},
		{"duplicate volume", "volumes: [{name: vol1, bricks: [gfs1:/b1]}, {name: vol1, bricks: [gfs1:/b2]}]", "name", gerrors.ErrDuplicateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.manifest))
			require.Error(t, err)

			var verr *gerrors.ValidationError
			require.True(t, errors.As(err, &verr), err.Error())
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestParseReplicaMessage(t *testing.T) {
	_, err := Parse([]byte("volumes: [{name: vol1, replica: seventeen, bricks: [gfs1:/b1]}]"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be an integer >= 2")
	assert.Contains(t, err.Error(), "seventeen")
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("peers: {peer: [gfs2"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	_, err := Load("")
	assert.Equal(t, gerrors.ErrManifestNotFound, err)

	_, err = Load("/nonexistent/manifest.yaml")
	assert.True(t, os.IsNotExist(err))

	p := path.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(p, []byte(manifest), 0644))
	c, err := Load(p)
	require.NoError(t, err)
	assert.Len(t, c.Volumes, 2)

	require.NoError(t, os.WriteFile(p, []byte("volumes: [{name: vol1, replica: x, bricks: [a:/b]}]"), 0644))
	_, err = Load(p)
	assert.Contains(t, err.Error(), p)
	assert.True(t, errors.Is(err, gerrors.ErrInvalidReplica))
}

func TestRequires(t *testing.T) {
	c, err := Parse([]byte(manifest))
	require.NoError(t, err)

	assert.Equal(t, []string{"gfs2"}, c.Requires(c.Volumes[0]))
	assert.Empty(t, c.Requires(c.Volumes[1]))
}
