package clixml

import (
	"testing"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const volInfoXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cliOutput>
  <opRet>0</opRet>
  <opErrno>0</opErrno>
  <opErrstr/>
  <volInfo>
    <volumes>
      <volume>
        <name>vol1</name>
        <statusStr>Started</statusStr>
        <bricks>
          <brick uuid="b-1">gfs1.local:/b1/vol1<name>gfs1.local:/b1/vol1</name><hostUuid>h-1</hostUuid></brick>
          <brick uuid="b-2">gfs2.local:/b1/vol1<name>gfs2.local:/b1/vol1</name><hostUuid>h-2</hostUuid></brick>
        </bricks>
      </volume>
      <volume>
        <name>vol2</name>
        <statusStr>Created</statusStr>
        <bricks/>
      </volume>
    </volumes>
  </volInfo>
</cliOutput>`

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("<cliOutput><opRet>0</opErrno></cliOutput>"))
	assert.Error(t, err)
}

func TestEnvelope(t *testing.T) {
	doc, err := Parse([]byte(volInfoXML))
	require.NoError(t, err)

	env, err := doc.Envelope()
	require.NoError(t, err)
	assert.Equal(t, Envelope{OpRet: 0, OpErrno: 0, OpErrstr: ""}, env)
}

func TestEnvelopeFailure(t *testing.T) {
	doc, err := Parse([]byte(`<cliOutput><opRet>-1</opRet><opErrno>107</opErrno>` +
		`<opErrstr>Probe returned with Transport endpoint is not connected</opErrstr></cliOutput>`))
	require.NoError(t, err)

	env, err := doc.Envelope()
	require.NoError(t, err)
	assert.Equal(t, -1, env.OpRet)
	assert.Equal(t, 107, env.OpErrno)
	assert.Equal(t, "Probe returned with Transport endpoint is not connected", env.OpErrstr)
}

func TestEnvelopeOptionalFields(t *testing.T) {
	doc, err := Parse([]byte(`<cliOutput><opRet>0</opRet></cliOutput>`))
	require.NoError(t, err)

	env, err := doc.Envelope()
	require.NoError(t, err)
	assert.Equal(t, Envelope{}, env)
}

func TestEnvelopeMissing(t *testing.T) {
	doc, err := Parse([]byte(`<other/>`))
	require.NoError(t, err)

	_, err = doc.Envelope()
	assert.Equal(t, errors.ErrMissingEnvelope, err)
}

func TestField(t *testing.T) {
	doc, err := Parse([]byte(volInfoXML))
	require.NoError(t, err)

	name, ok := doc.Field("/cliOutput/volInfo/volumes/volume/name")
	assert.True(t, ok)
	assert.Equal(t, "vol1", name)

	// absent optional field
	_, ok = doc.Field("/cliOutput/volInfo/volumes/volume/transport")
	assert.False(t, ok)

	// structured field doesn't collapse to text
	_, ok = doc.Field("/cliOutput/volInfo/volumes/volume")
	assert.False(t, ok)
}

func TestSelectStructured(t *testing.T) {
	doc, err := Parse([]byte(volInfoXML))
	require.NoError(t, err)

	values := doc.Select("/cliOutput/volInfo/volumes/volume")
	require.Len(t, values, 2)
	_, isText := values[0].Text()
	assert.False(t, isText)
	assert.Equal(t, "volume", values[0].Node().Name())

	// an empty element is a text leaf with no text
	s, isText := doc.Select("/cliOutput/opErrstr")[0].Text()
	assert.True(t, isText)
	assert.Equal(t, "", s)
}

func TestNodesAndRelativeQueries(t *testing.T) {
	doc, err := Parse([]byte(volInfoXML))
	require.NoError(t, err)

	vols := doc.Nodes("/cliOutput/volInfo/volumes/volume")
	require.Len(t, vols, 2)

	name, _ := vols[0].Field("name")
	assert.Equal(t, "vol1", name)
	assert.Equal(t, []string{"gfs1.local:/b1/vol1", "gfs2.local:/b1/vol1"}, vols[0].List("bricks/brick/name"))

	status, _ := vols[1].Field("statusStr")
	assert.Equal(t, "Created", status)
	assert.Equal(t, []string{}, vols[1].List("bricks/brick/name"))
}

func TestListTextNodes(t *testing.T) {
	doc, err := Parse([]byte(`<cliOutput><peerStatus>` +
		`<peer><hostname>gfs1.local</hostname></peer>` +
		`<peer><hostname>gfs2.local</hostname></peer>` +
		`</peerStatus></cliOutput>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"gfs1.local", "gfs2.local"}, doc.List("/cliOutput/peerStatus/peer/hostname/text()"))
	assert.Equal(t, []string{"gfs1.local", "gfs2.local"}, doc.List("/cliOutput/peerStatus/peer/hostname"))
	assert.Equal(t, []string{}, doc.List("/cliOutput/volInfo/volumes/volume/name"))
	assert.Equal(t, []*Document{}, doc.Nodes("/cliOutput/volInfo/volumes/volume"))
}
