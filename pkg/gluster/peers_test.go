package gluster

import (
	"testing"

	"github.com/praekeltfoundation/puppet-gluster/pkg/clixml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peerStatusXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cliOutput>
  <opRet>0</opRet>
  <opErrno>0</opErrno>
  <opErrstr/>
  <peerStatus>
    <peer>
      <uuid>d2ca4c5b-4fb3-4d33-9b3b-1e2e2a3e0b10</uuid>
      <hostname>gfs2.local</hostname>
      <hostnames>
        <hostname>gfs2.local</hostname>
        <hostname>10.0.0.2</hostname>
      </hostnames>
      <connected>1</connected>
      <state>3</state>
      <stateStr>Peer in Cluster</stateStr>
    </peer>
    <peer>
      <uuid>3d7b2bcb-8a1c-46a3-9ad1-3f0a5bb1c2a1</uuid>
      <hostname>gfs3.local</hostname>
      <connected>0</connected>
      <state>3</state>
      <stateStr>Peer in Cluster</stateStr>
    </peer>
  </peerStatus>
</cliOutput>
`

func TestParsePeerStatus(t *testing.T) {
	doc, err := clixml.Parse([]byte(peerStatusXML))
	require.NoError(t, err)
	assert.Equal(t, []string{"gfs2.local", "gfs3.local"}, ParsePeerStatus(doc))
}

func TestParsePeerStatusEmpty(t *testing.T) {
	doc, err := clixml.Parse([]byte(`<cliOutput><opRet>0</opRet><opErrno>0</opErrno><opErrstr/><peerStatus/></cliOutput>`))
	require.NoError(t, err)
	assert.Empty(t, ParsePeerStatus(doc))
}
