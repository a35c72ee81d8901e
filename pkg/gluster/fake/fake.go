// Package fake implements an in-memory gluster CLI for tests. It speaks the
// same argv and XML output as the real binary for the commands this module
// issues.
package fake

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/gluster"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	"github.com/pborman/uuid"
)

// namespace for the deterministic UUIDs handed out by the fake.
var namespace = uuid.Parse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// ErrnoPeerNotInCluster is returned by volume create for a brick on a host
// that isn't a peer.
const ErrnoPeerNotInCluster = 30800

func uuidify(s string) string {
	return uuid.NewMD5(namespace, []byte(s)).String()
}

// Peer is a simulated pool member.
type Peer struct {
	Hostname string
	UUID     string
}

// Volume is a simulated volume.
type Volume struct {
	Name      string
	UUID      string
	Bricks    []string
	StatusStr string
	Replica   int
	Force     bool
}

// Started reports whether the volume is running.
func (v *Volume) Started() bool {
	return v.StatusStr == "Started"
}

type cliError struct {
	opRet    int
	opErrno  int
	opErrstr string
}

// Gluster is the fake CLI. It implements gluster.Executor.
type Gluster struct {
	peers          []*Peer
	volumes        []*Volume
	localAddresses []string
	unreachable    map[string]string
	legacy         map[string]string
	err            *cliError
	execErr        error
	commands       [][]string
}

var _ gluster.Executor = &Gluster{}

// New returns an empty cluster whose local node answers to localAddresses.
func New(localAddresses ...string) *Gluster {
	return &Gluster{
		localAddresses: localAddresses,
		unreachable:    make(map[string]string),
		legacy:         make(map[string]string),
	}
}

// Client returns a gluster.Client talking to the fake.
func (g *Gluster) Client() *gluster.Client {
	return &gluster.Client{Binary: gluster.DefaultBinary, Exec: g}
}

// SetError makes every subsequent command fail with the given envelope.
func (g *Gluster) SetError(opRet, opErrno int, opErrstr string) {
	g.err = &cliError{opRet: opRet, opErrno: opErrno, opErrstr: opErrstr}
}

// SetExecError makes every subsequent command fail to execute.
func (g *Gluster) SetExecError(err error) {
	g.execErr = err
}

// ClearErrors undoes SetError and SetExecError.
func (g *Gluster) ClearErrors() {
	g.err = nil
	g.execErr = nil
}

// AddLocalAlias adds a name the local node answers to.
func (g *Gluster) AddLocalAlias(address string) {
	g.localAddresses = append(g.localAddresses, address)
}

// AddPeers adds peers to the pool.
func (g *Gluster) AddPeers(hostnames ...string) {
	for _, h := range hostnames {
		g.peers = append(g.peers, &Peer{Hostname: h, UUID: uuidify(h)})
	}
}

// RemovePeer removes a peer and reports whether it was there.
func (g *Gluster) RemovePeer(hostname string) bool {
	for i, p := range g.peers {
		if p.Hostname == hostname {
			g.peers = append(g.peers[:i], g.peers[i+1:]...)
			return true
		}
	}
	return false
}

// PeerUnreachable makes probing hostname fail with opErrno 107 and the given
// message. An empty reason uses the pre-3.7 message.
func (g *Gluster) PeerUnreachable(hostname, reason string) {
	if reason == "" {
		reason = gluster.LegacyUnreachableMessages[1]
	}
	g.unreachable[hostname] = reason
}

// PeerUnreachableLegacy makes probing hostname exit non-zero and print the
// given reason on stderr, as CLIs without XML error reporting did.
func (g *Gluster) PeerUnreachableLegacy(hostname, reason string) {
	g.legacy[hostname] = reason
}

// PeerReachable undoes PeerUnreachable and PeerUnreachableLegacy.
func (g *Gluster) PeerReachable(hostname string) {
	delete(g.unreachable, hostname)
	delete(g.legacy, hostname)
}

// PeerHosts returns the hostnames of all peers.
func (g *Gluster) PeerHosts() []string {
	hosts := []string{}
	for _, p := range g.peers {
		hosts = append(hosts, p.Hostname)
	}
	return hosts
}

// AddVolume adds a volume. An empty statusStr means Started.
func (g *Gluster) AddVolume(name string, bricks []string, statusStr string) *Volume {
	if statusStr == "" {
		statusStr = "Started"
	}
	v := &Volume{
		Name:      name,
		UUID:      uuidify(name),
		Bricks:    bricks,
		StatusStr: statusStr,
		Replica:   1,
	}
	g.volumes = append(g.volumes, v)
	return v
}

// Volume returns the named volume or nil.
func (g *Gluster) Volume(name string) *Volume {
	for _, v := range g.volumes {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// VolumeNames returns the names of all volumes.
func (g *Gluster) VolumeNames() []string {
	names := []string{}
	for _, v := range g.volumes {
		names = append(names, v.Name)
	}
	return names
}

// Commands returns the argv (without mode flags) of every command run.
func (g *Gluster) Commands() [][]string {
	return g.commands
}

// CommandNames returns "<noun> <verb>" of every command run.
func (g *Gluster) CommandNames() []string {
	names := []string{}
	for _, c := range g.commands {
		if len(c) >= 2 {
			names = append(names, c[0]+" "+c[1])
		}
	}
	return names
}

// MutatingCommands is CommandNames without the status and info queries.
func (g *Gluster) MutatingCommands() []string {
	names := []string{}
	for _, n := range g.CommandNames() {
		if n != "peer status" && n != "volume info" {
			names = append(names, n)
		}
	}
	return names
}

// ResetCommands forgets the command history.
func (g *Gluster) ResetCommands() {
	g.commands = nil
}

// Execute pretends to be the CLI.
func (g *Gluster) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	rest := []string{}
	seen := map[string]bool{}
	for _, a := range args {
		if a == "--xml" || a == "--mode=script" {
			seen[a] = true
			continue
		}
		rest = append(rest, a)
	}
	if !seen["--xml"] || !seen["--mode=script"] {
		return nil, fmt.Errorf("fake gluster: missing --xml or --mode=script in %v", args)
	}
	if len(rest) < 2 {
		return nil, fmt.Errorf("fake gluster: no command in %v", args)
	}
	g.commands = append(g.commands, rest)

	if g.execErr != nil {
		return nil, g.execErr
	}
	if g.err != nil {
		return errorDoc(g.err.opRet, g.err.opErrno, g.err.opErrstr)
	}

	noun, verb, params := rest[0], rest[1], rest[2:]
	switch noun + " " + verb {
	case "peer status":
		return g.peerStatus()
	case "peer probe":
		return g.peerProbe(params)
	case "peer detach":
		return g.peerDetach(params)
	case "volume info":
		return g.volumeInfo(params)
	case "volume create":
		return g.volumeCreate(params)
	case "volume start":
		return g.volumeStart(params)
	case "volume stop":
		return g.volumeStop(params)
	case "volume delete":
		return g.volumeDelete(params)
	}
	return nil, fmt.Errorf("fake gluster: unsupported command %q", noun+" "+verb)
}

func (g *Gluster) peerStatus() ([]byte, error) {
	ps := &peerStatusXML{}
	for _, p := range g.peers {
		ps.Peers = append(ps.Peers, peerXML{
			UUID:      p.UUID,
			Hostname:  p.Hostname,
			Hostnames: []string{p.Hostname},
			Connected: 1,
			State:     3,
			StateStr:  "Peer in Cluster",
		})
	}
	return marshal(&cliOutput{PeerStatus: ps})
}

func (g *Gluster) peerProbe(params []string) ([]byte, error) {
	if len(params) != 1 {
		return errorDoc(-1, 0, "Usage: peer probe <HOSTNAME>")
	}
	host := params[0]
	if reason, ok := g.legacy[host]; ok {
		return nil, &utils.ExecuteCommandError{
			ExitStatus: 1,
			Errstr:     "peer probe: failed: " + reason + "\n",
			Err:        fmt.Errorf("exit status 1"),
		}
	}
	if reason, ok := g.unreachable[host]; ok {
		return errorDoc(-1, gluster.ErrnoNotConnected, reason)
	}
	if !utils.StringInSlice(host, g.PeerHosts()) && !utils.StringInSlice(host, g.localAddresses) {
		g.AddPeers(host)
	}
	return marshal(&cliOutput{Output: "success"})
}

func (g *Gluster) peerDetach(params []string) ([]byte, error) {
	if len(params) != 1 {
		return errorDoc(-1, 0, "Usage: peer detach <HOSTNAME>")
	}
	g.RemovePeer(params[0])
	return marshal(&cliOutput{Output: "success"})
}

func (g *Gluster) volumeInfo(params []string) ([]byte, error) {
	if len(params) != 1 || params[0] != "all" {
		return nil, fmt.Errorf("fake gluster: only `volume info all` is supported, got %v", params)
	}
	vi := &volInfoXML{Count: len(g.volumes)}
	for _, v := range g.volumes {
		vi.Volumes = append(vi.Volumes, v.infoXML())
	}
	return marshal(&cliOutput{VolInfo: vi})
}

func (g *Gluster) volumeCreate(params []string) ([]byte, error) {
	if len(params) < 2 {
		return errorDoc(-1, 0, "Usage: volume create <NEW-VOLNAME> [replica <COUNT>] <NEW-BRICK>... [force]")
	}
	v := &Volume{Name: params[0], UUID: uuidify(params[0]), StatusStr: "Created", Replica: 1}
	args := params[1:]
	if args[len(args)-1] == "force" {
		v.Force = true
		args = args[:len(args)-1]
	}
	if len(args) >= 2 && args[0] == "replica" {
		if _, err := fmt.Sscanf(args[1], "%d", &v.Replica); err != nil {
			return errorDoc(-1, 0, "replica count should be an integer")
		}
		args = args[2:]
	}
	v.Bricks = args

	if g.Volume(v.Name) != nil {
		return errorDoc(-1, 30806, fmt.Sprintf("Volume %s already exists", v.Name))
	}
	known := append(g.PeerHosts(), g.localAddresses...)
	for _, b := range v.Bricks {
		host, err := utils.BrickHost(b)
		if err != nil {
			return errorDoc(-1, 0, fmt.Sprintf("wrong brick type: %s, use <HOSTNAME>:<export-dir-abs-path>", b))
		}
		if !utils.StringInSlice(host, known) {
			return errorDoc(-1, ErrnoPeerNotInCluster, fmt.Sprintf("Host %s is not in 'Peer in Cluster' state", host))
		}
	}
	g.volumes = append(g.volumes, v)
	return marshal(&cliOutput{VolCreate: v.shortXML()})
}

func (g *Gluster) volumeStart(params []string) ([]byte, error) {
	v, doc, err := g.lookup(params)
	if v == nil {
		return doc, err
	}
	if v.Started() {
		return errorDoc(-1, 0, fmt.Sprintf("Volume %s already started", v.Name))
	}
	v.StatusStr = "Started"
	return marshal(&cliOutput{VolStart: v.shortXML()})
}

func (g *Gluster) volumeStop(params []string) ([]byte, error) {
	v, doc, err := g.lookup(params)
	if v == nil {
		return doc, err
	}
	if !v.Started() {
		return errorDoc(-1, 0, fmt.Sprintf("Volume %s is not in the started state", v.Name))
	}
	v.StatusStr = "Stopped"
	return marshal(&cliOutput{VolStop: v.shortXML()})
}

func (g *Gluster) volumeDelete(params []string) ([]byte, error) {
	v, doc, err := g.lookup(params)
	if v == nil {
		return doc, err
	}
	if v.Started() {
		return errorDoc(-1, 0, fmt.Sprintf("Volume %s has been started.Volume needs to be stopped before deletion.", v.Name))
	}
	for i, vol := range g.volumes {
		if vol == v {
			g.volumes = append(g.volumes[:i], g.volumes[i+1:]...)
			break
		}
	}
	return marshal(&cliOutput{VolDelete: v.shortXML()})
}

func (g *Gluster) lookup(params []string) (*Volume, []byte, error) {
	if len(params) != 1 {
		doc, err := errorDoc(-1, 0, "Usage: volume <start|stop|delete> <VOLNAME>")
		return nil, doc, err
	}
	v := g.Volume(params[0])
	if v == nil {
		doc, err := errorDoc(-1, 30800, fmt.Sprintf("Volume %s does not exist", params[0]))
		return nil, doc, err
	}
	return v, nil, nil
}

func errorDoc(opRet, opErrno int, opErrstr string) ([]byte, error) {
	return marshal(&cliOutput{OpRet: opRet, OpErrno: opErrno, OpErrstr: opErrstr})
}

func marshal(out *cliOutput) ([]byte, error) {
	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return []byte(strings.TrimSpace(xml.Header) + "\n" + string(b) + "\n"), nil
}
