// Package catalog loads the desired peers and volumes of a host and applies
// them in dependency order.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk YAML form of a catalog.
type Manifest struct {
	// LocalPeerAliases are added to every resource's own aliases.
	LocalPeerAliases []string      `yaml:"localPeerAliases"`
	Peers            []PeerEntry   `yaml:"peers"`
	Volumes          []VolumeEntry `yaml:"volumes"`
}

// PeerEntry declares one peer.
type PeerEntry struct {
	Peer             string   `yaml:"peer"`
	Ensure           string   `yaml:"ensure"`
	LocalPeerAliases []string `yaml:"localPeerAliases"`
}

// VolumeEntry declares one volume. Replica is validated after decoding so
// that a bad value yields a proper validation error.
type VolumeEntry struct {
	Name             string      `yaml:"name"`
	Ensure           string      `yaml:"ensure"`
	Replica          interface{} `yaml:"replica"`
	Force            bool        `yaml:"force"`
	Bricks           StringList  `yaml:"bricks"`
	LocalPeerAliases []string    `yaml:"localPeerAliases"`
}

// StringList decodes from either a single scalar or a sequence.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

// Catalog is a validated set of desired resources.
type Catalog struct {
	Peers   []api.PeerSpec   `json:"peers"`
	Volumes []api.VolumeSpec `json:"volumes"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return nil, errors.ErrManifestNotFound
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a manifest.
func Parse(b []byte) (*Catalog, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m.Catalog()
}

// Catalog validates m. Nothing is sent to the cluster here.
func (m *Manifest) Catalog() (*Catalog, error) {
	c := &Catalog{
		Peers:   []api.PeerSpec{},
		Volumes: []api.VolumeSpec{},
	}

	seen := map[string]bool{}
	for _, e := range m.Peers {
		spec, err := m.peerSpec(e)
		if err != nil {
			return nil, err
		}
		if seen[spec.Peer] {
			return nil, &errors.ValidationError{Resource: "peer " + spec.Peer, Field: "peer", Value: spec.Peer, Err: errors.ErrDuplicateName}
		}
		seen[spec.Peer] = true
		c.Peers = append(c.Peers, spec)
	}

	seen = map[string]bool{}
	for _, e := range m.Volumes {
		spec, err := m.volumeSpec(e)
		if err != nil {
			return nil, err
		}
		if seen[spec.Name] {
			return nil, &errors.ValidationError{Resource: "volume " + spec.Name, Field: "name", Value: spec.Name, Err: errors.ErrDuplicateName}
		}
		seen[spec.Name] = true
		c.Volumes = append(c.Volumes, spec)
	}
	return c, nil
}

func (m *Manifest) aliases(own []string) []string {
	return utils.UniqueStrings(append(append([]string{}, own...), m.LocalPeerAliases...))
}

func (m *Manifest) peerSpec(e PeerEntry) (api.PeerSpec, error) {
	name := strings.TrimSpace(e.Peer)
	if name == "" {
		return api.PeerSpec{}, &errors.ValidationError{Resource: "peer", Field: "peer", Value: e.Peer, Err: errors.ErrEmptyPeerAddress}
	}
	ensure, err := api.ParseEnsure(e.Ensure, api.PeerEnsureValues)
	if err != nil {
		return api.PeerSpec{}, &errors.ValidationError{Resource: "peer " + name, Field: "ensure", Value: e.Ensure, Err: err}
	}
	return api.PeerSpec{
		Peer:             name,
		LocalPeerAliases: m.aliases(e.LocalPeerAliases),
		Ensure:           ensure,
	}, nil
}

func (m *Manifest) volumeSpec(e VolumeEntry) (api.VolumeSpec, error) {
	name := strings.TrimSpace(e.Name)
	ref := "volume " + name
	ensure, err := api.ParseEnsure(e.Ensure, api.VolumeEnsureValues)
	if err != nil {
		return api.VolumeSpec{}, &errors.ValidationError{Resource: ref, Field: "ensure", Value: e.Ensure, Err: err}
	}
	replica, err := api.ParseReplica(e.Replica)
	if err != nil {
		return api.VolumeSpec{}, &errors.ValidationError{Resource: ref, Field: "replica", Value: e.Replica, Err: err}
	}
	spec := api.VolumeSpec{
		Name:             name,
		Bricks:           []string(e.Bricks),
		Replica:          replica,
		Force:            e.Force,
		LocalPeerAliases: m.aliases(e.LocalPeerAliases),
		Ensure:           ensure,
	}
	if spec.Bricks == nil {
		spec.Bricks = []string{}
	}
	if err := spec.Validate(); err != nil {
		return api.VolumeSpec{}, err
	}
	return spec, nil
}

// Requires returns the declared peers that v's bricks live on.
func (c *Catalog) Requires(v api.VolumeSpec) []string {
	declared := make([]string, 0, len(c.Peers))
	for _, p := range c.Peers {
		declared = append(declared, p.Peer)
	}
	req := []string{}
	for _, b := range v.Bricks {
		h, err := utils.BrickHost(b)
		if err != nil {
			continue
		}
		if utils.StringInSlice(h, declared) {
			req = append(req, h)
		}
	}
	return utils.UniqueStrings(req)
}
