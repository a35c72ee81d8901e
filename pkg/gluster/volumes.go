package gluster

import (
	"context"

	"github.com/praekeltfoundation/puppet-gluster/pkg/api"
	"github.com/praekeltfoundation/puppet-gluster/pkg/clixml"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	log "github.com/sirupsen/logrus"
)

const volumePath = "/cliOutput/volInfo/volumes/volume"

// VolumeStatus maps a statusStr to a VolState. A volume that was created but
// never started counts as stopped. Anything unrecognised is VolUnknown and
// raises an alert.
func VolumeStatus(statusStr string) api.VolState {
	switch statusStr {
	case "Created", "Stopped":
		return api.VolStopped
	case "Started":
		return api.VolStarted
	}
	log.WithFields(log.Fields{
		"alert":  true,
		"status": statusStr,
	}).Errorf("Unknown volume status: %s", statusStr)
	return api.VolUnknown
}

// BrickPeers returns the hosts of bricks, deduplicated in first occurrence
// order. Bricks without a host part are skipped.
func BrickPeers(bricks []string) []string {
	hosts := make([]string, 0, len(bricks))
	for _, b := range bricks {
		h, err := utils.BrickHost(b)
		if err != nil {
			continue
		}
		hosts = append(hosts, h)
	}
	return utils.UniqueStrings(hosts)
}

// ParseVolume builds a VolumeState from a single volume element.
func ParseVolume(vol *clixml.Document) api.VolumeState {
	name, _ := vol.Field("name")
	status, _ := vol.Field("statusStr")
	v := api.VolumeState{
		Name:   name,
		Status: VolumeStatus(status),
		Bricks: vol.List("bricks/brick/name"),
	}
	v.Peers = BrickPeers(v.Bricks)
	v.Ensure = api.EnsureFromStatus(v.Status)
	return v
}

// ParseVolumeInfo returns every volume of a `volume info` document.
func ParseVolumeInfo(doc *clixml.Document) []api.VolumeState {
	vols := []api.VolumeState{}
	for _, n := range doc.Nodes(volumePath) {
		vols = append(vols, ParseVolume(n))
	}
	return vols
}

// ListVolumes queries the cluster for all volumes.
func (c *Client) ListVolumes(ctx context.Context) ([]api.VolumeState, error) {
	doc, err := c.Run(ctx, VolumeInfo{})
	if err != nil {
		return nil, err
	}
	return ParseVolumeInfo(doc), nil
}

// FindVolume returns the named volume, or nil if it doesn't exist. It always
// lists all volumes so that a missing volume isn't a command failure.
func (c *Client) FindVolume(ctx context.Context, name string) (*api.VolumeState, error) {
	vols, err := c.ListVolumes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vols {
		if vols[i].Name == name {
			return &vols[i], nil
		}
	}
	return nil, nil
}
