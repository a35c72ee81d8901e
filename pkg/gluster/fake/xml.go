package fake

import (
	"encoding/xml"
	"strings"
)

type cliOutput struct {
	XMLName    xml.Name       `xml:"cliOutput"`
	OpRet      int            `xml:"opRet"`
	OpErrno    int            `xml:"opErrno"`
	OpErrstr   string         `xml:"opErrstr"`
	PeerStatus *peerStatusXML `xml:"peerStatus,omitempty"`
	VolInfo    *volInfoXML    `xml:"volInfo,omitempty"`
	VolCreate  *volShortXML   `xml:"volCreate>volume,omitempty"`
	VolStart   *volShortXML   `xml:"volStart>volume,omitempty"`
	VolStop    *volShortXML   `xml:"volStop>volume,omitempty"`
	VolDelete  *volShortXML   `xml:"volDelete>volume,omitempty"`
	Output     string         `xml:"output,omitempty"`
}

type peerStatusXML struct {
	Peers []peerXML `xml:"peer"`
}

type peerXML struct {
	UUID      string   `xml:"uuid"`
	Hostname  string   `xml:"hostname"`
	Hostnames []string `xml:"hostnames>hostname"`
	Connected int      `xml:"connected"`
	State     int      `xml:"state"`
	StateStr  string   `xml:"stateStr"`
}

type volInfoXML struct {
	Count   int             `xml:"volumes>count"`
	Volumes []volumeInfoXML `xml:"volumes>volume"`
}

type volumeInfoXML struct {
	Name         string     `xml:"name"`
	ID           string     `xml:"id"`
	Status       int        `xml:"status"`
	StatusStr    string     `xml:"statusStr"`
	BrickCount   int        `xml:"brickCount"`
	ReplicaCount int        `xml:"replicaCount"`
	TypeStr      string     `xml:"typeStr"`
	Transport    int        `xml:"transport"`
	Bricks       []brickXML `xml:"bricks>brick"`
	OptCount     int        `xml:"optCount"`
}

type brickXML struct {
	UUID     string `xml:"uuid,attr"`
	Text     string `xml:",chardata"`
	Name     string `xml:"name"`
	HostUUID string `xml:"hostUuid"`
}

type volShortXML struct {
	Name string `xml:"name"`
	ID   string `xml:"id"`
}

var statusCodes = map[string]int{
	"Created": 0,
	"Started": 1,
	"Stopped": 2,
}

func (v *Volume) infoXML() volumeInfoXML {
	typeStr := "Distribute"
	if v.Replica > 1 {
		typeStr = "Replicate"
	}
	vi := volumeInfoXML{
		Name:         v.Name,
		ID:           v.UUID,
		Status:       statusCodes[v.StatusStr],
		StatusStr:    v.StatusStr,
		BrickCount:   len(v.Bricks),
		ReplicaCount: v.Replica,
		TypeStr:      typeStr,
	}
	for _, b := range v.Bricks {
		host := b
		if i := strings.IndexByte(b, ':'); i > 0 {
			host = b[:i]
		}
		vi.Bricks = append(vi.Bricks, brickXML{
			UUID:     uuidify(b),
			Text:     b,
			Name:     b,
			HostUUID: uuidify(host),
		})
	}
	return vi
}

func (v *Volume) shortXML() *volShortXML {
	return &volShortXML{Name: v.Name, ID: v.UUID}
}
