// Package hostinfo describes the addresses by which the local host may be
// named in peer and brick definitions.
package hostinfo

import (
	"net"
	"os"
	"strings"

	"github.com/praekeltfoundation/puppet-gluster/pkg/errors"
	"github.com/praekeltfoundation/puppet-gluster/pkg/utils"

	log "github.com/sirupsen/logrus"
)

// Overridden in tests.
var (
	osHostname     = os.Hostname
	interfaceAddrs = net.InterfaceAddrs
	lookupCNAME    = net.LookupCNAME
)

// LocalIdentity is the set of names the local host answers to. A zero value
// is valid and matches nothing.
type LocalIdentity struct {
	FQDN        string `json:"fqdn,omitempty"`
	Hostname    string `json:"hostname,omitempty"`
	IPAddress   string `json:"ipaddress,omitempty"`
	IPAddressLo string `json:"ipaddress_lo,omitempty"`
	// Aliases are extra names configured by the operator.
	Aliases []string `json:"aliases,omitempty"`
}

// Addresses returns every non-empty name of the local host, without
// duplicates.
func (l LocalIdentity) Addresses() []string {
	addrs := []string{}
	for _, a := range append([]string{l.FQDN, l.Hostname, l.IPAddress, l.IPAddressLo}, l.Aliases...) {
		if a != "" {
			addrs = append(addrs, a)
		}
	}
	return utils.UniqueStrings(addrs)
}

// IsLocal checks whether addr is one of the local host's names.
func (l LocalIdentity) IsLocal(addr string) bool {
	return utils.StringInSlice(addr, l.Addresses())
}

// WithAliases returns a copy of l with extra aliases appended.
func (l LocalIdentity) WithAliases(aliases ...string) LocalIdentity {
	l.Aliases = append(append([]string{}, l.Aliases...), aliases...)
	return l
}

// Detect builds the LocalIdentity of the running host. Lookups that fail
// leave the corresponding field empty; only a failing hostname is an error.
func Detect(aliases ...string) (LocalIdentity, error) {
	hostname, err := osHostname()
	if err != nil {
		return LocalIdentity{}, err
	}

	id := LocalIdentity{
		Hostname:    shortName(hostname),
		FQDN:        hostname,
		IPAddressLo: "127.0.0.1",
		Aliases:     aliases,
	}

	if cname, err := lookupCNAME(hostname); err == nil && cname != "" {
		id.FQDN = strings.TrimSuffix(cname, ".")
	} else if err != nil {
		log.WithError(err).WithField("hostname", hostname).Debug("failed to resolve fqdn")
	}

	if ip, err := localIP(); err == nil {
		id.IPAddress = ip
	} else {
		log.WithError(err).Debug("failed to find a non-loopback address")
	}

	return id, nil
}

func shortName(hostname string) string {
	if i := strings.Index(hostname, "."); i > 0 {
		return hostname[:i]
	}
	return hostname
}

// localIP returns the first non-loopback address of this node.
func localIP() (string, error) {
	addrs, err := interfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
			if ipnet.IP.To16() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	return "", errors.ErrIPAddressNotFound
}
