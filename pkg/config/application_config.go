package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/neocorex/neogo/pkg/core/storage/dbconfig"
)

// BasicService is a configuration for a simple service that can be turned
// on and has a listen address.
type BasicService struct {
	Enabled bool   `yaml:"Enabled"`
	Address string `yaml:"Address"`
}

// ApplicationConfiguration is configuration specific to this node
// (as opposed to ProtocolConfiguration, which every node on the network
// must agree on).
type ApplicationConfiguration struct {
	DBConfiguration dbconfig.DBConfiguration `yaml:"DBConfiguration"`
	LogLevel        string                   `yaml:"LogLevel"`
	LogPath         string                   `yaml:"LogPath"`
	LogEncoding     string                   `yaml:"LogEncoding"`
	P2P             P2P                      `yaml:"P2P"`
	Relay           bool                     `yaml:"Relay"`
	Pprof           BasicService             `yaml:"Pprof"`
	Prometheus      BasicService             `yaml:"Prometheus"`
	Ledger          Ledger                   `yaml:"Ledger"`
}

// Validate checks ApplicationConfiguration for internal consistency.
func (a *ApplicationConfiguration) Validate() error {
	if a.LogEncoding != "" && a.LogEncoding != "console" && a.LogEncoding != "json" {
		return fmt.Errorf("invalid LogEncoding: %s", a.LogEncoding)
	}
	return nil
}

// EqualsButServices returns true when o is the same as a except for
// Pprof/Prometheus and LogLevel/LogEncoding.
func (a *ApplicationConfiguration) EqualsButServices(o *ApplicationConfiguration) bool {
	if len(a.P2P.Addresses) != len(o.P2P.Addresses) {
		return false
	}
	aCp := make([]string, len(a.P2P.Addresses))
	oCp := make([]string, len(o.P2P.Addresses))
	copy(aCp, a.P2P.Addresses)
	copy(oCp, o.P2P.Addresses)
	sort.Strings(aCp)
	sort.Strings(oCp)
	for i := range aCp {
		if aCp[i] != oCp[i] {
			return false
		}
	}
	return a.P2P.AttemptConnPeers == o.P2P.AttemptConnPeers &&
		a.P2P.BroadcastFactor == o.P2P.BroadcastFactor &&
		a.DBConfiguration == o.DBConfiguration &&
		a.P2P.DialTimeout == o.P2P.DialTimeout &&
		a.P2P.ExtensiblePoolSize == o.P2P.ExtensiblePoolSize &&
		a.LogPath == o.LogPath &&
		a.P2P.MaxPeers == o.P2P.MaxPeers &&
		a.P2P.MinPeers == o.P2P.MinPeers &&
		a.P2P.PingInterval == o.P2P.PingInterval &&
		a.P2P.PingTimeout == o.P2P.PingTimeout &&
		a.P2P.ProtoTickInterval == o.P2P.ProtoTickInterval &&
		a.Relay == o.Relay
}

// AnnounceableAddress is a pair of node address "[host]:[port]" with an
// optional announced port used in the version handshake.
type AnnounceableAddress struct {
	Address       string
	AnnouncedPort uint16
}

// GetAddresses parses P2P.Addresses into a list of AnnounceableAddress.
func (a *ApplicationConfiguration) GetAddresses() ([]AnnounceableAddress, error) {
	addrs := make([]AnnounceableAddress, 0, len(a.P2P.Addresses))
	for i, addrStr := range a.P2P.Addresses {
		if len(addrStr) == 0 {
			return nil, fmt.Errorf("address #%d is empty", i)
		}
		lastCln := strings.LastIndex(addrStr, ":")
		if lastCln == -1 {
			addrs = append(addrs, AnnounceableAddress{Address: addrStr})
			continue
		}
		lastPort, err := strconv.ParseUint(addrStr[lastCln+1:], 10, 16)
		if err != nil {
			addrs = append(addrs, AnnounceableAddress{Address: addrStr})
			continue
		}
		penultimateCln := strings.LastIndex(addrStr[:lastCln], ":")
		if penultimateCln == -1 {
			addrs = append(addrs, AnnounceableAddress{Address: addrStr})
			continue
		}
		isV6 := strings.Count(addrStr, ":") > 2
		hasBracket := strings.Contains(addrStr, "]")
		if penultimateCln == lastCln-1 {
			if isV6 && !hasBracket {
				addrs = append(addrs, AnnounceableAddress{Address: addrStr})
			} else {
				addrs = append(addrs, AnnounceableAddress{
					Address:       addrStr[:lastCln],
					AnnouncedPort: uint16(lastPort),
				})
			}
			continue
		}
		_, err = strconv.ParseUint(addrStr[penultimateCln+1:lastCln], 10, 16)
		if err != nil {
			if isV6 {
				addrs = append(addrs, AnnounceableAddress{Address: addrStr})
				continue
			}
			return nil, fmt.Errorf("failed to parse port from %s: %w", addrStr, err)
		}
		if isV6 && !hasBracket {
			addrs = append(addrs, AnnounceableAddress{Address: addrStr})
		} else {
			addrs = append(addrs, AnnounceableAddress{
				Address:       addrStr[:lastCln],
				AnnouncedPort: uint16(lastPort),
			})
		}
	}
	if len(addrs) == 0 {
		addrs = append(addrs, AnnounceableAddress{Address: ":0"})
	}
	return addrs, nil
}
