package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Network identifies one of the fixed pin data sources.
type Network uint8

const (
	Network_Goerli Network = iota
	Network_Ethereum
	Network_Mumbai
	Network_Polygon
)

var networkNames = [...]string{
	Network_Goerli:   "goerli",
	Network_Ethereum: "ethereum",
	Network_Mumbai:   "mumbai",
	Network_Polygon:  "polygon",
}

// AllNetworks returns every known network in declaration order.
func AllNetworks() []Network {
	return []Network{Network_Goerli, Network_Ethereum, Network_Mumbai, Network_Polygon}
}

func (n Network) String() string {
	if int(n) < len(networkNames) {
		return networkNames[n]
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

func ParseNetwork(s string) (Network, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, n := range AllNetworks() {
		if n.String() == name {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown network %q", ErrConfig, s)
}

// Endpoint resolves the subgraph url for this network, i.e. base joined with "<prefix>-<network>".
func (n Network) Endpoint(base *url.URL, prefix string) (string, error) {
	if int(n) >= len(networkNames) {
		return "", fmt.Errorf("%w: unknown network %d", ErrConfig, uint8(n))
	}
	ref, err := url.Parse(prefix + "-" + n.String())
	if err != nil {
		return "", fmt.Errorf("%w: invalid subgraph prefix %q: %v", ErrConfig, prefix, err)
	}
	return base.ResolveReference(ref).String(), nil
}

// DataSource binds a network to the endpoint serving its pins.
type DataSource struct {
	Network  Network
	Endpoint string
}

func (d DataSource) String() string {
	return d.Network.String()
}
