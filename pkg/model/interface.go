// Package model defines the canonical device and interface records the
// normalizers produce.
package model

import "strings"

// Trunking mode indicators.
const (
	ModeTagged = "tagged"
	ModeAccess = "access"
	ModeNone   = ""
)

// DefaultInterfaceType is used for vendor types missing from the vocabulary.
const DefaultInterfaceType = "other"

// IPAddress is one address assigned to an interface.
type IPAddress struct {
	IPAddress    string `json:"ip_address" mapstructure:"ip_address"`
	PrefixLength int    `json:"prefix_length" mapstructure:"prefix_length"`
}

// VLAN identifies a VLAN by ID and optional name. The zero value encodes as {}.
type VLAN struct {
	ID   int    `json:"id,omitempty" mapstructure:"id"`
	Name string `json:"name,omitempty" mapstructure:"name"`
}

// IsZero reports whether no VLAN is set.
func (v VLAN) IsZero() bool {
	return v.ID == 0 && v.Name == ""
}

// VRF is an interface's VRF membership. The zero value encodes as {}.
type VRF struct {
	Name string `json:"name,omitempty" mapstructure:"name"`
	RD   string `json:"rd,omitempty" mapstructure:"rd"`
}

// IsZero reports whether no VRF is set.
func (v VRF) IsZero() bool {
	return v.Name == "" && v.RD == ""
}

// InterfaceRecord is the canonical, vendor-neutral view of one interface.
// Every field is always present once a record leaves a normalizer.
type InterfaceRecord struct {
	MTU          *int        `json:"mtu"`
	Type         string      `json:"type"`
	IPAddresses  []IPAddress `json:"ip_addresses"`
	MACAddress   string      `json:"mac_address"`
	Description  string      `json:"description"`
	LinkStatus   bool        `json:"link_status"`
	LAG          string      `json:"lag"`
	Mode         string      `json:"802.1Q_mode"`
	UntaggedVLAN VLAN        `json:"untagged_vlan"`
	TaggedVLANs  []VLAN      `json:"tagged_vlans"`
	VRF          VRF         `json:"vrf"`
}

// NewInterfaceRecord returns a record with every attribute at its default.
func NewInterfaceRecord() InterfaceRecord {
	return InterfaceRecord{
		Type:        DefaultInterfaceType,
		IPAddresses: []IPAddress{},
		TaggedVLANs: []VLAN{},
	}
}

// IsLAGName reports whether an interface name denotes a port-channel.
func IsLAGName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "port-channel") || strings.HasPrefix(lower, "portchannel")
}

// IsVirtualName reports whether an interface name denotes a logical
// interface (SVI, loopback, tunnel, NVE).
func IsVirtualName(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range []string{"vlan", "loopback", "tunnel", "nve"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
