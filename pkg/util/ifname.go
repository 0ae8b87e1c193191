package util

import (
	"regexp"
	"strings"
)

var ifNameRegexp = regexp.MustCompile(`^([A-Za-z][A-Za-z-]*?)\s*(\d.*)$`)

// canonicalIfTypes maps every accepted spelling of an interface type prefix
// (lowercased) to the canonical long form. Canonical forms map to themselves
// so canonicalization is idempotent.
var canonicalIfTypes = map[string]string{
	"gigabitethernet":      "GigabitEthernet",
	"gi":                   "GigabitEthernet",
	"gig":                  "GigabitEthernet",
	"ge":                   "GigabitEthernet",
	"tengigabitethernet":   "TenGigabitEthernet",
	"te":                   "TenGigabitEthernet",
	"ten":                  "TenGigabitEthernet",
	"twentyfivegige":       "TwentyFiveGigE",
	"twe":                  "TwentyFiveGigE",
	"fortygigabitethernet": "FortyGigabitEthernet",
	"fo":                   "FortyGigabitEthernet",
	"hundredgige":          "HundredGigE",
	"hu":                   "HundredGigE",
	"fastethernet":         "FastEthernet",
	"fa":                   "FastEthernet",
	"ethernet":             "Ethernet",
	"eth":                  "Ethernet",
	"et":                   "Ethernet",
	"port-channel":         "Port-channel",
	"portchannel":          "Port-channel",
	"po":                   "Port-channel",
	"loopback":             "Loopback",
	"lo":                   "Loopback",
	"vlan":                 "Vlan",
	"vl":                   "Vlan",
	"tunnel":               "Tunnel",
	"tu":                   "Tunnel",
	"serial":               "Serial",
	"se":                   "Serial",
	"appgigabitethernet":   "AppGigabitEthernet",
	"ap":                   "AppGigabitEthernet",
	"mgmt":                 "mgmt",
	"management":           "mgmt",
	"nve":                  "nve",
}

// CanonicalInterfaceName expands an abbreviated interface name to its
// canonical long form: Gi0/1 -> GigabitEthernet0/1, po10 -> Port-channel10,
// VLAN10 -> Vlan10. Names with an unknown type prefix are returned trimmed
// but otherwise unchanged.
func CanonicalInterfaceName(name string) string {
	name = strings.TrimSpace(name)
	m := ifNameRegexp.FindStringSubmatch(name)
	if m == nil {
		return name
	}
	long, ok := canonicalIfTypes[strings.ToLower(m[1])]
	if !ok {
		return name
	}
	return long + m[2]
}

// RewriteUpperVlan rewrites the all-caps VLAN<n> spelling some NX-OS
// commands emit into Vlan<n>. Other names pass through.
func RewriteUpperVlan(name string) string {
	if strings.HasPrefix(name, "VLAN") && len(name) > 4 {
		return "Vlan" + name[4:]
	}
	return name
}
