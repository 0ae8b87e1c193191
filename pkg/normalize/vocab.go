package normalize

import (
	"strings"

	"github.com/newtron-network/netonboard/pkg/model"
)

// Canonical interface types.
const (
	TypeVirtual = "virtual"
	TypeLAG     = "lag"
	Type100TX   = "100base-tx"
	Type100FX   = "100base-fx"
	Type1GT     = "1000base-t"
	Type10G     = "10gbase-x-sfpp"
	Type25G     = "25gbase-x-sfp28"
	Type40G     = "40gbase-x-qsfpp"
	Type100G    = "100gbase-x-qsfp28"
)

// interfaceTypes maps IANA ifType names and vendor hardware descriptions,
// lowercased, to the inventory's interface type vocabulary.
var interfaceTypes = map[string]string{
	// IANA ifType
	"ethernetcsmacd":   Type1GT,
	"gigabitethernet":  Type1GT,
	"fastether":        Type100TX,
	"fastetherfx":      Type100FX,
	"softwareloopback": TypeVirtual,
	"l2vlan":           TypeVirtual,
	"l3ipvlan":         TypeVirtual,
	"propvirtual":      TypeVirtual,
	"tunnel":           TypeVirtual,
	"ieee8023adlag":    TypeLAG,
	"other":            model.DefaultInterfaceType,

	// IOS / IOS-XE hardware strings
	"fast ethernet":                Type100TX,
	"fastethernet":                 Type100TX,
	"gigabit ethernet":             Type1GT,
	"rp management port":           Type1GT,
	"ten gigabit ethernet":         Type10G,
	"tengigabitethernet":           Type10G,
	"twenty five gigabit ethernet": Type25G,
	"forty gigabit ethernet":       Type40G,
	"hundred gigabit ethernet":     Type100G,
	"etherchannel":                 TypeLAG,
	"ethernet svi":                 TypeVirtual,
	"loopback":                     TypeVirtual,

	// NX-OS hardware strings
	"ethernet":                      Type1GT,
	"100/1000 ethernet":             Type1GT,
	"1000 ethernet":                 Type1GT,
	"100/1000/10000 ethernet":       Type10G,
	"1000/10000 ethernet":           Type10G,
	"10000 ethernet":                Type10G,
	"1000/10000/25000 ethernet":     Type25G,
	"100/1000/10000/25000 ethernet": Type25G,
	"25000 ethernet":                Type25G,
	"40000 ethernet":                Type40G,
	"100000 ethernet":               Type100G,
	"40000/100000 ethernet":         Type100G,
	"port-channel":                  TypeLAG,
	"ethersvi":                      TypeVirtual,
	"nve":                           TypeVirtual,
}

// InterfaceType maps a vendor type string to the canonical vocabulary.
// Unknown vendor strings map to "other". With no vendor string at all the
// interface name decides between lag, virtual and "other".
func InterfaceType(vendor, name string) string {
	vendor = strings.ToLower(strings.TrimSpace(vendor))
	if vendor != "" {
		if t, ok := interfaceTypes[vendor]; ok {
			return t
		}
		return model.DefaultInterfaceType
	}
	switch {
	case model.IsLAGName(name):
		return TypeLAG
	case model.IsVirtualName(name):
		return TypeVirtual
	}
	return model.DefaultInterfaceType
}
