// Package normalize assembles per-field extraction results into canonical,
// vendor-neutral device records. One Normalizer exists per platform family.
package normalize

import (
	"sort"

	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/util"
)

// Supported platform identifiers.
const (
	PlatformIOS   = "cisco_ios"
	PlatformIOSXE = "cisco_xe"
	PlatformNXOS  = "cisco_nxos"
)

// Aggregate keys read by the normalizers.
const (
	KeyMTU           = "mtu"
	KeyType          = model.KeyType
	KeyIPAddresses   = "ip_addresses"
	KeyPrefixLength  = "prefix_length"
	KeyMACAddress    = "mac_address"
	KeyDescription   = "description"
	KeyLinkStatus    = "link_status"
	KeyMode          = "mode"
	KeyVRFs          = "vrfs"
	KeyVRFRDs        = "vrf_rds"
	KeyVRFInterfaces = "vrf_interfaces"
)

// RequiredKeys must be present in an aggregate, even if empty. A missing key
// means extraction never populated the field and the device fails.
var RequiredKeys = []string{KeyMTU, KeyType}

// Normalizer turns one device's aggregate into a device record. On failure
// it returns a *model.FailureError and no record.
type Normalizer interface {
	Platform() string
	Normalize(agg model.Aggregate) (*model.DeviceRecord, error)
}

// registry is written only during init.
var registry = map[string]Normalizer{}

func register(n Normalizer) {
	registry[n.Platform()] = n
}

func init() {
	register(NewIOS(PlatformIOS))
	register(NewIOS(PlatformIOSXE))
	register(NewNXOS())
}

// ForPlatform returns the normalizer for platform.
func ForPlatform(platform string) (Normalizer, error) {
	n, ok := registry[platform]
	if !ok {
		return nil, &util.UnsupportedPlatformError{Platform: platform}
	}
	return n, nil
}

// Platforms lists the supported platforms in sorted order.
func Platforms() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
