package normalize

import (
	"strings"

	"github.com/newtron-network/netonboard/pkg/model"
)

// IOS normalizes Cisco IOS and IOS-XE aggregates. VRF data arrives as one
// list of VRFs, each with its member interfaces.
type IOS struct {
	platform string
}

// NewIOS returns the IOS-family normalizer registered under platform.
func NewIOS(platform string) *IOS {
	return &IOS{platform: platform}
}

func (n *IOS) Platform() string { return n.platform }

func (n *IOS) Normalize(agg model.Aggregate) (*model.DeviceRecord, error) {
	return normalize(n.platform, agg, dialect{mode: iosMode, vrfs: iosVRFs})
}

func iosMode(r attrRow) string {
	switch strings.ToLower(strings.TrimSpace(r.Mode)) {
	case "trunk":
		return model.ModeTagged
	case "static access", "access":
		return model.ModeAccess
	}
	return model.ModeNone
}

func iosVRFs(agg model.Aggregate) ([]vrfMember, error) {
	return groupedVRFs(agg[KeyVRFs], func(name string) string { return name })
}
