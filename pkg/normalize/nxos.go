package normalize

import (
	"fmt"
	"strings"

	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/util"
)

// NXOS normalizes Cisco NX-OS aggregates. Route distinguishers and VRF
// membership come from separate commands and are joined by VRF name.
type NXOS struct{}

// NewNXOS returns the NX-OS normalizer.
func NewNXOS() *NXOS { return &NXOS{} }

func (n *NXOS) Platform() string { return PlatformNXOS }

func (n *NXOS) Normalize(agg model.Aggregate) (*model.DeviceRecord, error) {
	return normalize(PlatformNXOS, agg, dialect{mode: nxosMode, vrfs: nxosVRFs})
}

// nxosMode uses the reported mode when there is one, otherwise infers it
// from the VLAN columns.
func nxosMode(r attrRow) string {
	switch strings.ToLower(strings.TrimSpace(r.Mode)) {
	case "trunk":
		return model.ModeTagged
	case "access":
		return model.ModeAccess
	case "":
		if trunk := vlanList(r.TrunkingVLANs); trunk != "" && trunk != "1" {
			return model.ModeTagged
		}
		if strings.TrimSpace(r.AccessVLAN) != "" {
			return model.ModeAccess
		}
	}
	return model.ModeNone
}

func nxosVRFs(agg model.Aggregate) ([]vrfMember, error) {
	members, err := groupedVRFs(agg[KeyVRFs], util.RewriteUpperVlan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyVRFs, err)
	}

	rdRows, err := decodeRows[vrfRow](agg[KeyVRFRDs])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyVRFRDs, err)
	}
	rds := make(map[string]string, len(rdRows))
	for _, r := range rdRows {
		rds[strings.TrimSpace(r.Name)] = normalizeRD(r.RD, r.DefaultRD)
	}

	rows, err := decodeRows[vrfRow](agg[KeyVRFInterfaces])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyVRFInterfaces, err)
	}
	for _, r := range rows {
		name := strings.TrimSpace(r.Name)
		if name == "" || strings.TrimSpace(r.Interface) == "" {
			continue
		}
		members = append(members, vrfMember{
			Interface: util.RewriteUpperVlan(strings.TrimSpace(r.Interface)),
			VRF:       model.VRF{Name: name, RD: rds[name]},
		})
	}
	return members, nil
}
