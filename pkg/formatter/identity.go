package formatter

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/netonboard/pkg/inventory"
	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/normalize"
	"github.com/newtron-network/netonboard/pkg/util"
)

// Identity aggregate keys, as produced by the sync_devices field maps.
const (
	KeyHostname      = "hostname"
	KeyDeviceType    = "device_type"
	KeyMgmtInterface = "mgmt_interface"
	KeyMaskLength    = "mask_length"
)

// FormatIdentity builds the identity record used to create or match the
// device in inventory. The serial comes from the device itself, not from
// the inventory lookup.
func (f *Formatter) FormatIdentity(ctx context.Context, host string, agg model.Aggregate) (rec *model.IdentityRecord) {
	platform := agg.Platform()
	rec = &model.IdentityRecord{Hostname: host, Platform: platform}
	defer func() {
		if r := recover(); r != nil {
			util.WithDevice(host).Errorf("Identity formatting panicked: %v", r)
			rec = &model.IdentityRecord{Hostname: host, Platform: platform, Failed: true, FailedReason: fmt.Sprint(r)}
		}
		f.recorder.DeviceFormatted(platform, rec.Failed)
	}()

	fail := func(reason string) *model.IdentityRecord {
		util.WithDevice(host).Warnf("Device identity failed: %s", reason)
		return &model.IdentityRecord{Hostname: host, Platform: platform, Failed: true, FailedReason: reason}
	}

	if platform == "" {
		return fail(ReasonNoPlatform)
	}
	if _, err := normalize.ForPlatform(platform); err != nil {
		return fail(err.Error())
	}

	serial, _ := inventory.FromAggregate{}.Serial(ctx, host, agg)
	if serial == "" {
		return fail("Serial number not found in device output.")
	}
	deviceType := text(agg[KeyDeviceType])
	if deviceType == "" {
		return fail("Device type not found in device output.")
	}
	mgmt := text(agg[KeyMgmtInterface])
	if mgmt == "" {
		return fail(fmt.Sprintf("Management interface not found for %s.", host))
	}
	maskLength, ok := util.PrefixLength(agg[KeyMaskLength])
	if !ok {
		return fail(fmt.Sprintf("Mask length not found for %s.", host))
	}

	if hostname := text(agg[KeyHostname]); hostname != "" {
		rec.Hostname = hostname
	}
	rec.Serial = serial
	rec.DeviceType = deviceType
	rec.MgmtInterface = util.CanonicalInterfaceName(mgmt)
	rec.MaskLength = maskLength
	return rec
}

// text returns a string value, unwrapping a one-item list.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		if len(t) == 1 {
			return text(t[0])
		}
	}
	return ""
}
