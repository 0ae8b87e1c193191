// Package formatter dispatches extraction aggregates to the platform
// normalizers and guarantees one device record per device.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/newtron-network/netonboard/pkg/inventory"
	"github.com/newtron-network/netonboard/pkg/metrics"
	"github.com/newtron-network/netonboard/pkg/model"
	"github.com/newtron-network/netonboard/pkg/normalize"
	"github.com/newtron-network/netonboard/pkg/util"
)

// Failure reasons reported on device records.
const (
	ReasonNoPlatform  = "Platform not set for device."
	ReasonUnreachable = "Could not reach device, no interface data returned."
	ReasonNoSerial    = "Serial not found for device in Nautobot."
)

// Formatter turns aggregates into device records. A Formatter is safe for
// concurrent use.
type Formatter struct {
	serials  inventory.SerialLookup
	recorder *metrics.Recorder
}

// New returns a formatter resolving serials through serials. rec may be nil.
func New(serials inventory.SerialLookup, rec *metrics.Recorder) *Formatter {
	return &Formatter{serials: serials, recorder: rec}
}

// Format formats every device concurrently. The result has one record per
// input host.
func (f *Formatter) Format(ctx context.Context, devices map[string]model.Aggregate) map[string]*model.DeviceRecord {
	hosts := make([]string, 0, len(devices))
	for host := range devices {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	records := make([]*model.DeviceRecord, len(hosts))
	var wg sync.WaitGroup
	for i, host := range hosts {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			records[i] = f.FormatDevice(ctx, host, devices[host])
		}(i, host)
	}
	wg.Wait()

	out := make(map[string]*model.DeviceRecord, len(hosts))
	for i, host := range hosts {
		out[host] = records[i]
	}
	return out
}

// FormatDevice formats one device. It never returns nil and never panics:
// every problem becomes a failed record.
func (f *Formatter) FormatDevice(ctx context.Context, host string, agg model.Aggregate) (rec *model.DeviceRecord) {
	platform := agg.Platform()
	defer func() {
		if r := recover(); r != nil {
			util.WithDevice(host).Errorf("Formatting panicked: %v", r)
			rec = (&model.DeviceRecord{Hostname: host, Platform: platform}).Fail(fmt.Sprint(r))
		}
		f.recorder.DeviceFormatted(platform, rec.Failed)
	}()

	rec, err := f.format(ctx, host, agg)
	if err != nil {
		reason := err.Error()
		var failure *model.FailureError
		if errors.As(err, &failure) {
			reason = failure.Reason
		}
		util.WithDevice(host).Warnf("Device failed: %s", reason)
		return (&model.DeviceRecord{Hostname: host, Platform: platform}).Fail(reason)
	}
	rec.Hostname = host
	return rec
}

func (f *Formatter) format(ctx context.Context, host string, agg model.Aggregate) (*model.DeviceRecord, error) {
	platform := agg.Platform()
	if platform == "" {
		return nil, &model.FailureError{Reason: ReasonNoPlatform}
	}
	n, err := normalize.ForPlatform(platform)
	if err != nil {
		return nil, &model.FailureError{Reason: err.Error(), Err: err}
	}
	if empty(agg[model.KeyType]) {
		return nil, &model.FailureError{Reason: ReasonUnreachable}
	}

	serial, err := f.lookupSerial(ctx, host, agg)
	if err != nil {
		util.WithDevice(host).Warnf("Serial lookup failed: %v", err)
	}
	if serial == "" {
		return nil, &model.FailureError{Reason: ReasonNoSerial, Err: err}
	}

	rec, err := n.Normalize(agg)
	if err != nil {
		return nil, err
	}
	rec.Serial = serial
	return rec, nil
}

func (f *Formatter) lookupSerial(ctx context.Context, host string, agg model.Aggregate) (string, error) {
	if f.serials == nil {
		return inventory.FromAggregate{}.Serial(ctx, host, agg)
	}
	return f.serials.Serial(ctx, host, agg)
}

// empty reports whether an extracted value carries no data: absent, the
// degraded "", or an empty list or mapping.
func empty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
