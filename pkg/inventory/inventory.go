// Package inventory resolves device serial numbers from the source of truth.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/newtron-network/netonboard/pkg/model"
)

// SerialLookup returns the serial number recorded for a device. An unknown
// device yields "" and no error; errors are reserved for lookup failures.
type SerialLookup interface {
	Serial(ctx context.Context, host string, agg model.Aggregate) (string, error)
}

// StaticLookup serves serials from a fixed host -> serial table.
type StaticLookup map[string]string

// Serial returns the table entry for host.
func (s StaticLookup) Serial(_ context.Context, host string, _ model.Aggregate) (string, error) {
	return strings.TrimSpace(s[host]), nil
}

// LoadStatic reads a JSON object mapping host to serial.
func LoadStatic(path string) (StaticLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading serials file: %w", err)
	}
	var out StaticLookup
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing serials file %s: %w", path, err)
	}
	return out, nil
}

// FromAggregate trusts the serial the field map extracted from the device.
type FromAggregate struct{}

// Serial returns the aggregate's serial value when it is a non-empty string.
func (FromAggregate) Serial(_ context.Context, _ string, agg model.Aggregate) (string, error) {
	switch v := agg[model.KeySerial].(type) {
	case string:
		return strings.TrimSpace(v), nil
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return strings.TrimSpace(s), nil
			}
		}
	}
	return "", nil
}

// Chain tries each lookup in order and returns the first non-empty serial.
// The first error stops the chain.
type Chain []SerialLookup

// Serial walks the chain.
func (c Chain) Serial(ctx context.Context, host string, agg model.Aggregate) (string, error) {
	for _, l := range c {
		serial, err := l.Serial(ctx, host, agg)
		if err != nil {
			return "", err
		}
		if serial != "" {
			return serial, nil
		}
	}
	return "", nil
}
