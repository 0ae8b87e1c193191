package model

import (
	"encoding/json"
	"fmt"
)

// Aggregate keys with a fixed meaning.
const (
	KeyPlatform   = "platform"
	KeySerial     = "serial"
	KeyInterfaces = "interfaces"
	KeyType       = "type"
)

// Aggregate is the per-device result of extraction: field name (or the
// outer part of a compound name) to extracted value.
type Aggregate map[string]any

// Platform returns the declared platform, or "" when unset.
func (a Aggregate) Platform() string {
	s, _ := a[KeyPlatform].(string)
	return s
}

// String encodes the aggregate as JSON for diagnostics.
func (a Aggregate) String() string {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(a))
	}
	return string(b)
}

// DeviceRecord is the normalized network data of one device. A failed record
// carries FailedReason and no interfaces.
type DeviceRecord struct {
	Hostname     string                       `json:"-"`
	Platform     string                       `json:"platform"`
	Serial       string                       `json:"serial,omitempty"`
	Interfaces   []map[string]InterfaceRecord `json:"interfaces,omitempty"`
	Failed       bool                         `json:"failed,omitempty"`
	FailedReason string                       `json:"failed_reason,omitempty"`
}

// Fail marks the record failed and drops any interfaces.
func (d *DeviceRecord) Fail(reason string) *DeviceRecord {
	d.Failed = true
	d.FailedReason = reason
	d.Interfaces = nil
	return d
}

// InterfaceNames returns the interface names in output order.
func (d *DeviceRecord) InterfaceNames() []string {
	names := make([]string, 0, len(d.Interfaces))
	for _, entry := range d.Interfaces {
		for name := range entry {
			names = append(names, name)
		}
	}
	return names
}

// Interface returns the record for a canonical interface name.
func (d *DeviceRecord) Interface(name string) (InterfaceRecord, bool) {
	for _, entry := range d.Interfaces {
		if rec, ok := entry[name]; ok {
			return rec, true
		}
	}
	return InterfaceRecord{}, false
}

// IdentityRecord is the device-identity result used to create or match the
// device itself in inventory.
type IdentityRecord struct {
	Hostname      string `json:"hostname"`
	Serial        string `json:"serial"`
	DeviceType    string `json:"device_type"`
	MgmtInterface string `json:"mgmt_interface"`
	MaskLength    int    `json:"mask_length"`
	Platform      string `json:"platform"`
	Failed        bool   `json:"failed,omitempty"`
	FailedReason  string `json:"failed_reason,omitempty"`
}

// FailureError is the failure variant of a normalization result. Reason is
// the text placed in the failed record.
type FailureError struct {
	Reason string
	Err    error
}

func (e *FailureError) Error() string {
	return e.Reason
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

// NewFailure builds a FailureError with a formatted reason.
func NewFailure(err error, format string, args ...any) *FailureError {
	return &FailureError{Reason: fmt.Sprintf(format, args...), Err: err}
}
