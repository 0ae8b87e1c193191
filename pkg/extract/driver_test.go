package extract

import (
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fixtures "github.com/newtron-network/netonboard/internal/testutil"
	"github.com/newtron-network/netonboard/pkg/fieldmap"
	"github.com/newtron-network/netonboard/pkg/metrics"
	"github.com/newtron-network/netonboard/pkg/util"
)

var fullScope = Scope{SyncVLANs: true, SyncVRFs: true}

func defaultDomain(t *testing.T, platform, domain string) *fieldmap.Domain {
	t.Helper()
	set, err := fieldmap.Default()
	require.NoError(t, err)
	d, err := set.Domain(platform, domain)
	require.NoError(t, err)
	return d
}

func TestExtractAllIOS(t *testing.T) {
	domain := defaultDomain(t, "cisco_ios", fieldmap.DomainSyncNetworkData)
	outputs := fixtures.Outputs(t, "cisco_ios")

	agg := NewDriver(nil).ExtractAll(fixtures.IOSHost, domain, outputs, fullScope)

	assert.Equal(t, "FOC2231X0AB", agg["serial"])
	assert.Len(t, agg["mtu"], 6)
	assert.Len(t, agg["vrfs"], 2)
	assert.Contains(t, agg["mtu"], map[string]any{"interface": "GigabitEthernet1/0/2", "mtu": "9198"})
	assert.Contains(t, agg["link_status"], map[string]any{"interface": "GigabitEthernet1/0/2", "link_status": false})
	assert.Contains(t, agg["link_status"], map[string]any{"interface": "Vlan10", "link_status": true})
	assert.Equal(t, []any{map[string]any{"interface": "GigabitEthernet0/0", "ip_address": "192.0.2.10"},
		map[string]any{"interface": "Vlan10", "ip_address": "10.10.0.1"},
		map[string]any{"interface": "Loopback0", "ip_address": "10.255.0.1"}}, agg["ip_addresses"])

	interfaces, ok := agg["interfaces"].(map[string]any)
	require.True(t, ok, "interfaces should be a mapping, got %T", agg["interfaces"])
	assert.Len(t, interfaces, 6)

	trunk := interfaces["GigabitEthernet1/0/2"].(map[string]any)
	assert.Equal(t, []any{
		map[string]any{"id": "10"},
		map[string]any{"id": "20"},
		map[string]any{"id": "30"},
	}, trunk["tagged_vlans"])
	assert.Equal(t, map[string]any{}, trunk["untagged_vlan"])

	access := interfaces["GigabitEthernet1/0/1"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "10"}, access["untagged_vlan"])
	assert.Equal(t, []any{}, access["tagged_vlans"])

	loop := interfaces["Loopback0"].(map[string]any)
	assert.Equal(t, []any{}, loop["tagged_vlans"])
}

func TestExtractAllNXOSJSONPathRoots(t *testing.T) {
	domain := defaultDomain(t, "cisco_nxos", fieldmap.DomainSyncNetworkData)
	outputs := fixtures.Outputs(t, "cisco_nxos")

	agg := NewDriver(nil).ExtractAll(fixtures.NXOSHost, domain, outputs, fullScope)

	assert.Equal(t, "FDO24160ABC", agg["serial"])
	interfaces := agg["interfaces"].(map[string]any)
	assert.ElementsMatch(t, []string{"mgmt0", "Ethernet1/1", "Ethernet1/2", "port-channel10", "Vlan10"}, keysOf(interfaces))
	assert.Equal(t, map[string]any{"id": "10"}, interfaces["Ethernet1/1"].(map[string]any)["untagged_vlan"])
	assert.Equal(t, []any{map[string]any{"id": "1"}}, interfaces["port-channel10"].(map[string]any)["tagged_vlans"])
	assert.Contains(t, agg["vrf_interfaces"], map[string]any{"name": "TENANT-A", "interface": "VLAN10"})
}

func TestExtractAllScope(t *testing.T) {
	domain := defaultDomain(t, "cisco_ios", fieldmap.DomainSyncNetworkData)
	outputs := fixtures.Outputs(t, "cisco_ios")

	agg := NewDriver(nil).ExtractAll(fixtures.IOSHost, domain, outputs, Scope{})

	assert.NotContains(t, agg, "vrfs")
	names, ok := agg["interfaces"].([]any)
	require.True(t, ok, "without nested fields interfaces stays a name list, got %T", agg["interfaces"])
	assert.Len(t, names, 6)
	assert.Contains(t, agg, "mtu")

	agg = NewDriver(nil).ExtractAll(fixtures.IOSHost, domain, outputs, Scope{SyncVRFs: true})
	assert.Contains(t, agg, "vrfs")
	_, isList := agg["interfaces"].([]any)
	assert.True(t, isList)
}

func TestExtractAllRootKeyFirst(t *testing.T) {
	// Nested field listed before its root-key field.
	domain := &fieldmap.Domain{Name: "test", Fields: []fieldmap.Field{
		{Name: "interfaces__mtu", Commands: []fieldmap.Command{{
			Command: "show interfaces",
			JPath:   `.[] | select(.interface == "{{ .current_key }}") | .mtu`,
		}}},
		{Name: "interfaces", RootKey: true, Commands: []fieldmap.Command{{
			Command: "show interfaces",
			JPath:   "[.[].interface]",
		}}},
	}}
	outputs := map[string]any{"show interfaces": []any{
		map[string]any{"interface": "Gi0/1", "mtu": 1500},
		map[string]any{"interface": "Gi0/2", "mtu": 9000},
	}}

	agg := NewDriver(nil).ExtractAll("h", domain, outputs, Scope{})

	assert.Equal(t, map[string]any{
		"Gi0/1": map[string]any{"mtu": 1500},
		"Gi0/2": map[string]any{"mtu": 9000},
	}, agg["interfaces"])
}

func TestExtractAllRootKeyMapping(t *testing.T) {
	domain := &fieldmap.Domain{Name: "test", Fields: []fieldmap.Field{
		{Name: "vlans", Commands: []fieldmap.Command{{Command: "show vlan", JPath: ".", RootKey: true}}},
		{Name: "vlans__name", Commands: []fieldmap.Command{{Command: "show vlan", JPath: `.["{{ .current_key }}"].name`}}},
	}}
	outputs := map[string]any{"show vlan": map[string]any{
		"20": map[string]any{"name": "voice"},
		"10": map[string]any{"name": "data"},
	}}

	agg := NewDriver(nil).ExtractAll("h", domain, outputs, Scope{})

	assert.Equal(t, map[string]any{
		"10": map[string]any{"name": "data"},
		"20": map[string]any{"name": "voice"},
	}, agg["vlans"])
}

func TestExtractAllDegradesOneField(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	domain := &fieldmap.Domain{Name: "test", Fields: []fieldmap.Field{
		{Name: "serial", Commands: []fieldmap.Command{{Command: "show version", JPath: ".[0].serial"}}},
		{Name: "role", Commands: []fieldmap.Command{{Command: "show version", JPath: `.[0] | .["{{ .device_role }}"]`}}},
		{Name: "vrfs", Commands: []fieldmap.Command{{Command: "show vrf", JPath: "[.[].name]"}}},
	}}

	agg := NewDriver(rec).ExtractAll("h", domain, map[string]any{"show version": showVersion}, Scope{})

	assert.Equal(t, "FOC123", agg["serial"])
	assert.Equal(t, "", agg["role"])
	assert.Equal(t, "", agg["vrfs"])

	n, err := testutil.GatherAndCount(reg, metrics.FieldsDegradedTotal)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestExtractAllDoesNotMutateFieldMap(t *testing.T) {
	domain := defaultDomain(t, "cisco_ios", fieldmap.DomainSyncNetworkData)
	before := cloneDomain(domain)

	d := NewDriver(nil)
	d.ExtractAll(fixtures.IOSHost, domain, fixtures.Outputs(t, "cisco_ios"), fullScope)
	d.ExtractAll(fixtures.IOSHost, domain, map[string]any{}, fullScope)

	if !reflect.DeepEqual(before, domain) {
		t.Error("field map changed during extraction")
	}
}

func TestExtractAllDeterministic(t *testing.T) {
	domain := defaultDomain(t, "cisco_nxos", fieldmap.DomainSyncNetworkData)
	d := NewDriver(nil)

	first := d.ExtractAll(fixtures.NXOSHost, domain, fixtures.Outputs(t, "cisco_nxos"), fullScope)
	second := d.ExtractAll(fixtures.NXOSHost, domain, fixtures.Outputs(t, "cisco_nxos"), fullScope)

	assert.Equal(t, first, second)
}

func TestExtractHost(t *testing.T) {
	set, err := fieldmap.Default()
	require.NoError(t, err)
	d := NewDriver(nil)

	agg, err := d.ExtractHost(fixtures.IOSHost, "cisco_ios", fieldmap.DomainSyncDevices, set, fixtures.Outputs(t, "cisco_ios"), Scope{})
	require.NoError(t, err)
	assert.Equal(t, "cisco_ios", agg.Platform())
	assert.Equal(t, "acc-sw01", agg["hostname"])
	assert.Equal(t, "C9300-48P", agg["device_type"])
	assert.Equal(t, "GigabitEthernet0/0", agg["mgmt_interface"])
	assert.Equal(t, "24", agg["mask_length"])

	_, err = d.ExtractHost("h", "arista_eos", fieldmap.DomainSyncDevices, set, nil, Scope{})
	var unsupported *util.UnsupportedPlatformError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "arista_eos", unsupported.Platform)
}

func TestScopeFromDefaults(t *testing.T) {
	assert.Equal(t, Scope{}, ScopeFromDefaults(nil))
	assert.Equal(t, Scope{SyncVLANs: true}, ScopeFromDefaults(map[string]any{"sync_vlans": true, "sync_vrfs": "yes"}))
	assert.Equal(t, Scope{SyncVLANs: true, SyncVRFs: true}, ScopeFromDefaults(map[string]any{"sync_vlans": true, "sync_vrfs": true}))
}

func TestIterationKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, iterationKeys([]any{"a", "", "b", map[string]any{}}))
	assert.Equal(t, []string{"x", "y"}, iterationKeys(map[string]any{"y": 1, "x": 2}))
	assert.Equal(t, []string{"Gi0/1"}, iterationKeys("Gi0/1"))
	assert.Nil(t, iterationKeys(""))
	assert.Nil(t, iterationKeys(nil))
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func cloneDomain(d *fieldmap.Domain) *fieldmap.Domain {
	out := &fieldmap.Domain{Name: d.Name, Fields: make([]fieldmap.Field, len(d.Fields))}
	for i, f := range d.Fields {
		f.Commands = append([]fieldmap.Command(nil), f.Commands...)
		out.Fields[i] = f
	}
	return out
}
