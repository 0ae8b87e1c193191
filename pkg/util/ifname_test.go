package util

import "testing"

func TestCanonicalInterfaceName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Gi0/1", "GigabitEthernet0/1"},
		{"gi1/0/24", "GigabitEthernet1/0/24"},
		{"GigabitEthernet0/1", "GigabitEthernet0/1"},
		{"Te1/1/1", "TenGigabitEthernet1/1/1"},
		{"Eth1/1", "Ethernet1/1"},
		{"Ethernet1/1", "Ethernet1/1"},
		{"Po10", "Port-channel10"},
		{"port-channel10", "Port-channel10"},
		{"Lo0", "Loopback0"},
		{"VLAN10", "Vlan10"},
		{"Vlan10", "Vlan10"},
		{"Gi0/1.100", "GigabitEthernet0/1.100"},
		{"Gi 0/2", "GigabitEthernet0/2"},
		{" mgmt0 ", "mgmt0"},
		{"Null0", "Null0"},
		{"Unknown", "Unknown"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalInterfaceName(tt.input); got != tt.want {
				t.Errorf("CanonicalInterfaceName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonicalInterfaceNameIdempotent(t *testing.T) {
	for _, name := range []string{"Gi0/1", "Te1/1", "Po5", "VLAN20", "Eth1/49", "Tu0", "Hu1/0/1", "Fa0/0"} {
		once := CanonicalInterfaceName(name)
		twice := CanonicalInterfaceName(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", name, once, twice)
		}
	}
}

func TestRewriteUpperVlan(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"VLAN10", "Vlan10"},
		{"Vlan10", "Vlan10"},
		{"VLAN", "VLAN"},
		{"Ethernet1/1", "Ethernet1/1"},
	}
	for _, tt := range tests {
		if got := RewriteUpperVlan(tt.input); got != tt.want {
			t.Errorf("RewriteUpperVlan(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
