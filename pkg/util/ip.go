package util

import (
	"math"
	"net"
	"strconv"
	"strings"
)

// PrefixLength converts the prefix-length spellings that show commands emit
// into an integer: 24, "24", "/24", 24.0 and "255.255.255.0" all yield 24.
// The boolean is false when the value cannot be interpreted.
func PrefixLength(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, n >= 0 && n <= 128
	case int64:
		return int(n), n >= 0 && n <= 128
	case float64:
		if n != math.Trunc(n) || n < 0 || n > 128 {
			return 0, false
		}
		return int(n), true
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(n), "/")
		if s == "" {
			return 0, false
		}
		if strings.Contains(s, ".") {
			return MaskToPrefixLength(s)
		}
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 || i > 128 {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// MaskToPrefixLength converts a dotted IPv4 netmask into a prefix length.
// Non-contiguous masks are rejected.
func MaskToPrefixLength(mask string) (int, bool) {
	ip := net.ParseIP(mask)
	if ip == nil || ip.To4() == nil {
		return 0, false
	}
	ones, bits := net.IPMask(ip.To4()).Size()
	if bits == 0 {
		return 0, false
	}
	return ones, true
}

// SplitIPMask splits "10.0.0.1/24" into address and prefix length. A value
// without a mask is returned with length 0.
func SplitIPMask(cidr string) (string, int) {
	parts := strings.Split(cidr, "/")
	if len(parts) != 2 {
		return cidr, 0
	}
	maskLen, err := strconv.Atoi(parts[1])
	if err != nil {
		return parts[0], 0
	}
	return parts[0], maskLen
}

// HostPrefixLength is the prefix length of a single-host route for ip:
// 128 for IPv6, otherwise 32.
func HostPrefixLength(ip string) int {
	if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil && parsed.To4() == nil {
		return 128
	}
	return 32
}
