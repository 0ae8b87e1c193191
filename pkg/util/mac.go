package util

import (
	"net"
	"strings"
)

// CanonicalMAC rewrites a MAC address in any notation net.ParseMAC accepts
// (aabb.ccdd.eeff, aa-bb-cc-dd-ee-ff, aa:bb:...) as upper-case colon
// separated octets. Unparseable input is returned trimmed.
func CanonicalMAC(mac string) string {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return ""
	}
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return mac
	}
	return strings.ToUpper(hw.String())
}
