// Package privacy masks personal data before it reaches logs.
package privacy

import (
	"net/netip"
	"strings"
)

// visibleTail is how many trailing characters of an identifier stay readable.
const visibleTail = 4

// MaskIdentifier hides everything but the last four characters of a raw,
// possibly invalid, identifier. Input longer than 32 characters is collapsed
// to a fixed marker so oversized payloads never reach a log line.
func MaskIdentifier(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case len(raw) > 32:
		return "****[oversized]"
	case len(raw) <= visibleTail:
		return "****"
	}
	runes := []rune(raw)
	if len(runes) <= visibleTail {
		return "****"
	}
	return "****" + string(runes[len(runes)-visibleTail:])
}

// AnonymizeIP keeps only the network part of an address: /24 for IPv4 and
// /48 for IPv6. It returns "unknown" for empty input and "invalid" when the
// value does not parse.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
