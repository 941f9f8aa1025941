package httpapi

import (
	"net/http"
	"net/netip"
	"strings"
)

// clientIP resolves the caller address for access logs, preferring proxy
// headers over the raw socket peer.
func clientIP(r *http.Request) string {
	for _, candidate := range []string{
		r.Header.Get("X-Forwarded-For"),
		r.Header.Get("X-Real-IP"),
		r.RemoteAddr,
	} {
		if ip := canonicalIP(candidate); ip != "" {
			return ip
		}
	}

	return ""
}

// canonicalIP takes the first hop of a comma separated forwarding chain,
// strips any port and returns the parsed address, or "" when raw holds
// nothing usable.
func canonicalIP(raw string) string {
	value, _, _ := strings.Cut(raw, ",")
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if addrPort, err := netip.ParseAddrPort(value); err == nil {
		return addrPort.Addr().String()
	}
	if addr, err := netip.ParseAddr(value); err == nil {
		return addr.String()
	}

	return ""
}
