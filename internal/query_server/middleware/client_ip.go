package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the client identity key for rate limiting. Proxied
// requests carry the real client in X-Forwarded-For; the first public hop
// wins. Direct connections (the usual case for a local assistant) fall
// back to RemoteAddr, loopback included.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			ip := safeParseIP(part)
			if isPublicIP(ip) {
				return ip.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if ip := safeParseIP(host); ip != nil {
			return ip.String()
		}
	}

	return "unknown"
}

func safeParseIP(s string) net.IP {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return net.ParseIP(s)
}

func isPublicIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return false
	}
	return true
}
