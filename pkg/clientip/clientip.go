package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the peer address of r in canonical form, for use as a
// rate-limit key. Proxy headers are ignored since the mobile client talks to
// the server directly over the LAN or through a single trusted hop.
//
// IPv4-mapped IPv6 peers ("::ffff:10.0.0.1") collapse to their IPv4 form and
// IPv6 zones are dropped, so one device never holds two buckets. Anything
// that does not parse as an IP is returned trimmed.
func RealClientIP(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if i := strings.IndexByte(host, '%'); i >= 0 {
		host = host[:i]
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return host
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.String()
}
