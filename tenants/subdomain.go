package tenants

import (
	"net"
	"strings"
)

// SubdomainFromHost derives the tenant subdomain candidate from a browsing
// host. It returns "" when the host carries no subdomain: fewer than three
// dot-separated labels, localhost, or a raw IP literal. This guards against
// treating the bare apex domain as a tenant. Otherwise the leftmost label is
// the candidate (e.g. "acme.hroffice.com" -> "acme").
func SubdomainFromHost(host string) string {
	hostname := strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(hostname); err == nil {
		hostname = h
	}
	hostname = strings.TrimSuffix(hostname, ".")

	if hostname == "" || hostname == "localhost" {
		return ""
	}
	if net.ParseIP(strings.Trim(hostname, "[]")) != nil {
		return ""
	}

	labels := strings.Split(hostname, ".")
	if len(labels) < 3 {
		return ""
	}
	return labels[0]
}
