// ABOUTME: Guard against fetching loopback/private/link-local targets, since the fetcher
// ABOUTME: runs with an anonymous identity against arbitrary search-result URLs

package fetch

import (
	"fmt"
	"net"
	"net/url"

	"github.com/BumpyClock/doublefetch/internal/doferr"
)

// checkSafeTarget rejects URLs that resolve to a non-public address.
// This is a permanent error: retrying the same URL will not make it
// safe.
func checkSafeTarget(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return doferr.Permanentf("fetch.checkSafeTarget", "unsupported scheme %q", u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return doferr.Permanentf("fetch.checkSafeTarget", "missing host")
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		// DNS failures are transient: the target may simply be
		// momentarily unreachable from this resolver.
		return doferr.Transientf("fetch.checkSafeTarget", "resolve %q: %v", host, err)
	}

	for _, ip := range ips {
		if !isPublicAddress(ip) {
			return doferr.Permanentf("fetch.checkSafeTarget", "refusing non-public address %s for host %q", ip, host)
		}
	}
	return nil
}

func isPublicAddress(ip net.IP) bool {
	switch {
	case ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsUnspecified(),
		ip.IsMulticast():
		return false
	}
	return true
}

var errRedirectBudget = fmt.Errorf("stopped after maximum redirects")
