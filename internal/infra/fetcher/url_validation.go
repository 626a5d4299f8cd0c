// Package fetcher downloads web pages and reduces them to readable text.
package fetcher

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"syscall"

	"text-summarizer/internal/domain/entity"
	"text-summarizer/internal/usecase/summarize"
)

// validateURL rejects URLs that must not be fetched. With denyPrivateIPs it
// also resolves the host and rejects loopback, private and link-local
// addresses. Dial-time checks in denyPrivateDial cover DNS changes between
// this lookup and the connection.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", summarize.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", summarize.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", summarize.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	if addr, err := netip.ParseAddr(hostname); err == nil {
		if entity.IsPrivateAddr(addr) {
			return fmt.Errorf("%w: %s", summarize.ErrPrivateIP, addr)
		}
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", summarize.ErrInvalidURL, hostname, err)
	}
	for _, ip := range ips {
		if addr, ok := netip.AddrFromSlice(ip); ok && entity.IsPrivateAddr(addr) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", summarize.ErrPrivateIP, hostname, ip)
		}
	}

	return nil
}

// denyPrivateDial is a net.Dialer Control hook that refuses connections to
// private addresses.
func denyPrivateDial(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %v", summarize.ErrInvalidURL, err)
	}
	if addr, err := netip.ParseAddr(host); err == nil && entity.IsPrivateAddr(addr) {
		return fmt.Errorf("%w: connection to %s refused", summarize.ErrPrivateIP, addr)
	}
	return nil
}
