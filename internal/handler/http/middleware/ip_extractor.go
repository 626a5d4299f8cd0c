// Package middleware provides HTTP middleware for client IP extraction,
// per-client rate limiting and CORS.
package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrNoTrustedProxies is returned when proxy trust is requested with an
// empty list.
var ErrNoTrustedProxies = errors.New("no trusted proxies configured")

// IPExtractor identifies the client behind a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address and ignores all headers.
type RemoteAddrExtractor struct{}

// ExtractIP returns the host part of r.RemoteAddr.
func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	addr, err := peerAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	return addr.String(), nil
}

// ProxyAwareExtractor believes X-Forwarded-For and X-Real-IP only when the
// peer is one of the trusted proxies.
type ProxyAwareExtractor struct {
	trusted []netip.Prefix
}

// NewProxyAwareExtractor parses entries as addresses or CIDR ranges.
func NewProxyAwareExtractor(entries []string) (*ProxyAwareExtractor, error) {
	e := &ProxyAwareExtractor{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		prefix, err := netip.ParsePrefix(entry)
		if err != nil {
			addr, addrErr := netip.ParseAddr(entry)
			if addrErr != nil {
				return nil, fmt.Errorf("trusted proxy %q is neither an IP nor a CIDR range", entry)
			}
			prefix = netip.PrefixFrom(addr, addr.BitLen())
		}
		e.trusted = append(e.trusted, prefix.Masked())
	}
	if len(e.trusted) == 0 {
		return nil, ErrNoTrustedProxies
	}
	return e, nil
}

// Trusted returns the parsed proxy ranges.
func (e *ProxyAwareExtractor) Trusted() []netip.Prefix {
	return e.trusted
}

func (e *ProxyAwareExtractor) isTrusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, p := range e.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ExtractIP walks X-Forwarded-For from the nearest hop outwards and returns
// the first address that is not a trusted proxy. X-Real-IP is used when
// there is no forwarding list. Headers from untrusted peers are ignored.
func (e *ProxyAwareExtractor) ExtractIP(r *http.Request) (string, error) {
	peer, err := peerAddr(r.RemoteAddr)
	if err != nil {
		return "", err
	}

	xff := r.Header.Values("X-Forwarded-For")
	if !e.isTrusted(peer) {
		if len(xff) > 0 {
			slog.Debug("ignoring forwarding headers from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr))
		}
		return peer.String(), nil
	}

	hops := strings.Split(strings.Join(xff, ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		addr, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !e.isTrusted(addr) {
			return addr.Unmap().String(), nil
		}
	}

	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.Unmap().String(), nil
	}
	return peer.String(), nil
}

// peerAddr accepts "host:port" or a bare IP.
func peerAddr(remote string) (netip.Addr, error) {
	host := remote
	if h, _, err := net.SplitHostPort(remote); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid remote address %q", remote)
	}
	return addr.Unmap(), nil
}
