package entity

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// maxFeedURLLength bounds feed URLs read from configuration and flags.
const maxFeedURLLength = 2048

// ErrInvalidFeed is matched by every *FeedError.
var ErrInvalidFeed = errors.New("invalid feed")

// FeedError explains why a feed reference was rejected.
type FeedError struct {
	Ref    string
	Reason string
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("invalid feed %q: %s", e.Ref, e.Reason)
}

func (e *FeedError) Is(target error) bool { return target == ErrInvalidFeed }

// Feed identifies an RSS/Atom feed to digest.
type Feed struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ParseFeed parses a feed reference of the form "name=url" or a bare URL.
// A missing name defaults to the URL host.
func ParseFeed(ref string) (Feed, error) {
	ref = strings.TrimSpace(ref)
	f := Feed{URL: ref}
	if name, rawURL, ok := strings.Cut(ref, "="); ok && !strings.Contains(name, "://") {
		f = Feed{Name: strings.TrimSpace(name), URL: strings.TrimSpace(rawURL)}
	}

	host, reason := checkFeedURL(f.URL)
	if reason != "" {
		return Feed{}, &FeedError{Ref: ref, Reason: reason}
	}
	if f.Name == "" {
		f.Name = host
	}
	return f, nil
}

// checkFeedURL returns the URL host, or a reason the URL cannot be used.
// Hosts that resolve to private addresses are refused; a failed lookup is
// not, since the fetcher checks again when it dials.
func checkFeedURL(raw string) (host, reason string) {
	switch {
	case raw == "":
		return "", "url is required"
	case len(raw) > maxFeedURLLength:
		return "", fmt.Sprintf("url is longer than %d characters", maxFeedURLLength)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "url does not parse"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "only http and https feeds are supported"
	}
	host = u.Hostname()
	if host == "" {
		return "", "url has no host"
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if IsPrivateAddr(addr) {
			return "", "url points to a private network"
		}
		return host, ""
	}
	if ips, err := net.LookupIP(host); err == nil {
		for _, ip := range ips {
			if addr, ok := netip.AddrFromSlice(ip); ok && IsPrivateAddr(addr) {
				return "", "url resolves to a private network"
			}
		}
	}
	return host, ""
}

// IsPrivateAddr reports whether addr is loopback, link-local, private
// (RFC 1918 / RFC 4193) or unspecified. IPv4-mapped IPv6 addresses are
// judged by their IPv4 form.
func IsPrivateAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsPrivate() ||
		addr.IsUnspecified()
}
