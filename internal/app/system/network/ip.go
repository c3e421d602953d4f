// Package network extracts client details from incoming requests.
package network

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Resolver works out the client address of a request. Forwarding headers are
// only believed when the direct peer is one of the trusted proxies; anyone
// else could have written them.
type Resolver struct {
	trusted []netip.Prefix
}

// NewResolver builds a Resolver that trusts forwarding headers from the given
// proxies. Entries are CIDR ranges or single addresses. With no entries, as
// with a nil *Resolver, the answer is always the connection's peer address.
func NewResolver(trustedProxies []string) (*Resolver, error) {
	res := &Resolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p, err := parsePrefix(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		res.trusted = append(res.trusted, p)
	}
	return res, nil
}

func parsePrefix(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, err
	}
	a = a.Unmap()
	return netip.PrefixFrom(a, a.BitLen()), nil
}

func (res *Resolver) isTrusted(a netip.Addr) bool {
	if res == nil {
		return false
	}
	a = a.Unmap()
	for _, p := range res.trusted {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// ClientIP returns the client address of r.
//
// Behind trusted proxies the X-Forwarded-For chain is walked from the right
// and the first hop that is not a trusted proxy wins. X-Real-IP is consulted
// only when no X-Forwarded-For was sent.
func (res *Resolver) ClientIP(r *http.Request) string {
	peer := peerHost(r.RemoteAddr)
	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !res.isTrusted(peerAddr) {
		return peer
	}

	if hops := forwardedFor(r); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			if !res.isTrusted(hops[i]) {
				return hops[i].String()
			}
		}
		// Every hop is one of ours.
		return hops[0].String()
	}

	if a, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return a.Unmap().String()
	}
	return peer
}

// Metadata collects the client IP, user agent and source page of r.
// The source page is the Referer header, or Origin when no Referer was sent.
func (res *Resolver) Metadata(r *http.Request) Metadata {
	src := r.Header.Get("Referer")
	if src == "" {
		src = r.Header.Get("Origin")
	}
	return Metadata{
		IP:        res.ClientIP(r),
		UserAgent: r.UserAgent(),
		SourceURL: src,
	}
}

// forwardedFor parses every X-Forwarded-For header in order. Entries that are
// not addresses end the chain: nothing left of them can be attributed.
func forwardedFor(r *http.Request) []netip.Addr {
	var hops []netip.Addr
	for _, line := range r.Header.Values("X-Forwarded-For") {
		for _, part := range strings.Split(line, ",") {
			a, err := netip.ParseAddr(strings.TrimSpace(part))
			if err != nil {
				hops = hops[:0]
				continue
			}
			hops = append(hops, a.Unmap())
		}
	}
	return hops
}

// peerHost strips the port from a RemoteAddr.
func peerHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// Metadata describes where a visitor request came from.
type Metadata struct {
	IP        string
	UserAgent string
	SourceURL string
}
