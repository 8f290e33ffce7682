// Package allowlist implements the IP allowlist guarding every endpoint
// except the health check. Entries come from a plain text file: one entry per
// line, blank lines and #-comments skipped. Supported forms are exact
// addresses, the localhost alias, IPv4 wildcards like 192.168.1.* (one
// address segment per star) and CIDR ranges. An empty list allows everyone.
package allowlist

import (
	"net"
	"net/http"
	"net/netip"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type entryKind int

const (
	kindExact entryKind = iota
	kindWildcard
	kindCIDR
)

type entry struct {
	kind   entryKind
	value  string
	rx     *regexp.Regexp
	prefix netip.Prefix
}

func (e entry) matches(ip string) bool {
	switch e.kind {
	case kindExact:
		return e.value == ip
	case kindWildcard:
		return e.rx.MatchString(ip)
	case kindCIDR:
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return false
		}
		return e.prefix.Contains(addr.Unmap())
	}
	return false
}

// parseEntry maps one allowlist line onto a matcher. Unparseable entries are
// skipped by the caller.
func parseEntry(raw string) (entry, bool) {
	if raw == "localhost" {
		return entry{kind: kindExact, value: "127.0.0.1"}, true
	}
	if strings.Contains(raw, "/") {
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return entry{}, false
		}
		return entry{kind: kindCIDR, prefix: prefix.Masked()}, true
	}
	if strings.Contains(raw, "*") {
		pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(raw), `\*`, `[^.]+`) + "$"
		rx, err := regexp.Compile(pattern)
		if err != nil {
			return entry{}, false
		}
		return entry{kind: kindWildcard, rx: rx}, true
	}
	return entry{kind: kindExact, value: raw}, true
}

func parseLines(data string) []entry {
	var entries []entry
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if e, ok := parseEntry(line); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// Guard holds the current allowlist and answers per-request checks. Reload is
// safe to call concurrently with Allow.
type Guard struct {
	path string
	log  *zerolog.Logger

	mu      sync.RWMutex
	entries []entry
}

// NewGuard loads the allowlist from path. A missing file is not an error: it
// simply means no restrictions.
func NewGuard(path string, logger *zerolog.Logger) *Guard {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	g := &Guard{path: path, log: logger}
	g.Reload()
	return g
}

// Reload re-reads the allowlist file and swaps in the parsed entries.
func (g *Guard) Reload() {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if !os.IsNotExist(err) {
			g.log.Warn().Err(err).Str("path", g.path).Msg("read allowlist")
		}
		data = nil
	}
	entries := parseLines(string(data))

	g.mu.Lock()
	g.entries = entries
	g.mu.Unlock()

	g.log.Debug().Int("entries", len(entries)).Str("path", g.path).Msg("allowlist loaded")
}

// Allow reports whether the request's client IP passes the allowlist.
func (g *Guard) Allow(r *http.Request) bool {
	g.mu.RLock()
	entries := g.entries
	g.mu.RUnlock()

	if len(entries) == 0 {
		return true
	}
	ip := ClientIP(r)
	for _, e := range entries {
		if e.matches(ip) {
			return true
		}
	}
	return false
}

// ClientIP extracts the client address: the first X-Forwarded-For hop when
// present, otherwise the connection's remote address. IPv4-mapped IPv6
// addresses are unmapped and zone suffixes stripped so entries match the
// familiar dotted form.
func ClientIP(r *http.Request) string {
	ip := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0])
	if ip == "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		ip = host
	}
	if addr, err := netip.ParseAddr(ip); err == nil {
		return addr.Unmap().WithZone("").String()
	}
	return ip
}
