package allowlist

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeList(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "allowed_ips.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write allowlist: %v", err)
	}
	return path
}

func TestGuardAllowsEveryoneWhenEmpty(t *testing.T) {
	guard := NewGuard(writeList(t, "# comment only\n\n"), nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	if !guard.Allow(req) {
		t.Fatal("empty allowlist must allow everyone")
	}
}

func TestGuardMissingFileAllowsEveryone(t *testing.T) {
	guard := NewGuard(filepath.Join(t.TempDir(), "nope.txt"), nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "203.0.113.7:4321"
	if !guard.Allow(req) {
		t.Fatal("missing allowlist file must allow everyone")
	}
}

func TestGuardMatching(t *testing.T) {
	guard := NewGuard(writeList(t, `
# office
10.0.0.5
192.168.1.*
172.16.0.0/12
localhost
`), nil)

	cases := []struct {
		name    string
		remote  string
		xff     string
		allowed bool
	}{
		{"exact match", "10.0.0.5:1000", "", true},
		{"exact mismatch", "10.0.0.6:1000", "", false},
		{"wildcard match", "192.168.1.77:1000", "", true},
		{"wildcard spans one segment only", "192.168.2.77:1000", "", false},
		{"cidr match", "172.20.3.4:1000", "", true},
		{"cidr mismatch", "172.32.0.1:1000", "", false},
		{"localhost alias", "127.0.0.1:1000", "", true},
		{"mapped ipv4", "[::ffff:10.0.0.5]:1000", "", true},
		{"forwarded-for wins", "203.0.113.9:1000", "10.0.0.5, 203.0.113.9", true},
		{"forwarded-for mismatch", "10.0.0.5:1000", "198.51.100.2", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := guard.Allow(req); got != tc.allowed {
				t.Fatalf("Allow() = %v, want %v", got, tc.allowed)
			}
		})
	}
}

func TestGuardReload(t *testing.T) {
	path := writeList(t, "10.0.0.5\n")
	guard := NewGuard(path, nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.2:1000"
	if guard.Allow(req) {
		t.Fatal("address should be blocked before reload")
	}

	if err := os.WriteFile(path, []byte("198.51.100.2\n"), 0o600); err != nil {
		t.Fatalf("rewrite allowlist: %v", err)
	}
	guard.Reload()

	if !guard.Allow(req) {
		t.Fatal("address should be allowed after reload")
	}
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"host port", "10.1.2.3:555", "", "10.1.2.3"},
		{"mapped ipv6", "[::ffff:10.1.2.3]:555", "", "10.1.2.3"},
		{"xff first hop", "10.0.0.1:555", "1.2.3.4, 5.6.7.8", "1.2.3.4"},
		{"plain ipv6", "[2001:db8::1]:555", "", "2001:db8::1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tc.remote
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if got := ClientIP(req); got != tc.want {
				t.Fatalf("ClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}
