package http

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sharechat/sharechat-server/internal/allowlist"
	"github.com/sharechat/sharechat-server/internal/config"
	"github.com/sharechat/sharechat-server/internal/core"
	"github.com/sharechat/sharechat-server/internal/files"
)

// startTestServer wires a fresh hub, storage and an unrestricted allowlist
// behind an httptest server.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		LogLevel:          "error",
		PublicDir:         filepath.Join(root, "public"),
		UploadsDir:        filepath.Join(root, "uploads"),
		AllowlistPath:     filepath.Join(root, "allowed_ips.txt"),
		MaxUploadBytes:    1 << 20,
	}

	return startTestServerWithConfig(t, cfg)
}

func startTestServerWithConfig(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	storage, err := files.NewStorage(cfg.UploadsDir)
	if err != nil {
		t.Fatalf("init storage: %v", err)
	}

	disabledLogger := zerolog.Nop()
	guard := allowlist.NewGuard(cfg.AllowlistPath, &disabledLogger)

	server := NewServer(hub, guard, storage, cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}
