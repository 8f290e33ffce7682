package allowlist

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the allowlist whenever its file changes on disk, until the
// context is cancelled. The parent directory is watched so replace-by-rename
// edits are picked up too.
func (g *Guard) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		g.log.Warn().Err(err).Msg("allowlist watcher unavailable")
		return
	}
	defer watcher.Close()

	dir := filepath.Dir(g.path)
	if err := watcher.Add(dir); err != nil {
		g.log.Warn().Err(err).Str("dir", dir).Msg("watch allowlist dir")
		return
	}

	target := filepath.Clean(g.path)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				g.Reload()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			g.log.Warn().Err(err).Msg("allowlist watcher error")
		case <-ctx.Done():
			return
		}
	}
}
