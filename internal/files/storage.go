// Package files owns the on-disk layout of the upload area. Regular shared
// files and chat images live in sibling directories under one uploads root so
// chat images never show up in the shared-files listing.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrUnsupportedPreview marks files whose extension is not previewable as text.
var ErrUnsupportedPreview = errors.New("unsupported preview")

// textExts lists the extensions served by the plain-text preview endpoint.
var textExts = map[string]struct{}{
	"txt": {}, "md": {}, "json": {}, "csv": {}, "log": {},
	"js": {}, "ts": {}, "py": {}, "html": {}, "css": {}, "xml": {},
	"yml": {}, "yaml": {}, "sh": {}, "bat": {}, "conf": {}, "ini": {},
}

var (
	forbiddenChars = regexp.MustCompile(`[\\/<>:"|?*\x00-\x1f]`)
	allowedChars   = regexp.MustCompile(`[^\p{L}\p{N}\-_.+()\[\] ]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// SanitizeName reduces an uploaded filename to a safe basename. Path
// separators, control characters and shell-hostile punctuation become
// underscores; whitespace runs collapse to a single space.
func SanitizeName(name string) string {
	name = filepath.Base(name)
	name = forbiddenChars.ReplaceAllString(name, "_")
	name = allowedChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(whitespaceRuns.ReplaceAllString(name, " "))
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}

// Entry describes one stored file.
type Entry struct {
	Name  string
	Size  int64
	MTime int64 // Unix milliseconds
}

// Storage manages the two upload directories.
type Storage struct {
	filesDir string
	chatDir  string
}

// NewStorage creates the files/ and chat/ directories under root.
func NewStorage(root string) (*Storage, error) {
	s := &Storage{
		filesDir: filepath.Join(root, "files"),
		chatDir:  filepath.Join(root, "chat"),
	}
	for _, dir := range []string{s.filesDir, s.chatDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return s, nil
}

// SaveFile stores a shared file, overwriting any existing file with the same
// sanitized name. Returns the stored entry.
func (s *Storage) SaveFile(name string, src io.Reader) (Entry, error) {
	return save(s.filesDir, name, src)
}

// SaveChatImage stores a chat image and returns the stored entry. The caller
// is responsible for MIME filtering; this layer only handles placement.
func (s *Storage) SaveChatImage(name string, src io.Reader) (Entry, error) {
	return save(s.chatDir, name, src)
}

func save(dir, name string, src io.Reader) (Entry, error) {
	name = SanitizeName(name)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return Entry{}, fmt.Errorf("create upload: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Entry{}, fmt.Errorf("write upload: %w", err)
	}
	return Entry{Name: name, Size: size}, nil
}

// List returns the shared files sorted newest-first by modification time.
// Chat images are deliberately excluded.
func (s *Storage) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.filesDir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir: %w", err)
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if d.IsDir() {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:  d.Name(),
			Size:  info.Size(),
			MTime: info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MTime > entries[j].MTime })
	return entries, nil
}

// Delete removes one shared file. Returns os.ErrNotExist when it is absent.
func (s *Storage) Delete(name string) error {
	return os.Remove(filepath.Join(s.filesDir, filepath.Base(name)))
}

// DeleteAll removes every shared file and reports how many went away.
func (s *Storage) DeleteAll() (int, error) {
	dirents, err := os.ReadDir(s.filesDir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}
	deleted := 0
	for _, d := range dirents {
		if err := os.Remove(filepath.Join(s.filesDir, d.Name())); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// Preview opens a shared file for plain-text preview. Only a fixed set of
// text extensions is served; everything else gets ErrUnsupportedPreview.
func (s *Storage) Preview(name string) (io.ReadCloser, error) {
	name = filepath.Base(name)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if _, ok := textExts[ext]; !ok {
		return nil, ErrUnsupportedPreview
	}
	return os.Open(filepath.Join(s.filesDir, name))
}
