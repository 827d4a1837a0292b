package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Conceptual-Machines/muse-api/internal/music"
	"github.com/google/uuid"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	fallbackPrefix = "track_"
	audioExt       = ".mp3"
)

// safeFilenamePattern is the allowlist for stored names: a leading
// alphanumeric, then alphanumerics, dots, underscores and hyphens. Path
// separators, leading dots and control bytes all fail the gate.
var safeFilenamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ContentStore owns the rendered-audio directory. Filesystem paths stay
// private to it; callers deal in bare filenames.
type ContentStore struct {
	dir string
}

// NewContentStore creates the content directory if needed and returns a
// store rooted there. The root is made absolute so resolved paths stay
// valid if the working directory changes.
func NewContentStore(dir string) (*ContentStore, error) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, &music.StorageError{Op: "create dir", Path: dir, Err: err}
	}
	log.Printf("📁 Content store ready: %s", dir)
	return &ContentStore{dir: dir}, nil
}

// Dir returns the store's root directory
func (s *ContentStore) Dir() string {
	return s.dir
}

// SanitizeFilename reduces an upstream-chosen filename to a safe basename.
// Names that survive the gate are kept as-is; everything else becomes a
// generated track_<uuid>.mp3 so a hostile upstream name can never fail a
// render.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if safeFilenamePattern.MatchString(base) {
		return base
	}
	return fallbackPrefix + shortID(12) + audioExt
}

// Persist writes audio bytes under the upstream filename, sanitized and
// de-collided with a short suffix when the name is already taken. Returns
// the final filename and its path inside the store.
func (s *ContentStore) Persist(filename string, data []byte) (string, string, error) {
	name := SanitizeFilename(filename)

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		name = decollide(name)
		path = filepath.Join(s.dir, name)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", "", &music.StorageError{Op: "write", Path: path, Err: err}
	}

	log.Printf("💾 Saved audio to %s (%d bytes)", path, len(data))
	return name, path, nil
}

// Resolve maps a client-supplied filename to a stored path, or ok=false when
// no such artifact exists. Lookups pass through the same name gate as
// Persist, so traversal-shaped input can never read outside the store.
func (s *ContentStore) Resolve(filename string) (string, bool) {
	base := filepath.Base(strings.TrimSpace(filename))
	if !safeFilenamePattern.MatchString(base) {
		return "", false
	}

	path := filepath.Join(s.dir, base)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Size returns the on-disk size of a stored file
func (s *ContentStore) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, &music.StorageError{Op: "stat", Path: path, Err: err}
	}
	return info.Size(), nil
}

// decollide injects a short unique suffix before the extension
func decollide(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", stem, shortID(8), ext)
}

// shortID returns n hex characters of a fresh uuid
func shortID(n int) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(id) {
		n = len(id)
	}
	return id[:n]
}
