package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputWriter is the file-output collaborator of the rendering engine: it
// receives finished artifact bytes and a bare filename and returns the path
// it stored them under.
type OutputWriter struct {
	fs  FileSystem
	dir string
}

// NewOutputWriter writes artifacts under dir on the given filesystem. A nil
// fs means the real filesystem.
func NewOutputWriter(fs FileSystem, dir string) *OutputWriter {
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &OutputWriter{fs: fs, dir: dir}
}

// Write stores content under the artifact filename and returns the full
// path. The filename must be a bare name; directory components are rejected.
func (w *OutputWriter) Write(content []byte, filename string) (string, error) {
	if !validArtifactName(filename) {
		return "", fmt.Errorf("invalid artifact filename %q", filename)
	}
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", w.dir, err)
	}
	path := filepath.Join(w.dir, filename)
	if err := w.fs.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ErrAlreadyClaimed is returned by Claim when another worker holds the file.
var ErrAlreadyClaimed = fmt.Errorf("already claimed")

// Claim atomically creates a claim file at path, returning a release
// function on success and ErrAlreadyClaimed when some other process got
// there first. This is the one genuinely concurrent piece of the surrounding
// job queue: O_EXCL create is atomic on POSIX filesystems, so exactly one
// worker wins.
func Claim(path string) (release func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("claim %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("claim %s: %w", path, err)
	}
	return func() error { return os.Remove(path) }, nil
}
