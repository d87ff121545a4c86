// Package fsutil provides the file system capability the rest of the tool
// depends on: existence checks, timestamp queries, and file discovery.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// timestampLayout matches the second-resolution wall-clock format build
// tooling conventionally prints for file times.
const timestampLayout = "2006-01-02 15:04:05"

// FS is the injected file system surface. Production code uses OS; tests may
// substitute a fake to pin timestamps.
type FS interface {
	Exists(path string) bool
	ModifiedTime(path string) (string, error)
	CreatedTime(path string) (string, error)
	AccessedTime(path string) (string, error)
	ListFiles(dir, pattern string) ([]string, error)
}

// OS implements FS over the real file system.
type OS struct{}

// Exists reports whether path names an existing file or directory.
func (OS) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ModifiedTime returns the last-modification time of path as a string.
func (OS) ModifiedTime(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	return info.ModTime().Format(timestampLayout), nil
}

// CreatedTime returns the creation time of path. Creation time is not
// portably exposed by os.Stat, so this reports modification time; platforms
// that track birth time can provide their own FS.
func (o OS) CreatedTime(path string) (string, error) {
	return o.ModifiedTime(path)
}

// AccessedTime returns the last-access time of path. Same portability caveat
// as CreatedTime.
func (o OS) AccessedTime(path string) (string, error) {
	return o.ModifiedTime(path)
}

// ListFiles returns the paths under dir matching the glob pattern.
func (OS) ListFiles(dir, pattern string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, pattern))
}

// FindFilesByExtension recursively searches rootPath for all files ending
// with the given extension and returns their full paths.
func FindFilesByExtension(rootPath, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FormatTime renders t the way the FS timestamp queries do. Exposed for fakes
// and tests.
func FormatTime(t time.Time) string {
	return t.Format(timestampLayout)
}
