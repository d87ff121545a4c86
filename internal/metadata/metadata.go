// Package metadata computes the well-known derived values an item exposes
// through %(Name) tokens: path components of the item's identity joined with
// its owning project directory, plus file timestamps. The name set is closed;
// an unknown name is a fatal reference error, not an extension point.
package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/vcdb/internal/fsutil"
)

// Provider answers metadata queries for items. It is stateless apart from the
// injected file system capability.
type Provider struct {
	fs fsutil.FS
}

// NewProvider returns a Provider backed by fs.
func NewProvider(fs fsutil.FS) *Provider {
	return &Provider{fs: fs}
}

// Value computes the named metadata for an item with the given identity
// (relative path as written in the project) and owning project directory
// (absolute). Names are matched case-insensitively.
func (p *Provider) Value(identity, projectDir, name string) (string, error) {
	full := filepath.Join(projectDir, identity)
	root := filepath.VolumeName(projectDir) + string(filepath.Separator)

	switch strings.ToLower(name) {
	case "fullpath":
		return full, nil
	case "rootdir":
		return root, nil
	case "filename":
		base := filepath.Base(identity)
		return strings.TrimSuffix(base, filepath.Ext(base)), nil
	case "extension":
		return filepath.Ext(identity), nil
	case "relativedir":
		return withSeparator(filepath.Dir(identity)), nil
	case "directory", "recursivedir":
		dir := withSeparator(filepath.Dir(full))
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return "", fmt.Errorf("metadata %s of %q: %w", name, identity, err)
		}
		return withSeparator(rel), nil
	case "identity":
		return identity, nil
	case "modifiedtime":
		return p.fs.ModifiedTime(full)
	case "createdtime":
		return p.fs.CreatedTime(full)
	case "accessedtime":
		return p.fs.AccessedTime(full)
	}
	return "", fmt.Errorf("unknown item metadata %%(%s)", name)
}

// withSeparator guarantees the trailing path separator the directory-valued
// metadata carry. A bare filename has no directory portion at all.
func withSeparator(dir string) string {
	if dir == "." || dir == "" {
		return ""
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
