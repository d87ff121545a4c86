package fsutil

import (
	"fmt"
	"path"
	"sort"
)

// Fake is an in-memory FS for tests: a set of known paths with pinned
// timestamps. The zero value knows no files.
type Fake struct {
	// Paths maps a known path to its timestamp string, used for all three
	// time queries.
	Paths map[string]string
}

// Exists reports whether p was registered.
func (f *Fake) Exists(p string) bool {
	_, ok := f.Paths[p]
	return ok
}

// ModifiedTime returns the pinned timestamp for p.
func (f *Fake) ModifiedTime(p string) (string, error) {
	ts, ok := f.Paths[p]
	if !ok {
		return "", fmt.Errorf("stat %s: no such file", p)
	}
	return ts, nil
}

// CreatedTime returns the pinned timestamp for p.
func (f *Fake) CreatedTime(p string) (string, error) {
	return f.ModifiedTime(p)
}

// AccessedTime returns the pinned timestamp for p.
func (f *Fake) AccessedTime(p string) (string, error) {
	return f.ModifiedTime(p)
}

// ListFiles returns registered paths under dir matching pattern.
func (f *Fake) ListFiles(dir, pattern string) ([]string, error) {
	var out []string
	for p := range f.Paths {
		if path.Dir(p) != dir {
			continue
		}
		ok, err := path.Match(pattern, path.Base(p))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out, nil
}
