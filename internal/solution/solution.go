// Package solution expands a solution manifest into its ordered constituent
// projects and drives a per-project build for each, rebinding the shared
// ProjectName macro per iteration. Manifest order decides output order.
package solution

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/vcdb/internal/ctxlog"
	"github.com/vk/vcdb/internal/fsutil"
	"github.com/vk/vcdb/internal/macro"
	"github.com/vk/vcdb/internal/project"
)

// projectMarker prefixes the manifest lines that declare a project.
const projectMarker = "Project("

// macroProjectName is the seed key rebound per project during aggregation.
const macroProjectName = "ProjectName"

// Entry is one (name, path) pair from the manifest, path already resolved
// against the manifest's directory.
type Entry struct {
	Name string
	Path string
}

// BuildFunc builds one project and returns its resolved items. The seed is
// shared across all invocations of one aggregation run.
type BuildFunc func(ctx context.Context, path string, seed *macro.Table) ([]*project.Item, error)

// ReadLines returns the lines of the file at path.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read solution manifest: %w", err)
	}
	return splitLines(string(data)), nil
}

// splitLines splits manifest content, tolerating Windows line endings.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// Parse extracts the ordered project entries from manifest lines. A project
// line carries quoted fields; the second is the project name and the third
// its path relative to the manifest.
func Parse(manifestPath string, lines []string) []Entry {
	dir := filepath.Dir(manifestPath)

	var entries []Entry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, projectMarker) {
			continue
		}
		fields := quotedFields(line)
		if len(fields) < 3 {
			continue
		}
		entries = append(entries, Entry{
			Name: fields[1],
			Path: filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(fields[2], `\`, "/"))),
		})
	}
	return entries
}

// Aggregate builds every project listed in the manifest, in order, into one
// combined item list. A listed project that does not exist on disk aborts the
// run before any project is built.
func Aggregate(ctx context.Context, manifestPath string, seed *macro.Table, fs fsutil.FS, build BuildFunc) ([]*project.Item, error) {
	logger := ctxlog.FromContext(ctx)

	lines, err := ReadLines(manifestPath)
	if err != nil {
		return nil, err
	}
	entries := Parse(manifestPath, lines)
	logger.Debug("Solution manifest parsed.", "path", manifestPath, "projects", len(entries))

	for _, e := range entries {
		if !fs.Exists(e.Path) {
			return nil, fmt.Errorf("solution references missing project %q at %s", e.Name, e.Path)
		}
	}

	var items []*project.Item
	for _, e := range entries {
		seed.Set(macroProjectName, e.Name)
		logger.Debug("Building project.", "name", e.Name, "path", e.Path)

		built, err := build(ctx, e.Path, seed)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", e.Name, err)
		}
		items = append(items, built...)
	}
	return items, nil
}

// quotedFields returns the "-delimited substrings of line, in order.
func quotedFields(line string) []string {
	var fields []string
	for {
		open := strings.IndexByte(line, '"')
		if open < 0 {
			return fields
		}
		end := strings.IndexByte(line[open+1:], '"')
		if end < 0 {
			return fields
		}
		fields = append(fields, line[open+1:open+1+end])
		line = line[open+end+2:]
	}
}
