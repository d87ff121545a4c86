// Package emit turns the resolved item list into a compile-command database:
// one JSON entry per compiled file, in item order.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vk/vcdb/internal/project"
)

// Property names the emitter maps onto command-line flags.
const (
	propIncludeDirs = "AdditionalIncludeDirectories"
	propDefines     = "PreprocessorDefinitions"
	propOptions     = "AdditionalOptions"
)

// Options configures command construction.
type Options struct {
	Compiler   string   // invoked binary, first word of every command
	ItemTypes  []string // item types that produce entries
	ExtraFlags []string // flags appended right after the compiler
}

// DefaultOptions covers the common case of compiling ClCompile items.
func DefaultOptions() Options {
	return Options{
		Compiler:  "cl",
		ItemTypes: []string{"ClCompile"},
	}
}

// Command is one database entry.
type Command struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// Database builds the entries for all items of the configured types,
// preserving input order. Items must already be fully resolved.
func Database(items []*project.Item, opts Options) []Command {
	emitted := make(map[string]bool, len(opts.ItemTypes))
	for _, t := range opts.ItemTypes {
		emitted[strings.ToLower(t)] = true
	}

	var commands []Command
	for _, item := range items {
		if !emitted[strings.ToLower(item.Type)] {
			continue
		}
		commands = append(commands, Command{
			Directory: item.ProjectDir,
			Command:   buildCommand(item, opts),
			File:      item.FullPath(),
		})
	}
	return commands
}

// Write serializes the database as an indented JSON array.
func Write(w io.Writer, commands []Command) error {
	if commands == nil {
		commands = []Command{}
	}
	data, err := json.MarshalIndent(commands, "", "  ")
	if err != nil {
		return fmt.Errorf("encode compile commands: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write compile commands: %w", err)
	}
	return nil
}

// buildCommand assembles one invocation from the item's properties.
func buildCommand(item *project.Item, opts Options) string {
	args := []string{opts.Compiler}
	args = append(args, opts.ExtraFlags...)

	if dirs, ok := item.Property(propIncludeDirs); ok {
		for _, dir := range splitList(dirs) {
			args = append(args, "/I"+dir)
		}
	}
	if defines, ok := item.Property(propDefines); ok {
		for _, def := range splitList(defines) {
			args = append(args, "/D"+def)
		}
	}
	if extra, ok := item.Property(propOptions); ok && extra != "" {
		args = append(args, strings.Fields(extra)...)
	}

	args = append(args, item.FullPath())
	return strings.Join(args, " ")
}

// splitList splits a resolved semicolon list, dropping empty elements.
func splitList(list string) []string {
	var out []string
	for _, e := range strings.Split(list, ";") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}
