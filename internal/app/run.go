package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/vcdb/internal/ctxlog"
	"github.com/vk/vcdb/internal/emit"
	"github.com/vk/vcdb/internal/macro"
	"github.com/vk/vcdb/internal/project"
	"github.com/vk/vcdb/internal/runcfg"
	"github.com/vk/vcdb/internal/solution"
	"github.com/vk/vcdb/internal/xmltree"
)

// defaultConfigFile is picked up from the working directory when no -config
// flag names one explicitly.
const defaultConfigFile = "vcdb.hcl"

// Built-in macro seed. Overridden by the run configuration, then by -p flags.
var seedDefaults = map[string]string{
	"Configuration": "Debug",
	"Platform":      "Win32",
}

// Run executes one translation: seed macros, build every project, emit the
// database. Any failure aborts before the output artifact is written.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	cfg, err := a.loadRunConfig(ctx)
	if err != nil {
		return err
	}

	seed, err := a.seedMacros(cfg)
	if err != nil {
		return err
	}

	var items []*project.Item
	if a.config.SolutionPath != "" {
		items, err = solution.Aggregate(ctx, a.config.SolutionPath, seed, a.fs, a.buildProject)
	} else {
		// Single-project mode binds ProjectName the way aggregation would.
		name := strings.TrimSuffix(filepath.Base(a.config.ProjectPath), filepath.Ext(a.config.ProjectPath))
		seed.Set("ProjectName", name)
		items, err = a.buildProject(ctx, a.config.ProjectPath, seed)
	}
	if err != nil {
		return err
	}
	a.logger.Info("Projects resolved.", "items", len(items))

	opts := emitOptions(cfg)
	commands := emit.Database(items, opts)
	a.logger.Info("Compile command database built.", "entries", len(commands), "compiler", opts.Compiler)

	return a.writeDatabase(commands)
}

// buildProject loads one project description and builds its resolved items.
func (a *App) buildProject(ctx context.Context, path string, seed *macro.Table) ([]*project.Item, error) {
	root, err := xmltree.Load(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project path %s: %w", path, err)
	}

	items, _, err := a.builder.Build(ctx, root, filepath.Dir(abs), seed)
	return items, err
}

// loadRunConfig loads the configured HCL file, or the default one when it
// exists. No file at all is fine.
func (a *App) loadRunConfig(ctx context.Context) (*runcfg.Model, error) {
	path := a.config.ConfigPath
	if path == "" {
		if !a.fs.Exists(defaultConfigFile) {
			return nil, nil
		}
		path = defaultConfigFile
	}
	return runcfg.Load(ctx, path)
}

// seedMacros builds the shared macro seed from defaults, run configuration,
// and -p overrides, in that precedence order.
func (a *App) seedMacros(cfg *runcfg.Model) (*macro.Table, error) {
	seed := macro.New()
	for name, value := range seedDefaults {
		seed.Set(name, value)
	}
	if cfg != nil {
		for name, value := range cfg.Properties {
			seed.Set(name, value)
		}
	}
	for _, p := range a.config.Properties {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid property override %q: expected NAME=VALUE", p)
		}
		seed.Set(name, value)
	}
	return seed, nil
}

// emitOptions merges emitter defaults with the run configuration.
func emitOptions(cfg *runcfg.Model) emit.Options {
	opts := emit.DefaultOptions()
	if cfg == nil || cfg.Emit == nil {
		return opts
	}
	if cfg.Emit.Compiler != "" {
		opts.Compiler = cfg.Emit.Compiler
	}
	if len(cfg.Emit.ItemTypes) > 0 {
		opts.ItemTypes = cfg.Emit.ItemTypes
	}
	opts.ExtraFlags = cfg.Emit.ExtraFlags
	return opts
}

// writeDatabase lands the entries at the configured destination.
func (a *App) writeDatabase(commands []emit.Command) error {
	if a.config.OutputPath == "-" {
		return emit.Write(a.outW, commands)
	}

	f, err := os.Create(a.config.OutputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := emit.Write(f, commands); err != nil {
		return err
	}
	a.logger.Info("Database written.", "path", a.config.OutputPath)
	return nil
}
