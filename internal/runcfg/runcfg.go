// Package runcfg loads the optional HCL run-configuration file. It supplies
// macro seed overrides and emitter options, sitting between the built-in
// defaults and the command-line flags in precedence.
package runcfg

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/vcdb/internal/ctxlog"
)

// Model is the decoded run configuration. Zero value means "no file found".
type Model struct {
	// Properties seed the macro table before CLI overrides apply.
	Properties map[string]string
	// Emit configures command construction; nil keeps emitter defaults.
	Emit *EmitConfig
}

// EmitConfig mirrors the emit block.
type EmitConfig struct {
	Compiler   string   `hcl:"compiler,optional"`
	ItemTypes  []string `hcl:"item_types,optional"`
	ExtraFlags []string `hcl:"extra_flags,optional"`
}

// fileRoot decodes the top-level blocks of a config file.
type fileRoot struct {
	Properties *propertiesBlock `hcl:"properties,block"`
	Emit       *EmitConfig      `hcl:"emit,block"`
	Remain     hcl.Body         `hcl:",remain"`
}

// propertiesBlock accepts arbitrary attribute names; values convert to string.
type propertiesBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load parses the configuration file at path.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	model := &Model{Properties: map[string]string{}, Emit: root.Emit}
	if root.Properties != nil {
		attrs, diags := root.Properties.Remain.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid properties block in %s: %w", path, diags)
		}
		for name, attr := range attrs {
			value, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("property %q in %s: %w", name, path, diags)
			}
			str, err := convert.Convert(value, cty.String)
			if err != nil {
				return nil, fmt.Errorf("property %q in %s must convert to string: %w", name, path, err)
			}
			model.Properties[name] = str.AsString()
		}
	}

	logger.Debug("Run configuration loaded.", "path", path, "properties", len(model.Properties), "has_emit", model.Emit != nil)
	return model, nil
}
