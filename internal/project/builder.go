package project

import (
	"context"
	"strings"

	"github.com/vk/vcdb/internal/ctxlog"
	"github.com/vk/vcdb/internal/expand"
	"github.com/vk/vcdb/internal/macro"
	"github.com/vk/vcdb/internal/metadata"
	"github.com/vk/vcdb/internal/xmltree"
)

// Element and attribute vocabulary of the project description.
const (
	elemItemGroup           = "ItemGroup"
	elemItemDefinitionGroup = "ItemDefinitionGroup"
	elemPropertyGroup       = "PropertyGroup"

	attrCondition = "Condition"
	attrLabel     = "Label"
	attrInclude   = "Include"
)

// Header items compile under the settings registered for the compile type,
// so their defaults come from its definition table.
const (
	compileItemType = "ClCompile"
	headerItemType  = "ClInclude"
)

// listSeparator delimits multi-valued properties.
const listSeparator = ";"

// Builder turns one project's node tree into resolved items.
type Builder struct {
	meta *metadata.Provider
}

// NewBuilder returns a Builder using meta for %(Name) queries.
func NewBuilder(meta *metadata.Provider) *Builder {
	return &Builder{meta: meta}
}

// Build walks the project rooted at root, then resolves every created item in
// place. The caller's seed table is cloned first; bindings made by the
// project's own property groups never escape this call. The returned table is
// the project's final macro state.
func (b *Builder) Build(ctx context.Context, root *xmltree.Node, projectDir string, seed *macro.Table) ([]*Item, *macro.Table, error) {
	logger := ctxlog.FromContext(ctx)

	macros := seed.Clone()
	defs := make(map[string]*PropertySet)
	var items []*Item

	for _, node := range root.Children() {
		switch node.Name() {
		case elemItemGroup:
			if _, labeled := node.Attr(attrLabel); labeled {
				// Labeled groups are bookkeeping, not real item groups.
				continue
			}
			items = append(items, collectItems(node, defs)...)
		case elemItemDefinitionGroup:
			ok, err := groupApplies(node, macros)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				continue
			}
			for _, def := range node.Children() {
				// A later block for the same type replaces the earlier
				// table outright; there is no merging.
				defs[strings.ToLower(def.Name())] = parsePropertyTable(def)
			}
		case elemPropertyGroup:
			ok, err := groupApplies(node, macros)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				continue
			}
			for _, prop := range node.Children() {
				macros.Set(prop.Name(), strings.TrimSpace(prop.Text()))
			}
		}
	}
	logger.Debug("Project walk complete.", "items", len(items), "macros", macros.Len())

	for _, item := range items {
		if err := b.resolveItem(item, projectDir, macros); err != nil {
			return nil, nil, err
		}
	}
	logger.Debug("Item resolution complete.", "project_dir", projectDir)

	return items, macros, nil
}

// groupApplies evaluates a node's Condition attribute against the macro table
// as it stands right now. A missing condition is always true.
func groupApplies(node *xmltree.Node, macros *macro.Table) (bool, error) {
	cond, ok := node.Attr(attrCondition)
	if !ok {
		return true, nil
	}
	return evalCondition(cond, macros)
}

// collectItems creates one Item per child carrying an Include attribute.
// Items start on their type's definition table, shared by reference; inline
// child properties force the private copy.
func collectItems(group *xmltree.Node, defs map[string]*PropertySet) []*Item {
	var items []*Item
	for _, node := range group.Children() {
		include, ok := node.Attr(attrInclude)
		if !ok {
			continue
		}

		itemType := node.Name()
		defType := itemType
		if strings.EqualFold(itemType, headerItemType) {
			defType = compileItemType
		}

		var props *PropertySet
		if def, ok := defs[strings.ToLower(defType)]; ok {
			props = def.borrow()
		} else {
			props = NewPropertySet()
		}
		for _, inline := range node.Children() {
			name := inline.Name()
			value := strings.TrimSpace(inline.Text())
			// A %(Name) token naming the property being overridden refers to
			// the value it is replacing. Capture it now; by resolution time
			// the inherited value is gone.
			inherited, _ := props.Get(name)
			props.Set(name, expandSelfReference(value, name, inherited))
		}

		items = append(items, &Item{Type: itemType, Include: include, props: props})
	}
	return items
}

// expandSelfReference replaces every %(name) token in value, case-insensitive
// on the name, with the replacement text. Other metadata tokens are left for
// the resolution pass.
func expandSelfReference(value, name, replacement string) string {
	token := strings.ToLower(expand.MetadataPrefix + name + ")")

	// Single pass; the replacement may itself carry the token (an inherited
	// chain) and must not be re-scanned.
	var out strings.Builder
	for {
		i := strings.Index(strings.ToLower(value), token)
		if i < 0 {
			out.WriteString(value)
			return out.String()
		}
		out.WriteString(value[:i])
		out.WriteString(replacement)
		value = value[i+len(token):]
	}
}

// parsePropertyTable reads a node's children as a flat property table.
func parsePropertyTable(node *xmltree.Node) *PropertySet {
	props := NewPropertySet()
	for _, child := range node.Children() {
		props.Set(child.Name(), strings.TrimSpace(child.Text()))
	}
	return props
}

// resolveItem makes the item final: owning directory, macro-expanded
// identity, and every property value expanded element-wise. Metadata runs
// before macros because inherited defaults routinely expand into text that
// still carries $(Name) tokens; macros must be the outer expansion.
func (b *Builder) resolveItem(item *Item, projectDir string, macros *macro.Table) error {
	item.ProjectDir = projectDir

	include, err := expand.Expand(item.Include, expand.MacroPrefix, macros.Resolver())
	if err != nil {
		return err
	}
	item.Include = include

	for _, name := range item.PropertyNames() {
		value, _ := item.Property(name)

		var kept []string
		for _, element := range strings.Split(value, listSeparator) {
			element = strings.TrimSpace(element)

			element, err = expand.Expand(element, expand.MetadataPrefix, b.metadataResolver(item, name))
			if err != nil {
				return err
			}
			element, err = expand.Expand(element, expand.MacroPrefix, macros.Resolver())
			if err != nil {
				return err
			}

			if element != "" {
				kept = append(kept, element)
			}
		}
		item.SetProperty(name, strings.Join(kept, listSeparator))
	}
	return nil
}

// metadataResolver answers %(Name) tokens for one item. A token naming the
// property currently being resolved expands to the empty string, which is
// what lets "x;%(P)" prepend to an inherited list instead of recursing.
func (b *Builder) metadataResolver(item *Item, propertyName string) expand.Resolver {
	return func(name string) (string, error) {
		if strings.EqualFold(name, propertyName) {
			return "", nil
		}
		return b.meta.Value(item.Include, item.ProjectDir, name)
	}
}
