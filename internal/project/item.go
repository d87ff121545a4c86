package project

import "path/filepath"

// Item is one source entry of a project: its tag name, its Include path
// (raw at creation, absolute-resolvable afterwards), the owning project
// directory, and its property table.
type Item struct {
	Type       string
	Include    string
	ProjectDir string

	props *PropertySet
}

// NewItem returns an item with an empty, privately owned property table.
// The builder wires inherited tables itself; this constructor serves
// consumers that assemble items directly.
func NewItem(itemType, include, projectDir string) *Item {
	return &Item{Type: itemType, Include: include, ProjectDir: projectDir, props: NewPropertySet()}
}

// FullPath returns the item's absolute path: its identity joined onto the
// owning project directory. The identity itself stays relative because
// %(Identity) and the derived metadata are defined over it.
func (it *Item) FullPath() string {
	if filepath.IsAbs(it.Include) {
		return it.Include
	}
	return filepath.Join(it.ProjectDir, it.Include)
}

// Property returns the item's value for name, folding case.
func (it *Item) Property(name string) (string, bool) {
	return it.props.Get(name)
}

// SetProperty binds name to value on this item, copying a borrowed table
// first when the write changes anything.
func (it *Item) SetProperty(name, value string) {
	it.props.Set(name, value)
}

// PropertyNames lists the item's property names in stable order.
func (it *Item) PropertyNames() []string {
	return it.props.Names()
}

// Properties returns a plain copy of the item's property table.
func (it *Item) Properties() map[string]string {
	return it.props.Map()
}
