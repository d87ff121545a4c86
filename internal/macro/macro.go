// Package macro holds the project-wide macro table: a case-insensitive
// string-to-string mapping seeded once per run, cloned per project, and
// consulted by the substitution engine for every $(Name) token.
package macro

import (
	"fmt"
	"sort"
	"strings"
)

// entry keeps the first-seen spelling of a name alongside its current value,
// so output surfaces show the author's casing while lookups stay folded.
type entry struct {
	name  string
	value string
}

// Table is a case-insensitive macro table. The zero value is not usable; use
// New or Clone.
type Table struct {
	entries map[string]entry // keyed by lower-cased name
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]entry)}
}

// Set binds name to value, overriding any previous binding regardless of case.
func (t *Table) Set(name, value string) {
	key := strings.ToLower(name)
	if prev, ok := t.entries[key]; ok {
		// Keep the original spelling stable across overrides.
		t.entries[key] = entry{name: prev.name, value: value}
		return
	}
	t.entries[key] = entry{name: name, value: value}
}

// Get returns the value bound to name, folding case.
func (t *Table) Get(name string) (string, bool) {
	e, ok := t.entries[strings.ToLower(name)]
	return e.value, ok
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.entries)
}

// Clone returns an independent copy. Mutations on the clone never reach the
// source table; one clone is made per project from the shared seed.
func (t *Table) Clone() *Table {
	c := New()
	for k, e := range t.entries {
		c.entries[k] = e
	}
	return c
}

// Resolver adapts the table to the substitution engine. A missing name is a
// fatal reference error; project files never reference undefined macros on
// purpose.
func (t *Table) Resolver() func(name string) (string, error) {
	return func(name string) (string, error) {
		value, ok := t.Get(name)
		if !ok {
			return "", fmt.Errorf("undefined macro $(%s)", name)
		}
		return value, nil
	}
}

// Pairs returns all bindings as display-name/value pairs, sorted by folded
// name for deterministic output.
func (t *Table) Pairs() [][2]string {
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		e := t.entries[k]
		pairs = append(pairs, [2]string{e.name, e.value})
	}
	return pairs
}
