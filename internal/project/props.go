package project

import (
	"sort"
	"strings"
)

// PropertySet is a case-insensitive property table with copy-on-write
// semantics. Items of one type borrow their type's definition table by
// reference; the first write that actually changes anything copies the table
// into private ownership, so sibling items never see each other's values.
type PropertySet struct {
	entries map[string]propEntry // keyed by lower-cased name
	owned   bool
}

type propEntry struct {
	name  string
	value string
}

// NewPropertySet returns an empty, privately owned set.
func NewPropertySet() *PropertySet {
	return &PropertySet{entries: make(map[string]propEntry), owned: true}
}

// borrow marks the set as shared. Writes through any borrower copy first.
func (s *PropertySet) borrow() *PropertySet {
	return &PropertySet{entries: s.entries, owned: false}
}

// Get returns the value bound to name, folding case.
func (s *PropertySet) Get(name string) (string, bool) {
	e, ok := s.entries[strings.ToLower(name)]
	return e.value, ok
}

// Set binds name to value, copying the underlying table first if it is still
// borrowed. A write that changes nothing leaves a borrowed table shared.
func (s *PropertySet) Set(name, value string) {
	key := strings.ToLower(name)
	if prev, ok := s.entries[key]; ok && prev.value == value {
		return
	}
	if !s.owned {
		copied := make(map[string]propEntry, len(s.entries))
		for k, e := range s.entries {
			copied[k] = e
		}
		s.entries = copied
		s.owned = true
	}
	if prev, ok := s.entries[key]; ok {
		s.entries[key] = propEntry{name: prev.name, value: value}
		return
	}
	s.entries[key] = propEntry{name: name, value: value}
}

// Names returns the display names of all properties, sorted by folded name.
func (s *PropertySet) Names() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, s.entries[k].name)
	}
	return names
}

// Map returns a plain name-to-value copy for consumers outside the model.
func (s *PropertySet) Map() map[string]string {
	out := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		out[e.name] = e.value
	}
	return out
}
