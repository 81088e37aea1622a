package binding

import (
	"fmt"
	"reflect"
	"sort"

	"golang.org/x/text/cases"
)

// TypeMapping holds the column bindings of one record type, keyed by
// case-insensitive column name and by 0-based column index.
//
// A TypeMapping obtained from a Cache is shared: changes made through
// MapName, MapIndex and Ignore are seen by every later user of the type.
// It is not safe for concurrent modification.
type TypeMapping struct {
	Type reflect.Type

	fields  map[string]Field
	byName  map[string]*Column
	byIndex map[int]*Column
	// order keeps registration order, used when header cells are created.
	order []*Column
}

func newTypeMapping(t reflect.Type) *TypeMapping {
	return &TypeMapping{
		Type:    t,
		fields:  make(map[string]Field),
		byName:  make(map[string]*Column),
		byIndex: make(map[int]*Column),
	}
}

func (m *TypeMapping) typ() reflect.Type {
	if m == nil {
		return nil
	}
	return m.Type
}

// foldName returns the matching key of a column name.
func foldName(name string) string {
	return cases.Fold().String(name)
}

// Lookup returns the binding registered under name, ignoring case.
func (m *TypeMapping) Lookup(name string) (*Column, bool) {
	c, ok := m.byName[foldName(name)]
	return c, ok
}

// At returns the binding registered under the 0-based column index.
func (m *TypeMapping) At(index int) (*Column, bool) {
	c, ok := m.byIndex[index]
	return c, ok
}

// Indexes returns the registered column indexes in ascending order.
func (m *TypeMapping) Indexes() []int {
	idx := make([]int, 0, len(m.byIndex))
	for i := range m.byIndex {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Columns returns the active bindings in registration order.
func (m *TypeMapping) Columns() []*Column {
	out := make([]*Column, len(m.order))
	copy(out, m.order)
	return out
}

// Named returns the active bindings registered under a name, in
// registration order.
func (m *TypeMapping) Named() []*Column {
	var out []*Column
	for _, c := range m.order {
		if c.Name != "" && m.byName[foldName(c.Name)] == c {
			out = append(out, c)
		}
	}
	return out
}

func (m *TypeMapping) field(name string) (Field, error) {
	f, ok := m.fields[name]
	if !ok {
		return Field{}, &MappingError{Type: m.Type, Field: name, Err: ErrUnknownField}
	}
	return f, nil
}

// MapName binds column name to field, replacing any binding registered
// under that name and any other binding of the field in an overlapping
// direction.
func (m *TypeMapping) MapName(name, field string, opts ...Option) (*Column, error) {
	f, err := m.field(field)
	if err != nil {
		return nil, err
	}
	c := newColumn(m, f)
	c.Name = name
	for _, opt := range opts {
		opt(c)
	}
	m.register(c)
	return c, nil
}

// MapIndex binds the 0-based column index to field.
func (m *TypeMapping) MapIndex(index int, field string, opts ...Option) (*Column, error) {
	if index < 0 {
		return nil, &MappingError{Type: m.Type, Field: field, Err: fmt.Errorf("%w: negative index %d", ErrInvalidDeclaration, index)}
	}
	f, err := m.field(field)
	if err != nil {
		return nil, err
	}
	c := newColumn(m, f)
	c.Index = index
	for _, opt := range opts {
		opt(c)
	}
	m.register(c)
	return c, nil
}

// Ignore removes every binding of field.
func (m *TypeMapping) Ignore(field string) {
	for _, c := range m.Columns() {
		if c.Field.Name == field {
			m.unregister(c)
		}
	}
}

func (m *TypeMapping) register(c *Column) {
	for _, old := range m.Columns() {
		if old.Field.Name == c.Field.Name && old.Direction.overlaps(c.Direction) {
			m.unregister(old)
		}
	}
	if c.Name != "" {
		key := foldName(c.Name)
		if old, ok := m.byName[key]; ok {
			m.unregister(old)
		}
		m.byName[key] = c
	}
	if c.Index >= 0 {
		if old, ok := m.byIndex[c.Index]; ok {
			m.unregister(old)
		}
		m.byIndex[c.Index] = c
	}
	m.order = append(m.order, c)
}

func (m *TypeMapping) unregister(c *Column) {
	if c.Name != "" {
		key := foldName(c.Name)
		if m.byName[key] == c {
			delete(m.byName, key)
		}
	}
	if c.Index >= 0 && m.byIndex[c.Index] == c {
		delete(m.byIndex, c.Index)
	}
	for i, o := range m.order {
		if o == c {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
