// Package schema loads YAML mapping documents. A document either overrides
// the bindings of an existing record type or describes a record type of its
// own, built at runtime.
package schema

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

// File is a YAML mapping document.
type File struct {
	Version string `yaml:"version"`
	// Sheet is the default sheet name.
	Sheet   string   `yaml:"sheet,omitempty"`
	Columns []Column `yaml:"columns"`
}

// Column describes one column binding.
type Column struct {
	// Field is the record field; for runtime types it is derived from Name when empty.
	Field string `yaml:"field,omitempty"`
	// Name is the header text.
	Name string `yaml:"name,omitempty"`
	// Index is the 1-based column position, 0 when unset.
	Index int `yaml:"index,omitempty"`
	// Type is the value type of a runtime field: string, int, float, bool, date or any.
	Type      string    `yaml:"type,omitempty"`
	Nullable  bool      `yaml:"nullable,omitempty"`
	Format    Format    `yaml:"format,omitempty"`
	Direction Direction `yaml:"direction,omitempty"`
	Formula   bool      `yaml:"formula,omitempty"`
	JSON      bool      `yaml:"json,omitempty"`
	Validate  string    `yaml:"validate,omitempty"`
	Ignore    bool      `yaml:"ignore,omitempty"`
}

// Format is a display format: an integer builtin id or a custom pattern.
type Format struct {
	sheet.NumFmt
}

// UnmarshalYAML accepts either an integer or a string.
func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected format id or pattern", node.Line)
	}
	if node.ShortTag() == "!!int" {
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		f.Builtin = n
		return nil
	}
	f.Custom = node.Value
	return nil
}

// MarshalYAML writes builtin formats as integers.
func (f Format) MarshalYAML() (any, error) {
	if f.Custom != "" {
		return f.Custom, nil
	}
	return f.Builtin, nil
}

// IsZero lets omitempty drop unset formats.
func (f Format) IsZero() bool {
	return f.NumFmt.IsZero()
}

// Direction is a binding direction: both, readonly or writeonly.
type Direction struct {
	binding.Direction
}

// UnmarshalYAML parses a direction name.
func (d *Direction) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "both":
		d.Direction = binding.Both
	case "readonly", "read":
		d.Direction = binding.ReadOnly
	case "writeonly", "write":
		d.Direction = binding.WriteOnly
	default:
		return fmt.Errorf("line %d: unknown direction %q", node.Line, s)
	}
	return nil
}

// MarshalYAML writes the direction name.
func (d Direction) MarshalYAML() (any, error) {
	return d.Direction.String(), nil
}

// IsZero lets omitempty drop the default direction.
func (d Direction) IsZero() bool {
	return d.Direction == binding.Both
}

// LoadFile loads and parses a YAML mapping document from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}
	if f.Version == "" {
		f.Version = "1"
	}
	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// options returns the binding options of c.
func (c Column) options() []binding.Option {
	opts := []binding.Option{binding.WithDirection(c.Direction.Direction)}
	if !c.Format.IsZero() {
		opts = append(opts, binding.WithFormat(c.Format.NumFmt))
	}
	if c.Formula {
		opts = append(opts, binding.WithFormulaResult())
	}
	if c.JSON {
		opts = append(opts, binding.WithJSON())
	}
	if c.Validate != "" {
		opts = append(opts, binding.WithRules(c.Validate))
	}
	return opts
}

// Apply registers the document's columns on tm, replacing the bindings of
// the fields it names. Ignored columns remove the field's bindings.
func (f *File) Apply(tm *binding.TypeMapping) error {
	for i, c := range f.Columns {
		if c.Field == "" {
			return fmt.Errorf("column %d: field is required", i+1)
		}
		if c.Ignore {
			tm.Ignore(c.Field)
			continue
		}

		opts := c.options()
		var err error
		switch {
		case c.Name != "":
			if c.Index > 0 {
				opts = append(opts, binding.WithIndex(c.Index-1))
			}
			_, err = tm.MapName(c.Name, c.Field, opts...)
		case c.Index > 0:
			_, err = tm.MapIndex(c.Index-1, c.Field, opts...)
		default:
			_, err = tm.MapName(c.Field, c.Field, opts...)
		}
		if err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
	}
	return nil
}
