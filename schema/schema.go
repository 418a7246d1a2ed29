// Package schema validates shaped records against a declarative schema.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/dublinosm/osmcsv/fieldtype"
	"github.com/dublinosm/osmcsv/shape"
)

//go:embed default.yml
var defaultSchema []byte

type FieldType string

const (
	String  FieldType = "string"
	Integer FieldType = "integer"
	Decimal FieldType = "decimal"
	Enum    FieldType = "enum"
)

type Field struct {
	Name     string    `yaml:"name"`
	Type     FieldType `yaml:"type"`
	Required bool      `yaml:"required"`
	Values   []string  `yaml:"values"`

	allowed map[string]struct{}
}

// Schema contains the fields of each record family.
type Schema map[string][]*Field

type Reason string

const (
	Missing    Reason = "missing"
	WrongType  Reason = "wrong type"
	Disallowed Reason = "disallowed value"
)

// ValidationError describes the first field of an element that does not
// match the schema. Index is the position of the record within its family,
// 0 for the node and way families.
type ValidationError struct {
	Family string
	Field  string
	Index  int
	Reason Reason
	Value  string
}

func (e *ValidationError) Error() string {
	if e.Reason == Missing {
		return fmt.Sprintf("%s[%d].%s: missing", e.Family, e.Index, e.Field)
	}
	return fmt.Sprintf("%s[%d].%s: %s %q", e.Family, e.Index, e.Field, e.Reason, e.Value)
}

// Default returns the built-in schema.
func Default() Schema {
	s, err := New(defaultSchema)
	if err != nil {
		panic(err)
	}
	return s
}

func FromFile(filename string) (Schema, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	s, err := New(b)
	if err != nil {
		return nil, errors.Wrapf(err, "loading schema %s", filename)
	}
	return s, nil
}

// Load returns the schema from filename, or the default schema if
// filename is empty.
func Load(filename string) (Schema, error) {
	if filename == "" {
		return Default(), nil
	}
	return FromFile(filename)
}

func New(b []byte) (Schema, error) {
	s := Schema{}
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s Schema) prepare() error {
	for _, family := range shape.Families {
		if _, ok := s[family]; !ok {
			return errors.Errorf("missing family %s", family)
		}
	}
	for family, fields := range s {
		known := false
		for _, f := range shape.Families {
			if f == family {
				known = true
			}
		}
		if !known {
			return errors.Errorf("unknown family %s", family)
		}
		for _, f := range fields {
			if f.Name == "" {
				return errors.Errorf("field without name in %s", family)
			}
			switch f.Type {
			case String, Integer, Decimal:
			case Enum:
				if len(f.Values) == 0 {
					return errors.Errorf("enum %s.%s without values", family, f.Name)
				}
				f.allowed = make(map[string]struct{}, len(f.Values))
				for _, v := range f.Values {
					f.allowed[v] = struct{}{}
				}
			case "":
				return errors.Errorf("missing type for %s.%s", family, f.Name)
			default:
				return errors.Errorf("unknown type %s for %s.%s", f.Type, family, f.Name)
			}
		}
	}
	return nil
}

// StringFields returns the names of all string fields of each family.
func (s Schema) StringFields() map[string][]string {
	result := make(map[string][]string, len(s))
	for family, fields := range s {
		for _, f := range fields {
			if f.Type == String {
				result[family] = append(result[family], f.Name)
			}
		}
	}
	return result
}

// Validate checks all records of the element: the node or way first, then
// the tags and the way nodes. It returns the first mismatch as
// *ValidationError.
func (s Schema) Validate(elem *shape.Shaped) error {
	if elem.Node != nil {
		if err := s.validate(shape.FamilyNode, 0, elem.Node); err != nil {
			return err
		}
		for i := range elem.NodeTags {
			if err := s.validate(shape.FamilyNodeTags, i, &elem.NodeTags[i]); err != nil {
				return err
			}
		}
	}
	if elem.Way != nil {
		if err := s.validate(shape.FamilyWay, 0, elem.Way); err != nil {
			return err
		}
		for i := range elem.WayTags {
			if err := s.validate(shape.FamilyWayTags, i, &elem.WayTags[i]); err != nil {
				return err
			}
		}
		for i := range elem.WayNodes {
			if err := s.validate(shape.FamilyWayNodes, i, &elem.WayNodes[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s Schema) validate(family string, idx int, rec shape.Record) error {
	for _, f := range s[family] {
		v, ok := rec.Field(f.Name)
		if !ok {
			if f.Required {
				return &ValidationError{Family: family, Field: f.Name, Index: idx, Reason: Missing}
			}
			continue
		}
		if reason, ok := f.check(v); !ok {
			return &ValidationError{Family: family, Field: f.Name, Index: idx, Reason: reason, Value: v}
		}
	}
	return nil
}

func (f *Field) check(v string) (Reason, bool) {
	switch f.Type {
	case Integer:
		if fieldtype.Classify(v) != fieldtype.Integer {
			return WrongType, false
		}
		// Classify trims whitespace, the loader does not
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return WrongType, false
		}
	case Decimal:
		t := fieldtype.Classify(v)
		if t != fieldtype.Integer && t != fieldtype.Decimal {
			return WrongType, false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return WrongType, false
		}
	case Enum:
		if _, ok := f.allowed[v]; !ok {
			return Disallowed, false
		}
	}
	return "", true
}
