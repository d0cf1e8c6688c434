package bindgen

import (
	"strings"

	"github.com/divan/num2words"
)

// Field is a struct or union member. Name is already safe to emit; CName is
// the spelling in the header, used to match designated initializers.
type Field struct {
	Name  string `yaml:"name"`
	CName string `yaml:"c_name,omitempty"`
	Type  string `yaml:"type"`
}

// Struct is a C struct definition.
type Struct struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Field looks a member up by its output or C name.
func (s *Struct) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name || f.CName == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the output names of the members in declaration order.
func (s *Struct) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Union is a C union definition. It is emitted as a byte array of Size bytes.
type Union struct {
	Name   string  `yaml:"name"`
	Size   int64   `yaml:"size"`
	Fields []Field `yaml:"fields"`
}

// TypeName is the byte-array alias every union of this size shares.
func (u *Union) TypeName() string {
	return UnionTypeName(u.Size)
}

// UnionTypeName spells the size out so the identifier never starts with a
// digit: 24 becomes Union_twenty_four_bytes.
func UnionTypeName(size int64) string {
	words := num2words.Convert(int(size))
	words = strings.NewReplacer("-", "_", " ", "_").Replace(words)
	return "Union_" + words + "_bytes"
}

// EnumMember is one enumerator with its 32-bit value.
type EnumMember struct {
	Name  string `yaml:"name"`
	Value int32  `yaml:"value"`
}

// Enum is a C enum. Name is empty for anonymous enums.
type Enum struct {
	Name    string       `yaml:"name"`
	Members []EnumMember `yaml:"members"`
}

// ConstantName is the emitted name of one member.
func (e *Enum) ConstantName(m EnumMember) string {
	if e.Name == "" {
		return m.Name
	}
	return e.Name + "_" + m.Name
}

// Parameter is a function parameter. Unnamed parameters are called arg<i>.
type Parameter struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Function is a C function prototype. LinkName is the native symbol.
type Function struct {
	Name       string      `yaml:"name"`
	LinkName   string      `yaml:"link_name"`
	ReturnType string      `yaml:"return_type"`
	Parameters []Parameter `yaml:"parameters"`
	IsVariadic bool        `yaml:"variadic,omitempty"`
}

// Constant is a macro turned into a typed value; Value is already rendered.
type Constant struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}
