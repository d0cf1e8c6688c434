package bindgen

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// Symbols is a snapshot of everything collected, in emission order.
type Symbols struct {
	Constants []Constant        `yaml:"constants"`
	Enums     []Enum            `yaml:"enums"`
	Unions    []Union           `yaml:"unions"`
	Structs   []Struct          `yaml:"structs"`
	Functions []Function        `yaml:"functions"`
	Typedefs  map[string]string `yaml:"typedefs,omitempty"`
}

// Symbols returns a copy of the collected tables.
func (g *Generator) Symbols() Symbols {
	var s Symbols

	names := g.constants.Keys()
	sort.Strings(names)
	for _, name := range names {
		k, _ := g.constants.Get(name)
		s.Constants = append(s.Constants, *k)
	}
	for _, e := range g.enums.Values() {
		s.Enums = append(s.Enums, *e)
	}
	for _, u := range g.unions.Values() {
		s.Unions = append(s.Unions, *u)
	}
	for _, st := range g.structs.Values() {
		s.Structs = append(s.Structs, *st)
	}
	for _, fn := range g.functions.Values() {
		s.Functions = append(s.Functions, *fn)
	}
	if len(g.typedefs) > 0 {
		s.Typedefs = make(map[string]string, len(g.typedefs))
		for name, t := range g.typedefs {
			s.Typedefs[name] = t
		}
	}
	return s
}

// YAML encodes the snapshot for the symbols command.
func (s Symbols) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
