package bindgen

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
)

const fileHeader = "// Generated Nature bindings\n// This file was automatically generated by naturebindgen.\n"

// unionCtorSizes are the sizes a value can be reinterpreted into directly.
var unionCtorSizes = map[int64]bool{4: true, 8: true}

var unionCtorTemplate = template.Must(template.New("ctor").Parse(`fn new{{.Alias}}<T>(T value):{{.Alias}} {
    u8 zero = 0 as u8
    {{.Alias}} result = [{{.Zeros}}]
    result as anyptr as rawptr<T> as T = value
    return result
}
`))

// Generate renders everything collected so far as a Nature source file.
// Sections are constants, enum values, unions, structs and functions, in
// that order; empty sections are left out.
func (g *Generator) Generate() string {
	parts := []string{fileHeader}
	for _, s := range []string{
		section("Constants from Macros", g.constantLines(), ""),
		section("Enum Constants", g.enumLines(), ""),
		section("Union Definitions (as byte arrays)", g.unionBlocks(), "\n"),
		section("Struct Definitions", g.structBlocks(), "\n"),
		section("Function Bindings", g.functionBlocks(), "\n"),
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// section joins newline-terminated blocks under a title comment.
func section(title string, blocks []string, sep string) string {
	if len(blocks) == 0 {
		return ""
	}
	return "// " + title + "\n" + strings.Join(blocks, sep)
}

func (g *Generator) constantLines() []string {
	names := g.constants.Keys()
	sort.Strings(names)
	lines := make([]string, 0, len(names))
	for _, name := range names {
		k, _ := g.constants.Get(name)
		lines = append(lines, fmt.Sprintf("%s %s = %s\n", k.Type, k.Name, k.Value))
	}
	return lines
}

func (g *Generator) enumLines() []string {
	var lines []string
	for _, e := range g.enums.Values() {
		for _, m := range e.Members {
			lines = append(lines, fmt.Sprintf("int %s = %d\n", e.ConstantName(m), m.Value))
		}
	}
	return lines
}

// unionBlocks emits one alias per distinct size, however many unions share it.
func (g *Generator) unionBlocks() []string {
	var blocks []string
	seen := make(map[string]bool)
	for _, u := range g.unions.Values() {
		alias := u.TypeName()
		if seen[alias] {
			continue
		}
		seen[alias] = true

		var sb strings.Builder
		fmt.Fprintf(&sb, "type %s = [u8;%d]\n", alias, u.Size)
		if unionCtorSizes[u.Size] {
			sb.WriteString("\n")
			zeros := strings.TrimSuffix(strings.Repeat("zero,", int(u.Size)), ",")
			// Writes to a strings.Builder never fail.
			_ = unionCtorTemplate.Execute(&sb, struct{ Alias, Zeros string }{alias, zeros})
		}
		blocks = append(blocks, sb.String())
	}
	return blocks
}

func (g *Generator) structBlocks() []string {
	blocks := make([]string, 0, g.structs.Len())
	for _, s := range g.structs.Values() {
		var sb strings.Builder
		fmt.Fprintf(&sb, "type %s = struct {\n", s.Name)
		for _, f := range s.Fields {
			fmt.Fprintf(&sb, "    %s %s\n", f.Type, f.Name)
		}
		sb.WriteString("}\n")
		blocks = append(blocks, sb.String())
	}
	return blocks
}

func (g *Generator) functionBlocks() []string {
	blocks := make([]string, 0, g.functions.Len())
	for _, fn := range g.functions.Values() {
		params := make([]string, 0, len(fn.Parameters)+1)
		for _, p := range fn.Parameters {
			params = append(params, p.Type+" "+p.Name)
		}
		if fn.IsVariadic {
			params = append(params, "...[any] args")
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "#linkid %s\n", fn.LinkName)
		fmt.Fprintf(&sb, "fn %s(%s)", fn.Name, strings.Join(params, ", "))
		if fn.ReturnType != "void" {
			fmt.Fprintf(&sb, ":%s", fn.ReturnType)
		}
		sb.WriteString("\n")
		blocks = append(blocks, sb.String())
	}
	return blocks
}
