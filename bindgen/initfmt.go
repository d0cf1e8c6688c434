package bindgen

import (
	"strings"

	"github.com/OrtheSnowJames/naturebindgen/expr"
)

// FormatInitializer rewrites the text between the braces of a C initializer
// of struct structName as a Nature struct literal: Name{field=value,...}.
// Designated items keep their order; positional items take the fields in
// declaration order and extras are dropped. Nested structs recurse, union
// members go through the union constructor, and strings stored in anyptr
// fields become handles. Formatting its own output again changes nothing.
func (g *Generator) FormatInitializer(structName, inner string) (string, bool) {
	s, ok := g.structs.Get(structName)
	if !ok {
		return "", false
	}

	segments := splitTopLevel(inner)
	pairs := make([]string, 0, len(segments))
	for i, seg := range segments {
		if i >= len(s.Fields) {
			break
		}
		if fieldName, value, ok := splitDesignator(seg); ok {
			field, found := s.Field(fieldName)
			if !found {
				pairs = append(pairs, fieldName+"="+value)
				continue
			}
			pairs = append(pairs, field.Name+"="+g.formatValue(field.Type, value))
			continue
		}
		field := s.Fields[i]
		pairs = append(pairs, field.Name+"="+g.formatValue(field.Type, seg))
	}
	return structName + "{" + strings.Join(pairs, ",") + "}", true
}

func (g *Generator) formatValue(fieldType, raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case g.structs.Has(fieldType):
		if inner, ok := braceInner(raw); ok {
			if formatted, ok := g.FormatInitializer(fieldType, inner); ok {
				return formatted
			}
		}
	case g.isUnionType(fieldType):
		return g.unionValue(fieldType, raw)
	case fieldType == opaquePointer && isQuoted(raw):
		return raw + expr.RefSuffix
	case strings.HasPrefix(fieldType, "["):
		if elem, ok := arrayElement(fieldType); ok && strings.HasPrefix(raw, "{") {
			if inner, ok := braceInner(raw); ok {
				items := splitTopLevel(inner)
				for i, item := range items {
					items[i] = g.formatValue(elem, item)
				}
				return "[" + strings.Join(items, ",") + "]"
			}
		}
	}
	return renderScalar(raw)
}

// renderScalar drops C literal suffixes from numeric values. Anything else
// is kept as written.
func renderScalar(raw string) string {
	e, err := expr.Parse(raw)
	if err != nil {
		return raw
	}
	switch e.(type) {
	case expr.NumberLit, expr.CharLit, expr.Unary, expr.Binary:
		return expr.Render(e)
	}
	return raw
}

// arrayElement returns T of a Nature array type [T;N].
func arrayElement(t string) (string, bool) {
	if !strings.HasPrefix(t, "[") || !strings.HasSuffix(t, "]") {
		return "", false
	}
	body := t[1 : len(t)-1]
	semi := strings.LastIndexByte(body, ';')
	if semi < 0 {
		return "", false
	}
	return body[:semi], true
}

// unionValue wraps the first member of a union initializer in the
// constructor of its byte-array alias.
func (g *Generator) unionValue(alias, raw string) string {
	ctor := "new" + alias
	if strings.HasPrefix(raw, ctor+"(") {
		return raw
	}
	value := raw
	if inner, ok := braceInner(raw); ok {
		value = ""
		if parts := splitTopLevel(inner); len(parts) > 0 {
			value = parts[0]
		}
		if _, v, ok := splitDesignator(value); ok {
			value = v
		}
	}
	return ctor + "(" + renderScalar(value) + ")"
}

// braceInner returns the text inside `{...}`, `(T){...}` or `T{...}`.
func braceInner(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if e, err := expr.Parse(raw); err == nil {
		switch lit := e.(type) {
		case expr.CompoundLiteral:
			return lit.Inner, true
		case expr.InitList:
			return lit.Inner, true
		}
	}
	// The values may use syntax the parser does not know, such as casts.
	open := strings.IndexByte(raw, '{')
	if open < 0 || !strings.HasSuffix(raw, "}") {
		return "", false
	}
	prefix := strings.TrimSpace(raw[:open])
	if prefix != "" && !isTypePrefix(prefix) {
		return "", false
	}
	return strings.TrimSpace(raw[open+1 : len(raw)-1]), true
}

func isTypePrefix(s string) bool {
	s = strings.TrimPrefix(s, "CLITERAL")
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	toks := expr.Tokenize(s)
	for _, t := range toks {
		if t.Kind != expr.Ident {
			return false
		}
	}
	return len(toks) > 0
}

// splitDesignator splits `.name = value` or `name = value`.
func splitDesignator(seg string) (name, value string, ok bool) {
	toks := expr.Tokenize(seg)
	switch {
	case len(toks) >= 3 && toks[0].Text == "." && toks[1].Kind == expr.Ident && toks[2].Kind == expr.Assign:
		return toks[1].Text, strings.TrimSpace(seg[toks[2].End:]), true
	case len(toks) >= 2 && toks[0].Kind == expr.Ident && toks[1].Kind == expr.Assign:
		return toks[0].Text, strings.TrimSpace(seg[toks[1].End:]), true
	}
	return "", "", false
}

// splitTopLevel splits on commas outside braces, parentheses and quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case '"', '\'':
			i = skipQuoted(s, i)
		case ',':
			if depth == 0 {
				parts = appendPart(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return appendPart(parts, s[start:])
}

func appendPart(parts []string, part string) []string {
	if part = strings.TrimSpace(part); part != "" {
		parts = append(parts, part)
	}
	return parts
}

// skipQuoted returns the index of the closing quote of the literal at i.
func skipQuoted(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(s) - 1
}
