package expr

import "strings"

// RefSuffix turns a string literal into a Nature string handle.
const RefSuffix = ".ref()"

// Render prints e in Nature syntax. Binary expressions are always
// parenthesized so C precedence survives. Cast types keep their C spelling;
// use RenderWith to translate them.
func Render(e Expr) string {
	return RenderWith(e, nil)
}

// RenderWith is Render with cast target types passed through mapType.
func RenderWith(e Expr, mapType func(cType string) string) string {
	r := renderer{mapType: mapType}
	return r.render(e)
}

type renderer struct {
	mapType func(string) string
}

func (r renderer) render(e Expr) string {
	switch n := e.(type) {
	case NumberLit:
		return StripNumberSuffix(n.Text)
	case StringLit:
		return n.Text + RefSuffix
	case CharLit:
		return n.Text
	case Identifier:
		return n.Name
	case Unary:
		// -(-1), not --1.
		if _, nested := n.X.(Unary); nested {
			return n.Op + "(" + r.render(n.X) + ")"
		}
		return n.Op + r.render(n.X)
	case Binary:
		return "(" + r.render(n.Left) + n.Op + r.render(n.Right) + ")"
	case Cast:
		typ := n.Type
		if r.mapType != nil {
			typ = r.mapType(typ)
		}
		return "(" + r.render(n.X) + " as " + typ + ")"
	case Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.render(a)
		}
		return n.Func + "(" + strings.Join(args, ",") + ")"
	case CompoundLiteral:
		return n.Type + "{" + r.renderItems(n.Items) + "}"
	case InitList:
		return "{" + r.renderItems(n.Items) + "}"
	}
	return ""
}

func (r renderer) renderItems(items []InitItem) string {
	parts := make([]string, len(items))
	for i, it := range items {
		if it.Field != "" {
			parts[i] = it.Field + "=" + r.render(it.Value)
		} else {
			parts[i] = r.render(it.Value)
		}
	}
	return strings.Join(parts, ",")
}

// FieldLookup returns the declared field names of a struct, in order.
type FieldLookup func(structName string) ([]string, bool)

// RenderConstant renders e as the value of a constant and picks its type.
// Identifiers and calls are aliases or function-like uses and yield ok=false.
// So do scalar expressions containing a cast: their type is the cast's, not
// one guessed from the literals.
func RenderConstant(e Expr, fields FieldLookup) (typ, value string, ok bool) {
	if HasCast(e) {
		return "", "", false
	}
	switch n := e.(type) {
	case Identifier, Call, InitList:
		return "", "", false
	case StringLit:
		return "anyptr", Render(n), true
	case NumberLit, CharLit, Unary, Binary:
		if IsFloat(e) {
			return "f32", Render(e), true
		}
		return "i32", Render(e), true
	case CompoundLiteral:
		names, known := fields(n.Type)
		if !known {
			return n.Type, Render(n), true
		}
		var pairs []string
		if n.Designated() {
			for _, it := range n.Items {
				if it.Field == "" {
					continue
				}
				pairs = append(pairs, it.Field+"="+Render(it.Value))
			}
		} else {
			for i, it := range n.Items {
				if i >= len(names) {
					break
				}
				pairs = append(pairs, names[i]+"="+Render(it.Value))
			}
		}
		return n.Type, n.Type + "{" + strings.Join(pairs, ",") + "}", true
	}
	return "", "", false
}

// HasCast reports whether a scalar expression contains a cast. Initializer
// lists are not searched.
func HasCast(e Expr) bool {
	switch n := e.(type) {
	case Cast:
		return true
	case Unary:
		return HasCast(n.X)
	case Binary:
		return HasCast(n.Left) || HasCast(n.Right)
	case Call:
		for _, a := range n.Args {
			if HasCast(a) {
				return true
			}
		}
	}
	return false
}

// IsFloat reports whether any numeric literal in e is floating point.
func IsFloat(e Expr) bool {
	switch n := e.(type) {
	case NumberLit:
		return IsFloatLiteral(n.Text)
	case Unary:
		return IsFloat(n.X)
	case Binary:
		return IsFloat(n.Left) || IsFloat(n.Right)
	}
	return false
}

// IsFloatLiteral classifies a numeric spelling: a decimal point, an exponent
// or an f suffix make it floating point. Hex literals are integral.
func IsFloatLiteral(text string) bool {
	if isHexLiteral(text) {
		return false
	}
	return strings.ContainsAny(text, ".eE") || strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F")
}

// StripNumberSuffix drops C type suffixes (f, u, l and their combinations).
func StripNumberSuffix(text string) string {
	var stripped string
	if isHexLiteral(text) {
		stripped = strings.TrimRight(text, "uUlL")
	} else {
		stripped = strings.TrimRight(text, "fFuUlL")
	}
	if stripped == "" {
		return text
	}
	return stripped
}

func isHexLiteral(text string) bool {
	return strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
}
