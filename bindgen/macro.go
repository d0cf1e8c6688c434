package bindgen

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
	"github.com/OrtheSnowJames/naturebindgen/expr"
)

// syntheticFile is the name of the in-memory source used to ask the C front
// end for the type and value of a macro.
const syntheticFile = "__naturebindgen_macro.c"

const dummyVar = "__dummy__"

var typeofRe = regexp.MustCompile(`^_*typeof_*\s*\(\s*(?:struct\s+)?(\w+)\s*\)$`)

func (g *Generator) queueMacro(c clangast.Cursor) {
	if loc := c.Location(); loc.Valid() {
		file := filepath.Clean(loc.File)
		if _, seen := g.firstMacro[file]; !seen {
			g.firstMacro[file] = c.ID()
		}
	}
	g.macros = append(g.macros, c)
}

// evaluateMacros runs once every struct is known, so struct-valued macros
// can be matched against their fields.
func (g *Generator) evaluateMacros() {
	for _, c := range g.macros {
		g.evaluateMacro(c)
	}
	g.macros = nil
}

func (g *Generator) evaluateMacro(c clangast.Cursor) {
	name := c.Spelling()
	if reason := g.skipMacro(c); reason != "" {
		g.logger.Debug("skipping macro", "name", name, "reason", reason)
		return
	}
	if g.constants.Has(name) {
		return
	}

	body := macroBody(c)
	if body == "" {
		return
	}

	k, ok := g.evaluateLiteral(name, body)
	if !ok {
		k, ok = g.evaluateWithCompiler(c, name, body)
	}
	if !ok || strings.TrimSpace(k.Value) == "" {
		g.logger.Debug("dropping macro", "name", name, "body", body)
		return
	}
	g.constants.Set(name, k)
	g.logger.Debug("found constant", "name", name, "type", k.Type, "value", k.Value)
}

// skipMacro returns why a macro is not a constant, or "".
func (g *Generator) skipMacro(c clangast.Cursor) string {
	loc := c.Location()
	switch {
	case strings.HasPrefix(c.Spelling(), "__"):
		return "reserved name"
	case !loc.Valid():
		return "no location"
	case loc.InSystemHeader:
		return "system header"
	case c.IsFunctionLikeMacro():
		return "function-like"
	case g.isHeaderGuard(c):
		return "header guard"
	}
	return ""
}

// isHeaderGuard reports whether c is the guard of its file: the file's first
// macro, named by the file's opening #ifndef, in a file without #pragma once.
func (g *Generator) isHeaderGuard(c clangast.Cursor) bool {
	file := filepath.Clean(c.Location().File)
	if first, ok := g.firstMacro[file]; !ok || first != c.ID() {
		return false
	}
	if g.tu == nil {
		return false
	}
	src := g.tu.Source(c.Location().File)
	if src == "" {
		return false
	}

	var opening []expr.Token
	for _, line := range strings.Split(src, "\n") {
		toks := expr.Tokenize(line)
		if len(toks) < 2 || toks[0].Text != "#" {
			continue
		}
		if toks[1].Text == "pragma" && len(toks) > 2 && toks[2].Text == "once" {
			return false
		}
		if opening == nil {
			opening = toks
		}
	}
	if opening == nil {
		return false
	}

	name := c.Spelling()
	switch opening[1].Text {
	case "ifndef":
		return len(opening) > 2 && opening[2].Text == name
	case "if":
		// #if !defined(NAME) or #if !defined NAME
		var texts []string
		for _, t := range opening[2:] {
			texts = append(texts, t.Text)
		}
		joined := strings.Join(texts, " ")
		return joined == "! defined ( "+name+" )" || joined == "! defined "+name
	}
	return false
}

// macroBody returns the replacement text of an object-like macro.
func macroBody(c clangast.Cursor) string {
	toks := c.Tokens()
	name := c.Spelling()
	start := -1
	for i, t := range toks {
		if t == name {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	body := toks[start:]
	// Some front ends extend the extent into the next directive.
	for i, t := range body {
		if t == "#" {
			body = body[:i]
			break
		}
	}
	return expr.JoinTokens(body)
}

// evaluateLiteral handles bodies the expression parser can classify alone.
// Anything referring to other names goes to the compiler.
func (g *Generator) evaluateLiteral(name, body string) (*Constant, bool) {
	e, err := g.parseBody(body)
	if err != nil {
		if isQuoted(body) {
			return &Constant{Name: name, Type: opaquePointer, Value: body + expr.RefSuffix}, true
		}
		return nil, false
	}

	if lit, ok := e.(expr.CompoundLiteral); ok {
		if !g.structs.Has(lit.Type) {
			return nil, false
		}
		value, ok := g.FormatInitializer(lit.Type, lit.Inner)
		if !ok {
			return nil, false
		}
		return &Constant{Name: name, Type: lit.Type, Value: value}, true
	}

	typ, value, ok := expr.RenderConstant(e, g.structFields)
	if !ok {
		return nil, false
	}
	return &Constant{Name: name, Type: typ, Value: value}, true
}

// evaluateWithCompiler declares a variable initialized with the macro in a
// tiny source that includes the header, and reads the type and value back.
func (g *Generator) evaluateWithCompiler(c clangast.Cursor, name, body string) (*Constant, bool) {
	if g.provider == nil {
		return nil, false
	}
	header := c.Location().File
	src := fmt.Sprintf("#include \"%s\"\nstatic const __typeof__(%s) %s = %s;\n", header, name, dummyVar, name)
	args := append([]string{"-x", "c", "-std=c11", "-I" + filepath.Dir(header)}, g.args...)

	tu, err := g.provider.ParseSource(syntheticFile, src, args)
	if err != nil {
		g.logger.Debug("macro evaluation failed", "name", name, "error", err)
		return nil, false
	}
	defer tu.Close()

	dummy := findDummy(tu.Root())
	if dummy == nil {
		return nil, false
	}

	k := &Constant{Name: name, Type: g.MapType(dummy.Type())}
	init := initializer(dummy)
	if init == nil {
		return nil, false
	}
	value, typ := g.renderInitializer(init, body)
	if value == "" && numericTypes[k.Type] {
		// Numbers the parser cannot read are kept as written.
		if _, err := g.parseBody(body); err != nil {
			value = body
		}
	}
	if value == "" {
		return nil, false
	}
	k.Value = value
	if typ != "" {
		k.Type = typ
	}
	return k, true
}

func findDummy(root clangast.Cursor) clangast.Cursor {
	if root == nil {
		return nil
	}
	for _, c := range root.Children() {
		if c.Kind() == clangast.KindVarDecl && c.Spelling() == dummyVar && filepath.Base(c.Location().File) == syntheticFile {
			return c
		}
	}
	return nil
}

// initializer is the expression child of a variable declaration.
func initializer(v clangast.Cursor) clangast.Cursor {
	var last clangast.Cursor
	for _, c := range v.Children() {
		if c.Kind().IsExpression() {
			last = c
		}
	}
	return last
}

// renderInitializer renders the initializer found by the compiler. Expanded
// macro nodes do not carry their own tokens, so shapes that need them are
// rebuilt from the macro body. The returned type overrides the declared one
// when non-empty.
func (g *Generator) renderInitializer(init clangast.Cursor, body string) (value, typ string) {
	switch init.Kind() {
	case clangast.KindIntegerLiteral, clangast.KindFloatingLiteral, clangast.KindCharacterLiteral:
		if toks := init.Tokens(); len(toks) == 1 && isLiteralToken(toks[0]) {
			return expr.StripNumberSuffix(toks[0]), ""
		}
	case clangast.KindStringLiteral:
		if s := init.Spelling(); isQuoted(s) {
			return s + expr.RefSuffix, opaquePointer
		}
	case clangast.KindCompoundLiteralExpr, clangast.KindInitListExpr:
		return g.renderCompound(init, body)
	case clangast.KindUnexposedExpr, clangast.KindParenExpr:
		children := init.Children()
		if len(children) == 1 {
			return g.renderInitializer(children[0], body)
		}
	}

	e, err := g.parseBody(body)
	if err != nil {
		return "", ""
	}
	if _, value, ok := expr.RenderConstant(e, g.structFields); ok {
		return value, ""
	}
	switch e.(type) {
	case expr.Cast, expr.Unary, expr.Binary:
		return expr.RenderWith(e, g.castType), ""
	}
	return "", ""
}

// parseBody parses a macro body, recognizing casts to collected types.
func (g *Generator) parseBody(body string) (expr.Expr, error) {
	return expr.Parse(body, expr.WithTypeNames(g.isTypeName))
}

func (g *Generator) renderCompound(init clangast.Cursor, body string) (value, typ string) {
	decl := directRecordDecl(canonical(init.Type()))
	inner, ok := braceInner(body)
	if decl == nil || !ok {
		return "", ""
	}
	name := g.recordName(decl)
	if decl.Kind() == clangast.KindUnionDecl {
		alias := g.unionAlias(name)
		return g.unionValue(alias, "{"+inner+"}"), alias
	}
	if formatted, ok := g.FormatInitializer(name, inner); ok {
		return formatted, name
	}
	return "", ""
}

// normalizeConstants drops empty constants, formats struct initializers that
// came through unformatted and resolves typeof(Name) types.
func (g *Generator) normalizeConstants() {
	for _, name := range g.constants.Keys() {
		k, _ := g.constants.Get(name)
		if strings.TrimSpace(k.Value) == "" {
			g.constants.Delete(name)
			continue
		}
		if e, err := expr.Parse(k.Value); err == nil {
			if lit, ok := e.(expr.CompoundLiteral); ok && g.structs.Has(lit.Type) {
				if formatted, ok := g.FormatInitializer(lit.Type, lit.Inner); ok {
					k.Value = formatted
				}
				k.Type = lit.Type
				continue
			}
		}
		if m := typeofRe.FindStringSubmatch(k.Type); m != nil && g.structs.Has(m[1]) {
			k.Type = m[1]
		}
	}
}

func canonical(t clangast.Type) clangast.Type {
	if t == nil {
		return nil
	}
	if c := t.Canonical(); c != nil {
		return c
	}
	return t
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}

func isLiteralToken(s string) bool {
	if s == "" {
		return false
	}
	ch := s[0]
	return (ch >= '0' && ch <= '9') || ch == '.' || ch == '\''
}
