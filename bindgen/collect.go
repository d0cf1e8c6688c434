package bindgen

import (
	"fmt"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

// visit walks the AST depth first. Each declaration is handled once, however
// many paths lead to it.
func (g *Generator) visit(c clangast.Cursor) {
	if c == nil || c.Location().InSystemHeader {
		return
	}
	id := c.ID()
	if g.visited[id] {
		return
	}
	g.visited[id] = true

	switch c.Kind() {
	case clangast.KindStructDecl:
		g.handleStruct(c)
	case clangast.KindUnionDecl:
		g.handleUnion(c)
	case clangast.KindEnumDecl:
		g.handleEnum(c)
	case clangast.KindFunctionDecl:
		g.handleFunction(c)
	case clangast.KindTypedefDecl:
		g.handleTypedef(c)
	case clangast.KindMacroDefinition:
		g.queueMacro(c)
	}

	for _, child := range c.Children() {
		g.visit(child)
	}
}

// collectFields maps the members of a record. Anonymous records used as
// member types are collected first so their names exist.
func (g *Generator) collectFields(c clangast.Cursor) []Field {
	var fields []Field
	for i, child := range c.Children() {
		if child.Kind() != clangast.KindFieldDecl {
			continue
		}
		if decl := recordDecl(child.Type()); decl != nil && isAnonymous(decl.Spelling()) {
			g.visit(decl)
		}
		cname := child.Spelling()
		name := cname
		if name == "" {
			name = fmt.Sprintf("field%d", i)
		}
		fields = append(fields, Field{
			Name:  g.sanitize(name),
			CName: cname,
			Type:  g.MapType(child.Type()),
		})
	}
	return fields
}

func (g *Generator) handleStruct(c clangast.Cursor) {
	if !c.IsDefinition() {
		return
	}
	name := g.recordName(c)
	if g.structs.Has(name) {
		return
	}
	// Reserve the slot so nested records land after their parent.
	s := &Struct{Name: name}
	g.structs.Set(name, s)
	s.Fields = g.collectFields(c)
	g.logger.Debug("found struct", "name", name, "fields", len(s.Fields))
}

func (g *Generator) handleUnion(c clangast.Cursor) {
	if !c.IsDefinition() {
		return
	}
	size := int64(-1)
	if t := c.Type(); t != nil {
		size = t.Size()
	}
	if size <= 0 {
		g.logger.Debug("skipping incomplete union", "name", c.Spelling())
		return
	}
	name := g.recordName(c)
	if g.unions.Has(name) {
		return
	}
	u := &Union{Name: name, Size: size}
	g.unions.Set(name, u)
	g.unionSizes[u.TypeName()] = size
	g.typedefs[name] = u.TypeName()
	u.Fields = g.collectFields(c)
	g.logger.Debug("found union", "name", name, "size", size, "alias", u.TypeName())
}

func (g *Generator) handleEnum(c clangast.Cursor) {
	name := c.Spelling()
	key := name
	if isAnonymous(name) {
		name = ""
		key = fmt.Sprintf("(anonymous enum %d)", c.ID())
	}
	if g.enums.Has(key) {
		return
	}
	e := &Enum{Name: name}
	for _, child := range c.Children() {
		if child.Kind() != clangast.KindEnumConstantDecl {
			continue
		}
		e.Members = append(e.Members, EnumMember{Name: child.Spelling(), Value: int32(child.EnumValue())})
	}
	g.enums.Set(key, e)
	g.logger.Debug("found enum", "name", name, "members", len(e.Members))
}

func (g *Generator) handleFunction(c clangast.Cursor) {
	name := c.Spelling()
	if name == "" || g.functions.Has(name) {
		return
	}
	fn := &Function{
		Name:       name,
		LinkName:   c.LinkName(),
		ReturnType: g.MapType(c.ResultType()),
		IsVariadic: c.IsVariadic(),
	}
	if fn.LinkName == "" {
		fn.LinkName = name
	}
	for i, arg := range c.Arguments() {
		argName := arg.Spelling()
		if argName == "" {
			argName = fmt.Sprintf("arg%d", i)
		}
		fn.Parameters = append(fn.Parameters, Parameter{
			Name: g.sanitize(argName),
			Type: g.MapType(arg.Type()),
		})
	}
	g.functions.Set(name, fn)
	g.logger.Debug("found function", "name", name, "params", len(fn.Parameters), "variadic", fn.IsVariadic)
}

func (g *Generator) handleTypedef(c clangast.Cursor) {
	name := c.Spelling()
	underlying := c.UnderlyingType()
	if name == "" || underlying == nil {
		return
	}

	if decl := directRecordDecl(underlying); decl != nil && isAnonymous(decl.Spelling()) {
		g.visit(decl)
		if current := g.recordName(decl); current != name {
			g.renameRecord(decl, current, name)
		}
	}

	mapped := g.MapType(underlying)
	if mapped == name {
		// `typedef struct Foo Foo;` needs no alias.
		if _, ok := g.typedefs[name]; !ok {
			g.typedefs[name] = name
		}
		return
	}
	g.typedefs[name] = mapped
	g.logger.Debug("found typedef", "name", name, "type", mapped)
}
