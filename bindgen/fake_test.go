package bindgen

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

// fakeCursor and fakeType are an in-memory AST, built by header below.

type fakeCursor struct {
	id         clangast.ID
	kind       clangast.CursorKind
	spelling   string
	loc        clangast.Location
	typ        *fakeType
	children   []*fakeCursor
	parent     *fakeCursor
	definition bool
	tokens     []string
	enumValue  int64
	linkName   string
	result     *fakeType
	args       []*fakeCursor
	variadic   bool
	underlying *fakeType
	funcLike   bool
}

func (c *fakeCursor) ID() clangast.ID               { return c.id }
func (c *fakeCursor) Hash() uint32                  { return uint32(c.id) * 2654435761 }
func (c *fakeCursor) Kind() clangast.CursorKind     { return c.kind }
func (c *fakeCursor) Spelling() string              { return c.spelling }
func (c *fakeCursor) Location() clangast.Location   { return c.loc }
func (c *fakeCursor) IsDefinition() bool            { return c.definition }
func (c *fakeCursor) Tokens() []string              { return c.tokens }
func (c *fakeCursor) EnumValue() int64              { return c.enumValue }
func (c *fakeCursor) LinkName() string              { return c.linkName }
func (c *fakeCursor) IsVariadic() bool              { return c.variadic }
func (c *fakeCursor) IsFunctionLikeMacro() bool     { return c.funcLike }
func (c *fakeCursor) Type() clangast.Type           { return typeOrNil(c.typ) }
func (c *fakeCursor) ResultType() clangast.Type     { return typeOrNil(c.result) }
func (c *fakeCursor) UnderlyingType() clangast.Type { return typeOrNil(c.underlying) }

func (c *fakeCursor) Children() []clangast.Cursor {
	out := make([]clangast.Cursor, len(c.children))
	for i, child := range c.children {
		out[i] = child
	}
	return out
}

func (c *fakeCursor) Arguments() []clangast.Cursor {
	out := make([]clangast.Cursor, len(c.args))
	for i, a := range c.args {
		out[i] = a
	}
	return out
}

func (c *fakeCursor) SemanticParent() clangast.Cursor {
	if c.parent == nil {
		return nil
	}
	return c.parent
}

type fakeType struct {
	kind      clangast.TypeKind
	spelling  string
	canonical *fakeType
	pointee   *fakeType
	element   *fakeType
	arraySize int64
	decl      *fakeCursor
	size      int64
}

func typeOrNil(t *fakeType) clangast.Type {
	if t == nil {
		return nil
	}
	return t
}

func (t *fakeType) Kind() clangast.TypeKind { return t.kind }
func (t *fakeType) Spelling() string        { return t.spelling }
func (t *fakeType) Pointee() clangast.Type  { return typeOrNil(t.pointee) }
func (t *fakeType) Element() clangast.Type  { return typeOrNil(t.element) }
func (t *fakeType) ArraySize() int64        { return t.arraySize }
func (t *fakeType) Size() int64             { return t.size }

func (t *fakeType) Canonical() clangast.Type {
	if t.canonical == nil {
		return t
	}
	return t.canonical
}

func (t *fakeType) Declaration() clangast.Cursor {
	if t.decl == nil {
		return nil
	}
	return t.decl
}

var (
	tInt    = &fakeType{kind: clangast.TypeInt, spelling: "int", size: 4}
	tUInt   = &fakeType{kind: clangast.TypeUInt, spelling: "unsigned int", size: 4}
	tFloat  = &fakeType{kind: clangast.TypeFloat, spelling: "float", size: 4}
	tDouble = &fakeType{kind: clangast.TypeDouble, spelling: "double", size: 8}
	tChar   = &fakeType{kind: clangast.TypeCharS, spelling: "char", size: 1}
	tUChar  = &fakeType{kind: clangast.TypeUChar, spelling: "unsigned char", size: 1}
	tVoid   = &fakeType{kind: clangast.TypeVoid, spelling: "void"}
	tLong   = &fakeType{kind: clangast.TypeLong, spelling: "long", size: 8}
)

func constOf(t *fakeType) *fakeType {
	c := *t
	c.spelling = "const " + t.spelling
	c.canonical = t.canonicalType()
	return &c
}

func (t *fakeType) canonicalType() *fakeType {
	if t.canonical == nil {
		return t
	}
	return t.canonical
}

func ptrTo(t *fakeType) *fakeType {
	return &fakeType{kind: clangast.TypePointer, spelling: t.spelling + " *", pointee: t, size: 8}
}

func arrayOf(t *fakeType, n int64) *fakeType {
	return &fakeType{
		kind:      clangast.TypeConstantArray,
		spelling:  fmt.Sprintf("%s[%d]", t.spelling, n),
		element:   t,
		arraySize: n,
		size:      t.size * n,
	}
}

func typedefType(name string, underlying *fakeType) *fakeType {
	return &fakeType{kind: clangast.TypeTypedef, spelling: name, canonical: underlying.canonicalType(), size: underlying.size}
}

// header builds cursors as if they were declared one per line in file.
type header struct {
	file   string
	root   *fakeCursor
	nextID clangast.ID
	line   int
	system bool
}

func newHeader(file string) *header {
	h := &header{file: file, nextID: 1}
	h.root = &fakeCursor{id: h.newID(), kind: clangast.KindTranslationUnit, spelling: file}
	return h
}

func (h *header) newID() clangast.ID {
	id := h.nextID
	h.nextID++
	return id
}

func (h *header) cursor(kind clangast.CursorKind, spelling string) *fakeCursor {
	h.line++
	return &fakeCursor{
		id:       h.newID(),
		kind:     kind,
		spelling: spelling,
		loc:      clangast.Location{File: h.file, Line: h.line, Column: 1, InSystemHeader: h.system},
	}
}

// add appends top-level declarations.
func (h *header) add(cs ...*fakeCursor) {
	for _, c := range cs {
		if c.parent == nil {
			c.parent = h.root
		}
		h.root.children = append(h.root.children, c)
	}
}

func (h *header) field(name string, t *fakeType) *fakeCursor {
	c := h.cursor(clangast.KindFieldDecl, name)
	c.typ = t
	return c
}

// record declares a struct or union. An empty name makes it anonymous.
// children may mix fields and nested records.
func (h *header) record(kind clangast.CursorKind, name string, size int64, children ...*fakeCursor) *fakeCursor {
	c := h.cursor(kind, name)
	c.definition = true
	keyword := "struct"
	if kind == clangast.KindUnionDecl {
		keyword = "union"
	}
	spelling := keyword + " " + name
	if name == "" {
		spelling = fmt.Sprintf("%s (unnamed at %s:%d:%d)", keyword, h.file, c.loc.Line, c.loc.Column)
	}
	c.typ = &fakeType{kind: clangast.TypeRecord, spelling: spelling, decl: c, size: size}
	for _, child := range children {
		child.parent = c
		c.children = append(c.children, child)
	}
	return c
}

func (h *header) structDecl(name string, size int64, children ...*fakeCursor) *fakeCursor {
	return h.record(clangast.KindStructDecl, name, size, children...)
}

func (h *header) unionDecl(name string, size int64, children ...*fakeCursor) *fakeCursor {
	return h.record(clangast.KindUnionDecl, name, size, children...)
}

// forward declares an incomplete struct.
func (h *header) forward(name string) *fakeCursor {
	c := h.cursor(clangast.KindStructDecl, name)
	c.typ = &fakeType{kind: clangast.TypeRecord, spelling: "struct " + name, decl: c, size: -2}
	return c
}

func (h *header) typedef(name string, underlying *fakeType) *fakeCursor {
	c := h.cursor(clangast.KindTypedefDecl, name)
	c.underlying = underlying
	c.typ = typedefType(name, underlying)
	return c
}

func (h *header) param(name string, t *fakeType) *fakeCursor {
	c := h.cursor(clangast.KindParmDecl, name)
	c.typ = t
	return c
}

func (h *header) function(name string, result *fakeType, params ...*fakeCursor) *fakeCursor {
	c := h.cursor(clangast.KindFunctionDecl, name)
	c.result = result
	c.linkName = name
	c.args = params
	for _, p := range params {
		p.parent = c
		c.children = append(c.children, p)
	}
	return c
}

func (h *header) enum(name string, members ...string) *fakeCursor {
	c := h.cursor(clangast.KindEnumDecl, name)
	c.definition = true
	c.typ = &fakeType{kind: clangast.TypeEnum, spelling: "enum " + name, decl: c, size: 4}
	for i, m := range members {
		mc := h.cursor(clangast.KindEnumConstantDecl, m)
		mc.enumValue = int64(i)
		mc.parent = c
		c.children = append(c.children, mc)
	}
	return c
}

// macro defines an object-like macro whose body is the given tokens.
func (h *header) macro(name string, body ...string) *fakeCursor {
	c := h.cursor(clangast.KindMacroDefinition, name)
	c.tokens = append([]string{name}, body...)
	return c
}

type fakeUnit struct {
	root    *fakeCursor
	diags   []clangast.Diagnostic
	sources map[string]string
	closed  bool
}

func (u *fakeUnit) Root() clangast.Cursor {
	if u.root == nil {
		return nil
	}
	return u.root
}

func (u *fakeUnit) Diagnostics() []clangast.Diagnostic { return u.diags }
func (u *fakeUnit) Source(file string) string          { return u.sources[file] }
func (u *fakeUnit) Close()                             { u.closed = true }

type fakeProvider struct {
	unit *fakeUnit
	err  error
	// evaluate answers synthetic sources; nil makes every evaluation fail.
	evaluate func(source string) *fakeUnit
	sources  []string
}

func (p *fakeProvider) Parse(string, []string) (clangast.TranslationUnit, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.unit, nil
}

func (p *fakeProvider) ParseSource(_, source string, _ []string) (clangast.TranslationUnit, error) {
	p.sources = append(p.sources, source)
	if p.evaluate == nil {
		return nil, fmt.Errorf("no compiler")
	}
	return p.evaluate(source), nil
}

// writeHeader creates the header file on disk so ParseHeader can stat it.
func writeHeader(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// generate runs a full parse over the declarations built by build.
func generate(t *testing.T, source string, build func(h *header)) (*Generator, *fakeProvider) {
	t.Helper()
	path := writeHeader(t, source)
	h := newHeader(path)
	build(h)
	p := &fakeProvider{unit: &fakeUnit{root: h.root, sources: map[string]string{path: source}}}
	g := New(p)
	require.NoError(t, g.ParseHeader(path, nil))
	return g, p
}
