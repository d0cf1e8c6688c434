package bindgen

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

const wantBindings = `// Generated Nature bindings
// This file was automatically generated by naturebindgen.

// Constants from Macros
i32 MAX = 100
anyptr NAME = "hello".ref()
Point ORIGIN = Point{x=0,y=0}
f32 PI = 3.14

// Enum Constants
int Color_RED = 0
int Color_GREEN = 1

// Union Definitions (as byte arrays)
type Union_four_bytes = [u8;4]

fn newUnion_four_bytes<T>(T value):Union_four_bytes {
    u8 zero = 0 as u8
    Union_four_bytes result = [zero,zero,zero,zero]
    result as anyptr as rawptr<T> as T = value
    return result
}

// Struct Definitions
type Point = struct {
    i32 x
    i32 y
}

// Function Bindings
#linkid add
fn add(i32 a, i32 b):i32

#linkid log_msg
fn log_msg(anyptr fmt, i32 type_, ...[any] args)
`

func TestGenerate(t *testing.T) {
	t.Parallel()

	g, p := generate(t, "#define MAX 100\n", func(h *header) {
		point := h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt))
		value := h.unionDecl("Value", 4, h.field("i", tInt), h.field("f", tFloat))
		square := h.macro("SQ", "(", "x", ")", "(", "x", "*", "x", ")")
		square.funcLike = true
		logMsg := h.function("log_msg", tVoid, h.param("fmt", ptrTo(constOf(tChar))), h.param("type", tInt))
		logMsg.variadic = true

		h.add(
			h.macro("MAX", "100"),
			h.macro("NAME", `"hello"`),
			h.macro("PI", "3.14f"),
			h.macro("__INTERNAL", "1"),
			h.macro("EMPTY"),
			square,
			point,
			value,
			h.macro("ORIGIN", "(", "Point", ")", "{", "0", ",", "0", "}"),
			h.enum("Color", "RED", "GREEN"),
			h.function("add", tInt, h.param("a", tInt), h.param("b", tInt)),
			logMsg,
		)
	})

	assert.Equal(t, wantBindings, g.Generate())
	assert.Empty(t, p.sources, "literal macros need no compiler round trip")
	assert.True(t, p.unit.closed)
}

func TestGenerateEmpty(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(*header) {})
	assert.Equal(t, fileHeader, g.Generate())
}

func TestParseHeaderErrors(t *testing.T) {
	t.Parallel()

	g := New(&fakeProvider{})
	err := g.ParseHeader(filepath.Join(t.TempDir(), "missing.h"), nil)
	require.ErrorIs(t, err, ErrHeaderNotFound)

	boom := errors.New("boom")
	g = New(&fakeProvider{err: boom})
	err = g.ParseHeader(writeHeader(t, ""), nil)
	require.ErrorIs(t, err, ErrTranslationUnit)
	require.ErrorIs(t, err, boom)

	g = New(&fakeProvider{unit: &fakeUnit{}})
	err = g.ParseHeader(writeHeader(t, ""), nil)
	require.ErrorIs(t, err, ErrTranslationUnit)
}

func TestParseHeaderContinuesAfterDiagnostics(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, "")
	h := newHeader(path)
	h.add(h.function("ok", tVoid))

	unit := &fakeUnit{root: h.root, diags: []clangast.Diagnostic{
		{Severity: clangast.SeverityError, Message: "unknown type name 'foo_t'"},
		{Severity: clangast.SeverityWarning, Message: "unused"},
	}}
	g := New(&fakeProvider{unit: unit})
	require.NoError(t, g.ParseHeader(path, nil))

	assert.Equal(t, 1, g.Diagnostics())
	_, ok := g.Function("ok")
	assert.True(t, ok)
}

func TestCollectSkipsSystemHeaders(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		h.system = true
		printf := h.function("printf", tInt, h.param("format", ptrTo(constOf(tChar))))
		file := h.structDecl("_IO_FILE", 216, h.field("flags", tInt))
		h.system = false
		h.add(printf, file, h.function("open_log", ptrTo(file.typ)))
	})

	_, ok := g.Function("printf")
	assert.False(t, ok)
	_, ok = g.Struct("_IO_FILE")
	assert.False(t, ok)

	fn, ok := g.Function("open_log")
	require.True(t, ok)
	assert.Equal(t, "rawptr<_IO_FILE>", fn.ReturnType)
}

func TestCollectDeduplicates(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		point := h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt))
		again := h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt))
		add := h.function("add", tInt)
		h.add(point, point, again, add, h.function("add", tInt))
	})

	assert.Equal(t, 1, g.structs.Len())
	assert.Equal(t, 1, g.functions.Len())
}

func TestCollectIncompleteTypes(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		handle := h.forward("Handle")
		h.add(
			handle,
			h.unionDecl("Opaque", 0),
			h.function("handle_open", ptrTo(handle.typ), h.param("", ptrTo(tVoid)), h.param("", tInt)),
		)
	})

	_, ok := g.Struct("Handle")
	assert.False(t, ok, "forward declarations are not definitions")
	_, ok = g.Union("Opaque")
	assert.False(t, ok, "unions without a size are skipped")

	fn, ok := g.Function("handle_open")
	require.True(t, ok)
	assert.Equal(t, "anyptr", fn.ReturnType)
	assert.Equal(t, []Parameter{{Name: "arg0", Type: "anyptr"}, {Name: "arg1", Type: "i32"}}, fn.Parameters)
}

func TestCollectUnionsShareAlias(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		a := h.unionDecl("A", 4, h.field("i", tInt))
		b := h.unionDecl("B", 4, h.field("f", tFloat))
		c := h.unionDecl("C", 24, h.field("d", arrayOf(tDouble, 3)))
		holder := h.structDecl("Holder", 32, h.field("a", a.typ), h.field("c", c.typ))
		h.add(a, b, c, holder, h.typedef("Bits", b.typ))
	})

	out := g.Generate()
	assert.Equal(t, 1, countOf(out, "type Union_four_bytes = [u8;4]"))
	assert.Contains(t, out, "type Union_twenty_four_bytes = [u8;24]\n")
	assert.NotContains(t, out, "fn newUnion_twenty_four_bytes")
	assert.Contains(t, out, "    Union_four_bytes a\n    Union_twenty_four_bytes c\n")
	assert.Equal(t, "Union_four_bytes", g.typedefs["Bits"])
}

func TestCollectEnums(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		h.add(h.enum("Mode", "MODE_A", "MODE_B"), h.enum("", "FLAG_X", "FLAG_Y"))
	})

	out := g.Generate()
	assert.Contains(t, out, "int Mode_MODE_A = 0\nint Mode_MODE_B = 1\n")
	assert.Contains(t, out, "int FLAG_X = 0\nint FLAG_Y = 1\n")
}

func TestSymbolsYAML(t *testing.T) {
	t.Parallel()

	g, _ := generate(t, "", func(h *header) {
		h.add(
			h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt)),
			h.macro("MAX", "100"),
		)
	})

	syms := g.Symbols()
	require.Len(t, syms.Structs, 1)
	require.Len(t, syms.Constants, 1)
	assert.Equal(t, Constant{Name: "MAX", Type: "i32", Value: "100"}, syms.Constants[0])

	out, err := syms.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: Point")
	assert.Contains(t, string(out), "value: \"100\"")
}

func TestWithReservedKeywords(t *testing.T) {
	t.Parallel()

	g := New(nil, WithReservedKeywords([]string{"self"}))
	assert.Equal(t, "self_", g.sanitize("self"))
	assert.Equal(t, "type", g.sanitize("type"))

	g = New(nil)
	for _, kw := range DefaultReservedKeywords {
		assert.Equal(t, kw+"_", g.sanitize(kw))
	}
}

func countOf(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}
