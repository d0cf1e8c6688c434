package bindgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

func TestMapTypePrimitives(t *testing.T) {
	t.Parallel()

	g := New(nil)

	tests := []struct {
		name string
		typ  *fakeType
		want string
	}{
		{"int", tInt, "i32"},
		{"const int", constOf(tInt), "i32"},
		{"unsigned int", tUInt, "u32"},
		{"char", tChar, "i8"},
		{"unsigned char", tUChar, "u8"},
		{"float", tFloat, "f32"},
		{"double", tDouble, "f64"},
		{"long", tLong, "i64"},
		{"void", tVoid, "void"},
		{"uint32_t", typedefType("uint32_t", tUInt), "u32"},
		{"const uint8_t", constOf(typedefType("uint8_t", tUChar)), "u8"},
		{"size_t", typedefType("size_t", &fakeType{kind: clangast.TypeULong, spelling: "unsigned long"}), "uint"},
		{"system typedef", typedefType("time_t", tLong), "i64"},
		{"enum", &fakeType{kind: clangast.TypeEnum, spelling: "enum Mode"}, "i32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, g.MapType(tt.typ))
		})
	}
}

func TestMapTypePointers(t *testing.T) {
	t.Parallel()

	h := newHeader("types.h")
	point := h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt))
	value := h.unionDecl("Value", 4, h.field("i", tInt), h.field("f", tFloat))
	opaque := h.forward("Handle")

	g := New(nil)
	fn := &fakeType{kind: clangast.TypeFunctionProto, spelling: "void (int)"}

	assert.Equal(t, "anyptr", g.MapType(ptrTo(tVoid)))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(tChar)))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(constOf(tChar))))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(fn)))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(tInt)))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(ptrTo(tChar))))
	assert.Equal(t, "anyptr", g.MapType(ptrTo(opaque.typ)))
	assert.Equal(t, "rawptr<Point>", g.MapType(ptrTo(point.typ)))
	assert.Equal(t, "rawptr<Point>", g.MapType(ptrTo(typedefType("Point", point.typ))))
	assert.Equal(t, "rawptr<Union_four_bytes>", g.MapType(ptrTo(value.typ)))
}

func TestMapTypeAggregates(t *testing.T) {
	t.Parallel()

	h := newHeader("types.h")
	point := h.structDecl("Point", 8, h.field("x", tInt), h.field("y", tInt))
	value := h.unionDecl("Value", 16, h.field("d", arrayOf(tDouble, 2)))

	g := New(nil)

	assert.Equal(t, "[f32;4]", g.MapType(arrayOf(tFloat, 4)))
	assert.Equal(t, "[[i32;2];3]", g.MapType(arrayOf(arrayOf(tInt, 2), 3)))
	assert.Equal(t, "anyptr", g.MapType(&fakeType{kind: clangast.TypeIncompleteArray, spelling: "int[]", element: tInt}))
	assert.Equal(t, "Point", g.MapType(point.typ))
	assert.Equal(t, "[Point;2]", g.MapType(arrayOf(point.typ, 2)))
	assert.Equal(t, "Union_sixteen_bytes", g.MapType(value.typ))
	assert.Equal(t, "anyptr", g.MapType(nil))
}

func TestMapTypeTypedefTable(t *testing.T) {
	t.Parallel()

	g := New(nil)
	g.typedefs["Real"] = "f64"

	assert.Equal(t, "f64", g.MapType(typedefType("Real", tDouble)))
	assert.Equal(t, "f64", g.MapType(constOf(typedefType("Real", tDouble))))
}

func TestUnionTypeName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Union_four_bytes", UnionTypeName(4))
	assert.Equal(t, "Union_eight_bytes", UnionTypeName(8))
	assert.Equal(t, "Union_twenty_four_bytes", UnionTypeName(24))
}

func TestCleanSpelling(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unsigned int", cleanSpelling("const  unsigned   int"))
	assert.Equal(t, "char", cleanSpelling("volatile char"))
	assert.Equal(t, "int", cleanSpelling("int const"))
}
