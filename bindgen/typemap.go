package bindgen

import (
	"fmt"
	"strings"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

const opaquePointer = "anyptr"

// primitiveNames maps C spellings, qualifiers removed, to Nature types.
var primitiveNames = map[string]string{
	"void":                   "void",
	"char":                   "i8",
	"signed char":            "i8",
	"unsigned char":          "u8",
	"short":                  "i16",
	"short int":              "i16",
	"signed short":           "i16",
	"unsigned short":         "u16",
	"unsigned short int":     "u16",
	"int":                    "i32",
	"signed":                 "i32",
	"signed int":             "i32",
	"unsigned int":           "u32",
	"unsigned":               "u32",
	"long":                   "i64",
	"long int":               "i64",
	"unsigned long":          "u64",
	"unsigned long int":      "u64",
	"long long":              "i64",
	"long long int":          "i64",
	"unsigned long long":     "u64",
	"unsigned long long int": "u64",
	"float":                  "f32",
	"double":                 "f64",
	"long double":            "f64",
	"bool":                   "bool",
	"_Bool":                  "bool",
	"size_t":                 "uint",
	"ssize_t":                "int",
	"ptrdiff_t":              "int",
	"uintptr_t":              opaquePointer,
	"intptr_t":               opaquePointer,
	"int8_t":                 "i8",
	"uint8_t":                "u8",
	"int16_t":                "i16",
	"uint16_t":               "u16",
	"int32_t":                "i32",
	"uint32_t":               "u32",
	"int64_t":                "i64",
	"uint64_t":               "u64",
	// SDL
	"Uint8":  "u8",
	"Uint16": "u16",
	"Uint32": "u32",
	"Uint64": "u64",
	"Sint8":  "i8",
	"Sint16": "i16",
	"Sint32": "i32",
	"Sint64": "i64",
}

var primitiveKinds = map[clangast.TypeKind]string{
	clangast.TypeVoid:       "void",
	clangast.TypeBool:       "bool",
	clangast.TypeCharS:      "i8",
	clangast.TypeSChar:      "i8",
	clangast.TypeCharU:      "u8",
	clangast.TypeUChar:      "u8",
	clangast.TypeShort:      "i16",
	clangast.TypeUShort:     "u16",
	clangast.TypeInt:        "i32",
	clangast.TypeUInt:       "u32",
	clangast.TypeLong:       "i64",
	clangast.TypeULong:      "u64",
	clangast.TypeLongLong:   "i64",
	clangast.TypeULongLong:  "u64",
	clangast.TypeFloat:      "f32",
	clangast.TypeDouble:     "f64",
	clangast.TypeLongDouble: "f64",
}

// numericTypes are the Nature types a macro can hold as a plain number.
var numericTypes = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true,
	"u8": true, "u16": true, "u32": true, "u64": true,
	"int": true, "uint": true, "f32": true, "f64": true,
}

var qualifiers = map[string]bool{"const": true, "volatile": true, "restrict": true}

// cleanSpelling drops qualifiers and collapses whitespace.
func cleanSpelling(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !qualifiers[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// MapType converts a C type to its Nature spelling. It never fails; types it
// cannot place fall back to their C spelling.
func (g *Generator) MapType(t clangast.Type) string {
	if t == nil {
		return opaquePointer
	}
	switch t.Kind() {
	case clangast.TypePointer:
		return g.mapPointer(t)
	case clangast.TypeConstantArray:
		return fmt.Sprintf("[%s;%d]", g.MapType(t.Element()), t.ArraySize())
	case clangast.TypeIncompleteArray:
		return opaquePointer
	case clangast.TypeTypedef:
		return g.mapTypedef(t)
	case clangast.TypeRecord:
		return g.mapRecord(t)
	case clangast.TypeEnum:
		return "i32"
	case clangast.TypeFunctionProto, clangast.TypeFunctionNoProto:
		return opaquePointer
	case clangast.TypeOther:
		if canon := t.Canonical(); canon != nil && canon.Kind() != clangast.TypeOther {
			return g.MapType(canon)
		}
	}
	return g.mapPrimitive(t)
}

func (g *Generator) mapPointer(t clangast.Type) string {
	pointee := t.Pointee()
	if pointee == nil {
		return opaquePointer
	}
	canon := pointee.Canonical()
	if canon == nil {
		canon = pointee
	}
	// void, char, functions and incomplete records stay opaque.
	if canon.Kind() == clangast.TypeRecord && canon.Size() > 0 {
		return "rawptr<" + g.mapRecord(canon) + ">"
	}
	return opaquePointer
}

func (g *Generator) mapTypedef(t clangast.Type) string {
	name := cleanSpelling(t.Spelling())
	if mapped, ok := g.typedefs[name]; ok {
		return mapped
	}
	if prim, ok := primitiveNames[name]; ok {
		return prim
	}
	// Typedefs from system headers are never collected; a primitive
	// underlying type is still worth resolving.
	if canon := t.Canonical(); canon != nil {
		if prim, ok := primitiveKinds[canon.Kind()]; ok {
			return prim
		}
	}
	return name
}

func (g *Generator) mapRecord(t clangast.Type) string {
	decl := t.Declaration()
	if decl == nil {
		return g.mapPrimitive(t)
	}
	name := g.recordName(decl)
	if decl.Kind() == clangast.KindUnionDecl {
		if u, ok := g.unions.Get(name); ok {
			return u.TypeName()
		}
		if size := t.Size(); size > 0 {
			return UnionTypeName(size)
		}
	}
	return name
}

func (g *Generator) mapPrimitive(t clangast.Type) string {
	spelling := cleanSpelling(t.Spelling())
	if prim, ok := primitiveNames[spelling]; ok {
		return prim
	}
	canon := t.Canonical()
	if canon == nil {
		canon = t
	}
	if prim, ok := primitiveKinds[canon.Kind()]; ok {
		return prim
	}
	if prim, ok := primitiveNames[cleanSpelling(canon.Spelling())]; ok {
		return prim
	}

	name := stripRecordKeyword(spelling)
	if u, ok := g.unions.Get(name); ok {
		return u.TypeName()
	}
	if g.structs.Has(name) {
		return name
	}
	if name == "" {
		return opaquePointer
	}
	return name
}

// isTypeName reports whether name is a type a macro can cast to.
func (g *Generator) isTypeName(name string) bool {
	if _, ok := primitiveNames[name]; ok {
		return true
	}
	if _, ok := g.typedefs[name]; ok {
		return true
	}
	return g.structs.Has(name) || g.unions.Has(name)
}

// castType maps the C spelling of a cast target to a Nature type.
func (g *Generator) castType(spelling string) string {
	spelling = cleanSpelling(spelling)
	if strings.HasSuffix(spelling, "*") {
		return opaquePointer
	}
	if strings.HasPrefix(spelling, "enum ") {
		return "i32"
	}
	name := stripRecordKeyword(spelling)
	if mapped, ok := g.typedefs[name]; ok {
		return mapped
	}
	if prim, ok := primitiveNames[name]; ok {
		return prim
	}
	return g.unionAlias(name)
}
