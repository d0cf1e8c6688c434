package libclang

import (
	"github.com/go-clang/clang-v13/clang"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

var typeKinds = map[clang.TypeKind]clangast.TypeKind{
	clang.Type_Void:            clangast.TypeVoid,
	clang.Type_Bool:            clangast.TypeBool,
	clang.Type_Char_S:          clangast.TypeCharS,
	clang.Type_SChar:           clangast.TypeSChar,
	clang.Type_Char_U:          clangast.TypeCharU,
	clang.Type_UChar:           clangast.TypeUChar,
	clang.Type_Short:           clangast.TypeShort,
	clang.Type_UShort:          clangast.TypeUShort,
	clang.Type_Int:             clangast.TypeInt,
	clang.Type_UInt:            clangast.TypeUInt,
	clang.Type_Long:            clangast.TypeLong,
	clang.Type_ULong:           clangast.TypeULong,
	clang.Type_LongLong:        clangast.TypeLongLong,
	clang.Type_ULongLong:       clangast.TypeULongLong,
	clang.Type_Float:           clangast.TypeFloat,
	clang.Type_Double:          clangast.TypeDouble,
	clang.Type_LongDouble:      clangast.TypeLongDouble,
	clang.Type_Pointer:         clangast.TypePointer,
	clang.Type_ConstantArray:   clangast.TypeConstantArray,
	clang.Type_IncompleteArray: clangast.TypeIncompleteArray,
	clang.Type_Typedef:         clangast.TypeTypedef,
	clang.Type_Record:          clangast.TypeRecord,
	clang.Type_Enum:            clangast.TypeEnum,
	clang.Type_FunctionProto:   clangast.TypeFunctionProto,
	clang.Type_FunctionNoProto: clangast.TypeFunctionNoProto,
}

type ctype struct {
	u *unit
	t clang.Type
}

func (t *ctype) Kind() clangast.TypeKind {
	if kind, ok := typeKinds[t.t.Kind()]; ok {
		return kind
	}
	return clangast.TypeOther
}

func (t *ctype) Spelling() string {
	return t.t.Spelling()
}

func (t *ctype) Canonical() clangast.Type {
	return t.u.wrapType(t.t.CanonicalType())
}

func (t *ctype) Pointee() clangast.Type {
	return t.u.wrapType(t.t.PointeeType())
}

func (t *ctype) Element() clangast.Type {
	return t.u.wrapType(t.t.ArrayElementType())
}

func (t *ctype) ArraySize() int64 {
	return t.t.ArraySize()
}

func (t *ctype) Declaration() clangast.Cursor {
	return t.u.wrapCursor(t.t.Declaration())
}

func (t *ctype) Size() int64 {
	return t.t.SizeOf()
}
