package libclang

import (
	"github.com/go-clang/clang-v13/clang"

	"github.com/OrtheSnowJames/naturebindgen/clangast"
)

var cursorKinds = map[clang.CursorKind]clangast.CursorKind{
	clang.Cursor_TranslationUnit:     clangast.KindTranslationUnit,
	clang.Cursor_StructDecl:          clangast.KindStructDecl,
	clang.Cursor_UnionDecl:           clangast.KindUnionDecl,
	clang.Cursor_EnumDecl:            clangast.KindEnumDecl,
	clang.Cursor_EnumConstantDecl:    clangast.KindEnumConstantDecl,
	clang.Cursor_FieldDecl:           clangast.KindFieldDecl,
	clang.Cursor_FunctionDecl:        clangast.KindFunctionDecl,
	clang.Cursor_ParmDecl:            clangast.KindParmDecl,
	clang.Cursor_TypedefDecl:         clangast.KindTypedefDecl,
	clang.Cursor_VarDecl:             clangast.KindVarDecl,
	clang.Cursor_MacroDefinition:     clangast.KindMacroDefinition,
	clang.Cursor_InclusionDirective:  clangast.KindInclusionDirective,
	clang.Cursor_TypeRef:             clangast.KindTypeRef,
	clang.Cursor_IntegerLiteral:      clangast.KindIntegerLiteral,
	clang.Cursor_FloatingLiteral:     clangast.KindFloatingLiteral,
	clang.Cursor_StringLiteral:       clangast.KindStringLiteral,
	clang.Cursor_CharacterLiteral:    clangast.KindCharacterLiteral,
	clang.Cursor_InitListExpr:        clangast.KindInitListExpr,
	clang.Cursor_CompoundLiteralExpr: clangast.KindCompoundLiteralExpr,
	clang.Cursor_UnexposedExpr:       clangast.KindUnexposedExpr,
	clang.Cursor_ParenExpr:           clangast.KindParenExpr,
	clang.Cursor_UnaryOperator:       clangast.KindUnaryOperator,
	clang.Cursor_BinaryOperator:      clangast.KindBinaryOperator,
	clang.Cursor_DeclRefExpr:         clangast.KindDeclRefExpr,
	clang.Cursor_CallExpr:            clangast.KindCallExpr,
	clang.Cursor_CStyleCastExpr:      clangast.KindCStyleCastExpr,
	clang.Cursor_ConditionalOperator: clangast.KindConditionalOperator,
}

type cursor struct {
	u *unit
	c clang.Cursor
}

func (c *cursor) ID() clangast.ID {
	return c.u.id(c.c)
}

func (c *cursor) Hash() uint32 {
	return c.c.HashCursor()
}

func (c *cursor) Kind() clangast.CursorKind {
	if kind, ok := cursorKinds[c.c.Kind()]; ok {
		return kind
	}
	return clangast.KindUnknown
}

func (c *cursor) Spelling() string {
	return c.c.Spelling()
}

func (c *cursor) Location() clangast.Location {
	return location(c.c.Location())
}

func (c *cursor) Type() clangast.Type {
	return c.u.wrapType(c.c.Type())
}

func (c *cursor) Children() []clangast.Cursor {
	var children []clangast.Cursor
	c.c.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
		if wrapped := c.u.wrapCursor(child); wrapped != nil {
			children = append(children, wrapped)
		}
		return clang.ChildVisit_Continue
	})
	return children
}

func (c *cursor) SemanticParent() clangast.Cursor {
	return c.u.wrapCursor(c.c.SemanticParent())
}

func (c *cursor) IsDefinition() bool {
	return c.c.IsCursorDefinition()
}

func (c *cursor) Tokens() []string {
	tokens := c.u.tu.Tokenize(c.c.Extent())
	spellings := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		spellings = append(spellings, c.u.tu.TokenSpelling(tok))
	}
	return spellings
}

func (c *cursor) EnumValue() int64 {
	return c.c.EnumConstantDeclValue()
}

func (c *cursor) LinkName() string {
	if name := c.c.Mangling(); name != "" {
		return name
	}
	return c.c.Spelling()
}

func (c *cursor) ResultType() clangast.Type {
	return c.u.wrapType(c.c.ResultType())
}

func (c *cursor) Arguments() []clangast.Cursor {
	n := c.c.NumArguments()
	if n <= 0 {
		return nil
	}
	args := make([]clangast.Cursor, 0, n)
	for i := int32(0); i < n; i++ {
		if arg := c.u.wrapCursor(c.c.Argument(uint32(i))); arg != nil {
			args = append(args, arg)
		}
	}
	return args
}

func (c *cursor) IsVariadic() bool {
	return c.c.IsVariadic()
}

func (c *cursor) UnderlyingType() clangast.Type {
	return c.u.wrapType(c.c.TypedefDeclUnderlyingType())
}

func (c *cursor) IsFunctionLikeMacro() bool {
	return c.c.IsMacroFunctionLike()
}
