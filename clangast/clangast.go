// Package clangast describes the C AST capability the binding generator reads
// declarations from. The generator never talks to libclang directly; see
// package libclang for the implementation used by the command.
package clangast

import "fmt"

// ID identifies one declaration node within a translation unit. The same
// declaration reached through different traversal paths has the same ID.
type ID uint64

// CursorKind is the closed set of node kinds the generator dispatches on.
type CursorKind int

const (
	KindUnknown CursorKind = iota
	KindTranslationUnit
	KindStructDecl
	KindUnionDecl
	KindEnumDecl
	KindEnumConstantDecl
	KindFieldDecl
	KindFunctionDecl
	KindParmDecl
	KindTypedefDecl
	KindVarDecl
	KindMacroDefinition
	KindInclusionDirective
	KindTypeRef
	KindIntegerLiteral
	KindFloatingLiteral
	KindStringLiteral
	KindCharacterLiteral
	KindInitListExpr
	KindCompoundLiteralExpr
	KindUnexposedExpr
	KindParenExpr
	KindUnaryOperator
	KindBinaryOperator
	KindDeclRefExpr
	KindCallExpr
	KindCStyleCastExpr
	KindConditionalOperator
)

var cursorKindNames = map[CursorKind]string{
	KindUnknown:             "Unknown",
	KindTranslationUnit:     "TranslationUnit",
	KindStructDecl:          "StructDecl",
	KindUnionDecl:           "UnionDecl",
	KindEnumDecl:            "EnumDecl",
	KindEnumConstantDecl:    "EnumConstantDecl",
	KindFieldDecl:           "FieldDecl",
	KindFunctionDecl:        "FunctionDecl",
	KindParmDecl:            "ParmDecl",
	KindTypedefDecl:         "TypedefDecl",
	KindVarDecl:             "VarDecl",
	KindMacroDefinition:     "MacroDefinition",
	KindInclusionDirective:  "InclusionDirective",
	KindTypeRef:             "TypeRef",
	KindIntegerLiteral:      "IntegerLiteral",
	KindFloatingLiteral:     "FloatingLiteral",
	KindStringLiteral:       "StringLiteral",
	KindCharacterLiteral:    "CharacterLiteral",
	KindInitListExpr:        "InitListExpr",
	KindCompoundLiteralExpr: "CompoundLiteralExpr",
	KindUnexposedExpr:       "UnexposedExpr",
	KindParenExpr:           "ParenExpr",
	KindUnaryOperator:       "UnaryOperator",
	KindBinaryOperator:      "BinaryOperator",
	KindDeclRefExpr:         "DeclRefExpr",
	KindCallExpr:            "CallExpr",
	KindCStyleCastExpr:      "CStyleCastExpr",
	KindConditionalOperator: "ConditionalOperator",
}

func (k CursorKind) String() string {
	if name, ok := cursorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CursorKind(%d)", int(k))
}

// IsExpression reports whether k is one of the expression kinds an
// initializer can start with.
func (k CursorKind) IsExpression() bool {
	return k >= KindIntegerLiteral && k <= KindConditionalOperator
}

// TypeKind classifies a Type. Elaborated types never surface; providers
// unwrap them to the named type.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeCharS
	TypeSChar
	TypeCharU
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeUInt
	TypeLong
	TypeULong
	TypeLongLong
	TypeULongLong
	TypeFloat
	TypeDouble
	TypeLongDouble
	TypePointer
	TypeConstantArray
	TypeIncompleteArray
	TypeTypedef
	TypeRecord
	TypeEnum
	TypeFunctionProto
	TypeFunctionNoProto
	TypeOther
)

// Location is a resolved source position.
type Location struct {
	File           string
	Line           int
	Column         int
	InSystemHeader bool
}

// Valid reports whether the location points into a file.
func (l Location) Valid() bool {
	return l.File != ""
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Severity of a parse diagnostic.
type Severity int

const (
	SeverityIgnored Severity = iota
	SeverityNote
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Diagnostic is one message produced while parsing a translation unit.
type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
}

// Provider parses C sources into translation units.
type Provider interface {
	// Parse parses the header at path with extra compiler arguments.
	Parse(path string, args []string) (TranslationUnit, error)
	// ParseSource parses an in-memory source file named name.
	ParseSource(name, source string, args []string) (TranslationUnit, error)
}

// TranslationUnit is a parsed source file and everything it includes.
type TranslationUnit interface {
	Root() Cursor
	Diagnostics() []Diagnostic
	// Source returns the text of a file that is part of the unit, or "".
	Source(file string) string
	Close()
}

// Cursor is one node of the AST. Methods that do not apply to the node's
// kind return zero values; methods returning Cursor or Type return nil when
// there is no such node.
type Cursor interface {
	ID() ID
	Hash() uint32
	Kind() CursorKind
	Spelling() string
	Location() Location
	Type() Type
	Children() []Cursor
	SemanticParent() Cursor
	IsDefinition() bool
	// Tokens returns the spellings of the raw tokens covered by the node.
	Tokens() []string
	EnumValue() int64
	// LinkName is the exported symbol of a function declaration.
	LinkName() string
	ResultType() Type
	Arguments() []Cursor
	IsVariadic() bool
	UnderlyingType() Type
	IsFunctionLikeMacro() bool
}

// Type is the type of a declaration or expression.
type Type interface {
	Kind() TypeKind
	Spelling() string
	Canonical() Type
	Pointee() Type
	Element() Type
	ArraySize() int64
	Declaration() Cursor
	// Size is the size in bytes, or a negative value for incomplete types.
	Size() int64
}
