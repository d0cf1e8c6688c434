package expr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmpty is returned for source without tokens.
	ErrEmpty = errors.New("empty expression")
	// ErrUnexpectedToken is returned when no expression starts at a token.
	ErrUnexpectedToken = errors.New("unexpected token")
	// ErrTrailingTokens is returned when tokens remain after a complete
	// expression, as with the ternary operator.
	ErrTrailingTokens = errors.New("trailing tokens after expression")
)

// Expr is a node of the expression tree.
type Expr interface {
	exprNode()
}

// NumberLit is an integer or floating literal, suffix included.
type NumberLit struct{ Text string }

// StringLit is a string literal with its quotes. Adjacent literals are
// already merged.
type StringLit struct{ Text string }

// CharLit is a character literal such as 'a'.
type CharLit struct{ Text string }

// Identifier is a bare name, usually another macro.
type Identifier struct{ Name string }

// Unary is a prefix operator applied to X.
type Unary struct {
	Op string
	X  Expr
}

// Binary is Left Op Right.
type Binary struct {
	Left  Expr
	Op    string
	Right Expr
}

// Call is a function-like macro or function call.
type Call struct {
	Func string
	Args []Expr
}

// Cast is `(Type)X`. Type is the C spelling, e.g. "unsigned int" or
// "const char *".
type Cast struct {
	Type string
	X    Expr
}

// InitItem is one element of a brace initializer. Field is empty for
// positional items.
type InitItem struct {
	Field string
	Value Expr
}

// CompoundLiteral is `(Type){...}`, `Type{...}` or `CLITERAL(Type){...}`.
// Inner holds the raw source between the braces.
type CompoundLiteral struct {
	Type  string
	Items []InitItem
	Inner string
}

// InitList is a bare `{...}` nested inside another initializer.
type InitList struct {
	Items []InitItem
	Inner string
}

func (NumberLit) exprNode()       {}
func (StringLit) exprNode()       {}
func (CharLit) exprNode()         {}
func (Identifier) exprNode()      {}
func (Unary) exprNode()           {}
func (Binary) exprNode()          {}
func (Call) exprNode()            {}
func (Cast) exprNode()            {}
func (CompoundLiteral) exprNode() {}
func (InitList) exprNode()        {}

// Designated reports whether any item names its field.
func (c CompoundLiteral) Designated() bool {
	for _, it := range c.Items {
		if it.Field != "" {
			return true
		}
	}
	return false
}

var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var unaryOps = map[string]bool{"-": true, "+": true, "!": true, "~": true}

var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "bool": true,
}

var typeQualifiers = map[string]bool{"const": true, "volatile": true}

// Option configures Parse.
type Option func(*parser)

// WithTypeNames lets Parse recognize casts to named types such as typedefs.
// Casts to C type keywords and struct, union or enum types are recognized
// without it.
func WithTypeNames(isType func(name string) bool) Option {
	return func(p *parser) {
		p.isType = isType
	}
}

// Parse parses src as a single initializer or expression. All tokens must be
// consumed.
func Parse(src string, opts ...Option) (Expr, error) {
	p := &parser{src: src, toks: Tokenize(src)}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.toks) == 0 {
		return nil, ErrEmpty
	}
	e := p.parseValue()
	if e == nil {
		return nil, fmt.Errorf("%w %q in %q", ErrUnexpectedToken, p.peekText(), src)
	}
	if p.i < len(p.toks) {
		return nil, fmt.Errorf("%w: %q in %q", ErrTrailingTokens, p.peekText(), src)
	}
	return e, nil
}

type parser struct {
	src    string
	toks   []Token
	i      int
	isType func(string) bool
}

func (p *parser) peek(k int) *Token {
	j := p.i + k
	if j < 0 || j >= len(p.toks) {
		return nil
	}
	return &p.toks[j]
}

func (p *parser) peekText() string {
	if t := p.peek(0); t != nil {
		return t.Text
	}
	return "<eof>"
}

func (p *parser) is(k int, kind TokenKind, text string) bool {
	t := p.peek(k)
	return t != nil && t.Kind == kind && (text == "" || t.Text == text)
}

func (p *parser) eat(kind TokenKind, text string) *Token {
	if !p.is(0, kind, text) {
		return nil
	}
	t := p.peek(0)
	p.i++
	return t
}

// parseValue accepts the literal initializer forms ahead of a plain
// expression.
func (p *parser) parseValue() Expr {
	if p.is(0, Ident, "CLITERAL") && p.is(1, Paren, "(") {
		return p.parseCLiteral()
	}
	if lit := p.tryCompound(); lit != nil {
		return lit
	}
	if p.is(0, Brace, "{") {
		save := p.i
		if items, inner, ok := p.parseBraces(); ok {
			return InitList{Items: items, Inner: inner}
		}
		p.i = save
		return nil
	}
	return p.parseExpr(0)
}

func (p *parser) parseCLiteral() Expr {
	p.i += 2
	typeName := p.parseTypeName()
	if typeName == "" || p.eat(Paren, ")") == nil {
		return nil
	}
	items, inner, ok := p.parseBraces()
	if !ok {
		return nil
	}
	return CompoundLiteral{Type: typeName, Items: items, Inner: inner}
}

func (p *parser) tryCompound() Expr {
	save := p.i
	if p.eat(Paren, "(") != nil {
		typeName := p.parseTypeName()
		if typeName != "" && p.eat(Paren, ")") != nil && p.is(0, Brace, "{") {
			if items, inner, ok := p.parseBraces(); ok {
				return CompoundLiteral{Type: typeName, Items: items, Inner: inner}
			}
		}
		p.i = save
		return nil
	}
	if p.is(0, Ident, "") {
		typeName := p.parseTypeName()
		if typeName != "" && p.is(0, Brace, "{") {
			if items, inner, ok := p.parseBraces(); ok {
				return CompoundLiteral{Type: typeName, Items: items, Inner: inner}
			}
		}
	}
	p.i = save
	return nil
}

// parseTypeName reads `Name`, `struct Name` or `union Name`.
func (p *parser) parseTypeName() string {
	if p.is(0, Ident, "struct") || p.is(0, Ident, "union") {
		if p.is(1, Ident, "") {
			p.i++
		}
	}
	t := p.eat(Ident, "")
	if t == nil {
		return ""
	}
	return t.Text
}

func (p *parser) parseBraces() ([]InitItem, string, bool) {
	open := p.eat(Brace, "{")
	if open == nil {
		return nil, "", false
	}
	items := p.parseInitList()
	closing := p.eat(Brace, "}")
	if closing == nil {
		return nil, "", false
	}
	return items, strings.TrimSpace(p.src[open.End:closing.Pos]), true
}

func (p *parser) parseInitList() []InitItem {
	var items []InitItem
	for !p.is(0, Brace, "}") {
		var field string
		switch {
		case p.is(0, Op, ".") && p.is(1, Ident, "") && p.is(2, Assign, ""):
			field = p.peek(1).Text
			p.i += 3
		case p.is(0, Ident, "") && p.is(1, Assign, ""):
			field = p.peek(0).Text
			p.i += 2
		}
		value := p.parseValue()
		if value == nil {
			return items
		}
		items = append(items, InitItem{Field: field, Value: value})
		if p.eat(Comma, "") == nil {
			break
		}
	}
	return items
}

func (p *parser) parseExpr(minPrec int) Expr {
	left := p.parsePrimary()
	if left == nil {
		return nil
	}
	for {
		op := p.peek(0)
		if op == nil || op.Kind != Op {
			return left
		}
		prec, ok := precedence[op.Text]
		if !ok || prec < minPrec {
			return left
		}
		p.i++
		right := p.parseExpr(prec + 1)
		if right == nil {
			p.i--
			return left
		}
		left = Binary{Left: left, Op: op.Text, Right: right}
	}
}

func (p *parser) parsePrimary() Expr {
	tok := p.peek(0)
	if tok == nil {
		return nil
	}
	switch tok.Kind {
	case Number:
		p.i++
		return NumberLit{Text: tok.Text}
	case Char:
		p.i++
		return CharLit{Text: tok.Text}
	case String:
		return p.parseStrings()
	case Ident:
		p.i++
		if p.eat(Paren, "(") == nil {
			return Identifier{Name: tok.Text}
		}
		args, ok := p.parseArgs()
		if !ok {
			return nil
		}
		return Call{Func: tok.Text, Args: args}
	case Paren:
		if tok.Text != "(" {
			return nil
		}
		if cast := p.tryCast(); cast != nil {
			return cast
		}
		p.i++
		inner := p.parseExpr(0)
		if inner == nil || p.eat(Paren, ")") == nil {
			return nil
		}
		return inner
	case Op:
		if !unaryOps[tok.Text] {
			return nil
		}
		p.i++
		operand := p.parsePrimary()
		if operand == nil {
			return nil
		}
		return Unary{Op: tok.Text, X: operand}
	}
	return nil
}

// tryCast reads `(type)operand`. The operand is a primary expression, so a
// cast binds tighter than any binary operator.
func (p *parser) tryCast() Expr {
	save := p.i
	p.i++
	typeName := p.parseCastType()
	if typeName != "" && p.eat(Paren, ")") != nil && p.startsOperand() {
		if operand := p.parsePrimary(); operand != nil {
			return Cast{Type: typeName, X: operand}
		}
	}
	p.i = save
	return nil
}

// parseCastType reads a type name with optional qualifiers and pointer
// stars. It returns "" when the tokens cannot be a type.
func (p *parser) parseCastType() string {
	var words []string
	base := false
loop:
	for {
		t := p.peek(0)
		if t == nil || t.Kind != Ident {
			break
		}
		switch {
		case typeQualifiers[t.Text]:
			p.i++
		case typeKeywords[t.Text]:
			base = true
			p.i++
		case !base && (t.Text == "struct" || t.Text == "union" || t.Text == "enum") && p.is(1, Ident, ""):
			words = append(words, t.Text)
			p.i++
			t = p.peek(0)
			base = true
			p.i++
		case !base && p.isType != nil && p.isType(t.Text):
			base = true
			p.i++
		default:
			break loop
		}
		words = append(words, t.Text)
	}
	if !base {
		return ""
	}
	for p.is(0, Op, "*") {
		words = append(words, "*")
		p.i++
	}
	return strings.Join(words, " ")
}

func (p *parser) startsOperand() bool {
	t := p.peek(0)
	if t == nil {
		return false
	}
	switch t.Kind {
	case Number, Char, String, Ident:
		return true
	case Paren:
		return t.Text == "("
	case Op:
		return unaryOps[t.Text]
	}
	return false
}

// parseStrings merges adjacent string literals the way C does.
func (p *parser) parseStrings() Expr {
	var body strings.Builder
	count := 0
	for p.is(0, String, "") {
		text := p.peek(0).Text
		body.WriteString(strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`))
		p.i++
		count++
	}
	if count == 1 {
		return StringLit{Text: p.toks[p.i-1].Text}
	}
	return StringLit{Text: `"` + body.String() + `"`}
}

func (p *parser) parseArgs() ([]Expr, bool) {
	var args []Expr
	if p.eat(Paren, ")") != nil {
		return args, true
	}
	for {
		arg := p.parseExpr(0)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if p.eat(Paren, ")") != nil {
			return args, true
		}
		if p.eat(Comma, "") == nil {
			return nil, false
		}
	}
}
