// Package expr parses the small C expression and initializer language found
// in macro bodies and renders it in Nature syntax.
package expr

import "strings"

// TokenKind classifies a token.
type TokenKind int

const (
	Ident TokenKind = iota
	Number
	String
	Char
	Brace
	Paren
	Bracket
	Comma
	Assign
	Op
)

// Token is a lexeme with its byte span in the source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  int
	End  int
}

var twoCharOps = []string{"<<", ">>", "<=", ">=", "==", "!=", "&&", "||"}

// Tokenize splits src into tokens. It never fails: unknown characters become
// single-character operators.
func Tokenize(src string) []Token {
	var tokens []Token
	n := len(src)
	i := 0
	for i < n {
		ch := src[i]
		start := i
		switch {
		case isSpace(ch):
			i++
			continue
		case isIdentStart(ch):
			for i < n && isIdentPart(src[i]) {
				i++
			}
			tokens = append(tokens, Token{Kind: Ident, Text: src[start:i], Pos: start, End: i})
			continue
		case isDigit(ch) || (ch == '.' && i+1 < n && isDigit(src[i+1])):
			i = scanNumber(src, i)
			tokens = append(tokens, Token{Kind: Number, Text: src[start:i], Pos: start, End: i})
			continue
		case ch == '"' || ch == '\'':
			i = scanQuoted(src, i)
			kind := String
			if ch == '\'' {
				kind = Char
			}
			tokens = append(tokens, Token{Kind: kind, Text: src[start:i], Pos: start, End: i})
			continue
		}

		if op, ok := twoCharOp(src[i:]); ok {
			i += len(op)
			tokens = append(tokens, Token{Kind: Op, Text: op, Pos: start, End: i})
			continue
		}

		i++
		tokens = append(tokens, Token{Kind: punctKind(ch), Text: src[start:i], Pos: start, End: i})
	}
	return tokens
}

func scanNumber(src string, i int) int {
	n := len(src)
	hex := strings.HasPrefix(src[i:], "0x") || strings.HasPrefix(src[i:], "0X")
	for i < n {
		ch := src[i]
		switch {
		case isIdentPart(ch) || ch == '.':
			i++
		case (ch == '+' || ch == '-') && !hex && (src[i-1] == 'e' || src[i-1] == 'E'):
			i++
		default:
			return i
		}
	}
	return i
}

func scanQuoted(src string, i int) int {
	quote := src[i]
	n := len(src)
	i++
	for i < n {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return n
}

func twoCharOp(s string) (string, bool) {
	if len(s) < 2 {
		return "", false
	}
	for _, op := range twoCharOps {
		if s[:2] == op {
			return op, true
		}
	}
	return "", false
}

func punctKind(ch byte) TokenKind {
	switch ch {
	case '{', '}':
		return Brace
	case '(', ')':
		return Paren
	case '[', ']':
		return Bracket
	case ',':
		return Comma
	case '=':
		return Assign
	default:
		return Op
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

// JoinTokens glues token spellings back into source text, inserting a space
// only where two words would otherwise merge.
func JoinTokens(tokens []string) string {
	var sb strings.Builder
	var last byte
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if sb.Len() > 0 && isIdentPart(last) && isIdentPart(tok[0]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
		last = tok[len(tok)-1]
	}
	return sb.String()
}
