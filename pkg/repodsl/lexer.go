package repodsl

import (
	"strconv"
	"strings"

	fetchyerrors "github.com/fetchy/fetchy/pkg/errors"
)

// Lexer tokenizes repository DSL source text. It tracks line/column
// positions so diagnostics can report the smallest possible span.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewLexer creates a Lexer over src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Col: l.col}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		switch {
		case isSpace(l.peek()):
			l.advance()
		case l.peek() == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token in the source. It returns a SyntaxError
// (CodeSyntaxError) for malformed strings or unrecognized characters.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()

	start := l.position()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Span: Span{Start: start, End: start}}, nil
	}

	r := l.peek()
	switch {
	case r == '{':
		l.advance()
		return l.simple(LBrace, "{", start), nil
	case r == '}':
		l.advance()
		return l.simple(RBrace, "}", start), nil
	case r == '[':
		l.advance()
		return l.simple(LBracket, "[", start), nil
	case r == ']':
		l.advance()
		return l.simple(RBracket, "]", start), nil
	case r == '(':
		l.advance()
		return l.simple(LParen, "(", start), nil
	case r == ')':
		l.advance()
		return l.simple(RParen, ")", start), nil
	case r == ':':
		l.advance()
		return l.simple(Colon, ":", start), nil
	case r == ',':
		l.advance()
		return l.simple(Comma, ",", start), nil
	case r == '"':
		return l.lexString(start)
	case isIdentStart(r):
		return l.lexIdent(start), nil
	default:
		l.advance()
		return Token{}, l.errorf(Span{Start: start, End: l.position()}, "unexpected character %q", r)
	}
}

func (l *Lexer) simple(k Kind, lit string, start Position) Token {
	return Token{Kind: k, Literal: lit, Span: Span{Start: start, End: l.position()}}
}

func (l *Lexer) lexIdent(start Position) Token {
	var b strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		b.WriteRune(l.advance())
	}
	return Token{Kind: Ident, Literal: b.String(), Span: Span{Start: start, End: l.position()}}
}

func (l *Lexer) lexString(start Position) (Token, error) {
	l.advance() // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, l.errorf(Span{Start: start, End: l.position()}, "unterminated string literal")
		}
		r := l.advance()
		if r == '"' {
			break
		}
		if r == '\n' {
			return Token{}, l.errorf(Span{Start: start, End: l.position()}, "unterminated string literal")
		}
		if r == '\\' {
			if l.pos >= len(l.src) {
				return Token{}, l.errorf(Span{Start: start, End: l.position()}, "unterminated escape sequence")
			}
			esc := l.advance()
			switch esc {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				return Token{}, l.errorf(Span{Start: start, End: l.position()}, "unknown escape sequence \\%c", esc)
			}
			continue
		}
		b.WriteRune(r)
	}
	return Token{Kind: String, Literal: b.String(), Span: Span{Start: start, End: l.position()}}, nil
}

func (l *Lexer) errorf(span Span, format string, args ...any) error {
	msg := fetchyerrors.New(fetchyerrors.CodeSyntaxError, format, args...)
	msg.Message = formatSpan(span) + ": " + msg.Message
	return msg
}

func formatSpan(s Span) string {
	return "line " + strconv.Itoa(s.Start.Line) + ", column " + strconv.Itoa(s.Start.Col)
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}
