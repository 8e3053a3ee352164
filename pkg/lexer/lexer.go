package lexer

import (
	"strings"
	"unicode/utf8"

	"cguide/pkg/span"
)

// Lexer is a pull-based tokenizer over a single source buffer. It
// keeps one byte of lookahead and never allocates token slices up
// front; callers drain it with NextToken until TokenEOF.
type Lexer struct {
	input string
	pos   int // byte offset of the next unread character
	line  int // 0-based line of the next unread character
	col   int // 0-based column of the next unread character
}

// New creates a lexer over the given source text.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Input returns the source buffer the lexer was created over.
func (l *Lexer) Input() string {
	return l.input
}

// Line returns the 0-based line of the next unread character.
func (l *Lexer) Line() int {
	return l.line
}

// Column returns the 0-based column of the next unread character.
func (l *Lexer) Column() int {
	return l.col
}

// mark remembers a position so a token span can be built later.
type mark struct {
	off  int
	line int
	col  int
}

func (l *Lexer) mark() mark {
	return mark{off: l.pos, line: l.line, col: l.col}
}

func (l *Lexer) spanFrom(m mark) span.Span {
	return span.Span{
		StartLine:   m.line,
		StartColumn: m.col,
		EndLine:     l.line,
		EndColumn:   l.col,
		ByteStart:   m.off,
		ByteEnd:     l.pos,
	}
}

// advance consumes one character, keeping line/column bookkeeping in
// sync. Multi-byte runes count as a single column.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	c := l.input[l.pos]
	if c < utf8.RuneSelf {
		l.pos++
	} else {
		_, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.pos += size
	}
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// NextToken returns the next token in the stream. At end of input it
// returns a TokenEOF token; the stream stays at EOF afterwards.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			return Token{Type: TokenEOF, Span: l.spanFrom(l.mark())}
		}

		m := l.mark()
		c := l.input[l.pos]

		switch {
		case c == '/' && l.peekAt(1) == '/':
			return l.scanLineComment(m)
		case c == '/' && l.peekAt(1) == '*':
			return l.scanBlockComment(m)
		case c == '#':
			return l.scanDirective(m)
		case isDigit(c):
			return l.scanNumber(m)
		case isIdentStart(c):
			return l.scanIdentifier(m)
		case c == '\\':
			l.advance()
			return Token{
				Type: TokenError,
				Span: l.spanFrom(m),
				Text: "unexpected '\\' outside a preprocessor directive",
			}
		}

		if tok, ok := l.scanOperator(m); ok {
			return tok
		}

		// Unknown character: skip it and keep going.
		l.advance()
	}
}

// Tokens drains the lexer into a slice, error and EOF tokens excluded.
// Mostly a debugging convenience for the CLI.
func (l *Lexer) Tokens() []Token {
	var out []Token
	for {
		tok := l.NextToken()
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return out
		}
		out = append(out, tok)
	}
}

func (l *Lexer) scanLineComment(m mark) Token {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\n' || c == '\r' {
			break
		}
		l.advance()
	}
	return Token{Type: TokenLineComment, Span: l.spanFrom(m)}
}

func (l *Lexer) scanBlockComment(m mark) Token {
	l.advance() // /
	l.advance() // *
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			return Token{Type: TokenBlockComment, Span: l.spanFrom(m)}
		}
		l.advance()
	}
	// Unterminated block comment: swallow the rest of the input.
	return Token{Type: TokenEOF, Span: l.spanFrom(l.mark())}
}

// scanDirective consumes a whole preprocessor line, newline included.
// A backslash immediately before a line break continues the directive
// onto the next physical line; the raw span keeps the continuation
// bytes while the extracted payload has them collapsed to one space.
func (l *Lexer) scanDirective(m mark) Token {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' {
			if l.peekAt(1) == '\n' {
				l.advance()
				l.advance()
				continue
			}
			if l.peekAt(1) == '\r' && l.peekAt(2) == '\n' {
				l.advance()
				l.advance()
				l.advance()
				continue
			}
		}
		l.advance()
		if c == '\n' {
			break
		}
	}

	raw := l.input[m.off:l.pos]
	content := strings.TrimSpace(strings.TrimLeft(stripContinuations(raw), "#"))
	tok := Token{Span: l.spanFrom(m)}

	switch {
	case strings.HasPrefix(content, "include"):
		tok.Type = TokenInclude
		tok.Filename = parseIncludeTarget(strings.TrimSpace(content[len("include"):]))
	case strings.HasPrefix(content, "define"):
		tok.Type = TokenDefine
		rest := strings.TrimSpace(content[len("define"):])
		if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
			tok.MacroName = rest[:idx]
			tok.MacroValue = strings.TrimSpace(rest[idx+1:])
		} else {
			tok.MacroName = rest
		}
	case strings.HasPrefix(content, "ifdef"):
		tok.Type = TokenIfdef
	case strings.HasPrefix(content, "ifndef"):
		tok.Type = TokenIfndef
	case strings.HasPrefix(content, "elif"):
		tok.Type = TokenElif
	case strings.HasPrefix(content, "else"):
		tok.Type = TokenElse
	case strings.HasPrefix(content, "endif"):
		tok.Type = TokenEndif
	case strings.HasPrefix(content, "if"):
		tok.Type = TokenIf
	default:
		// Unknown directives keep the include token shape so callers
		// still see the raw content. Historical behavior.
		tok.Type = TokenInclude
		tok.Filename = content
	}
	return tok
}

// stripContinuations collapses backslash-newline sequences, plus the
// blanks around them, into a single space.
func stripContinuations(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\\' {
			j := i + 1
			if j < len(s) && s[j] == '\r' {
				j++
			}
			if j < len(s) && s[j] == '\n' {
				trimmed := strings.TrimRight(b.String(), " \t")
				b.Reset()
				b.WriteString(trimmed)
				i = j + 1
				for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
					i++
				}
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// parseIncludeTarget extracts the filename from the text after the
// include keyword. Unterminated <...> or "..." forms keep whatever
// came after the opening delimiter.
func parseIncludeTarget(rest string) string {
	if strings.HasPrefix(rest, "<") {
		if i := strings.IndexByte(rest, '>'); i >= 0 {
			return rest[1:i]
		}
		return rest[1:]
	}
	if strings.HasPrefix(rest, "\"") {
		if i := strings.IndexByte(rest[1:], '"'); i >= 0 {
			return rest[1 : 1+i]
		}
		return rest[1:]
	}
	return rest
}

// scanNumber reads an integer or float literal including its suffix
// characters. Floats are recognized solely by a decimal point or an
// exponent; suffixes never change the classification.
func (l *Lexer) scanNumber(m mark) Token {
	isFloat := false

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
	} else {
		for isDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == '.' {
			isFloat = true
			l.advance()
			for isDigit(l.peek()) {
				l.advance()
			}
		}
		if c := l.peek(); c == 'e' || c == 'E' {
			next := l.peekAt(1)
			if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekAt(2))) {
				isFloat = true
				l.advance()
				if c := l.peek(); c == '+' || c == '-' {
					l.advance()
				}
				for isDigit(l.peek()) {
					l.advance()
				}
			}
		}
	}

	if isFloat {
		for isFloatSuffix(l.peek()) {
			l.advance()
		}
	} else {
		for isIntSuffix(l.peek()) {
			l.advance()
		}
	}

	tok := Token{Span: l.spanFrom(m), Text: l.input[m.off:l.pos]}
	if isFloat {
		tok.Type = TokenFloatLiteral
	} else {
		tok.Type = TokenNumberLiteral
	}
	return tok
}

func (l *Lexer) scanIdentifier(m mark) Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.input[m.off:l.pos]
	if kw, ok := keywords[text]; ok {
		return Token{Type: kw, Span: l.spanFrom(m)}
	}
	return Token{Type: TokenIdentifier, Span: l.spanFrom(m), Text: text}
}

// scanOperator matches punctuation greedily, longest lexeme first.
func (l *Lexer) scanOperator(m mark) (Token, bool) {
	two := func(t TokenType) (Token, bool) {
		l.advance()
		l.advance()
		return Token{Type: t, Span: l.spanFrom(m)}, true
	}
	one := func(t TokenType) (Token, bool) {
		l.advance()
		return Token{Type: t, Span: l.spanFrom(m)}, true
	}

	switch l.input[l.pos] {
	case '+':
		if l.peekAt(1) == '+' {
			return two(TokenPlusPlus)
		}
		return one(TokenPlus)
	case '-':
		if l.peekAt(1) == '-' {
			return two(TokenMinusMinus)
		}
		if l.peekAt(1) == '>' {
			return two(TokenArrow)
		}
		return one(TokenMinus)
	case '*':
		return one(TokenStar)
	case '/':
		return one(TokenSlash)
	case '%':
		return one(TokenPercent)
	case '=':
		if l.peekAt(1) == '=' {
			return two(TokenDoubleEquals)
		}
		return one(TokenEquals)
	case '!':
		if l.peekAt(1) == '=' {
			return two(TokenNotEquals)
		}
		return one(TokenExclamation)
	case '<':
		if l.peekAt(1) == '<' {
			return two(TokenLeftShift)
		}
		if l.peekAt(1) == '=' {
			return two(TokenLessEqual)
		}
		return one(TokenLess)
	case '>':
		if l.peekAt(1) == '>' {
			return two(TokenRightShift)
		}
		if l.peekAt(1) == '=' {
			return two(TokenGreaterEqual)
		}
		return one(TokenGreater)
	case '&':
		if l.peekAt(1) == '&' {
			return two(TokenDoubleAmp)
		}
		return one(TokenAmpersand)
	case '|':
		if l.peekAt(1) == '|' {
			return two(TokenDoublePipe)
		}
		return one(TokenPipe)
	case '^':
		return one(TokenCaret)
	case '~':
		return one(TokenTilde)
	case '?':
		return one(TokenQuestion)
	case ':':
		return one(TokenColon)
	case ';':
		return one(TokenSemicolon)
	case ',':
		return one(TokenComma)
	case '.':
		return one(TokenDot)
	case '(':
		return one(TokenLeftParen)
	case ')':
		return one(TokenRightParen)
	case '{':
		return one(TokenLeftBrace)
	case '}':
		return one(TokenRightBrace)
	case '[':
		return one(TokenLeftBracket)
	case ']':
		return one(TokenRightBracket)
	}
	return Token{}, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isIntSuffix(c byte) bool {
	return c == 'u' || c == 'U' || c == 'l' || c == 'L'
}

func isFloatSuffix(c byte) bool {
	return c == 'f' || c == 'F' || c == 'l' || c == 'L'
}
