package parser

import (
	"strconv"
	"strings"

	"cguide/pkg/ast"
	"cguide/pkg/ctypes"
	"cguide/pkg/lexer"
	"cguide/pkg/span"
)

// ExpressionParser parses C expressions by precedence climbing, from
// logical-or down to primary expressions. With a type table attached
// it can tell `(MyInt) x` casts apart from parenthesized expressions.
//
// Parsing is best-effort: a malformed expression yields nil rather
// than an error, matching the silent recovery of the item parser.
type ExpressionParser struct {
	lx    *lexer.Lexer
	cur   lexer.Token
	types *ctypes.TypeTable
}

// NewExpressionParser creates an expression parser that pulls tokens
// from the given lexer.
func NewExpressionParser(lx *lexer.Lexer) *ExpressionParser {
	return &ExpressionParser{lx: lx, cur: lx.NextToken()}
}

// WithTypeTable attaches a typedef table for cast disambiguation.
func (ep *ExpressionParser) WithTypeTable(types *ctypes.TypeTable) *ExpressionParser {
	ep.types = types
	return ep
}

func (ep *ExpressionParser) advance() {
	ep.cur = ep.lx.NextToken()
}

// isTypeName reports whether a bare identifier names a type, either a
// builtin keyword spelling or a registered typedef.
func (ep *ExpressionParser) isTypeName(name string) bool {
	switch name {
	case "void", "char", "short", "int", "long", "float", "double",
		"signed", "unsigned", "_Bool", "const", "volatile", "restrict", "_Atomic":
		return true
	}
	return ep.types != nil && ep.types.IsTypeName(name)
}

// ParseExpression parses one full expression, or nil.
func (ep *ExpressionParser) ParseExpression() ast.Expression {
	return ep.parseLogicalOr()
}

// parseBinaryLevel implements one precedence level: a left operand
// followed by any number of (operator, right operand) pairs, folded
// left-associatively.
func (ep *ExpressionParser) parseBinaryLevel(next func() ast.Expression, ops map[lexer.TokenType]ast.BinaryOperator) ast.Expression {
	left := next()
	if left == nil {
		return nil
	}
	for {
		op, ok := ops[ep.cur.Type]
		if !ok {
			return left
		}
		ep.advance()
		right := next()
		if right == nil {
			return nil
		}
		left = &ast.BinaryOp{
			Op:    op,
			Left:  left,
			Right: right,
			Span:  left.ExprSpan().Merge(right.ExprSpan()),
		}
	}
}

func (ep *ExpressionParser) parseLogicalOr() ast.Expression {
	return ep.parseBinaryLevel(ep.parseLogicalAnd, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenDoublePipe: ast.OpLogicalOr,
	})
}

func (ep *ExpressionParser) parseLogicalAnd() ast.Expression {
	return ep.parseBinaryLevel(ep.parseBitwiseOr, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenDoubleAmp: ast.OpLogicalAnd,
	})
}

func (ep *ExpressionParser) parseBitwiseOr() ast.Expression {
	return ep.parseBinaryLevel(ep.parseBitwiseXor, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenPipe: ast.OpBitwiseOr,
	})
}

func (ep *ExpressionParser) parseBitwiseXor() ast.Expression {
	return ep.parseBinaryLevel(ep.parseBitwiseAnd, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenCaret: ast.OpBitwiseXor,
	})
}

func (ep *ExpressionParser) parseBitwiseAnd() ast.Expression {
	return ep.parseBinaryLevel(ep.parseEquality, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenAmpersand: ast.OpBitwiseAnd,
	})
}

func (ep *ExpressionParser) parseEquality() ast.Expression {
	return ep.parseBinaryLevel(ep.parseRelational, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenDoubleEquals: ast.OpEqual,
		lexer.TokenNotEquals:    ast.OpNotEqual,
	})
}

func (ep *ExpressionParser) parseRelational() ast.Expression {
	return ep.parseBinaryLevel(ep.parseShift, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenLess:         ast.OpLess,
		lexer.TokenLessEqual:    ast.OpLessEqual,
		lexer.TokenGreater:      ast.OpGreater,
		lexer.TokenGreaterEqual: ast.OpGreaterEqual,
	})
}

func (ep *ExpressionParser) parseShift() ast.Expression {
	return ep.parseBinaryLevel(ep.parseAdditive, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenLeftShift:  ast.OpLeftShift,
		lexer.TokenRightShift: ast.OpRightShift,
	})
}

func (ep *ExpressionParser) parseAdditive() ast.Expression {
	return ep.parseBinaryLevel(ep.parseMultiplicative, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenPlus:  ast.OpAdd,
		lexer.TokenMinus: ast.OpSubtract,
	})
}

func (ep *ExpressionParser) parseMultiplicative() ast.Expression {
	return ep.parseBinaryLevel(ep.parseUnary, map[lexer.TokenType]ast.BinaryOperator{
		lexer.TokenStar:    ast.OpMultiply,
		lexer.TokenSlash:   ast.OpDivide,
		lexer.TokenPercent: ast.OpModulo,
	})
}

var prefixOps = map[lexer.TokenType]ast.UnaryOperator{
	lexer.TokenMinus:       ast.OpNegate,
	lexer.TokenExclamation: ast.OpLogicalNot,
	lexer.TokenTilde:       ast.OpBitwiseNot,
	lexer.TokenAmpersand:   ast.OpAddressOf,
	lexer.TokenStar:        ast.OpDereference,
	lexer.TokenPlusPlus:    ast.OpPreIncrement,
	lexer.TokenMinusMinus:  ast.OpPreDecrement,
}

// parseUnary handles prefix operators, recursing so stacked operators
// like !!x nest naturally.
func (ep *ExpressionParser) parseUnary() ast.Expression {
	op, ok := prefixOps[ep.cur.Type]
	if !ok {
		return ep.parsePostfix()
	}
	opSpan := ep.cur.Span
	ep.advance()

	operand := ep.parseUnary()
	if operand == nil {
		return nil
	}
	return &ast.UnaryOp{
		Op:      op,
		Operand: operand,
		Span:    opSpan.Merge(operand.ExprSpan()),
	}
}

// parsePostfix applies any number of postfix ++/-- to a primary.
func (ep *ExpressionParser) parsePostfix() ast.Expression {
	expr := ep.parsePrimary()
	if expr == nil {
		return nil
	}
	for {
		var op ast.UnaryOperator
		switch ep.cur.Type {
		case lexer.TokenPlusPlus:
			op = ast.OpPostIncrement
		case lexer.TokenMinusMinus:
			op = ast.OpPostDecrement
		default:
			return expr
		}
		opSpan := ep.cur.Span
		ep.advance()
		expr = &ast.UnaryOp{
			Op:      op,
			Operand: expr,
			Span:    expr.ExprSpan().Merge(opSpan),
		}
	}
}

// parsePrimary handles literals, identifiers and parenthesized forms.
func (ep *ExpressionParser) parsePrimary() ast.Expression {
	switch tok := ep.cur; tok.Type {
	case lexer.TokenNumberLiteral:
		ep.advance()
		return decodeIntLiteral(tok.Text, tok.Span)

	case lexer.TokenFloatLiteral:
		ep.advance()
		text := strings.TrimRight(tok.Text, "fFlL")
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		return &ast.FloatLiteral{Value: value, Span: tok.Span}

	case lexer.TokenIdentifier:
		ep.advance()
		return &ast.Identifier{Name: tok.Text, Span: tok.Span}

	case lexer.TokenLeftParen:
		return ep.parseParenOrCast(tok.Span)
	}
	return nil
}

// decodeIntLiteral strips integer suffixes and decodes hex, octal and
// decimal spellings into an int64.
func decodeIntLiteral(text string, sp span.Span) ast.Expression {
	digits := strings.TrimRight(text, "uUlL")

	var value int64
	var err error
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		value, err = strconv.ParseInt(digits[2:], 16, 64)
	case strings.HasPrefix(digits, "0") && len(digits) > 1:
		value, err = strconv.ParseInt(digits, 8, 64)
	default:
		value, err = strconv.ParseInt(digits, 10, 64)
	}
	if err != nil {
		return nil
	}
	return &ast.IntLiteral{Value: value, Span: sp}
}

// parseParenOrCast disambiguates `(T) x` casts from `(expr)` grouping
// by peeking at the token after the parenthesis: a type keyword, a
// struct/union/enum keyword, a qualifier, or an identifier the type
// table knows means a cast.
func (ep *ExpressionParser) parseParenOrCast(openSpan span.Span) ast.Expression {
	ep.advance() // consume '('

	isType := false
	switch ep.cur.Type {
	case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt,
		lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned,
		lexer.TokenUnsigned, lexer.TokenBool, lexer.TokenStruct, lexer.TokenUnion,
		lexer.TokenEnum, lexer.TokenConst, lexer.TokenVolatile,
		lexer.TokenRestrict, lexer.TokenAtomic:
		isType = true
	case lexer.TokenIdentifier:
		isType = ep.isTypeName(ep.cur.Text)
	}

	if isType {
		var typeTokens []lexer.Token
		for ep.cur.Type != lexer.TokenRightParen {
			if ep.cur.Type == lexer.TokenEOF || ep.cur.Type == lexer.TokenError {
				return nil
			}
			typeTokens = append(typeTokens, ep.cur)
			ep.advance()
		}
		ep.advance() // consume ')'

		targetType := ep.typeFromTokens(typeTokens)

		// Casts bind at unary precedence.
		operand := ep.parseUnary()
		if operand == nil {
			return nil
		}
		return &ast.Cast{
			TargetType: targetType,
			Operand:    operand,
			Span:       openSpan.Merge(operand.ExprSpan()),
		}
	}

	inner := ep.ParseExpression()
	if inner == nil {
		return nil
	}
	if ep.cur.Type != lexer.TokenRightParen {
		return nil
	}
	parenSpan := openSpan.Merge(ep.cur.Span)
	ep.advance() // consume ')'

	// The grouped expression is returned as-is with the paren-wide
	// span for the representable kinds; anything else passes through
	// with its original span.
	switch v := inner.(type) {
	case *ast.IntLiteral:
		v.Span = parenSpan
	case *ast.FloatLiteral:
		v.Span = parenSpan
	case *ast.Identifier:
		v.Span = parenSpan
	case *ast.BinaryOp:
		v.Span = parenSpan
	case *ast.UnaryOp:
		v.Span = parenSpan
	case *ast.Cast:
		v.Span = parenSpan
	}
	return inner
}

// typeFromTokens rebuilds a cast's target type. A lone identifier is
// resolved through the type table (defaulting to int); keyword runs
// are re-parsed as a type from their reconstructed spelling.
func (ep *ExpressionParser) typeFromTokens(tokens []lexer.Token) ctypes.Type {
	var spelling strings.Builder
	identName := ""

	for _, tok := range tokens {
		switch tok.Type {
		case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt,
			lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned,
			lexer.TokenUnsigned, lexer.TokenBool, lexer.TokenConst,
			lexer.TokenVolatile, lexer.TokenRestrict, lexer.TokenAtomic:
			spelling.WriteString(tok.Span.Text(ep.lx.Input()))
			spelling.WriteByte(' ')
		case lexer.TokenStar:
			spelling.WriteString("* ")
		case lexer.TokenIdentifier:
			identName = tok.Text
		}
	}

	if identName != "" && strings.TrimSpace(spelling.String()) == "" {
		if ep.types != nil {
			if typ, ok := ep.types.Lookup(identName); ok {
				return typ
			}
		}
		return ctypes.Int()
	}

	if typ := ParseTypeFromSource(spelling.String()); typ != nil {
		return *typ
	}
	return ctypes.Int()
}
