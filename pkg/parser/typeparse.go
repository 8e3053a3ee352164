package parser

import (
	"cguide/pkg/ctypes"
	"cguide/pkg/lexer"
)

// ParseType reads a C type from the parser's token stream: optional
// qualifiers, one base-type keyword, then pointer layers with their
// own qualifiers. It returns nil when the stream does not start with
// a type, and stops at the first token past the type.
func (p *Parser) ParseType() *ctypes.Type {
	return parseTypeFromLexer(p.lexer)
}

// ParseTypeFromSource parses a type from the front of a standalone
// text fragment, e.g. a declaration's raw text.
func ParseTypeFromSource(src string) *ctypes.Type {
	return parseTypeFromLexer(lexer.New(src))
}

func parseTypeFromLexer(lx *lexer.Lexer) *ctypes.Type {
	var quals []ctypes.Qualifier
	var base ctypes.BaseType

	// Phase 1: base qualifiers until the base-type keyword. Anything
	// else means this is not a type.
phase1:
	for {
		tok := lx.NextToken()
		if q, ok := qualifierFor(tok.Type); ok {
			quals = append(quals, q)
			continue
		}
		switch tok.Type {
		case lexer.TokenVoid:
			base = ctypes.BaseVoid
		case lexer.TokenChar:
			base = ctypes.BaseChar
		case lexer.TokenShort:
			base = ctypes.BaseShort
		case lexer.TokenInt:
			base = ctypes.BaseInt
		case lexer.TokenLong:
			base = ctypes.BaseLong
		case lexer.TokenFloat:
			base = ctypes.BaseFloat
		case lexer.TokenDouble:
			base = ctypes.BaseDouble
		case lexer.TokenSigned:
			base = ctypes.BaseSigned
		case lexer.TokenUnsigned:
			base = ctypes.BaseUnsigned
		case lexer.TokenBool:
			base = ctypes.BaseBool
		default:
			return nil
		}
		break phase1
	}

	// Phase 2: pointer layers. Trailing base keywords and qualifiers
	// (the `char` of `unsigned char`) are skipped first; the leading
	// base keyword already decided the type. Each asterisk then opens
	// a layer that collects the qualifiers following it.
	var layers []ctypes.PointerLayer
	tok := lx.NextToken()
	for {
		if _, ok := qualifierFor(tok.Type); ok || isBaseKeyword(tok.Type) {
			tok = lx.NextToken()
			continue
		}
		break
	}
	for tok.Type == lexer.TokenStar {
		layer := ctypes.PointerLayer{Span: tok.Span}
		tok = lx.NextToken()
		for {
			q, ok := qualifierFor(tok.Type)
			if !ok {
				break
			}
			layer.Qualifiers = append(layer.Qualifiers, q)
			layer.Span = layer.Span.Merge(tok.Span)
			tok = lx.NextToken()
		}
		layers = append(layers, layer)
	}

	return &ctypes.Type{Base: base, Qualifiers: quals, Pointers: layers}
}

func isBaseKeyword(t lexer.TokenType) bool {
	switch t {
	case lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt,
		lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned,
		lexer.TokenUnsigned, lexer.TokenBool:
		return true
	}
	return false
}

func qualifierFor(t lexer.TokenType) (ctypes.Qualifier, bool) {
	switch t {
	case lexer.TokenConst:
		return ctypes.QualConst, true
	case lexer.TokenVolatile:
		return ctypes.QualVolatile, true
	case lexer.TokenRestrict:
		return ctypes.QualRestrict, true
	case lexer.TokenAtomic:
		return ctypes.QualAtomic, true
	}
	return 0, false
}
