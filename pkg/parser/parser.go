// Package parser builds the declaration-level item tree for a C
// source file. It consumes tokens straight from the lexer, keeps a
// typedef table so later casts can be disambiguated, and records
// conditional-compilation blocks without evaluating them unless a
// preprocessor configuration is supplied.
package parser

import (
	"strings"

	"cguide/pkg/ast"
	"cguide/pkg/ctypes"
	"cguide/pkg/lexer"
	"cguide/pkg/span"
)

// parseContext tracks what kind of body the item loop is inside.
type parseContext int

const (
	ctxTopLevel parseContext = iota
	ctxInStruct
	ctxInUnion
)

// stopKind says why parseItems returned.
type stopKind int

const (
	stopEOF stopKind = iota
	stopElif
	stopElse
	stopEndif
)

type stopReason struct {
	kind stopKind
	span span.Span
}

// Parser turns a token stream into a TranslationUnit. A parser is
// good for one Parse call; create a new one per source buffer.
type Parser struct {
	lexer   *lexer.Lexer
	pending []ast.Comment

	types *ctypes.TypeTable
	pre   *Preprocessor
	// registerTypes is cleared while parsing conditional branches the
	// preprocessor config rules out, so their typedefs are discarded.
	registerTypes bool

	fileDir      string
	includeDepth int
}

// New creates a parser without preprocessor evaluation: every
// conditional branch contributes its typedefs.
func New(lx *lexer.Lexer) *Parser {
	return &Parser{
		lexer:         lx,
		types:         ctypes.NewTypeTable(),
		registerTypes: true,
	}
}

// NewWithConfig creates a parser whose conditional branches and
// includes are resolved through the given preprocessor configuration.
func NewWithConfig(lx *lexer.Lexer, pre Preprocessor) *Parser {
	p := New(lx)
	p.pre = &pre
	return p
}

// TypeTable exposes the typedef table populated during Parse.
func (p *Parser) TypeTable() *ctypes.TypeTable {
	return p.types
}

// SetCurrentFileDir sets the directory quoted includes are resolved
// against.
func (p *Parser) SetCurrentFileDir(dir string) {
	p.fileDir = dir
}

// Parse consumes the whole token stream and returns the item tree.
// Parsing never fails: unrecognized constructs are skipped silently.
func (p *Parser) Parse() *ast.TranslationUnit {
	items, _ := p.parseItems(ctxTopLevel, false)
	tu := &ast.TranslationUnit{Items: items}

	// Comments that never found an item to lead stay on the unit
	// itself; for comment-only files that is the file header.
	if len(p.pending) > 0 {
		tu.LeadingTrivia = ast.Trivia{Leading: p.pending}
		p.pending = nil
	}
	return tu
}

// parseItems runs the item loop until end of input, a closing brace
// (inside struct/union/enum bodies), or a conditional-compilation
// boundary when stopAtEndif is set.
func (p *Parser) parseItems(ctx parseContext, stopAtEndif bool) ([]ast.Item, stopReason) {
	var items []ast.Item

	for {
		tok := p.lexer.NextToken()
		if tok.Type == lexer.TokenEOF || tok.Type == lexer.TokenError {
			break
		}

		if ctx != ctxTopLevel && tok.Type == lexer.TokenRightBrace {
			return items, stopReason{kind: stopEOF}
		}

		switch tok.Type {
		case lexer.TokenBlockComment:
			p.pending = append(p.pending, ast.Comment{
				Kind: ast.BlockComment,
				Text: tok.Span.Text(p.lexer.Input()),
				Span: tok.Span,
			})

		case lexer.TokenLineComment:
			p.pending = append(p.pending, ast.Comment{
				Kind: ast.LineComment,
				Text: tok.Span.Text(p.lexer.Input()),
				Span: tok.Span,
			})

		case lexer.TokenInclude:
			items = append(items, &ast.Include{
				Span:     tok.Span,
				Text:     tok.Span.Text(p.lexer.Input()),
				Filename: tok.Filename,
				Trivia:   p.takeTrivia(),
			})
			p.processInclude(tok.Filename)

		case lexer.TokenDefine:
			items = append(items, &ast.Define{
				Span:       tok.Span,
				Text:       tok.Span.Text(p.lexer.Input()),
				MacroName:  tok.MacroName,
				MacroValue: tok.MacroValue,
				Trivia:     p.takeTrivia(),
			})

		case lexer.TokenIfdef:
			items = append(items, p.parseConditionalBlock(ctx, tok.Span, "ifdef", false))
		case lexer.TokenIfndef:
			items = append(items, p.parseConditionalBlock(ctx, tok.Span, "ifndef", false))
		case lexer.TokenIf:
			items = append(items, p.parseConditionalBlock(ctx, tok.Span, "if", false))

		case lexer.TokenElif:
			if stopAtEndif {
				return items, stopReason{kind: stopElif, span: tok.Span}
			}
			// Stray #elif without an open block: ignore.

		case lexer.TokenElse:
			if stopAtEndif {
				return items, stopReason{kind: stopElse, span: tok.Span}
			}

		case lexer.TokenEndif:
			if stopAtEndif {
				return items, stopReason{kind: stopEndif, span: tok.Span}
			}

		case lexer.TokenAuto, lexer.TokenRegister, lexer.TokenStatic, lexer.TokenExtern,
			lexer.TokenConst, lexer.TokenVolatile, lexer.TokenRestrict, lexer.TokenAtomic,
			lexer.TokenVoid, lexer.TokenChar, lexer.TokenShort, lexer.TokenInt,
			lexer.TokenLong, lexer.TokenFloat, lexer.TokenDouble, lexer.TokenSigned,
			lexer.TokenUnsigned, lexer.TokenBool:
			items = append(items, p.scanDeclaration(tok.Span, ""))

		case lexer.TokenIdentifier:
			// A registered typedef name can open a declaration just
			// like a type keyword. Anything else is skipped.
			if p.types.IsTypeName(tok.Text) {
				items = append(items, p.scanDeclaration(tok.Span, tok.Text))
			}

		case lexer.TokenStruct:
			items = append(items, p.parseStruct(tok.Span))
		case lexer.TokenEnum:
			items = append(items, p.parseEnum(tok.Span))
		case lexer.TokenUnion:
			items = append(items, p.parseUnion(tok.Span))
		case lexer.TokenTypedef:
			items = append(items, p.parseTypedef(tok.Span))
		}
	}

	return items, stopReason{kind: stopEOF}
}

// scanDeclaration consumes a variable or function declaration that
// started at startSpan. typeName is the typedef name that opened the
// declaration, or empty when a keyword did.
func (p *Parser) scanDeclaration(startSpan span.Span, typeName string) ast.Item {
	startByte := startSpan.ByteStart
	endByte := startSpan.ByteEnd
	varName := ""
	hasInitializer := false
	isFunction := false
	functionName := ""
	functionNameStart := 0
	paramsStart, paramsEnd := 0, 0

scan:
	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenIdentifier:
			varName = tok.Text
			functionName = tok.Text
			functionNameStart = tok.Span.ByteStart
			endByte = tok.Span.ByteEnd

		case lexer.TokenLeftParen:
			isFunction = true
			paramsStart = tok.Span.ByteStart
			depth := 1
			for depth > 0 {
				inner := p.lexer.NextToken()
				switch inner.Type {
				case lexer.TokenLeftParen:
					depth++
				case lexer.TokenRightParen:
					depth--
					paramsEnd = inner.Span.ByteEnd
					endByte = inner.Span.ByteEnd
				case lexer.TokenEOF, lexer.TokenError:
					depth = 0
				}
			}

		case lexer.TokenLeftBrace:
			if !isFunction {
				continue
			}
			// Function body: skip as opaque balanced-brace text. Local
			// typedefs inside are invisible by contract.
			depth := 1
			for depth > 0 {
				inner := p.lexer.NextToken()
				switch inner.Type {
				case lexer.TokenLeftBrace:
					depth++
				case lexer.TokenRightBrace:
					depth--
					endByte = inner.Span.ByteEnd
				case lexer.TokenEOF, lexer.TokenError:
					depth = 0
				}
			}
			break scan

		case lexer.TokenEquals:
			hasInitializer = true
			endByte = tok.Span.ByteEnd

		case lexer.TokenSemicolon:
			endByte = tok.Span.ByteEnd
			break scan

		case lexer.TokenEOF, lexer.TokenError:
			break scan
		}
	}

	text := p.lexer.Input()[startByte:endByte]
	finalSpan := span.Span{
		StartLine:   startSpan.StartLine,
		StartColumn: startSpan.StartColumn,
		EndLine:     p.lexer.Line(),
		EndColumn:   p.lexer.Column(),
		ByteStart:   startByte,
		ByteEnd:     endByte,
	}

	if isFunction {
		prefix := strings.TrimSpace(p.lexer.Input()[startByte:functionNameStart])
		storageClass := ""
		if fields := strings.Fields(prefix); len(fields) > 0 {
			if fields[0] == "static" || fields[0] == "extern" {
				storageClass = fields[0]
			}
		}
		returnType := prefix
		if storageClass != "" {
			returnType = strings.TrimSpace(strings.TrimPrefix(prefix, storageClass))
		}

		return &ast.FunctionDecl{
			Span:         finalSpan,
			Text:         text,
			Name:         functionName,
			ReturnType:   returnType,
			Parameters:   p.lexer.Input()[paramsStart:paramsEnd],
			StorageClass: storageClass,
			Trivia:       p.takeTrivia(),
		}
	}

	return &ast.VarDecl{
		Span:           finalSpan,
		Text:           text,
		VarName:        varName,
		HasInitializer: hasInitializer,
		VarType:        p.resolveDeclType(strings.TrimSpace(text), typeName),
		Trivia:         p.takeTrivia(),
	}
}

// resolveDeclType re-parses a declaration's text for its type. When
// the declaration opened with a typedef name the table supplies the
// type instead.
func (p *Parser) resolveDeclType(declText, typeName string) *ctypes.Type {
	if typeName != "" {
		if typ, ok := p.types.Lookup(typeName); ok {
			return &typ
		}
		return nil
	}
	return ParseTypeFromSource(declText)
}

// takeTrivia moves the buffered comments onto the item being built.
func (p *Parser) takeTrivia() ast.Trivia {
	if len(p.pending) == 0 {
		return ast.Trivia{}
	}
	trivia := ast.Trivia{Leading: p.pending}
	p.pending = nil
	return trivia
}
