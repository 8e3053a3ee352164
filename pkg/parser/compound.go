package parser

import (
	"strings"

	"cguide/pkg/ast"
	"cguide/pkg/ctypes"
	"cguide/pkg/lexer"
	"cguide/pkg/span"
)

// declSpan builds the final span of a multi-token declaration, ending
// wherever the lexer cursor stopped.
func (p *Parser) declSpan(start span.Span, startByte, endByte int) span.Span {
	return span.Span{
		StartLine:   start.StartLine,
		StartColumn: start.StartColumn,
		EndLine:     p.lexer.Line(),
		EndColumn:   p.lexer.Column(),
		ByteStart:   startByte,
		ByteEnd:     endByte,
	}
}

// skipBalancedBraces consumes tokens until the brace that opened at
// depth 1 closes.
func (p *Parser) skipBalancedBraces() {
	depth := 1
	for depth > 0 {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenLeftBrace:
			depth++
		case lexer.TokenRightBrace:
			depth--
		case lexer.TokenEOF, lexer.TokenError:
			return
		}
	}
}

// parseStruct handles `struct ...` at item level: definitions with a
// tag, forward declarations, and anonymous struct variables.
func (p *Parser) parseStruct(startSpan span.Span) ast.Item {
	startByte := startSpan.ByteStart
	endByte := startSpan.ByteEnd
	name := ""
	var members []ast.StructMember
	parsed := false

	switch next := p.lexer.NextToken(); next.Type {
	case lexer.TokenIdentifier:
		name = next.Text

		switch after := p.lexer.NextToken(); after.Type {
		case lexer.TokenLeftBrace:
			// struct Name { ... } — members are the VarDecls of the
			// body, parsed in struct context until the closing brace.
			inner, _ := p.parseItems(ctxInStruct, false)
			for _, item := range inner {
				if member, ok := varDeclToMember(item); ok {
					members = append(members, member)
				}
			}
			for {
				tok := p.lexer.NextToken()
				if tok.Type == lexer.TokenSemicolon {
					endByte = tok.Span.ByteEnd
					break
				}
				if tok.Type == lexer.TokenEOF || tok.Type == lexer.TokenError {
					break
				}
			}
			parsed = true

		case lexer.TokenSemicolon:
			// Forward declaration: struct Foo;
			endByte = after.Span.ByteEnd
			parsed = true
		}

	case lexer.TokenLeftBrace:
		// Anonymous struct variable: struct { ... } var; The declared
		// variable name ends up as the item name. Historical behavior.
		p.skipBalancedBraces()
		for {
			tok := p.lexer.NextToken()
			if tok.Type == lexer.TokenIdentifier {
				name = tok.Text
				continue
			}
			if tok.Type == lexer.TokenSemicolon {
				endByte = tok.Span.ByteEnd
				break
			}
			if tok.Type == lexer.TokenEOF || tok.Type == lexer.TokenError {
				break
			}
		}
		parsed = true

	case lexer.TokenSemicolon:
		endByte = next.Span.ByteEnd
		parsed = true
	}

	if !parsed {
		endByte = p.skipToDeclEnd(endByte)
	}

	return &ast.StructDecl{
		Span:    p.declSpan(startSpan, startByte, endByte),
		Text:    p.lexer.Input()[startByte:endByte],
		Name:    name,
		Members: members,
		Trivia:  p.takeTrivia(),
	}
}

// parseEnum handles `enum ...` at item level, collecting enumerators
// and any variable declarators after the body.
func (p *Parser) parseEnum(startSpan span.Span) ast.Item {
	startByte := startSpan.ByteStart
	endByte := startSpan.ByteEnd
	name := ""
	var variants []ast.EnumVariant
	var variableNames []string
	parsed := false

	switch next := p.lexer.NextToken(); next.Type {
	case lexer.TokenIdentifier:
		name = next.Text

		switch after := p.lexer.NextToken(); after.Type {
		case lexer.TokenLeftBrace:
			variants = p.parseEnumVariants()
			endByte = p.readNamesToSemicolon(&variableNames, endByte)
			parsed = true
		case lexer.TokenSemicolon:
			endByte = after.Span.ByteEnd
			parsed = true
		}

	case lexer.TokenLeftBrace:
		variants = p.parseEnumVariants()
		endByte = p.readNamesToSemicolon(&variableNames, endByte)
		parsed = true
	}

	if !parsed {
		endByte = p.skipCompoundTail(&name, &variableNames, endByte)
	}

	return &ast.EnumDecl{
		Span:          p.declSpan(startSpan, startByte, endByte),
		Text:          p.lexer.Input()[startByte:endByte],
		Name:          name,
		Variants:      variants,
		VariableNames: variableNames,
		Trivia:        p.takeTrivia(),
	}
}

// parseEnumVariants reads enumerators until the closing brace. A `=`
// introduces an explicit value; its raw token text is kept.
func (p *Parser) parseEnumVariants() []ast.EnumVariant {
	var variants []ast.EnumVariant
	current := ""
	currentValue := ""
	var currentSpan span.Span
	expectValue := false

	flush := func() {
		if current != "" {
			variants = append(variants, ast.EnumVariant{
				Name:  current,
				Value: currentValue,
				Span:  currentSpan,
			})
		}
		current = ""
		currentValue = ""
	}

	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenIdentifier:
			if expectValue {
				currentValue = tok.Text
				expectValue = false
				continue
			}
			flush()
			current = tok.Text
			currentSpan = tok.Span
		case lexer.TokenNumberLiteral, lexer.TokenFloatLiteral:
			if expectValue {
				currentValue = tok.Text
				expectValue = false
			}
		case lexer.TokenEquals:
			expectValue = true
		case lexer.TokenComma:
			flush()
			expectValue = false
		case lexer.TokenRightBrace, lexer.TokenEOF, lexer.TokenError:
			flush()
			return variants
		}
	}
}

// readNamesToSemicolon collects the declarators between a closing
// brace and the terminating semicolon.
func (p *Parser) readNamesToSemicolon(names *[]string, endByte int) int {
	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenIdentifier:
			*names = append(*names, tok.Text)
		case lexer.TokenSemicolon:
			return tok.Span.ByteEnd
		case lexer.TokenEOF, lexer.TokenError:
			return endByte
		}
	}
}

// skipToDeclEnd is the recovery path: consume a declaration whose
// shape was not recognized, stopping at the semicolon that closes it
// at brace depth zero.
func (p *Parser) skipToDeclEnd(endByte int) int {
	depth := 0
	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenLeftBrace:
			depth++
		case lexer.TokenRightBrace:
			depth--
			if depth < 0 {
				return endByte
			}
		case lexer.TokenSemicolon:
			endByte = tok.Span.ByteEnd
			if depth == 0 {
				return endByte
			}
		case lexer.TokenEOF, lexer.TokenError:
			return endByte
		}
	}
}

// skipCompoundTail is recovery for enum/union declarations, keeping
// the tag and the trailing declarators found along the way.
func (p *Parser) skipCompoundTail(name *string, names *[]string, endByte int) int {
	depth := 0
	foundBrace := false
	var afterBrace []string

	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenIdentifier:
			if *name == "" && !foundBrace {
				*name = tok.Text
			} else if depth == 0 && foundBrace {
				afterBrace = append(afterBrace, tok.Text)
			}
		case lexer.TokenLeftBrace:
			depth++
			foundBrace = true
		case lexer.TokenRightBrace:
			depth--
		case lexer.TokenSemicolon:
			endByte = tok.Span.ByteEnd
			if depth == 0 {
				*names = afterBrace
				return endByte
			}
		case lexer.TokenEOF, lexer.TokenError:
			return endByte
		}
	}
}

// parseUnion handles `union ...` at item level.
func (p *Parser) parseUnion(startSpan span.Span) ast.Item {
	startByte := startSpan.ByteStart
	endByte := startSpan.ByteEnd
	name := ""
	var members []ast.StructMember
	var variableNames []string
	parsed := false

	switch next := p.lexer.NextToken(); next.Type {
	case lexer.TokenIdentifier:
		name = next.Text

		switch after := p.lexer.NextToken(); after.Type {
		case lexer.TokenLeftBrace:
			inner, _ := p.parseItems(ctxInUnion, false)
			for _, item := range inner {
				if member, ok := varDeclToMember(item); ok {
					members = append(members, member)
				}
			}
			endByte = p.readNamesToSemicolon(&variableNames, endByte)
			parsed = true
		case lexer.TokenSemicolon:
			endByte = after.Span.ByteEnd
			parsed = true
		}

	case lexer.TokenLeftBrace:
		p.skipBalancedBraces()
		endByte = p.readNamesToSemicolon(&variableNames, endByte)
		parsed = true
	}

	if !parsed {
		endByte = p.skipCompoundTail(&name, &variableNames, endByte)
	}

	return &ast.UnionDecl{
		Span:          p.declSpan(startSpan, startByte, endByte),
		Text:          p.lexer.Input()[startByte:endByte],
		Name:          name,
		Members:       members,
		VariableNames: variableNames,
		Trivia:        p.takeTrivia(),
	}
}

// parseTypedef dispatches on the token after `typedef`: struct, enum
// and union get their own item shapes; everything else is consumed to
// the semicolon as a generic typedef. All forms register their
// declared names in the type table unless the surrounding conditional
// branch is inactive.
func (p *Parser) parseTypedef(startSpan span.Span) ast.Item {
	startByte := startSpan.ByteStart
	endByte := startSpan.ByteEnd

	next := p.lexer.NextToken()
	switch next.Type {
	case lexer.TokenStruct:
		tag, names, end := p.scanTypedefTail(endByte)
		p.registerTypedefNames(names, ctypes.Type{Base: ctypes.BaseStruct, Tag: tag})
		return &ast.StructDecl{
			Span:         p.declSpan(startSpan, startByte, end),
			Text:         p.lexer.Input()[startByte:end],
			Name:         tag,
			HasTypedef:   true,
			TypedefNames: names,
			Trivia:       p.takeTrivia(),
		}

	case lexer.TokenEnum:
		tag, names, end := p.scanTypedefTail(endByte)
		p.registerTypedefNames(names, ctypes.Type{Base: ctypes.BaseEnum, Tag: tag})
		return &ast.EnumDecl{
			Span:          p.declSpan(startSpan, startByte, end),
			Text:          p.lexer.Input()[startByte:end],
			Name:          tag,
			HasTypedef:    true,
			VariableNames: names,
			Trivia:        p.takeTrivia(),
		}

	case lexer.TokenUnion:
		tag, names, end := p.scanTypedefTail(endByte)
		p.registerTypedefNames(names, ctypes.Type{Base: ctypes.BaseUnion, Tag: tag})
		return &ast.UnionDecl{
			Span:          p.declSpan(startSpan, startByte, end),
			Text:          p.lexer.Input()[startByte:end],
			Name:          tag,
			HasTypedef:    true,
			VariableNames: names,
			Trivia:        p.takeTrivia(),
		}

	default:
		// Generic typedef: every identifier that is not the leading
		// base-type reference becomes a declared name.
		var names []string
		leadingIdent := ""
		if next.Type == lexer.TokenIdentifier {
			leadingIdent = next.Text
		}
		for tok := next; ; tok = p.lexer.NextToken() {
			if tok.Type == lexer.TokenSemicolon {
				endByte = tok.Span.ByteEnd
				break
			}
			if tok.Type == lexer.TokenEOF || tok.Type == lexer.TokenError {
				break
			}
			if tok.Type == lexer.TokenIdentifier && tok.Text != leadingIdent {
				names = append(names, tok.Text)
			}
		}

		text := p.lexer.Input()[startByte:endByte]
		p.registerTypedefNames(names, p.typedefBaseType(text, leadingIdent))
		return &ast.TypedefDecl{
			Span:   p.declSpan(startSpan, startByte, endByte),
			Text:   text,
			Trivia: p.takeTrivia(),
		}
	}
}

// scanTypedefTail consumes a typedef struct/enum/union body. The tag
// is the identifier before the brace; the declared names are the
// identifiers after the closing brace (or after the tag when there is
// no body at all, as in `typedef struct Foo Bar;`).
func (p *Parser) scanTypedefTail(endByte int) (tag string, names []string, end int) {
	depth := 0
	foundBrace := false
	end = endByte

	for {
		tok := p.lexer.NextToken()
		switch tok.Type {
		case lexer.TokenIdentifier:
			switch {
			case tag == "" && !foundBrace:
				tag = tok.Text
			case depth == 0:
				names = append(names, tok.Text)
			}
		case lexer.TokenLeftBrace:
			depth++
			foundBrace = true
		case lexer.TokenRightBrace:
			depth--
		case lexer.TokenSemicolon:
			end = tok.Span.ByteEnd
			if depth == 0 {
				return tag, names, end
			}
		case lexer.TokenEOF, lexer.TokenError:
			return tag, names, end
		}
	}
}

// typedefBaseType resolves the underlying type of a generic typedef
// from its raw text, falling back to a table lookup when the typedef
// aliases another typedef name.
func (p *Parser) typedefBaseType(text, leadingIdent string) ctypes.Type {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "typedef"))
	if typ := ParseTypeFromSource(body); typ != nil {
		return *typ
	}
	if leadingIdent != "" {
		if typ, ok := p.types.Lookup(leadingIdent); ok {
			return typ
		}
	}
	return ctypes.Int()
}

// registerTypedefNames stores the declared names unless typedef
// registration is suppressed for the current conditional branch.
func (p *Parser) registerTypedefNames(names []string, typ ctypes.Type) {
	if !p.registerTypes {
		return
	}
	for _, name := range names {
		p.types.Register(name, typ)
	}
}

// varDeclToMember converts a body item into a struct/union member.
func varDeclToMember(item ast.Item) (ast.StructMember, bool) {
	decl, ok := item.(*ast.VarDecl)
	if !ok {
		return ast.StructMember{}, false
	}
	return ast.StructMember{
		Name: decl.VarName,
		Text: decl.Text,
		Type: decl.VarType,
		Span: decl.Span,
	}, true
}
