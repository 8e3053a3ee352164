package parser

import (
	"strings"

	"cguide/pkg/ast"
	"cguide/pkg/span"
)

// parseConditionalBlock parses everything between an opening
// #ifdef/#ifndef/#if and the #endif that closes the chain. An #elif
// continuation recurses and becomes the last child of this block; an
// #else becomes a nested block followed by a zero-item "endif"
// marker. A chain cut off by end of input keeps its start span as the
// end span.
//
// chainTaken says whether an earlier branch of the same chain was
// active; it gates typedef registration, never the tree shape.
func (p *Parser) parseConditionalBlock(ctx parseContext, startSpan span.Span, directiveType string, chainTaken bool) ast.Item {
	condition := p.extractCondition(startSpan)

	parentActive := p.registerTypes
	active := parentActive && !chainTaken && p.branchActive(directiveType, condition)

	p.registerTypes = active
	blockItems, stop := p.parseItems(ctx, true)
	p.registerTypes = parentActive

	switch stop.kind {
	case stopElif:
		elifItem := p.parseConditionalBlock(ctx, stop.span, "elif", chainTaken || active)
		endSpan := startSpan
		if elif, ok := elifItem.(*ast.ConditionalBlock); ok {
			endSpan = elif.EndSpan
		}
		blockItems = append(blockItems, elifItem)
		return &ast.ConditionalBlock{
			DirectiveType: directiveType,
			Condition:     condition,
			Items:         blockItems,
			StartSpan:     startSpan,
			EndSpan:       endSpan,
		}

	case stopElse:
		elseActive := parentActive && !chainTaken && !active
		p.registerTypes = elseActive
		elseItems, endReason := p.parseItems(ctx, true)
		p.registerTypes = parentActive

		endSpan := stop.span
		if endReason.kind == stopEndif {
			endSpan = endReason.span
		}
		blockItems = append(blockItems,
			&ast.ConditionalBlock{
				DirectiveType: "else",
				Items:         elseItems,
				StartSpan:     stop.span,
				EndSpan:       endSpan,
			},
			endifMarker(endSpan),
		)
		return &ast.ConditionalBlock{
			DirectiveType: directiveType,
			Condition:     condition,
			Items:         blockItems,
			StartSpan:     startSpan,
			EndSpan:       endSpan,
		}

	case stopEndif:
		blockItems = append(blockItems, endifMarker(stop.span))
		return &ast.ConditionalBlock{
			DirectiveType: directiveType,
			Condition:     condition,
			Items:         blockItems,
			StartSpan:     startSpan,
			EndSpan:       stop.span,
		}

	default:
		// Unterminated chain: degrade the end span to the start span.
		return &ast.ConditionalBlock{
			DirectiveType: directiveType,
			Condition:     condition,
			Items:         blockItems,
			StartSpan:     startSpan,
			EndSpan:       startSpan,
		}
	}
}

// endifMarker is the zero-item block recorded where an #endif closed
// a chain.
func endifMarker(at span.Span) *ast.ConditionalBlock {
	return &ast.ConditionalBlock{
		DirectiveType: "endif",
		StartSpan:     at,
		EndSpan:       at,
	}
}

// extractCondition pulls the condition text back out of a directive's
// raw span: `#ifdef DEBUG\n` yields `DEBUG`. Line continuations and
// the blanks around them collapse to single spaces.
func (p *Parser) extractCondition(directiveSpan span.Span) string {
	text := directiveSpan.Text(p.lexer.Input())
	text = strings.ReplaceAll(text, "\\\r\n", " ")
	text = strings.ReplaceAll(text, "\\\n", " ")
	text = strings.Join(strings.Fields(text), " ")
	content := strings.TrimSpace(strings.TrimLeft(text, "#"))

	for _, keyword := range []string{"ifdef", "ifndef", "elif", "if"} {
		if rest, ok := strings.CutPrefix(content, keyword); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// branchActive asks the preprocessor configuration whether a branch's
// typedefs should land in the type table. Without a configuration
// every branch counts as active.
func (p *Parser) branchActive(directiveType, condition string) bool {
	if p.pre == nil {
		return true
	}
	switch directiveType {
	case "ifdef":
		return p.pre.MacroDefined(condition)
	case "ifndef":
		return !p.pre.MacroDefined(condition)
	case "if", "elif":
		return p.evalCondition(condition)
	}
	return true
}

// evalCondition is a best-effort check for #if/#elif conditions. It
// understands defined(X), !defined(X), bare macro names and the 0/1
// constants; anything it cannot evaluate counts as active so typedefs
// are not silently lost.
func (p *Parser) evalCondition(condition string) bool {
	cond := strings.TrimSpace(condition)

	negated := false
	if rest, ok := strings.CutPrefix(cond, "!"); ok {
		negated = true
		cond = strings.TrimSpace(rest)
	}

	if rest, ok := strings.CutPrefix(cond, "defined"); ok {
		name := strings.TrimSpace(rest)
		name = strings.TrimPrefix(name, "(")
		name = strings.TrimSuffix(strings.TrimSpace(name), ")")
		result := p.pre.MacroDefined(strings.TrimSpace(name))
		if negated {
			return !result
		}
		return result
	}

	switch cond {
	case "0":
		return negated
	case "1":
		return !negated
	}

	if isMacroName(cond) {
		result := p.pre.MacroDefined(cond)
		if negated {
			return !result
		}
		return result
	}
	return true
}

func isMacroName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isAlpha && !(i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
