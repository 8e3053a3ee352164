// Package formatter re-emits a parsed translation unit as source
// text, optionally inserting the standard file header and converting
// the indentation style.
package formatter

import (
	"strings"

	"cguide/pkg/ast"
)

// FileHeaderTemplate is the header block inserted when a file lacks
// one. The fields match what the header diagnostic looks for.
const FileHeaderTemplate = `/************************************************************
 * Author  :
 * Date    :
 * Purpose :
 ************************************************************/
`

// Options controls formatting.
type Options struct {
	// AddHeader inserts FileHeaderTemplate when the file has no
	// header comment.
	AddHeader bool

	// UseTabs converts each leading run of four spaces to a tab.
	UseTabs bool

	// UseTypeInfo renders uninitialized variable declarations from
	// their parsed type instead of the raw text.
	UseTypeInfo bool
}

// Format emits the translation unit as source text. Items are
// re-emitted from their raw text with comments reattached;
// conditional chains are rebuilt from their directive type and
// condition.
func Format(tu *ast.TranslationUnit, opts Options) string {
	var out strings.Builder

	if opts.AddHeader && !hasFileHeader(tu) {
		out.WriteString(FileHeaderTemplate)
		out.WriteByte('\n')
	}
	for _, comment := range tu.LeadingTrivia.Leading {
		writeComment(&out, comment)
	}

	writeItems(&out, tu.Items, opts)

	text := out.String()
	if opts.UseTabs {
		text = spacesToTabs(text)
	}
	return text
}

// Original reconstructs the source by concatenating item text
// verbatim, with conditional directives rebuilt from the tree.
func Original(tu *ast.TranslationUnit) string {
	var out strings.Builder
	writeItems(&out, tu.Items, Options{})
	return out.String()
}

func writeItems(out *strings.Builder, items []ast.Item, opts Options) {
	for _, it := range items {
		if trivia := ast.ItemTrivia(it); trivia != nil {
			for _, comment := range trivia.Leading {
				writeComment(out, comment)
			}
		}

		if block, ok := it.(*ast.ConditionalBlock); ok {
			writeConditional(out, block, opts)
			continue
		}

		if opts.UseTypeInfo {
			if v, ok := it.(*ast.VarDecl); ok && v.VarType != nil && !v.HasInitializer {
				out.WriteString(v.VarType.String())
				out.WriteByte(' ')
				out.WriteString(v.VarName)
				out.WriteString(";\n")
				continue
			}
		}

		text := strings.TrimRight(ast.ItemText(it), "\n")
		if text == "" {
			continue
		}
		out.WriteString(text)
		out.WriteByte('\n')
	}
}

// writeConditional rebuilds the directive line and recurses into the
// branch items. The zero-item endif marker the parser records becomes
// the closing #endif line, so unterminated chains stay unterminated.
func writeConditional(out *strings.Builder, block *ast.ConditionalBlock, opts Options) {
	out.WriteByte('#')
	out.WriteString(block.DirectiveType)
	if block.Condition != "" {
		out.WriteByte(' ')
		out.WriteString(block.Condition)
	}
	out.WriteByte('\n')
	writeItems(out, block.Items, opts)
}

func writeComment(out *strings.Builder, comment ast.Comment) {
	out.WriteString(comment.Text)
	out.WriteByte('\n')
}

// hasFileHeader mirrors the header diagnostic's matching. The header
// comment may be attached to the unit or to the first item.
func hasFileHeader(tu *ast.TranslationUnit) bool {
	comments := tu.LeadingTrivia.Leading
	if len(tu.Items) > 0 {
		if trivia := ast.ItemTrivia(tu.Items[0]); trivia != nil {
			comments = append(comments, trivia.Leading...)
		}
	}
	for _, comment := range comments {
		if !comment.IsBlock() {
			continue
		}
		body := strings.ToLower(comment.Text)
		hasAuthor := strings.Contains(body, "author") || strings.Contains(body, "auther")
		if hasAuthor && strings.Contains(body, "date") && strings.Contains(body, "purpose") {
			return true
		}
	}
	return false
}

// spacesToTabs converts each leading four-space run on every line.
func spacesToTabs(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		depth := 0
		for strings.HasPrefix(line, "    ") {
			depth++
			line = line[4:]
		}
		if depth > 0 {
			lines[i] = strings.Repeat("\t", depth) + line
		}
	}
	return strings.Join(lines, "\n")
}
