package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cguide/pkg/ast"
	"cguide/pkg/span"
)

// checkFileHeader wants a leading block comment naming an author, a
// date and a purpose. Field matching is case-insensitive and tolerates
// the common "auther" misspelling.
func (c *checker) checkFileHeader(tu *ast.TranslationUnit) {
	for _, comment := range leadingComments(tu) {
		if !comment.IsBlock() {
			continue
		}
		body := strings.ToLower(comment.Text)
		hasAuthor := strings.Contains(body, "author") || strings.Contains(body, "auther")
		hasDate := strings.Contains(body, "date")
		hasPurpose := strings.Contains(body, "purpose")
		if hasAuthor && hasDate && hasPurpose {
			return
		}
	}
	c.report(span.Span{}, SeverityWarning, "CGH001",
		"file must start with a header comment naming the author, date and purpose")
}

// leadingComments collects the comments at the top of the file: those
// attached to the unit itself plus the ones leading the first item.
func leadingComments(tu *ast.TranslationUnit) []ast.Comment {
	comments := tu.LeadingTrivia.Leading
	if len(tu.Items) > 0 {
		if trivia := ast.ItemTrivia(tu.Items[0]); trivia != nil {
			comments = append(comments, trivia.Leading...)
		}
	}
	return comments
}

// checkFunctionFormat wants the storage class, return type, function
// name and opening brace each on their own line.
func (c *checker) checkFunctionFormat(fn *ast.FunctionDecl) {
	if fn.Name == "" {
		return
	}
	lines := strings.Split(fn.Text, "\n")
	nameIdx := -1
	for i, line := range lines {
		if strings.Contains(line, fn.Name+"(") || strings.Contains(line, fn.Name+" (") {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return
	}

	nameLine := lines[nameIdx]
	before := strings.TrimSpace(nameLine[:strings.Index(nameLine, fn.Name)])
	if before != "" {
		c.report(fn.Span, SeverityWarning, "CGH002",
			fmt.Sprintf("function '%s': return type and storage class should be on separate lines above the function name", fn.Name))
	}

	if strings.Contains(nameLine, "{") {
		c.report(fn.Span, SeverityWarning, "CGH002",
			fmt.Sprintf("function '%s': opening brace should be on its own line", fn.Name))
	}
}

// checkStorageClassOrder wants static/extern to lead the declaration,
// never to trail the type.
func (c *checker) checkStorageClassOrder(text string, sp span.Span) {
	trimmed := strings.TrimSpace(text)
	for _, keyword := range []string{"static", "extern"} {
		idx := indexWord(trimmed, keyword)
		if idx > 0 {
			c.report(sp, SeverityWarning, "CGH003",
				fmt.Sprintf("storage class '%s' should come first in the declaration", keyword))
			return
		}
	}
}

// indexWord finds keyword as a whole word, or -1.
func indexWord(text, keyword string) int {
	for from := 0; ; {
		idx := strings.Index(text[from:], keyword)
		if idx < 0 {
			return -1
		}
		idx += from
		beforeOK := idx == 0 || !isWordByte(text[idx-1])
		end := idx + len(keyword)
		afterOK := end >= len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + len(keyword)
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// checkMacroParens wants object-like macro values that are compound
// expressions to be wrapped in parentheses.
func (c *checker) checkMacroParens(def *ast.Define) {
	value := strings.TrimSpace(def.MacroValue)
	if value == "" || !isCompoundValue(value) {
		return
	}
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		return
	}
	c.report(def.Span, SeverityWarning, "CGH005",
		fmt.Sprintf("macro '%s' value should be parenthesized: (%s)", def.MacroName, value))
}

// isCompoundValue reports whether a macro value is more than a single
// literal or identifier. A leading sign alone does not count.
func isCompoundValue(value string) bool {
	for i := 1; i < len(value); i++ {
		switch value[i] {
		case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '!', '?', ' ', '\t':
			return true
		}
	}
	return false
}

// checkGlobalNaming wants file-scope variable names in
// UPPER_SNAKE_CASE.
func (c *checker) checkGlobalNaming(v *ast.VarDecl) {
	name := v.VarName
	if name == "" || isUpperSnake(name) {
		return
	}
	c.report(v.Span, SeverityWarning, "CGH006",
		fmt.Sprintf("global variable '%s' should be UPPER_SNAKE_CASE, e.g. '%s'", name, toUpperSnake(name)))
}

func isUpperSnake(name string) bool {
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'A' && b <= 'Z' || b == '_' || i > 0 && b >= '0' && b <= '9' {
			continue
		}
		return false
	}
	return true
}

// toUpperSnake converts camelCase and mixed names to the wanted form.
func toUpperSnake(name string) string {
	var out strings.Builder
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'A' && b <= 'Z' && i > 0 {
			prev := name[i-1]
			if prev >= 'a' && prev <= 'z' || prev >= '0' && prev <= '9' {
				out.WriteByte('_')
			}
		}
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		out.WriteByte(b)
	}
	return out.String()
}

// checkGlobalTypePrefix wants globals declared with a typedef name to
// carry that name as a prefix: a VU8 global is named VU8_something.
func (c *checker) checkGlobalTypePrefix(v *ast.VarDecl) {
	typeName := leadingTypedefName(v.Text)
	if typeName == "" || v.VarName == "" {
		return
	}
	prefix := typeName + "_"
	if strings.HasPrefix(v.VarName, prefix) {
		return
	}
	c.report(v.Span, SeverityWarning, "CGH007",
		fmt.Sprintf("global variable '%s' of type '%s' should carry the '%s' prefix", v.VarName, typeName, prefix))
}

// checkLocalTypePrefix scans the opaque function body for locals
// declared with a typedef name and wants the lowercased suffix prefix:
// a VU8 local is named u8_something.
func (c *checker) checkLocalTypePrefix(fn *ast.FunctionDecl) {
	body := fn.Text
	braceIdx := strings.IndexByte(body, '{')
	if braceIdx < 0 {
		return
	}
	for _, line := range strings.Split(body[braceIdx+1:], "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		typeName := fields[0]
		if !looksLikeTypedefName(typeName) {
			continue
		}
		varName := strings.TrimRight(fields[1], ";=")
		if varName == "" || !isIdentifier(varName) {
			continue
		}
		prefix := localPrefix(typeName)
		if strings.HasPrefix(varName, prefix) {
			continue
		}
		c.report(fn.Span, SeverityWarning, "CGH010",
			fmt.Sprintf("local variable '%s' of type '%s' should carry the '%s' prefix", varName, typeName, prefix))
	}
}

// localPrefix derives the wanted local prefix from a typedef name by
// dropping the leading character and lowercasing: VU8 gives u8_.
func localPrefix(typeName string) string {
	if len(typeName) < 2 {
		return strings.ToLower(typeName) + "_"
	}
	return strings.ToLower(typeName[1:]) + "_"
}

// leadingTypedefName returns the first word of a declaration when it
// is a typedef-style name rather than a builtin type keyword.
func leadingTypedefName(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	for _, field := range fields {
		switch field {
		case "static", "extern", "const", "volatile", "restrict", "_Atomic":
			continue
		}
		if looksLikeTypedefName(field) {
			return field
		}
		return ""
	}
	return ""
}

// looksLikeTypedefName accepts capitalized identifiers that are not C
// keywords.
func looksLikeTypedefName(name string) bool {
	if name == "" || !isIdentifier(name) {
		return false
	}
	switch name {
	case "void", "char", "short", "int", "long", "float", "double",
		"signed", "unsigned", "struct", "union", "enum", "_Bool", "_Atomic":
		return false
	}
	return name[0] >= 'A' && name[0] <= 'Z'
}

func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || i > 0 && b >= '0' && b <= '9' {
			continue
		}
		return false
	}
	return s != ""
}

// checkDirectiveIndent wants preprocessor directives to start in
// column zero.
func (c *checker) checkDirectiveIndent(sp span.Span) {
	if sp.StartColumn == 0 {
		return
	}
	c.report(sp, SeverityWarning, "CGH008",
		fmt.Sprintf("preprocessor directive indented by %d columns; directives should start in column 0", sp.StartColumn))
}

// checkIndentStyle verifies each indented source line against the
// configured style.
func (c *checker) checkIndentStyle() {
	wantTabs := c.cfg.IndentStyle == "tabs"
	for lineNo, line := range strings.Split(c.source, "\n") {
		if line == "" {
			continue
		}
		switch line[0] {
		case '\t':
			if !wantTabs {
				c.report(lineSpan(lineNo), SeverityWarning, "CGH009",
					"line indented with tabs; configured indent style is spaces")
			}
		case ' ':
			if wantTabs {
				c.report(lineSpan(lineNo), SeverityWarning, "CGH009",
					"line indented with spaces; configured indent style is tabs")
			}
		}
	}
}

func lineSpan(line int) span.Span {
	return span.Span{StartLine: line, EndLine: line}
}

// checkProjectStructure wants include/ and src/ directories under the
// project root.
func (c *checker) checkProjectStructure() {
	if !dirExists(filepath.Join(c.cfg.ProjectRoot, "include")) {
		c.report(span.Span{}, SeverityWarning, "CGH011",
			"project is missing an include/ directory for public headers")
	}
	if !dirExists(filepath.Join(c.cfg.ProjectRoot, "src")) {
		c.report(span.Span{}, SeverityWarning, "CGH012",
			"project is missing a src/ directory for implementation files")
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// checkVoidVariable flags plain void variables; void pointers are
// fine.
func (c *checker) checkVoidVariable(v *ast.VarDecl) {
	if v.VarType == nil || !v.VarType.IsVoid() || v.VarType.IsPointer() {
		return
	}
	c.report(v.Span, SeverityError, "CGH101",
		fmt.Sprintf("variable '%s' cannot have type void", v.VarName))
}

func (c *checker) checkMemberTypes(members []ast.StructMember, declSpan span.Span) {
	for _, m := range members {
		if m.Type == nil || !m.Type.IsVoid() || m.Type.IsPointer() {
			continue
		}
		sp := m.Span
		if sp == (span.Span{}) {
			sp = declSpan
		}
		c.report(sp, SeverityError, "CGH101",
			fmt.Sprintf("member '%s' cannot have type void", m.Name))
	}
}

// checkPointerDepth flags triple and deeper pointers.
func (c *checker) checkPointerDepth(v *ast.VarDecl) {
	if v.VarType == nil || v.VarType.PointerDepth() < 3 {
		return
	}
	c.report(v.Span, SeverityWarning, "CGH102",
		fmt.Sprintf("variable '%s' has pointer depth %d; more than two levels of indirection is hard to follow", v.VarName, v.VarType.PointerDepth()))
}
