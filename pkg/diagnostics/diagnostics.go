// Package diagnostics runs coding guideline checks over a parsed
// translation unit and reports findings with source spans. Each rule
// has a stable CGH code and can be toggled from the project config.
package diagnostics

import (
	gitignore "github.com/sabhiram/go-gitignore"

	"cguide/pkg/ast"
	"cguide/pkg/span"
)

// Severity ranks a finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
	SeverityHint
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	case SeverityHint:
		return "hint"
	}
	return "unknown"
}

// Diagnostic is one finding against the source file.
type Diagnostic struct {
	Span     span.Span `json:"span" yaml:"span"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Code     string    `json:"code" yaml:"code"`
	Message  string    `json:"message" yaml:"message"`
}

// Config selects which rules run and carries the context some rules
// need (project root, source path, indent settings).
type Config struct {
	CheckFileHeader         bool // CGH001
	CheckFunctionFormat     bool // CGH002
	CheckStorageClassOrder  bool // CGH003
	CheckMacroParens        bool // CGH005
	CheckGlobalNaming       bool // CGH006
	CheckGlobalTypePrefix   bool // CGH007
	CheckPreprocessorIndent bool // CGH008
	CheckIndentStyle        bool // CGH009
	CheckLocalTypePrefix    bool // CGH010
	CheckProjectStructure   bool // CGH011, CGH012
	CheckVoidVariables      bool // CGH101
	CheckPointerDepth       bool // CGH102

	// IndentStyle is "spaces" or "tabs"; IndentWidth applies to the
	// spaces style.
	IndentStyle string
	IndentWidth int

	// ProjectRoot enables the project layout checks when set.
	ProjectRoot string

	// SourcePath identifies the file being checked, matched against
	// ExcludePaths with gitignore semantics.
	SourcePath   string
	ExcludePaths []string
}

// DefaultConfig enables the broadly applicable rules. The prefix and
// indent style rules are opt-in since they encode local conventions.
func DefaultConfig() Config {
	return Config{
		CheckFileHeader:         true,
		CheckFunctionFormat:     true,
		CheckStorageClassOrder:  true,
		CheckMacroParens:        true,
		CheckGlobalNaming:       true,
		CheckPreprocessorIndent: true,
		CheckProjectStructure:   true,
		CheckVoidVariables:      true,
		CheckPointerDepth:       true,
		IndentStyle:             "spaces",
		IndentWidth:             4,
	}
}

type checker struct {
	cfg    Config
	source string
	diags  []Diagnostic
}

// Diagnose runs the configured rules over the translation unit.
func Diagnose(tu *ast.TranslationUnit, cfg Config) []Diagnostic {
	return DiagnoseWithSource(tu, cfg, "")
}

// DiagnoseWithSource additionally receives the raw source text, which
// the indent style rule needs.
func DiagnoseWithSource(tu *ast.TranslationUnit, cfg Config, source string) []Diagnostic {
	if excluded(cfg) {
		return nil
	}

	c := &checker{cfg: cfg, source: source}

	if cfg.CheckFileHeader {
		c.checkFileHeader(tu)
	}
	if cfg.CheckProjectStructure && cfg.ProjectRoot != "" {
		c.checkProjectStructure()
	}
	if cfg.CheckIndentStyle && source != "" {
		c.checkIndentStyle()
	}

	c.checkItems(tu.Items)
	return c.diags
}

func excluded(cfg Config) bool {
	if cfg.SourcePath == "" || len(cfg.ExcludePaths) == 0 {
		return false
	}
	matcher := gitignore.CompileIgnoreLines(cfg.ExcludePaths...)
	return matcher.MatchesPath(cfg.SourcePath)
}

// checkItems dispatches the per-item rules, descending into
// conditional blocks so declarations inside #ifdef regions are still
// checked.
func (c *checker) checkItems(items []ast.Item) {
	for _, it := range items {
		switch v := it.(type) {
		case *ast.Include:
			if c.cfg.CheckPreprocessorIndent {
				c.checkDirectiveIndent(v.Span)
			}
		case *ast.Define:
			if c.cfg.CheckPreprocessorIndent {
				c.checkDirectiveIndent(v.Span)
			}
			if c.cfg.CheckMacroParens {
				c.checkMacroParens(v)
			}
		case *ast.ConditionalBlock:
			if c.cfg.CheckPreprocessorIndent {
				c.checkDirectiveIndent(v.StartSpan)
			}
			c.checkItems(v.Items)
		case *ast.VarDecl:
			c.checkVarDecl(v)
		case *ast.FunctionDecl:
			c.checkFunctionDecl(v)
		case *ast.StructDecl:
			if c.cfg.CheckVoidVariables {
				c.checkMemberTypes(v.Members, v.Span)
			}
		case *ast.UnionDecl:
			if c.cfg.CheckVoidVariables {
				c.checkMemberTypes(v.Members, v.Span)
			}
		}
	}
}

func (c *checker) checkVarDecl(v *ast.VarDecl) {
	if c.cfg.CheckStorageClassOrder {
		c.checkStorageClassOrder(v.Text, v.Span)
	}
	if c.cfg.CheckGlobalNaming {
		c.checkGlobalNaming(v)
	}
	if c.cfg.CheckGlobalTypePrefix {
		c.checkGlobalTypePrefix(v)
	}
	if c.cfg.CheckVoidVariables {
		c.checkVoidVariable(v)
	}
	if c.cfg.CheckPointerDepth {
		c.checkPointerDepth(v)
	}
}

func (c *checker) checkFunctionDecl(fn *ast.FunctionDecl) {
	if c.cfg.CheckFunctionFormat {
		c.checkFunctionFormat(fn)
	}
	if c.cfg.CheckStorageClassOrder {
		c.checkStorageClassOrder(fn.Text, fn.Span)
	}
	if c.cfg.CheckLocalTypePrefix {
		c.checkLocalTypePrefix(fn)
	}
}

func (c *checker) report(sp span.Span, sev Severity, code, message string) {
	c.diags = append(c.diags, Diagnostic{Span: sp, Severity: sev, Code: code, Message: message})
}
