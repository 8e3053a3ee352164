package parser

import (
	"os"
	"path/filepath"
	"strings"

	"cguide/pkg/lexer"
)

// maxIncludeDepth caps transitive header loading.
const maxIncludeDepth = 16

// Preprocessor carries the macro definitions and include paths used
// to decide which conditional branches contribute typedefs and which
// headers are loaded for their typedefs. Defines entries may be plain
// names or NAME=value pairs.
type Preprocessor struct {
	Defines      []string
	IncludePaths []string
}

// MacroDefined reports whether name is among the configured defines.
func (pre Preprocessor) MacroDefined(name string) bool {
	for _, def := range pre.Defines {
		macro := def
		if idx := strings.IndexByte(def, '='); idx >= 0 {
			macro = def[:idx]
		}
		if macro == name {
			return true
		}
	}
	return false
}

// ResolvedWithRoot returns a copy whose relative include paths are
// resolved against the given project root.
func (pre Preprocessor) ResolvedWithRoot(root string) Preprocessor {
	out := Preprocessor{Defines: pre.Defines}
	for _, path := range pre.IncludePaths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		out.IncludePaths = append(out.IncludePaths, path)
	}
	return out
}

// processInclude loads an included header and parses it with the
// shared type table so its typedefs become visible. It does nothing
// without a preprocessor configuration, inside inactive branches, or
// past the recursion cap.
func (p *Parser) processInclude(filename string) {
	if p.pre == nil || !p.registerTypes || filename == "" {
		return
	}
	if p.includeDepth >= maxIncludeDepth {
		return
	}

	path, source, ok := p.resolveInclude(filename)
	if !ok {
		return
	}

	sub := &Parser{
		lexer:         lexer.New(source),
		types:         p.types,
		pre:           p.pre,
		registerTypes: true,
		fileDir:       filepath.Dir(path),
		includeDepth:  p.includeDepth + 1,
	}
	sub.Parse()
}

// resolveInclude searches the current file's directory first, then
// the configured include paths.
func (p *Parser) resolveInclude(filename string) (string, string, bool) {
	var candidates []string
	if p.fileDir != "" {
		candidates = append(candidates, filepath.Join(p.fileDir, filename))
	}
	for _, dir := range p.pre.IncludePaths {
		candidates = append(candidates, filepath.Join(dir, filename))
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return path, string(data), true
	}
	return "", "", false
}
