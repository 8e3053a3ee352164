// Package config loads the coding-guide.toml project configuration
// and converts it into the settings the diagnostics engine, the
// formatter and the parser's preprocessor hook consume.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cguide/pkg/diagnostics"
	"cguide/pkg/parser"
)

// FileName is the project configuration file searched for upward from
// a source file's directory.
const FileName = "coding-guide.toml"

// ProjectConfig mirrors coding-guide.toml.
type ProjectConfig struct {
	Diagnostics  DiagnosticsSection  `toml:"diagnostics"`
	FileHeader   FileHeaderSection   `toml:"file_header"`
	Formatting   FormattingSection   `toml:"formatting"`
	Preprocessor PreprocessorSection `toml:"preprocessor"`
}

// DiagnosticsSection toggles individual rules.
type DiagnosticsSection struct {
	FileHeader         bool     `toml:"file_header"`
	FunctionFormat     bool     `toml:"function_format"`
	StorageClassOrder  bool     `toml:"storage_class_order"`
	MacroParens        bool     `toml:"macro_parens"`
	GlobalNaming       bool     `toml:"global_naming"`
	GlobalTypePrefix   bool     `toml:"global_type_prefix"`
	PreprocessorIndent bool     `toml:"preprocessor_indent"`
	IndentStyle        bool     `toml:"indent_style"`
	LocalTypePrefix    bool     `toml:"local_type_prefix"`
	ProjectStructure   bool     `toml:"project_structure"`
	VoidVariables      bool     `toml:"void_variables"`
	PointerDepth       bool     `toml:"pointer_depth"`
	ExcludePaths       []string `toml:"exclude_paths"`
}

// FileHeaderSection customizes the header check and template.
type FileHeaderSection struct {
	RequiredFields []string `toml:"required_fields"`
	Template       string   `toml:"template"`
}

// FormattingSection configures the formatter defaults.
type FormattingSection struct {
	AddFileHeader bool   `toml:"add_file_header"`
	UseTabs       bool   `toml:"use_tabs"`
	IndentStyle   string `toml:"indent_style"`
	IndentWidth   int    `toml:"indent_width"`
}

// PreprocessorSection feeds the parser's conditional evaluation and
// include resolution. Defines entries may be NAME or NAME=value.
type PreprocessorSection struct {
	Defines      []string `toml:"defines"`
	IncludePaths []string `toml:"include_paths"`
}

// Default returns the configuration used when no project file exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Diagnostics: DiagnosticsSection{
			FileHeader:         true,
			FunctionFormat:     true,
			StorageClassOrder:  true,
			MacroParens:        true,
			GlobalNaming:       true,
			PreprocessorIndent: true,
			ProjectStructure:   true,
			VoidVariables:      true,
			PointerDepth:       true,
		},
		FileHeader: FileHeaderSection{
			RequiredFields: []string{"author", "date", "purpose"},
		},
		Formatting: FormattingSection{
			AddFileHeader: true,
			IndentStyle:   "spaces",
			IndentWidth:   4,
		},
	}
}

// Load reads a project configuration file. Keys absent from the file
// keep their default values.
func Load(path string) (*ProjectConfig, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Find walks from startDir up to the filesystem root looking for the
// configuration file. It returns the loaded config and the project
// root (the directory holding the file), or nil and an empty root
// when no file exists on the path.
func Find(startDir string) (*ProjectConfig, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			cfg, err := Load(candidate)
			if err != nil {
				return nil, "", err
			}
			return cfg, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, "", nil
		}
		dir = parent
	}
}

// ToDiagnostics builds the rule configuration for one source file.
func (c *ProjectConfig) ToDiagnostics(projectRoot, sourcePath string) diagnostics.Config {
	indentWidth := c.Formatting.IndentWidth
	if indentWidth == 0 {
		indentWidth = 4
	}
	indentStyle := c.Formatting.IndentStyle
	if indentStyle == "" {
		indentStyle = "spaces"
	}
	return diagnostics.Config{
		CheckFileHeader:         c.Diagnostics.FileHeader,
		CheckFunctionFormat:     c.Diagnostics.FunctionFormat,
		CheckStorageClassOrder:  c.Diagnostics.StorageClassOrder,
		CheckMacroParens:        c.Diagnostics.MacroParens,
		CheckGlobalNaming:       c.Diagnostics.GlobalNaming,
		CheckGlobalTypePrefix:   c.Diagnostics.GlobalTypePrefix,
		CheckPreprocessorIndent: c.Diagnostics.PreprocessorIndent,
		CheckIndentStyle:        c.Diagnostics.IndentStyle,
		CheckLocalTypePrefix:    c.Diagnostics.LocalTypePrefix,
		CheckProjectStructure:   c.Diagnostics.ProjectStructure,
		CheckVoidVariables:      c.Diagnostics.VoidVariables,
		CheckPointerDepth:       c.Diagnostics.PointerDepth,
		IndentStyle:             indentStyle,
		IndentWidth:             indentWidth,
		ProjectRoot:             projectRoot,
		SourcePath:              sourcePath,
		ExcludePaths:            c.Diagnostics.ExcludePaths,
	}
}

// ToPreprocessor builds the parser's preprocessor configuration, with
// relative include paths resolved against the project root.
func (c *ProjectConfig) ToPreprocessor(projectRoot string) parser.Preprocessor {
	pre := parser.Preprocessor{
		Defines:      c.Preprocessor.Defines,
		IncludePaths: c.Preprocessor.IncludePaths,
	}
	if projectRoot != "" {
		pre = pre.ResolvedWithRoot(projectRoot)
	}
	return pre
}

// DefaultTOML is the file written by `cguide init`.
const DefaultTOML = `# cguide project configuration.

[diagnostics]
file_header = true
function_format = true
storage_class_order = true
macro_parens = true
global_naming = true
global_type_prefix = false
preprocessor_indent = true
indent_style = false
local_type_prefix = false
project_structure = true
void_variables = true
pointer_depth = true
exclude_paths = []

[file_header]
required_fields = ["author", "date", "purpose"]

[formatting]
add_file_header = true
use_tabs = false
indent_style = "spaces"
indent_width = 4

[preprocessor]
defines = []
include_paths = []
`
