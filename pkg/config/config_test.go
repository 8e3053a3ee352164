package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Diagnostics.FileHeader)
	assert.True(t, cfg.Diagnostics.VoidVariables)
	assert.False(t, cfg.Diagnostics.GlobalTypePrefix)
	assert.False(t, cfg.Diagnostics.LocalTypePrefix)
	assert.False(t, cfg.Diagnostics.IndentStyle)
	assert.Equal(t, "spaces", cfg.Formatting.IndentStyle)
	assert.Equal(t, 4, cfg.Formatting.IndentWidth)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[diagnostics]
file_header = false
global_type_prefix = true
exclude_paths = ["vendor/"]

[preprocessor]
defines = ["DEBUG", "VERSION=2"]
include_paths = ["include"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Diagnostics.FileHeader, "explicit false should override")
	assert.True(t, cfg.Diagnostics.GlobalTypePrefix)
	assert.True(t, cfg.Diagnostics.VoidVariables, "absent keys keep their defaults")
	assert.Equal(t, []string{"vendor/"}, cfg.Diagnostics.ExcludePaths)
	assert.Equal(t, []string{"DEBUG", "VERSION=2"}, cfg.Preprocessor.Defines)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "not [valid toml")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[diagnostics]\nfile_header = false\n")

	nested := filepath.Join(root, "src", "module")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, foundRoot, err := Find(nested)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.False(t, cfg.Diagnostics.FileHeader)

	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedFound, _ := filepath.EvalSymlinks(foundRoot)
	assert.Equal(t, resolvedRoot, resolvedFound)
}

func TestFindReturnsNilWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	cfg, root, err := Find(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, root)
}

func TestToDiagnostics(t *testing.T) {
	cfg := Default()
	cfg.Diagnostics.GlobalTypePrefix = true
	cfg.Diagnostics.ExcludePaths = []string{"gen/"}

	dc := cfg.ToDiagnostics("/project", "/project/src/main.c")
	assert.True(t, dc.CheckGlobalTypePrefix)
	assert.True(t, dc.CheckFileHeader)
	assert.Equal(t, "/project", dc.ProjectRoot)
	assert.Equal(t, "/project/src/main.c", dc.SourcePath)
	assert.Equal(t, []string{"gen/"}, dc.ExcludePaths)
	assert.Equal(t, "spaces", dc.IndentStyle)
	assert.Equal(t, 4, dc.IndentWidth)
}

func TestToPreprocessorResolvesPaths(t *testing.T) {
	cfg := Default()
	cfg.Preprocessor.Defines = []string{"DEBUG"}
	cfg.Preprocessor.IncludePaths = []string{"include"}

	pre := cfg.ToPreprocessor("/project")
	assert.Equal(t, []string{"DEBUG"}, pre.Defines)
	assert.Equal(t, []string{filepath.Join("/project", "include")}, pre.IncludePaths)
}

func TestDefaultTOMLIsLoadable(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, DefaultTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	// The file spells out an empty exclude list, which decodes as an
	// empty slice rather than the default nil.
	wantDiagnostics := Default().Diagnostics
	wantDiagnostics.ExcludePaths = []string{}
	assert.Equal(t, wantDiagnostics, cfg.Diagnostics)
	assert.Equal(t, Default().Formatting, cfg.Formatting)
}

func TestEmptyConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
