// Package ast holds the item tree the parser produces: one
// TranslationUnit per source file, with declaration-level items and
// their attached comments. Function bodies are kept as opaque text.
package ast

import (
	"cguide/pkg/ctypes"
	"cguide/pkg/span"
)

// TranslationUnit is the parse result for one source file.
type TranslationUnit struct {
	Items []Item `json:"items" yaml:"items"`

	// LeadingTrivia collects comments that precede the first item,
	// typically the file header block.
	LeadingTrivia Trivia `json:"leading_trivia" yaml:"leading_trivia"`
}

// Item is a single declaration-level construct. Consumers type-switch
// over the concrete item structs.
type Item interface {
	item()
}

// Include is an #include directive. Unknown directives also arrive in
// this shape with the raw directive content as the filename.
type Include struct {
	Span     span.Span `json:"span" yaml:"span"`
	Text     string    `json:"text" yaml:"text"`
	Filename string    `json:"filename" yaml:"filename"`
	Trivia   Trivia    `json:"trivia" yaml:"trivia"`
}

// Define is an object-like #define directive.
type Define struct {
	Span       span.Span `json:"span" yaml:"span"`
	Text       string    `json:"text" yaml:"text"`
	MacroName  string    `json:"macro_name" yaml:"macro_name"`
	MacroValue string    `json:"macro_value" yaml:"macro_value"`
	Trivia     Trivia    `json:"trivia" yaml:"trivia"`
}

// ConditionalBlock is one branch of an #ifdef/#ifndef/#if chain. An
// #elif or #else continuation appears as the last child item of the
// branch before it, and the closing #endif is recorded as a final
// zero-item block with DirectiveType "endif".
type ConditionalBlock struct {
	DirectiveType string    `json:"directive_type" yaml:"directive_type"`
	Condition     string    `json:"condition" yaml:"condition"`
	Items         []Item    `json:"items" yaml:"items"`
	StartSpan     span.Span `json:"start_span" yaml:"start_span"`
	EndSpan       span.Span `json:"end_span" yaml:"end_span"`
	Trivia        Trivia    `json:"trivia" yaml:"trivia"`
}

// TypedefDecl is a typedef the parser consumed; the registered names
// live in the type table, the item keeps the raw text.
type TypedefDecl struct {
	Span   span.Span `json:"span" yaml:"span"`
	Text   string    `json:"text" yaml:"text"`
	Trivia Trivia    `json:"trivia" yaml:"trivia"`
}

// VarDecl is a file-scope variable declaration.
type VarDecl struct {
	Span           span.Span    `json:"span" yaml:"span"`
	Text           string       `json:"text" yaml:"text"`
	VarName        string       `json:"var_name" yaml:"var_name"`
	HasInitializer bool         `json:"has_initializer" yaml:"has_initializer"`
	VarType        *ctypes.Type `json:"-" yaml:"-"`
	Trivia         Trivia       `json:"trivia" yaml:"trivia"`
}

// StructMember is one parsed member of a struct or union body.
type StructMember struct {
	Name string       `json:"name" yaml:"name"`
	Text string       `json:"text" yaml:"text"`
	Type *ctypes.Type `json:"-" yaml:"-"`
	Span span.Span    `json:"span" yaml:"span"`
}

// EnumVariant is one enumerator, with its raw value text when an
// explicit value is given.
type EnumVariant struct {
	Name  string    `json:"name" yaml:"name"`
	Value string    `json:"value,omitempty" yaml:"value,omitempty"`
	Span  span.Span `json:"span" yaml:"span"`
}

// StructDecl is a struct declaration or a typedef struct form. Name is
// the tag and may be empty for anonymous typedef structs.
type StructDecl struct {
	Span         span.Span      `json:"span" yaml:"span"`
	Text         string         `json:"text" yaml:"text"`
	Name         string         `json:"name" yaml:"name"`
	HasTypedef   bool           `json:"has_typedef" yaml:"has_typedef"`
	Members      []StructMember `json:"members,omitempty" yaml:"members,omitempty"`
	TypedefNames []string       `json:"typedef_names,omitempty" yaml:"typedef_names,omitempty"`
	Trivia       Trivia         `json:"trivia" yaml:"trivia"`
}

// EnumDecl is an enum declaration or a typedef enum form.
// VariableNames holds the declarators after the closing brace, which
// are variable names for plain enums and typedef names otherwise.
type EnumDecl struct {
	Span          span.Span     `json:"span" yaml:"span"`
	Text          string        `json:"text" yaml:"text"`
	Name          string        `json:"name" yaml:"name"`
	HasTypedef    bool          `json:"has_typedef" yaml:"has_typedef"`
	Variants      []EnumVariant `json:"variants,omitempty" yaml:"variants,omitempty"`
	VariableNames []string      `json:"variable_names,omitempty" yaml:"variable_names,omitempty"`
	Trivia        Trivia        `json:"trivia" yaml:"trivia"`
}

// UnionDecl is a union declaration or a typedef union form.
type UnionDecl struct {
	Span          span.Span      `json:"span" yaml:"span"`
	Text          string         `json:"text" yaml:"text"`
	Name          string         `json:"name" yaml:"name"`
	HasTypedef    bool           `json:"has_typedef" yaml:"has_typedef"`
	Members       []StructMember `json:"members,omitempty" yaml:"members,omitempty"`
	VariableNames []string       `json:"variable_names,omitempty" yaml:"variable_names,omitempty"`
	Trivia        Trivia         `json:"trivia" yaml:"trivia"`
}

// FunctionDecl is a function declaration or definition. Parameters is
// the raw parenthesized parameter text; the body, when present, is
// part of Text but never parsed.
type FunctionDecl struct {
	Span         span.Span `json:"span" yaml:"span"`
	Text         string    `json:"text" yaml:"text"`
	Name         string    `json:"name" yaml:"name"`
	ReturnType   string    `json:"return_type" yaml:"return_type"`
	Parameters   string    `json:"parameters" yaml:"parameters"`
	StorageClass string    `json:"storage_class,omitempty" yaml:"storage_class,omitempty"`
	Trivia       Trivia    `json:"trivia" yaml:"trivia"`
}

func (*Include) item()          {}
func (*Define) item()           {}
func (*ConditionalBlock) item() {}
func (*TypedefDecl) item()      {}
func (*VarDecl) item()          {}
func (*StructDecl) item()       {}
func (*EnumDecl) item()         {}
func (*UnionDecl) item()        {}
func (*FunctionDecl) item()     {}

// ItemSpan returns the source region an item covers. Conditional
// blocks cover their opening directive through their end span.
func ItemSpan(it Item) span.Span {
	switch v := it.(type) {
	case *Include:
		return v.Span
	case *Define:
		return v.Span
	case *ConditionalBlock:
		return v.StartSpan.Merge(v.EndSpan)
	case *TypedefDecl:
		return v.Span
	case *VarDecl:
		return v.Span
	case *StructDecl:
		return v.Span
	case *EnumDecl:
		return v.Span
	case *UnionDecl:
		return v.Span
	case *FunctionDecl:
		return v.Span
	}
	return span.Span{}
}

// ItemText returns the raw source text of an item. Conditional blocks
// have no single text; their children carry their own.
func ItemText(it Item) string {
	switch v := it.(type) {
	case *Include:
		return v.Text
	case *Define:
		return v.Text
	case *TypedefDecl:
		return v.Text
	case *VarDecl:
		return v.Text
	case *StructDecl:
		return v.Text
	case *EnumDecl:
		return v.Text
	case *UnionDecl:
		return v.Text
	case *FunctionDecl:
		return v.Text
	}
	return ""
}

// ItemTrivia returns a pointer to the item's trivia for in-place
// attachment, or nil for item kinds without trivia.
func ItemTrivia(it Item) *Trivia {
	switch v := it.(type) {
	case *Include:
		return &v.Trivia
	case *Define:
		return &v.Trivia
	case *ConditionalBlock:
		return &v.Trivia
	case *TypedefDecl:
		return &v.Trivia
	case *VarDecl:
		return &v.Trivia
	case *StructDecl:
		return &v.Trivia
	case *EnumDecl:
		return &v.Trivia
	case *UnionDecl:
		return &v.Trivia
	case *FunctionDecl:
		return &v.Trivia
	}
	return nil
}
