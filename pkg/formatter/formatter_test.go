package formatter

import (
	"strings"
	"testing"

	"cguide/pkg/ast"
	"cguide/pkg/lexer"
	"cguide/pkg/parser"
)

func parseSource(t *testing.T, source string) *ast.TranslationUnit {
	t.Helper()
	return parser.New(lexer.New(source)).Parse()
}

func TestFormatPreservesItems(t *testing.T) {
	source := "#include <stdio.h>\nint x;\n"
	tu := parseSource(t, source)

	if got := Format(tu, Options{}); got != source {
		t.Errorf("expected %q, got %q", source, got)
	}
}

func TestOriginalRoundTrip(t *testing.T) {
	source := "#include <stdio.h>\n#define MAX 100\nint x;\n"
	tu := parseSource(t, source)

	if got := Original(tu); got != source {
		t.Errorf("expected %q, got %q", source, got)
	}
}

func TestConditionalReemission(t *testing.T) {
	source := "#ifdef DEBUG\nint x;\n#endif\n"
	tu := parseSource(t, source)

	if got := Format(tu, Options{}); got != source {
		t.Errorf("expected %q, got %q", source, got)
	}
}

func TestElseChainReemission(t *testing.T) {
	source := "#ifdef A\nint x;\n#else\nint y;\n#endif\n"
	tu := parseSource(t, source)

	if got := Format(tu, Options{}); got != source {
		t.Errorf("expected %q, got %q", source, got)
	}
}

func TestAddHeaderWhenMissing(t *testing.T) {
	tu := parseSource(t, "int x;\n")
	got := Format(tu, Options{AddHeader: true})

	if !strings.HasPrefix(got, "/*") {
		t.Fatalf("expected the header template first, got %q", got)
	}
	lower := strings.ToLower(got)
	for _, field := range []string{"author", "date", "purpose"} {
		if !strings.Contains(lower, field) {
			t.Errorf("header should mention %s", field)
		}
	}
	if !strings.Contains(got, "int x;") {
		t.Error("the original declaration should survive")
	}
}

func TestAddHeaderSkippedWhenPresent(t *testing.T) {
	source := "/*\n * Author: me\n * Date: now\n * Purpose: test\n */\nint x;\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{AddHeader: true})

	if strings.Count(strings.ToLower(got), "purpose") != 1 {
		t.Errorf("an existing header must not be duplicated:\n%s", got)
	}
}

func TestCommentsSurvive(t *testing.T) {
	source := "// counter doc\nint counter;\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{})

	if !strings.Contains(got, "// counter doc") {
		t.Errorf("leading comments should be re-emitted, got %q", got)
	}
	if strings.Index(got, "// counter doc") > strings.Index(got, "int counter;") {
		t.Error("the comment should precede its declaration")
	}
}

func TestUseTabs(t *testing.T) {
	source := "void f(void)\n{\n    return;\n}\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{UseTabs: true})

	if !strings.Contains(got, "\treturn;") {
		t.Errorf("four-space indents should become tabs, got %q", got)
	}
}

func TestUseTabsNestedIndent(t *testing.T) {
	source := "void f(void)\n{\n    if (1) {\n        return;\n    }\n}\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{UseTabs: true})

	if !strings.Contains(got, "\t\treturn;") {
		t.Errorf("eight spaces should become two tabs, got %q", got)
	}
}

func TestUseTypeInfo(t *testing.T) {
	tu := parseSource(t, "const char *name;\n")
	got := Format(tu, Options{UseTypeInfo: true})

	if !strings.Contains(got, "const char * name;") {
		t.Errorf("expected the declaration rendered from its type, got %q", got)
	}
}

func TestUseTypeInfoKeepsInitializers(t *testing.T) {
	source := "int count = 42;\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{UseTypeInfo: true})

	if !strings.Contains(got, "int count = 42;") {
		t.Errorf("initialized declarations keep their original text, got %q", got)
	}
}

func TestUnterminatedChainStaysUnterminated(t *testing.T) {
	source := "#ifdef X\nint x;\n"
	tu := parseSource(t, source)
	got := Format(tu, Options{})

	if strings.Contains(got, "#endif") {
		t.Errorf("no endif should be invented, got %q", got)
	}
}
