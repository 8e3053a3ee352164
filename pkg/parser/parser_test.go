package parser

import (
	"testing"

	"cguide/pkg/ast"
	"cguide/pkg/ctypes"
	"cguide/pkg/lexer"
)

func parse(t *testing.T, source string) *ast.TranslationUnit {
	t.Helper()
	return New(lexer.New(source)).Parse()
}

func parseWithTable(t *testing.T, source string) (*ast.TranslationUnit, *ctypes.TypeTable) {
	t.Helper()
	p := New(lexer.New(source))
	return p.Parse(), p.TypeTable()
}

func TestVariableDeclaration(t *testing.T) {
	tu := parse(t, "int x;")
	if len(tu.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(tu.Items))
	}

	decl, ok := tu.Items[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", tu.Items[0])
	}
	if decl.VarName != "x" {
		t.Errorf("expected name x, got %q", decl.VarName)
	}
	if decl.HasInitializer {
		t.Error("no initializer expected")
	}
	if decl.Text != "int x;" {
		t.Errorf("unexpected text %q", decl.Text)
	}
	if decl.VarType == nil || decl.VarType.Base != ctypes.BaseInt {
		t.Errorf("expected int type, got %v", decl.VarType)
	}
}

func TestVariableWithInitializer(t *testing.T) {
	tu := parse(t, "unsigned long mask = 0xFF;")
	decl := tu.Items[0].(*ast.VarDecl)
	if !decl.HasInitializer {
		t.Error("initializer expected")
	}
	if decl.VarName != "mask" {
		t.Errorf("expected name mask, got %q", decl.VarName)
	}
	if decl.VarType == nil || decl.VarType.Base != ctypes.BaseUnsigned {
		t.Errorf("expected unsigned base, got %v", decl.VarType)
	}
}

func TestStorageClassLeadsToUntypedDecl(t *testing.T) {
	// A declaration opening with a storage class is not re-parsed as a
	// type; the variable still gets its name and text.
	tu := parse(t, "static int counter = 0;")
	decl := tu.Items[0].(*ast.VarDecl)
	if decl.VarName != "counter" {
		t.Errorf("expected name counter, got %q", decl.VarName)
	}
	if decl.VarType != nil {
		t.Errorf("expected nil type behind a storage class, got %v", decl.VarType)
	}
}

func TestPointerDeclaration(t *testing.T) {
	tu := parse(t, "const char *name;")
	decl := tu.Items[0].(*ast.VarDecl)
	if decl.VarType == nil {
		t.Fatal("expected a parsed type")
	}
	if !decl.VarType.IsPointer() || decl.VarType.Base != ctypes.BaseChar {
		t.Errorf("expected char pointer, got %v", decl.VarType)
	}
	if !decl.VarType.HasQualifier(ctypes.QualConst) {
		t.Error("expected const qualifier")
	}
}

func TestPointerLayerSpans(t *testing.T) {
	src := "char *const *volatile handle;"
	typ := ParseTypeFromSource(src)
	if typ == nil || len(typ.Pointers) != 2 {
		t.Fatalf("expected two pointer layers, got %v", typ)
	}
	if got := typ.Pointers[0].Span.Text(src); got != "*const" {
		t.Errorf("expected the inner layer span to cover *const, got %q", got)
	}
	if got := typ.Pointers[1].Span.Text(src); got != "*volatile" {
		t.Errorf("expected the outer layer span to cover *volatile, got %q", got)
	}
}

func TestUnqualifiedPointerLayerSpan(t *testing.T) {
	src := "int *p;"
	typ := ParseTypeFromSource(src)
	if typ == nil || len(typ.Pointers) != 1 {
		t.Fatalf("expected one pointer layer, got %v", typ)
	}
	if got := typ.Pointers[0].Span.Text(src); got != "*" {
		t.Errorf("expected the layer span to cover the asterisk, got %q", got)
	}
}

func TestFunctionDefinition(t *testing.T) {
	tu := parse(t, "void process(int a, char b)\n{\n    return;\n}\n")
	fn, ok := tu.Items[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", tu.Items[0])
	}
	if fn.Name != "process" {
		t.Errorf("expected name process, got %q", fn.Name)
	}
	if fn.Parameters != "(int a, char b)" {
		t.Errorf("unexpected parameters %q", fn.Parameters)
	}
	if fn.ReturnType != "void" {
		t.Errorf("expected return type void, got %q", fn.ReturnType)
	}
	if fn.StorageClass != "" {
		t.Errorf("expected no storage class, got %q", fn.StorageClass)
	}
}

func TestFunctionPrototype(t *testing.T) {
	tu := parse(t, "int add(int a, int b);")
	fn := tu.Items[0].(*ast.FunctionDecl)
	if fn.Name != "add" || fn.Parameters != "(int a, int b)" {
		t.Errorf("unexpected prototype %q %q", fn.Name, fn.Parameters)
	}
}

func TestStaticFunctionOnSeparateLines(t *testing.T) {
	tu := parse(t, "static\nint\ncounter_get(void)\n{\n}\n")
	fn := tu.Items[0].(*ast.FunctionDecl)
	if fn.StorageClass != "static" {
		t.Errorf("expected storage class static, got %q", fn.StorageClass)
	}
	if fn.ReturnType != "int" {
		t.Errorf("expected return type int, got %q", fn.ReturnType)
	}
}

func TestExternFunction(t *testing.T) {
	tu := parse(t, "extern void shutdown(void);")
	fn := tu.Items[0].(*ast.FunctionDecl)
	if fn.StorageClass != "extern" {
		t.Errorf("expected storage class extern, got %q", fn.StorageClass)
	}
}

func TestFunctionBodyIsOpaque(t *testing.T) {
	// Braces inside the body must not end the declaration early, and
	// body-local constructs produce no items of their own.
	source := "void f(void)\n{\n    if (1) { int local; }\n}\nint after;\n"
	tu := parse(t, source)
	if len(tu.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tu.Items))
	}
	if _, ok := tu.Items[0].(*ast.FunctionDecl); !ok {
		t.Errorf("expected FunctionDecl first, got %T", tu.Items[0])
	}
	if decl, ok := tu.Items[1].(*ast.VarDecl); !ok || decl.VarName != "after" {
		t.Errorf("expected trailing variable, got %T", tu.Items[1])
	}
}

func TestStructDefinition(t *testing.T) {
	tu := parse(t, "struct Point { int x; int y; };")
	st, ok := tu.Items[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected StructDecl, got %T", tu.Items[0])
	}
	if st.Name != "Point" {
		t.Errorf("expected tag Point, got %q", st.Name)
	}
	if len(st.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(st.Members))
	}
	if st.Members[0].Name != "x" || st.Members[1].Name != "y" {
		t.Errorf("unexpected members %+v", st.Members)
	}
	if st.HasTypedef {
		t.Error("plain struct should not be marked typedef")
	}
}

func TestStructForwardDeclaration(t *testing.T) {
	tu := parse(t, "struct Node;")
	st := tu.Items[0].(*ast.StructDecl)
	if st.Name != "Node" || len(st.Members) != 0 {
		t.Errorf("unexpected forward declaration %+v", st)
	}
}

func TestEnumDefinition(t *testing.T) {
	tu := parse(t, "enum Color { RED, GREEN = 5, BLUE };")
	en := tu.Items[0].(*ast.EnumDecl)
	if en.Name != "Color" {
		t.Errorf("expected tag Color, got %q", en.Name)
	}
	if len(en.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(en.Variants))
	}
	if en.Variants[0].Name != "RED" || en.Variants[0].Value != "" {
		t.Errorf("unexpected first variant %+v", en.Variants[0])
	}
	if en.Variants[1].Name != "GREEN" || en.Variants[1].Value != "5" {
		t.Errorf("expected GREEN = 5, got %+v", en.Variants[1])
	}
	if en.Variants[2].Name != "BLUE" {
		t.Errorf("unexpected last variant %+v", en.Variants[2])
	}
}

func TestEnumWithVariable(t *testing.T) {
	tu := parse(t, "enum Color { RED, GREEN } current;")
	en := tu.Items[0].(*ast.EnumDecl)
	if len(en.VariableNames) != 1 || en.VariableNames[0] != "current" {
		t.Errorf("expected variable name current, got %v", en.VariableNames)
	}
}

func TestUnionDefinition(t *testing.T) {
	tu := parse(t, "union Value { int i; float f; } v;")
	un := tu.Items[0].(*ast.UnionDecl)
	if un.Name != "Value" {
		t.Errorf("expected tag Value, got %q", un.Name)
	}
	if len(un.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(un.Members))
	}
	if len(un.VariableNames) != 1 || un.VariableNames[0] != "v" {
		t.Errorf("expected variable v, got %v", un.VariableNames)
	}
}

func TestTypedefRegistersName(t *testing.T) {
	_, table := parseWithTable(t, "typedef unsigned char byte_t;")
	if !table.IsTypeName("byte_t") {
		t.Fatal("byte_t should be registered")
	}
	typ, _ := table.Lookup("byte_t")
	if typ.Base != ctypes.BaseUnsigned {
		t.Errorf("expected unsigned base, got %v", typ.Base)
	}
}

func TestTypedefStruct(t *testing.T) {
	tu, table := parseWithTable(t, "typedef struct { int x; int y; } Point;")
	st := tu.Items[0].(*ast.StructDecl)
	if !st.HasTypedef {
		t.Error("expected typedef marker")
	}
	if len(st.TypedefNames) != 1 || st.TypedefNames[0] != "Point" {
		t.Errorf("expected typedef name Point, got %v", st.TypedefNames)
	}
	typ, ok := table.Lookup("Point")
	if !ok || typ.Base != ctypes.BaseStruct {
		t.Errorf("expected struct type for Point, got %v %v", typ, ok)
	}
}

func TestTypedefStructWithTag(t *testing.T) {
	_, table := parseWithTable(t, "typedef struct Node { int value; } Node;")
	typ, ok := table.Lookup("Node")
	if !ok {
		t.Fatal("Node should be registered")
	}
	if typ.Tag != "Node" {
		t.Errorf("expected tag Node, got %q", typ.Tag)
	}
}

func TestTypedefStructAlias(t *testing.T) {
	tu, table := parseWithTable(t, "typedef struct Foo Bar;")
	st := tu.Items[0].(*ast.StructDecl)
	if st.Name != "Foo" {
		t.Errorf("expected tag Foo, got %q", st.Name)
	}
	if !table.IsTypeName("Bar") || table.IsTypeName("Foo") {
		t.Error("only the alias Bar should be a type name")
	}
}

func TestTypedefEnum(t *testing.T) {
	_, table := parseWithTable(t, "typedef enum { OK, FAIL } Status;")
	typ, ok := table.Lookup("Status")
	if !ok || typ.Base != ctypes.BaseEnum {
		t.Errorf("expected enum type for Status, got %v %v", typ, ok)
	}
}

func TestTypedefFunctionPointer(t *testing.T) {
	_, table := parseWithTable(t, "typedef int (*Callback)(int, char);")
	if !table.IsTypeName("Callback") {
		t.Fatal("Callback should be registered")
	}
}

func TestTypedefArray(t *testing.T) {
	_, table := parseWithTable(t, "typedef int Matrix[3][4];")
	if !table.IsTypeName("Matrix") {
		t.Fatal("Matrix should be registered")
	}
}

func TestTypedefChain(t *testing.T) {
	_, table := parseWithTable(t, "typedef char MyChar;\ntypedef MyChar Alias;")
	typ, ok := table.Lookup("Alias")
	if !ok {
		t.Fatal("Alias should be registered")
	}
	if typ.Base != ctypes.BaseChar {
		t.Errorf("alias should resolve to the underlying char, got %v", typ.Base)
	}
}

func TestTypedefNameOpensDeclaration(t *testing.T) {
	tu := parse(t, "typedef unsigned char u8;\nu8 counter;")
	if len(tu.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tu.Items))
	}
	decl, ok := tu.Items[1].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected VarDecl, got %T", tu.Items[1])
	}
	if decl.VarName != "counter" {
		t.Errorf("expected name counter, got %q", decl.VarName)
	}
	if decl.VarType == nil || decl.VarType.Base != ctypes.BaseUnsigned {
		t.Errorf("expected the typedef's underlying type, got %v", decl.VarType)
	}
}

func TestUnknownIdentifierIsSkipped(t *testing.T) {
	tu := parse(t, "NotAType something;\nint x;")
	if len(tu.Items) != 1 {
		t.Fatalf("expected only the int declaration, got %d items", len(tu.Items))
	}
	if decl := tu.Items[0].(*ast.VarDecl); decl.VarName != "x" {
		t.Errorf("expected x, got %q", decl.VarName)
	}
}

func TestIncludeItem(t *testing.T) {
	tu := parse(t, "#include <stdio.h>\n#include \"local.h\"\n")
	if len(tu.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tu.Items))
	}
	first := tu.Items[0].(*ast.Include)
	if first.Filename != "stdio.h" {
		t.Errorf("expected stdio.h, got %q", first.Filename)
	}
	if first.Text != "#include <stdio.h>\n" {
		t.Errorf("unexpected raw text %q", first.Text)
	}
	if second := tu.Items[1].(*ast.Include); second.Filename != "local.h" {
		t.Errorf("expected local.h, got %q", second.Filename)
	}
}

func TestDefineItem(t *testing.T) {
	tu := parse(t, "#define BUFFER_SIZE 256\n")
	def := tu.Items[0].(*ast.Define)
	if def.MacroName != "BUFFER_SIZE" || def.MacroValue != "256" {
		t.Errorf("unexpected macro %q=%q", def.MacroName, def.MacroValue)
	}
}

func TestCommentsAttachToNextItem(t *testing.T) {
	tu := parse(t, "// counter doc\nint counter;")
	decl := tu.Items[0].(*ast.VarDecl)
	if len(decl.Trivia.Leading) != 1 {
		t.Fatalf("expected 1 leading comment, got %d", len(decl.Trivia.Leading))
	}
	if decl.Trivia.Leading[0].Text != "// counter doc" {
		t.Errorf("unexpected comment text %q", decl.Trivia.Leading[0].Text)
	}
	if decl.Trivia.Leading[0].Kind != ast.LineComment {
		t.Error("expected a line comment")
	}
}

func TestCommentOnlyFileKeepsLeadingTrivia(t *testing.T) {
	tu := parse(t, "/* header only */\n")
	if len(tu.Items) != 0 {
		t.Fatalf("expected no items, got %d", len(tu.Items))
	}
	if len(tu.LeadingTrivia.Leading) != 1 {
		t.Fatalf("expected the comment on the unit, got %d", len(tu.LeadingTrivia.Leading))
	}
	if !tu.LeadingTrivia.Leading[0].IsBlock() {
		t.Error("expected a block comment")
	}
}

func TestItemSpansSliceSource(t *testing.T) {
	source := "#define A 1\nint x;\nint y;\n"
	tu := parse(t, source)
	for i, it := range tu.Items {
		sp := ast.ItemSpan(it)
		if got := sp.Text(source); got != ast.ItemText(it) {
			t.Errorf("item %d: span text %q does not match item text %q", i, got, ast.ItemText(it))
		}
	}
}
