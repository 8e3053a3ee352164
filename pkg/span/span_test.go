package span

import "testing"

func TestMerge(t *testing.T) {
	a := New(0, 0, 0, 3, 0, 3)
	b := New(1, 2, 1, 5, 10, 13)

	merged := a.Merge(b)
	if merged.ByteStart != 0 || merged.ByteEnd != 13 {
		t.Errorf("expected bytes 0-13, got %d-%d", merged.ByteStart, merged.ByteEnd)
	}
	if merged.StartLine != 0 || merged.EndLine != 1 {
		t.Errorf("expected lines 0-1, got %d-%d", merged.StartLine, merged.EndLine)
	}

	// Merging is symmetric.
	if a.Merge(b) != b.Merge(a) {
		t.Error("merge should not depend on argument order")
	}
}

func TestMergeContained(t *testing.T) {
	outer := New(0, 0, 2, 0, 0, 20)
	inner := New(1, 0, 1, 5, 5, 10)

	if got := outer.Merge(inner); got != outer {
		t.Errorf("merging a contained span should be a no-op, got %+v", got)
	}
}

func TestText(t *testing.T) {
	source := "int x = 42;"
	sp := New(0, 4, 0, 5, 4, 5)
	if got := sp.Text(source); got != "x" {
		t.Errorf("expected %q, got %q", "x", got)
	}
}

func TestTextOutOfBounds(t *testing.T) {
	sp := New(0, 0, 0, 99, 0, 99)
	if got := sp.Text("short"); got != "" {
		t.Errorf("out-of-bounds span should yield empty text, got %q", got)
	}
}

func TestString(t *testing.T) {
	sp := New(2, 4, 2, 9, 30, 35)
	if got := sp.String(); got != "2:4-2:9" {
		t.Errorf("unexpected string form %q", got)
	}
	if sp.Len() != 5 {
		t.Errorf("expected length 5, got %d", sp.Len())
	}
}
