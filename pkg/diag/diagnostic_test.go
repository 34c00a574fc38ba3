package diag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFileDiagnostics_Dedup(t *testing.T) {
	file := &SourceFile{"a.60", "Foo := Rectangle {}"}
	fd := NewFileDiagnostics(file)
	fd.PushError("oops", Ranging{0, 3})
	fd.PushError("oops", Ranging{0, 3})
	fd.Push(SeverityWarning, "oops", Ranging{0, 3})

	if len(fd.Inner) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(fd.Inner))
	}
	if !fd.HasError() {
		t.Errorf("HasError() -> false, want true")
	}
	d := fd.Inner[0]
	if d.Offset() != 0 || d.Length() != 3 {
		t.Errorf("span -> (%d, %d), want (0, 3)", d.Offset(), d.Length())
	}
}

func TestBuildDiagnostics(t *testing.T) {
	a := &SourceFile{"a.60", "Foo := Rectangle {}"}
	b := &SourceFile{"b.60", "Bar := Text {}"}

	bd := NewBuildDiagnostics()
	if bd.Err() != nil {
		t.Errorf("Err() of empty diagnostics is not nil")
	}
	bd.PushWarning("unused", Span{b, Ranging{0, 3}})
	if bd.Err() != nil || bd.IsEmpty() {
		t.Errorf("warnings only: Err() = %v, IsEmpty() = %v", bd.Err(), bd.IsEmpty())
	}
	bd.PushError("unknown", Span{a, Ranging{7, 16}})
	bd.PushError("unknown", Span{a, Ranging{7, 16}})

	want := []string{
		"warning: b.60:1:1: unused",
		"error: a.60:1:8: unknown",
	}
	if diff := cmp.Diff(want, bd.Strings()); diff != "" {
		t.Errorf("Strings() (-want +got):\n%s", diff)
	}
	if bd.Err() == nil {
		t.Errorf("Err() is nil after an error was pushed")
	}
}

func TestBuildDiagnostics_Add(t *testing.T) {
	a := &SourceFile{"a.60", "Foo := Rectangle {}"}
	fd := NewFileDiagnostics(a)
	fd.PushError("expected LBrace", Ranging{4, 4})

	bd := NewBuildDiagnostics()
	bd.PushError("expected LBrace", Span{a, Ranging{4, 4}})
	bd.Add(fd)
	if n := len(bd.All()); n != 1 {
		t.Errorf("got %d diagnostics, want 1", n)
	}
}
