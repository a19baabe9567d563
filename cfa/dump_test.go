package cfa

import (
	"strings"
	"testing"
)

func TestDumpDOTDiamond(t *testing.T) {
	_, fn := buildDiamond(t)
	s := BuildScope(fn, nil)

	var b strings.Builder
	DumpDOT(&b, s)
	out := b.String()

	if !strings.HasPrefix(out, "digraph Scope {") {
		t.Fatalf("DumpDOT output should open with the digraph header, got %q", out)
	}
	for _, name := range []string{"diamond", "arm1", "arm2", "merge"} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Fatalf("DumpDOT output missing label for %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, `"Forward"`) {
		t.Fatalf("DumpDOT output should label branch edges Forward:\n%s", out)
	}
}
