package diag

import (
	"strings"
	"testing"
)

func TestErrorImplementsErrorInterface(t *testing.T) {
	err := New(KindType, Position{File: "a.slim", Line: 3, Column: 5}, "x", "operand type mismatch")
	var _ error = err
	if !strings.Contains(err.Error(), "type error") {
		t.Fatalf("Error() = %q, want it to mention the kind", err.Error())
	}
	if !strings.Contains(err.Error(), "x") {
		t.Fatalf("Error() = %q, want it to mention the node", err.Error())
	}
}

func TestUnimplementedMentionsTODO(t *testing.T) {
	err := Unimplemented(Position{}, "lower_subgroup_ops for a 128-wide mask")
	if !strings.Contains(err.Message, "TODO") {
		t.Fatalf("Unimplemented message = %q, want it to contain TODO", err.Message)
	}
	if err.Kind != KindUnimplemented {
		t.Fatalf("Kind = %v, want KindUnimplemented", err.Kind)
	}
}

func TestLoweringPreconditionMessage(t *testing.T) {
	err := LoweringPrecondition(Position{}, "p", "Generic pointer")
	if !strings.Contains(err.Message, "should have been lowered before") {
		t.Fatalf("message = %q, want the spec.md §7 wording", err.Message)
	}
}

func TestReporterAccumulatesDiagnostics(t *testing.T) {
	r := NewReporter()
	r.ReportError(New(KindStructural, Position{Line: 1}, "bb0", "anonymous lambda has two predecessors"))
	r.ReportWarning(Warning{Message: "unreferenced global", Pos: Position{Line: 2}})

	out := r.String()
	if !strings.Contains(out, "structural") {
		t.Fatalf("report missing error kind: %q", out)
	}
	if !strings.Contains(out, "warning") {
		t.Fatalf("report missing warning: %q", out)
	}
}
