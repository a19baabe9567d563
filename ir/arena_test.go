package ir

import "testing"

func TestInternCanonicality(t *testing.T) {
	a := NewArena(DefaultConfig())

	i1 := a.NewIntLiteral(42)
	i2 := a.NewIntLiteral(42)
	if i1 != i2 {
		t.Fatalf("NewIntLiteral(42) returned distinct nodes: %p != %p", i1, i2)
	}

	b1 := a.NewBool()
	b2 := a.NewBool()
	if b1 != b2 {
		t.Fatalf("NewBool() returned distinct nodes")
	}

	p1 := a.NewPtr(GlobalLogical, b1)
	p2 := a.NewPtr(GlobalLogical, b2)
	if p1 != p2 {
		t.Fatalf("NewPtr with identical structural args returned distinct nodes")
	}

	// Distinct address spaces must not collapse to the same node.
	p3 := a.NewPtr(SharedLogical, b1)
	if p1 == p3 {
		t.Fatalf("NewPtr collapsed distinct address spaces into one node")
	}
}

func TestInternCanonicalityAcrossNodeLists(t *testing.T) {
	a := NewArena(DefaultConfig())
	i := a.NewInt()
	bo := a.NewBool()

	r1 := a.NewRecord([]*Node{i, bo})
	r2 := a.NewRecord([]*Node{i, bo})
	if r1 != r2 {
		t.Fatalf("NewRecord with same member order returned distinct nodes")
	}

	r3 := a.NewRecord([]*Node{bo, i})
	if r1 == r3 {
		t.Fatalf("NewRecord collapsed differently-ordered members into one node")
	}
}

func TestArenaDestroyIsIdempotentAndReportsDead(t *testing.T) {
	a := NewArena(DefaultConfig())
	if !a.Alive() {
		t.Fatalf("fresh arena reported dead")
	}
	a.Destroy()
	if a.Alive() {
		t.Fatalf("destroyed arena reported alive")
	}
	a.Destroy() // must not panic on a second call
}

func TestFreshIDMonotonic(t *testing.T) {
	a := NewArena(DefaultConfig())
	seen := make(map[uint32]bool)
	prev := int64(-1)
	for i := 0; i < 100; i++ {
		id := a.FreshID()
		if seen[id] {
			t.Fatalf("FreshID returned a repeated value %d", id)
		}
		seen[id] = true
		if int64(id) <= prev {
			t.Fatalf("FreshID not monotonically increasing: %d after %d", id, prev)
		}
		prev = int64(id)
	}
}

func TestInternStringDeduplicates(t *testing.T) {
	a := NewArena(DefaultConfig())
	s1 := a.InternString("foo")
	s2 := a.InternString("foo")
	if s1 != s2 {
		t.Fatalf("InternString returned unequal strings for the same content")
	}
}
