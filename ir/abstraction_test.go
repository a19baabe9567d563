package ir

import "testing"

func TestFunctionTwoPhaseConstruction(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	i := a.NewQualified(UniformityUniform, a.NewInt())

	fn := a.NewFunctionHeader("main", nil, []*Node{i}, true)
	if fn.Sealed() {
		t.Fatalf("fresh function header reports sealed")
	}
	if fn.Body() != nil {
		t.Fatalf("fresh function header has a non-nil body")
	}

	entry := a.NewBasicBlockHeader("entry", nil)
	a.SetBasicBlockBody(entry, a.NewReturn([]*Node{a.NewIntLiteral(0)}))

	a.SetFunctionBody(fn, []*Node{entry}, entry.Body())
	if !fn.Sealed() {
		t.Fatalf("function not sealed after SetFunctionBody")
	}
	if fn.Body() == nil {
		t.Fatalf("function body still nil after SetFunctionBody")
	}

	found, ok := a.LookupByName("main")
	if !ok || found != fn {
		t.Fatalf("LookupByName(\"main\") did not recover the function")
	}
}

func TestSetFunctionBodyTwiceRepanics(t *testing.T) {
	a := NewArena(DefaultConfig())
	fn := a.NewFunctionHeader("f", nil, nil, false)
	a.SetFunctionBody(fn, nil, a.NewUnreachable())

	defer func() {
		if recover() == nil {
			t.Fatalf("SetFunctionBody a second time did not panic")
		}
	}()
	a.SetFunctionBody(fn, nil, a.NewUnreachable())
}

func TestAnonymousLambdaHeadersAreDistinctByIdentity(t *testing.T) {
	a := NewArena(DefaultConfig())
	l1 := a.NewAnonymousLambdaHeader(nil)
	l2 := a.NewAnonymousLambdaHeader(nil)
	if l1 == l2 {
		t.Fatalf("two AnonymousLambda headers with identical (empty) params collapsed to one node")
	}
}

func TestFunctionHeaderAttachesFnType(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	resultTy := a.NewQualified(UniformityUniform, a.NewInt())
	fn := a.NewFunctionHeader("f", nil, []*Node{resultTy}, false)
	if fn.Type == nil || fn.Type.Tag != TagFnType {
		t.Fatalf("function header did not attach an FnType")
	}
}

func TestGlobalVariableAndConstantInterning(t *testing.T) {
	a := NewArena(Config{CheckTypes: true})
	i := a.NewInt()

	g1 := a.NewGlobalVariable("counter", PrivateLogical, i, "", nil)
	g2 := a.NewGlobalVariable("counter", PrivateLogical, i, "", nil)
	if g1 != g2 {
		t.Fatalf("identical global variable declarations did not intern to the same node")
	}
	if g1.Type.Tag != TagQualified {
		t.Fatalf("global variable did not attach a Qualified pointer type")
	}

	found, ok := a.LookupByName("counter")
	if !ok || found != g1 {
		t.Fatalf("LookupByName(\"counter\") did not recover the global variable")
	}

	c := a.NewConstant("zero", a.NewIntLiteral(0))
	if c.Type == nil {
		t.Fatalf("constant did not inherit its value's type")
	}
}

func TestRootInterning(t *testing.T) {
	a := NewArena(DefaultConfig())
	fn := a.NewFunctionHeader("main", nil, nil, true)
	a.SetFunctionBody(fn, nil, a.NewUnreachable())

	r1 := a.NewRoot([]*Node{fn})
	r2 := a.NewRoot([]*Node{fn})
	if r1 != r2 {
		t.Fatalf("identical Root decl lists did not intern to the same node")
	}
}
